package app

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

/********** alias registry (single source of truth) **********/

var listingAliases = map[string][]string{
	"name":     {"name", "hotel_name", "title"},
	"city":     {"address.city", "city", "locality", "town"},
	"country":  {"address.country", "country", "countryCode", "country_code"},
	"address":  {"address_raw", "address", "address.line", "full_address", "location.address", "formatted_address"},
	"price":    {"price_per_night", "cheapest_price", "price", "rates.nightly"},
	"adults":   {"max_adults", "capacity.adults", "adults"},
	"children": {"max_children", "capacity.children", "children"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range listingAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func getIntFlexible(m map[string]any, paths ...string) int {
	if f := getFloatFlexible(m, paths...); f != nil {
		return int(*f)
	}
	return 0
}

// firstSliceStrings: accept []any with either strings or {name} objects.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// amenityGroups reads either {"group": [..], ...} or a flat array (which
// lands in a "general" group).
func amenityGroups(m map[string]any, paths ...string) map[string][]string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case map[string]any:
			out := make(map[string][]string, len(v))
			for group, raw := range v {
				items, ok := raw.([]any)
				if !ok {
					continue
				}
				var names []string
				for _, it := range items {
					if s, ok := it.(string); ok && s != "" {
						names = append(names, s)
					}
				}
				if len(names) > 0 {
					out[group] = names
				}
			}
			if len(out) > 0 {
				return out
			}
		case []any:
			var names []string
			for _, it := range v {
				if s, ok := it.(string); ok && s != "" {
					names = append(names, s)
				}
			}
			if len(names) > 0 {
				return map[string][]string{"general": names}
			}
		}
	}
	return nil
}

/********** listing mapper **********/

func mapListing(id int64, p map[string]any) domain.HotelListing {
	raw, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).Str("context", "mapListing").Msg("failed to marshal listing to JSON")
	}

	addr := firstNonEmptyAlias(p, "address")
	var addrPtr *string
	if addr != "" {
		addrPtr = &addr
	}

	stars := 0
	if f := getFloatFlexible(p, "stars", "rating.stars", "rating"); f != nil {
		stars = int(*f)
	}
	price := 0.0
	if f := getFloatFlexible(p, listingAliases["price"]...); f != nil {
		price = *f
	}

	featured := false
	if b, ok := lookupAny(p, "featured").(bool); ok {
		featured = b
	}

	return domain.HotelListing{
		ID:            id,
		Name:          firstNonEmptyAlias(p, "name"),
		City:          firstNonEmptyAlias(p, "city"),
		Country:       firstNonEmptyAlias(p, "country"),
		Address:       addrPtr,
		Stars:         stars,
		PricePerNight: price,
		MaxAdults:     getIntFlexible(p, listingAliases["adults"]...),
		MaxChildren:   getIntFlexible(p, listingAliases["children"]...),
		Facilities:    firstSliceStrings(p, "facilities", "features"),
		Types:         firstSliceStrings(p, "types", "type", "categories"),
		Tags:          firstSliceStrings(p, "tags", "labels"),
		Amenities:     amenityGroups(p, "amenities", "amenity_groups"),
		Featured:      featured,
		UpdatedAt:     time.Now().UTC(),
		RawJSON:       raw,
	}
}
