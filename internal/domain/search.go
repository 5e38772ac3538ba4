package domain

// Sort keys accepted by the catalog query. The default is a stable two-key
// sort (stars desc, then price asc) so ordering is deterministic across pages.
const (
	SortDefault   = ""
	SortStars     = "stars"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortUpdated   = "updated"
	SortPopular   = "popular"
)

// SearchQuery carries every filter of the catalog query. Set semantics:
// Facilities, Tags and Amenities are AND (all must be present), Types and
// Stars are OR (any match).
type SearchQuery struct {
	Location     string
	Adults       int
	Children     int
	Facilities   []string
	Types        []string
	Stars        []int
	Tags         []string
	Amenities    []string
	MinPrice     *float64
	MaxPrice     *float64
	FeaturedOnly bool
	Sort         string
	Page         int // 1-indexed
	Window       *DateRange
}

// Dated reports whether availability narrowing applies. Dated queries are
// never cached.
func (q SearchQuery) Dated() bool { return q.Window != nil }

// ExcludedHotels are the conflict-id sets computed by the overlap detector,
// split by source so the repository can report per-source exclusion counts.
type ExcludedHotels struct {
	Booked      []int64
	Maintenance []int64
}

// Facets are aggregates over the same filtered (and availability-narrowed)
// set the page was drawn from.
type Facets struct {
	Stars    map[int]int    `json:"stars"`
	Types    map[string]int `json:"types"`
	MinPrice float64        `json:"minPrice"`
	MaxPrice float64        `json:"maxPrice"`
}

// ExclusionSummary reports how many filter-matching hotels were removed by
// each conflict source ("why don't I see hotel X" debugging).
type ExclusionSummary struct {
	ByBookings    int `json:"byBookings"`
	ByMaintenance int `json:"byMaintenance"`
}

type SearchPage struct {
	Items           []HotelListing   `json:"items"`
	Page            int              `json:"page"`
	PageSize        int              `json:"pageSize"`
	Total           int              `json:"total"`
	Pages           int              `json:"pages"`
	Facets          Facets           `json:"facets"`
	Exclusions      ExclusionSummary `json:"exclusions"`
	ServedFromCache bool             `json:"servedFromCache"`
}
