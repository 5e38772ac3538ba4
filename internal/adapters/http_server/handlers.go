package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/app"
	"staybook/internal/domain"
)

type Handlers struct {
	Search      *app.SearchService
	Bookings    *app.BookingService
	Maintenance *app.MaintenanceService
	Waitlist    *app.WaitlistService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels/search", h.searchHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Post("/v1/hotels/{id}/bookings", h.createBooking)
	s.mux.Patch("/v1/bookings/{id}", h.updateBooking)
	s.mux.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
	s.mux.Post("/v1/hotels/{id}/maintenance", h.createMaintenance)
	s.mux.Delete("/v1/hotels/{id}/maintenance/{mid}", h.deleteMaintenance)
	s.mux.Post("/v1/hotels/{id}/waitlist", h.joinWaitlist)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain sentinels to their HTTP shape.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		writeProblem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
	case errors.Is(err, domain.ErrDatesUnavailable):
		writeProblem(w, http.StatusConflict, "Dates Unavailable", "the requested window overlaps an existing reservation or maintenance window")
	case errors.Is(err, domain.ErrMaintenanceOverlap):
		writeProblem(w, http.StatusConflict, "Maintenance Overlap", "an existing maintenance window overlaps the requested dates")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// Identity arrives on trusted headers set by the gateway; this service
// never verifies credentials itself.
func userID(r *http.Request) string   { return strings.TrimSpace(r.Header.Get("X-User-ID")) }
func userRole(r *http.Request) string { return strings.TrimSpace(r.Header.Get("X-User-Role")) }

func hotelParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- catalog ----

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	page, err := h.Search.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := hotelParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	resp, err := h.Search.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func parseSearchQuery(r *http.Request) (domain.SearchQuery, error) {
	v := r.URL.Query()
	q := domain.SearchQuery{
		Location:   v.Get("location"),
		Facilities: csv(v["facilities"]),
		Types:      csv(v["types"]),
		Tags:       csv(v["tags"]),
		Amenities:  csv(v["amenities"]),
		Sort:       v.Get("sort"),
	}

	var err error
	if q.Adults, err = intParam(v.Get("adults")); err != nil {
		return q, errors.New("adults must be an integer")
	}
	if q.Children, err = intParam(v.Get("children")); err != nil {
		return q, errors.New("children must be an integer")
	}
	if q.Page, err = intParam(v.Get("page")); err != nil {
		return q, errors.New("page must be an integer")
	}
	for _, s := range csv(v["stars"]) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("stars must be integers")
		}
		q.Stars = append(q.Stars, n)
	}
	if q.MinPrice, err = floatParam(v.Get("minPrice")); err != nil {
		return q, errors.New("minPrice must be a number")
	}
	if q.MaxPrice, err = floatParam(v.Get("maxPrice")); err != nil {
		return q, errors.New("maxPrice must be a number")
	}
	q.FeaturedOnly = v.Get("featured") == "true" || v.Get("featured") == "1"

	ci, co := v.Get("checkIn"), v.Get("checkOut")
	if ci != "" || co != "" {
		rng, err := domain.ParseDateRange(ci, co)
		if err != nil {
			return q, err
		}
		q.Window = &rng
	}
	return q, nil
}

// csv accepts both repeated params and comma-separated values.
func csv(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatParam(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
