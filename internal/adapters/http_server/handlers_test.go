package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "staybook/internal/adapters/http_server"
	"staybook/internal/app"
	"staybook/internal/cache"
	"staybook/internal/domain"
)

// ---- in-memory repos ----

type bookingStore struct{ rows map[string]domain.Reservation }

func (s *bookingStore) overlap(hotelID int64, rng domain.DateRange, excludeID string) bool {
	for _, r := range s.rows {
		if r.HotelID == hotelID && r.ID != excludeID && r.Status.BlocksAvailability() && r.Dates.Overlaps(rng) {
			return true
		}
	}
	return false
}
func (s *bookingStore) Create(ctx context.Context, r domain.Reservation) error {
	if s.overlap(r.HotelID, r.Dates, r.ID) {
		return domain.ErrDatesUnavailable
	}
	s.rows[r.ID] = r
	return nil
}
func (s *bookingStore) Get(ctx context.Context, id string) (domain.Reservation, error) {
	r, ok := s.rows[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}
func (s *bookingStore) UpdateDates(ctx context.Context, id string, hotelID int64, rng domain.DateRange) error {
	r, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Dates = rng
	s.rows[id] = r
	return nil
}
func (s *bookingStore) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, payment domain.PaymentStatus) error {
	r, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status, r.Payment = status, payment
	s.rows[id] = r
	return nil
}
func (s *bookingStore) HasOverlap(ctx context.Context, hotelID int64, rng domain.DateRange, excludeID string) (bool, error) {
	return s.overlap(hotelID, rng, excludeID), nil
}
func (s *bookingStore) HotelsWithOverlap(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	var ids []int64
	seen := map[int64]bool{}
	for _, r := range s.rows {
		if r.Status.BlocksAvailability() && r.Dates.Overlaps(rng) && !seen[r.HotelID] {
			seen[r.HotelID] = true
			ids = append(ids, r.HotelID)
		}
	}
	return ids, nil
}

type maintenanceStore struct{ rows map[string]domain.MaintenanceWindow }

func (s *maintenanceStore) Create(ctx context.Context, w domain.MaintenanceWindow) error {
	for _, x := range s.rows {
		if x.HotelID == w.HotelID && x.Dates.Overlaps(w.Dates) {
			return domain.ErrMaintenanceOverlap
		}
	}
	s.rows[w.ID] = w
	return nil
}
func (s *maintenanceStore) Delete(ctx context.Context, hotelID int64, id string) error {
	w, ok := s.rows[id]
	if !ok || w.HotelID != hotelID {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
func (s *maintenanceStore) HasOverlap(ctx context.Context, hotelID int64, rng domain.DateRange) (bool, error) {
	for _, w := range s.rows {
		if w.HotelID == hotelID && w.Dates.Overlaps(rng) {
			return true, nil
		}
	}
	return false, nil
}
func (s *maintenanceStore) HotelsWithOverlap(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	var ids []int64
	for _, w := range s.rows {
		if w.Dates.Overlaps(rng) {
			ids = append(ids, w.HotelID)
		}
	}
	return ids, nil
}

type waitlistStore struct{ rows []domain.WaitlistEntry }

func (s *waitlistStore) Create(ctx context.Context, e domain.WaitlistEntry) error {
	s.rows = append(s.rows, e)
	return nil
}
func (s *waitlistStore) ListForHotel(ctx context.Context, hotelID int64) ([]domain.WaitlistEntry, error) {
	return s.rows, nil
}

type catalogStore struct{ page domain.SearchPage }

func (s *catalogStore) UpsertListing(ctx context.Context, h domain.HotelListing) error { return nil }
func (s *catalogStore) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	return nil
}
func (s *catalogStore) GetListing(ctx context.Context, id int64) (domain.HotelListing, error) {
	if id != 42 {
		return domain.HotelListing{}, domain.ErrNotFound
	}
	return domain.HotelListing{ID: 42, Name: "Seaside Inn"}, nil
}
func (s *catalogStore) SearchListings(ctx context.Context, q domain.SearchQuery, excluded domain.ExcludedHotels, pageSize int) (domain.SearchPage, error) {
	return s.page, nil
}

type nullCache struct{}

func (nullCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (nullCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	return nil
}
func (nullCache) Del(ctx context.Context, key string) error { return nil }

// ---- harness ----

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	bk := &bookingStore{rows: map[string]domain.Reservation{}}
	mt := &maintenanceStore{rows: map[string]domain.MaintenanceWindow{}}
	wl := &waitlistStore{}
	ct := &catalogStore{page: domain.SearchPage{Total: 2, PageSize: 20}}

	det := app.NewAvailabilityDetector(bk, mt)
	results := cache.NewResultCache(time.Minute, 8)

	srv := httpserver.New(0, 0) // rate limiting off in tests
	srv.MountHandlers(&httpserver.Handlers{
		Search:      app.NewSearchService(ct, det, results, nullCache{}, time.Minute, 20),
		Bookings:    app.NewBookingService(bk, det, nil),
		Maintenance: app.NewMaintenanceService(mt),
		Waitlist:    app.NewWaitlistService(wl, nil),
	})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

var guestHdr = map[string]string{"X-User-ID": "g-1"}
var ownerHdr = map[string]string{"X-User-ID": "o-1", "X-User-Role": "owner"}

// ---- tests ----

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, "GET", ts.URL+"/v1/hotels/search?location=lisbon&stars=4,5", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// wire keys are lowerCamel throughout
	for _, k := range []string{"items", "page", "pageSize", "total", "facets", "exclusions", "servedFromCache"} {
		if _, ok := raw[k]; !ok {
			t.Fatalf("missing response key %q in %v", k, raw)
		}
	}
	var page domain.SearchPage
	if err := json.Unmarshal(raw["total"], &page.Total); err != nil {
		t.Fatalf("decode total: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("unexpected total: %d", page.Total)
	}

	// inverted window -> 400
	resp = do(t, "GET", ts.URL+"/v1/hotels/search?checkIn=2026-09-05&checkOut=2026-09-01", "", nil)
	if resp.StatusCode != 400 {
		t.Fatalf("inverted window status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestGetHotelEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, "GET", ts.URL+"/v1/hotels/42", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag")
	}

	resp = do(t, "GET", ts.URL+"/v1/hotels/42", "", map[string]string{"If-None-Match": etag})
	if resp.StatusCode != 304 {
		t.Fatalf("conditional status = %d", resp.StatusCode)
	}

	resp = do(t, "GET", ts.URL+"/v1/hotels/999", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("missing hotel status = %d", resp.StatusCode)
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	ts := newTestServer(t)
	body := `{"check_in":"2026-09-01","check_out":"2026-09-05","adults":2,"rooms":1,"total_cost":400}`

	// no identity -> 401
	resp := do(t, "POST", ts.URL+"/v1/hotels/7/bookings", body, nil)
	if resp.StatusCode != 401 {
		t.Fatalf("anonymous status = %d", resp.StatusCode)
	}

	resp = do(t, "POST", ts.URL+"/v1/hotels/7/bookings", body, guestHdr)
	if resp.StatusCode != 204 {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/v1/bookings/") {
		t.Fatalf("unexpected Location %q", loc)
	}

	// overlapping window -> 409
	resp = do(t, "POST", ts.URL+"/v1/hotels/7/bookings",
		`{"check_in":"2026-09-03","check_out":"2026-09-07"}`, guestHdr)
	if resp.StatusCode != 409 {
		t.Fatalf("conflict status = %d", resp.StatusCode)
	}

	// inverted dates -> 400
	resp = do(t, "POST", ts.URL+"/v1/hotels/7/bookings",
		`{"check_in":"2026-09-07","check_out":"2026-09-03"}`, guestHdr)
	if resp.StatusCode != 400 {
		t.Fatalf("invalid dates status = %d", resp.StatusCode)
	}
}

func TestCancelBookingEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, "POST", ts.URL+"/v1/hotels/7/bookings",
		`{"check_in":"2026-09-01","check_out":"2026-09-05"}`, guestHdr)
	if resp.StatusCode != 204 {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	id := strings.TrimPrefix(resp.Header.Get("Location"), "/v1/bookings/")

	for i := 0; i < 2; i++ { // idempotent
		resp = do(t, "POST", ts.URL+"/v1/bookings/"+id+"/cancel", "", guestHdr)
		if resp.StatusCode != 200 {
			t.Fatalf("cancel #%d status = %d", i+1, resp.StatusCode)
		}
	}

	var r domain.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Status != domain.BookingCancelled {
		t.Fatalf("unexpected status %q", r.Status)
	}

	resp = do(t, "POST", ts.URL+"/v1/bookings/missing/cancel", "", guestHdr)
	if resp.StatusCode != 404 {
		t.Fatalf("missing cancel status = %d", resp.StatusCode)
	}
}

func TestUpdateBookingEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, "POST", ts.URL+"/v1/hotels/7/bookings",
		`{"check_in":"2026-09-01","check_out":"2026-09-05"}`, guestHdr)
	id := strings.TrimPrefix(resp.Header.Get("Location"), "/v1/bookings/")

	resp = do(t, "PATCH", ts.URL+"/v1/bookings/"+id,
		`{"check_in":"2026-09-02","check_out":"2026-09-04"}`, guestHdr)
	if resp.StatusCode != 200 {
		t.Fatalf("patch status = %d", resp.StatusCode)
	}
	var r domain.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Dates.CheckIn() != "2026-09-02" {
		t.Fatalf("dates not updated: %+v", r.Dates)
	}

	// status-only body is a valid modification
	resp = do(t, "PATCH", ts.URL+"/v1/bookings/"+id, `{"status":"completed"}`, guestHdr)
	if resp.StatusCode != 200 {
		t.Fatalf("status-only patch status = %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Status != domain.BookingCompleted {
		t.Fatalf("status not updated: %q", r.Status)
	}

	// empty body is a no-op returning the current reservation
	resp = do(t, "PATCH", ts.URL+"/v1/bookings/"+id, `{}`, guestHdr)
	if resp.StatusCode != 200 {
		t.Fatalf("empty patch status = %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Status != domain.BookingCompleted {
		t.Fatalf("no-op patch changed status: %q", r.Status)
	}

	// unknown status -> 400
	resp = do(t, "PATCH", ts.URL+"/v1/bookings/"+id, `{"status":"teleported"}`, guestHdr)
	if resp.StatusCode != 400 {
		t.Fatalf("bad status patch status = %d", resp.StatusCode)
	}
}

func TestMaintenanceEndpoints(t *testing.T) {
	ts := newTestServer(t)
	body := `{"title":"roof","start_date":"2026-10-01","end_date":"2026-10-05"}`

	// guests cannot manage maintenance
	resp := do(t, "POST", ts.URL+"/v1/hotels/7/maintenance", body, guestHdr)
	if resp.StatusCode != 403 {
		t.Fatalf("guest status = %d", resp.StatusCode)
	}

	resp = do(t, "POST", ts.URL+"/v1/hotels/7/maintenance", body, ownerHdr)
	if resp.StatusCode != 201 {
		t.Fatalf("owner status = %d", resp.StatusCode)
	}
	var w domain.MaintenanceWindow
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// overlap -> 409
	resp = do(t, "POST", ts.URL+"/v1/hotels/7/maintenance",
		`{"title":"dup","start_date":"2026-10-03","end_date":"2026-10-07"}`, ownerHdr)
	if resp.StatusCode != 409 {
		t.Fatalf("overlap status = %d", resp.StatusCode)
	}

	resp = do(t, "DELETE", ts.URL+"/v1/hotels/7/maintenance/"+w.ID, "", guestHdr)
	if resp.StatusCode != 403 {
		t.Fatalf("guest delete status = %d", resp.StatusCode)
	}
	resp = do(t, "DELETE", ts.URL+"/v1/hotels/7/maintenance/"+w.ID, "", ownerHdr)
	if resp.StatusCode != 204 {
		t.Fatalf("owner delete status = %d", resp.StatusCode)
	}
	resp = do(t, "DELETE", ts.URL+"/v1/hotels/7/maintenance/"+w.ID, "", ownerHdr)
	if resp.StatusCode != 404 {
		t.Fatalf("second delete status = %d", resp.StatusCode)
	}
}

func TestWaitlistEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, "POST", ts.URL+"/v1/hotels/7/waitlist",
		`{"guest_name":"Ana","guest_email":"ana@example.com","check_in":"2026-09-01","check_out":"2026-09-05"}`, nil)
	if resp.StatusCode != 201 {
		t.Fatalf("join status = %d", resp.StatusCode)
	}
	var e domain.WaitlistEntry
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.ID == "" || e.HotelID != 7 {
		t.Fatalf("unexpected entry: %+v", e)
	}

	resp = do(t, "POST", ts.URL+"/v1/hotels/7/waitlist",
		`{"guest_name":"Ana","check_in":"2026-09-01","check_out":"2026-09-05"}`, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("missing email status = %d", resp.StatusCode)
	}
}
