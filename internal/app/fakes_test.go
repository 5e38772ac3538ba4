package app_test

import (
	"context"
	"sync"

	"staybook/internal/domain"
)

// ---- fakes ----

// memBookings mimics the MySQL repo's transactional overlap guard: the
// overlap predicate is re-evaluated under the same mutex that admits the
// write.
type memBookings struct {
	mu   sync.Mutex
	rows map[string]domain.Reservation
}

func newMemBookings() *memBookings {
	return &memBookings{rows: map[string]domain.Reservation{}}
}

func (m *memBookings) overlapLocked(hotelID int64, rng domain.DateRange, excludeID string) bool {
	for _, r := range m.rows {
		if r.HotelID != hotelID || r.ID == excludeID || !r.Status.BlocksAvailability() {
			continue
		}
		if r.Dates.Overlaps(rng) {
			return true
		}
	}
	return false
}

func (m *memBookings) Create(ctx context.Context, r domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlapLocked(r.HotelID, r.Dates, r.ID) {
		return domain.ErrDatesUnavailable
	}
	m.rows[r.ID] = r
	return nil
}

func (m *memBookings) Get(ctx context.Context, id string) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memBookings) UpdateDates(ctx context.Context, id string, hotelID int64, rng domain.DateRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.overlapLocked(hotelID, rng, id) {
		return domain.ErrDatesUnavailable
	}
	r.Dates = rng
	m.rows[id] = r
	return nil
}

func (m *memBookings) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, payment domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	r.Payment = payment
	m.rows[id] = r
	return nil
}

func (m *memBookings) HasOverlap(ctx context.Context, hotelID int64, rng domain.DateRange, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapLocked(hotelID, rng, excludeID), nil
}

func (m *memBookings) HotelsWithOverlap(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[int64]bool{}
	var ids []int64
	for _, r := range m.rows {
		if r.Status.BlocksAvailability() && r.Dates.Overlaps(rng) && !seen[r.HotelID] {
			seen[r.HotelID] = true
			ids = append(ids, r.HotelID)
		}
	}
	return ids, nil
}

type memMaintenance struct {
	mu   sync.Mutex
	rows map[string]domain.MaintenanceWindow
}

func newMemMaintenance() *memMaintenance {
	return &memMaintenance{rows: map[string]domain.MaintenanceWindow{}}
}

func (m *memMaintenance) Create(ctx context.Context, w domain.MaintenanceWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.rows {
		if x.HotelID == w.HotelID && x.Dates.Overlaps(w.Dates) {
			return domain.ErrMaintenanceOverlap
		}
	}
	m.rows[w.ID] = w
	return nil
}

func (m *memMaintenance) Delete(ctx context.Context, hotelID int64, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.rows[id]
	if !ok || w.HotelID != hotelID {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memMaintenance) HasOverlap(ctx context.Context, hotelID int64, rng domain.DateRange) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.rows {
		if w.HotelID == hotelID && w.Dates.Overlaps(rng) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memMaintenance) HotelsWithOverlap(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[int64]bool{}
	var ids []int64
	for _, w := range m.rows {
		if w.Dates.Overlaps(rng) && !seen[w.HotelID] {
			seen[w.HotelID] = true
			ids = append(ids, w.HotelID)
		}
	}
	return ids, nil
}

type memWaitlist struct {
	mu   sync.Mutex
	rows []domain.WaitlistEntry
}

func (m *memWaitlist) Create(ctx context.Context, e domain.WaitlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, e)
	return nil
}

func (m *memWaitlist) ListForHotel(ctx context.Context, hotelID int64) ([]domain.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WaitlistEntry
	for _, e := range m.rows {
		if e.HotelID == hotelID {
			out = append(out, e)
		}
	}
	return out, nil
}

// recordingNotifier counts events; fail makes every publish error to prove
// notification failures never surface.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (n *recordingNotifier) record(ev string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	if n.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, r domain.Reservation) error {
	return n.record("booking_confirmed")
}
func (n *recordingNotifier) BookingUpdated(ctx context.Context, r domain.Reservation) error {
	return n.record("booking_updated")
}
func (n *recordingNotifier) BookingCancelled(ctx context.Context, r domain.Reservation) error {
	return n.record("booking_cancelled")
}
func (n *recordingNotifier) WaitlistJoined(ctx context.Context, e domain.WaitlistEntry) error {
	return n.record("waitlist_joined")
}

func (n *recordingNotifier) count(ev string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e == ev {
			c++
		}
	}
	return c
}

// fakeCatalog records the exclusions each search was handed.
type fakeCatalog struct {
	mu       sync.Mutex
	page     domain.SearchPage
	listing  domain.HotelListing
	calls    int
	lastExcl domain.ExcludedHotels
}

func (f *fakeCatalog) UpsertListing(ctx context.Context, h domain.HotelListing) error { return nil }
func (f *fakeCatalog) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	return nil
}
func (f *fakeCatalog) GetListing(ctx context.Context, id int64) (domain.HotelListing, error) {
	if f.listing.ID == 0 {
		return domain.HotelListing{}, domain.ErrNotFound
	}
	return f.listing, nil
}
func (f *fakeCatalog) SearchListings(ctx context.Context, q domain.SearchQuery, excluded domain.ExcludedHotels, pageSize int) (domain.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastExcl = excluded
	return f.page, nil
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok := dst.(*domain.HotelListing); ok {
		*d = v.(domain.HotelListing)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}
