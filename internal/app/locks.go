package app

import "sync"

// hotelLocks serializes the check-then-write sequence per hotel id so two
// concurrent booking requests for the same hotel cannot both pass the
// conflict check. The storage layer re-checks inside its transaction for
// multi-process deployments; this lock keeps the common single-process
// case race-free without a database round trip.
type hotelLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newHotelLocks() *hotelLocks {
	return &hotelLocks{locks: make(map[int64]*sync.Mutex)}
}

func (h *hotelLocks) get(hotelID int64) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[hotelID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[hotelID] = l
	}
	return l
}
