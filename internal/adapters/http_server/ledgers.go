package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staybook/internal/app"
	"staybook/internal/domain"
)

// ---- bookings ----

type createBookingRequest struct {
	CheckIn     string                  `json:"check_in"`
	CheckOut    string                  `json:"check_out"`
	Adults      int                     `json:"adults"`
	Children    int                     `json:"children"`
	Rooms       int                     `json:"rooms"`
	Allocations []domain.RoomAllocation `json:"allocations,omitempty"`
	TotalCost   float64                 `json:"total_cost"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	hotelID, err := hotelParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	guest := userID(r)
	if guest == "" {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "X-User-ID header is required")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	rng, err := domain.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Bookings.Create(r.Context(), app.CreateBookingInput{
		HotelID:     hotelID,
		GuestID:     guest,
		Dates:       rng,
		Adults:      req.Adults,
		Children:    req.Children,
		Rooms:       req.Rooms,
		Allocations: req.Allocations,
		TotalCost:   req.TotalCost,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/bookings/"+res.ID)
	w.WriteHeader(http.StatusNoContent)
}

type updateBookingRequest struct {
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Status   string `json:"status,omitempty"`
}

var bookingStatuses = map[domain.BookingStatus]bool{
	domain.BookingPending:   true,
	domain.BookingConfirmed: true,
	domain.BookingCancelled: true,
	domain.BookingCompleted: true,
	domain.BookingRefunded:  true,
}

// updateBooking applies new dates, a new status, or both. An empty body is
// a valid no-op that returns the current reservation.
func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}

	var (
		res domain.Reservation
		err error
	)
	if req.CheckIn != "" || req.CheckOut != "" {
		var rng domain.DateRange
		rng, err = domain.ParseDateRange(req.CheckIn, req.CheckOut)
		if err != nil {
			writeError(w, err)
			return
		}
		if res, err = h.Bookings.ChangeDates(r.Context(), id, rng); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Status != "" {
		status := domain.BookingStatus(req.Status)
		if !bookingStatuses[status] {
			writeProblem(w, http.StatusBadRequest, "Invalid Status", "unknown booking status "+req.Status)
			return
		}
		if res, err = h.Bookings.ChangeStatus(r.Context(), id, status); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.CheckIn == "" && req.CheckOut == "" && req.Status == "" {
		if res, err = h.Bookings.Get(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	res, err := h.Bookings.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ---- maintenance ----

type createMaintenanceRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Priority    string  `json:"priority,omitempty"`
}

func (h *Handlers) createMaintenance(w http.ResponseWriter, r *http.Request) {
	hotelID, err := hotelParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if userRole(r) != "owner" {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req createMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	rng, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	win, err := h.Maintenance.Create(r.Context(), app.CreateMaintenanceInput{
		HotelID:     hotelID,
		Title:       req.Title,
		Description: req.Description,
		Dates:       rng,
		Priority:    req.Priority,
		CreatedBy:   userID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, win)
}

func (h *Handlers) deleteMaintenance(w http.ResponseWriter, r *http.Request) {
	hotelID, err := hotelParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if userRole(r) != "owner" {
		writeError(w, domain.ErrForbidden)
		return
	}
	if err := h.Maintenance.Delete(r.Context(), hotelID, chi.URLParam(r, "mid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- waitlist ----

type joinWaitlistRequest struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

func (h *Handlers) joinWaitlist(w http.ResponseWriter, r *http.Request) {
	hotelID, err := hotelParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	var req joinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if req.GuestEmail == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "guest_email is required")
		return
	}
	rng, err := domain.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.Waitlist.Join(r.Context(), app.JoinWaitlistInput{
		HotelID:    hotelID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		Dates:      rng,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
