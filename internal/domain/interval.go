package domain

import "time"

// DateRange is a half-open interval [Start, End) at date granularity, UTC.
// A checkout on day N and a check-in on day N do not overlap.
type DateRange struct {
	Start time.Time
	End   time.Time
}

const dateLayout = "2006-01-02"

// ParseDateRange builds a DateRange from YYYY-MM-DD strings.
// Malformed or inverted input yields ErrInvalidRange.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	start, err := time.ParseInLocation(dateLayout, checkIn, time.UTC)
	if err != nil {
		return DateRange{}, ErrInvalidRange
	}
	end, err := time.ParseInLocation(dateLayout, checkOut, time.UTC)
	if err != nil {
		return DateRange{}, ErrInvalidRange
	}
	r := DateRange{Start: start, End: end}
	return r, r.Validate()
}

func (r DateRange) Validate() error {
	if !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether two half-open ranges share at least one night:
// r.Start < o.End && o.Start < r.End.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

func (r DateRange) CheckIn() string  { return r.Start.Format(dateLayout) }
func (r DateRange) CheckOut() string { return r.End.Format(dateLayout) }
