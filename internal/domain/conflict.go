package domain

import "time"

// BookedRange is the conflict detector's view of an existing booking,
// fetched from the authoritative store at check time.
type BookedRange struct {
	BookingID string
	Status    BookingStatus
	FullDay   bool
	Start     time.Time
	End       time.Time
}

// Overlaps tests two half-open intervals [aStart,aEnd) and [bStart,bEnd).
// Touching boundaries do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckConflict gates booking creation. A nil candidate slot means a full-day
// request, which conflicts with any non-cancelled booking that date; the same
// holds for an existing full-day booking. Returns a ConflictError on the
// first overlap found.
func CheckConflict(venueID string, date time.Time, candidate *TimeSlot, existing []BookedRange) error {
	for _, e := range existing {
		if e.Status == BookingCancelled {
			continue
		}
		if candidate == nil || e.FullDay || Overlaps(candidate.Start, candidate.End, e.Start, e.End) {
			return &ConflictError{
				VenueID:           venueID,
				Date:              date.Format("2006-01-02"),
				ConflictingWithID: e.BookingID,
			}
		}
	}
	return nil
}
