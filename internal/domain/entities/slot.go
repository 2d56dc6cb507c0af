package entities

import "time"

// UrgentSlot is a pre-enumerated short-notice time offered when a booking
// falls inside the 48-hour lead time.
type UrgentSlot struct {
	Date  string    `json:"date"`
	Time  string    `json:"time"`
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

func NewUrgentSlot(at time.Time) UrgentSlot {
	return UrgentSlot{
		Date:  at.Format(DateLayout),
		Time:  at.Format(TimeLayout),
		Label: at.Format("Jan 2") + " at " + at.Format("03:04 PM"),
		At:    at,
	}
}
