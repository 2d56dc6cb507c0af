package utils

import "time"

// ServiceHours is the window of local hours in which drivers are expected to
// be active: Open <= hour < Close.
type ServiceHours struct {
	Open  int
	Close int
}

// IsAvailable evaluates the window against t's own location, so callers pass
// a time already converted to the booking time zone.
func (h ServiceHours) IsAvailable(t time.Time) bool {
	hour := t.Hour()
	return hour >= h.Open && hour < h.Close
}

// MeetsLeadTime reports whether selected is at least lead after now.
func MeetsLeadTime(now, selected time.Time, lead time.Duration) bool {
	return !selected.Before(now.Add(lead))
}

// SlotTimes returns count instants starting at now+offset, step apart,
// truncated to the minute.
func SlotTimes(now time.Time, offset, step time.Duration, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	times := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		at := now.Add(offset + time.Duration(i)*step)
		times = append(times, at.Truncate(time.Minute))
	}
	return times
}
