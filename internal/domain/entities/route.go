package entities

import (
	"strings"
	"time"
)

// Route is admin-managed reference data. Active routes lend their service type
// to bookings travelling the same way.
type Route struct {
	ID          string      `json:"id"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	ServiceType ServiceType `json:"serviceType"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewRoute creates a route that starts out active.
func NewRoute(id, from, to string, serviceType ServiceType) *Route {
	return &Route{
		ID:          id,
		From:        from,
		To:          to,
		ServiceType: serviceType,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}

// Matches compares endpoints case-insensitively, ignoring surrounding spaces.
func (r *Route) Matches(from, to string) bool {
	return strings.EqualFold(strings.TrimSpace(r.From), strings.TrimSpace(from)) &&
		strings.EqualFold(strings.TrimSpace(r.To), strings.TrimSpace(to))
}
