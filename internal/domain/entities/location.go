package entities

import "time"

// Location is a named place kept by the admin as a selection aid for the
// booking form. Nothing ties a booking's pickup or destination to it.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewLocation(id, name string) *Location {
	return &Location{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
