package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxEventNameLength        = 100
	MaxEventDescriptionLength = 500
)

// Event owns an ordered roster of people. Deleting it deletes the roster.
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	People []*Person `json:"people" db:"-"`
}

// CreateEventRequest is the POST /event body. Any client supplied id is ignored.
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,max=100"`
	Date        time.Time `json:"date"`
	Description string    `json:"description" binding:"max=500"`
}
