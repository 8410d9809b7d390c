package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxPersonNameLength  = 100
	MaxPersonEmailLength = 100
)

// Person is an attendee of exactly one event. CheckInTime is set iff CheckedIn is true.
type Person struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	CheckedIn   bool       `json:"checkedIn" db:"checked_in"`
	CheckInTime *time.Time `json:"checkInTime" db:"check_in_time"`
	EventID     uuid.UUID  `json:"eventId" db:"event_id"`
}

// AttendeeRecord is one parsed roster row before it is stored.
type AttendeeRecord struct {
	Name  string
	Email string
}

// PartitionByCheckIn splits people by their checked-in flag, keeping order.
func PartitionByCheckIn(people []*Person) (checkedIn, notCheckedIn []*Person) {
	checkedIn = make([]*Person, 0)
	notCheckedIn = make([]*Person, 0)
	for _, p := range people {
		if p.CheckedIn {
			checkedIn = append(checkedIn, p)
		} else {
			notCheckedIn = append(notCheckedIn, p)
		}
	}
	return checkedIn, notCheckedIn
}
