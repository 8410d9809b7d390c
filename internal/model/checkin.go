package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckInStatus is the per-event aggregate returned by GET /checkin/status/:eventId.
type CheckInStatus struct {
	EventID            uuid.UUID `json:"eventId"`
	EventName          string    `json:"eventName"`
	TotalPeople        int       `json:"totalPeople"`
	CheckedInCount     int       `json:"checkedInCount"`
	NotCheckedInCount  int       `json:"notCheckedInCount"`
	CheckedInPeople    []*Person `json:"checkedInPeople"`
	NotCheckedInPeople []*Person `json:"notCheckedInPeople"`
}

// NewCheckInStatus builds the aggregate from one read of the event roster.
func NewCheckInStatus(event *Event, people []*Person) *CheckInStatus {
	checkedIn, notCheckedIn := PartitionByCheckIn(people)
	return &CheckInStatus{
		EventID:            event.ID,
		EventName:          event.Name,
		TotalPeople:        len(people),
		CheckedInCount:     len(checkedIn),
		NotCheckedInCount:  len(notCheckedIn),
		CheckedInPeople:    checkedIn,
		NotCheckedInPeople: notCheckedIn,
	}
}

// ActivityAction is the kind of roster change recorded in the activity feed.
type ActivityAction string

const (
	ActivityCheckedIn      ActivityAction = "checked_in"
	ActivityCheckedOut     ActivityAction = "checked_out"
	ActivityPersonRemoved  ActivityAction = "person_removed"
	ActivityRosterReplaced ActivityAction = "roster_replaced"
)

// IsValid reports whether the action is one the feed knows about.
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActivityCheckedIn, ActivityCheckedOut, ActivityPersonRemoved, ActivityRosterReplaced:
		return true
	}
	return false
}

// CheckinActivity is a single entry of an event's activity feed.
type CheckinActivity struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	EventID    uuid.UUID      `json:"eventId" db:"event_id"`
	PersonID   *uuid.UUID     `json:"personId,omitempty" db:"person_id"`
	PersonName string         `json:"personName,omitempty" db:"person_name"`
	Action     ActivityAction `json:"action" db:"action"`
	Count      int            `json:"count,omitempty" db:"count"`
	OccurredAt time.Time      `json:"occurredAt" db:"occurred_at"`
}
