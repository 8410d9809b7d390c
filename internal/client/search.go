package client

import (
	"strings"

	"event-checkin/internal/model"
)

// SearchPeopleInEvent returns the attendees whose name or email contains term,
// ignoring case and surrounding whitespace. A blank term matches nobody.
func SearchPeopleInEvent(event *model.Event, term string) []*model.Person {
	term = strings.ToLower(strings.TrimSpace(term))
	matches := make([]*model.Person, 0)
	if event == nil || term == "" {
		return matches
	}
	for _, p := range event.People {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Email), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

// SearchEvents filters events by name and, when withDescription is set, description.
func SearchEvents(events []*model.Event, term string, withDescription bool) []*model.Event {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return events
	}
	matches := make([]*model.Event, 0)
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			(withDescription && strings.Contains(strings.ToLower(e.Description), term)) {
			matches = append(matches, e)
		}
	}
	return matches
}
