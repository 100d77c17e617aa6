package models

import (
	"fmt"
	"strings"
)

// EventType is the fixed enumeration offered on the submission form.
type EventType string

const (
	EventTypeWorkshop    EventType = "Workshop"
	EventTypeSeminar     EventType = "Seminar"
	EventTypeCompetition EventType = "Competition"
	EventTypeMeetup      EventType = "Meetup"
	EventTypeWebinar     EventType = "Webinar"
	EventTypeHackathon   EventType = "Hackathon"
	EventTypeCultural    EventType = "Cultural"
	EventTypeSports      EventType = "Sports"
	EventTypeOther       EventType = "Other"
)

// EventTypes returns the enumeration in form display order.
func EventTypes() []EventType {
	return []EventType{
		EventTypeWorkshop,
		EventTypeSeminar,
		EventTypeCompetition,
		EventTypeMeetup,
		EventTypeWebinar,
		EventTypeHackathon,
		EventTypeCultural,
		EventTypeSports,
		EventTypeOther,
	}
}

// ParseEventType resolves a case-insensitive event type name against the
// enumeration.
func ParseEventType(raw string) (EventType, error) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range EventTypes() {
		if strings.ToLower(string(t)) == needle {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type: %q", raw)
}

// Filter narrows a summary fetch to one event and/or one event type. Matching
// happens server-side; the zero Filter means the unfiltered aggregate.
type Filter struct {
	Event     string
	EventType string
}

// IsZero reports whether no filter is active.
func (f Filter) IsZero() bool {
	return f.Event == "" && f.EventType == ""
}

// Label is a short human description of the active filter, used in view
// headings and export file names. Returns "all" for the zero filter.
func (f Filter) Label() string {
	switch {
	case f.Event != "" && f.EventType != "":
		return f.Event + " " + f.EventType
	case f.Event != "":
		return f.Event
	case f.EventType != "":
		return f.EventType
	}
	return "all"
}
