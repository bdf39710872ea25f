package swarm

import (
	"fmt"
	"strings"
)

// Event is one recorded integrator event.
type Event struct {
	Frame    int
	Agent    string  // label e.g. "D007", or "--" for swarm-wide events
	Category string  // request, agent, formation, pov, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[F=0042] D007 agent     retired          → offscreen
func (e Event) String() string {
	return fmt.Sprintf("[F=%04d] %-5s %-9s %-16s %s",
		e.Frame, e.Agent, e.Category, e.Key, e.Value)
}

// EventLog collects structured events from an Integrator. It is unbounded
// and machine-readable; headless reports and tests query it.
type EventLog struct {
	events  []Event
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is true, per-frame position
// entries are also recorded.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Verbose reports whether per-frame entries are recorded.
func (el *EventLog) Verbose() bool {
	return el != nil && el.verbose
}

// Add records a new event. A nil log discards it.
func (el *EventLog) Add(frame int, agent, category, key, value string, numVal float64) {
	if el == nil {
		return
	}
	el.events = append(el.events, Event{
		Frame:    frame,
		Agent:    agent,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an event only when verbose mode is on.
func (el *EventLog) AddVerbose(frame int, agent, category, key, value string, numVal float64) {
	if !el.Verbose() {
		return
	}
	el.Add(frame, agent, category, key, value, numVal)
}

// Events returns all recorded events.
func (el *EventLog) Events() []Event {
	if el == nil {
		return nil
	}
	return el.events
}

// Reset drops every recorded event.
func (el *EventLog) Reset() {
	if el != nil {
		el.events = el.events[:0]
	}
}

// Filter returns events matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.Events() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many events match the given category and key.
func (el *EventLog) CountCategory(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent event matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	events := el.Filter(category, key)
	if len(events) == 0 {
		return Event{}, false
	}
	return events[len(events)-1], true
}

// Format renders the log one event per line.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.Events() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// agentLabel is the log label for agent i.
func agentLabel(i int) string {
	return fmt.Sprintf("D%03d", i)
}
