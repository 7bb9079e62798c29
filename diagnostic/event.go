// Copyright © 2024 The ELPS authors

package diagnostic

import "fmt"

// Event is a structured diagnostic produced by the lexer or the scope
// manager.  Line and Character are 1-based; Data holds the interpolation
// values for the code's message template, in order.
type Event struct {
	Code      Code
	Line      int
	Character int
	Data      []string
}

// Severity returns the fixed severity of the event's code.
func (e Event) Severity() Severity {
	return e.Code.Severity()
}

// Message returns the interpolated message text.
func (e Event) Message() string {
	return e.Code.Format(e.Data...)
}

func (e Event) String() string {
	return fmt.Sprintf("%d:%d: %s %s", e.Line, e.Character, e.Code, e.Message())
}

// Sink receives diagnostic events in the order they are produced.
type Sink interface {
	Report(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Report calls f(e).
func (f SinkFunc) Report(e Event) {
	f(e)
}

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Collector is a Sink that records every event it receives.
type Collector struct {
	Events []Event
}

// Report appends e to c.Events.
func (c *Collector) Report(e Event) {
	c.Events = append(c.Events, e)
}

// Codes returns the code of each collected event, in order.
func (c *Collector) Codes() []Code {
	codes := make([]Code, len(c.Events))
	for i, e := range c.Events {
		codes[i] = e.Code
	}
	return codes
}

// Count returns the number of collected events with the given code.
func (c *Collector) Count(code Code) int {
	n := 0
	for _, e := range c.Events {
		if e.Code == code {
			n++
		}
	}
	return n
}

// Filter returns the collected events with the given code.
func (c *Collector) Filter(code Code) []Event {
	var events []Event
	for _, e := range c.Events {
		if e.Code == code {
			events = append(events, e)
		}
	}
	return events
}

// Reset discards all collected events.
func (c *Collector) Reset() {
	c.Events = nil
}
