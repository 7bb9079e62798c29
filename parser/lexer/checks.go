// Copyright © 2024 The ELPS authors

package lexer

import "github.com/luthersystems/jsvet/diagnostic"

// DeferredCheck is a diagnostic or notification whose condition can only be
// decided once the token that produced it has been handed to the driver.
// Exactly one of Diagnostic and Notification is set.
type DeferredCheck struct {
	When         func() bool
	Diagnostic   *diagnostic.Event
	Notification *Event
}

// Checks is the batch of deferred checks queued while scanning one token.
type Checks struct {
	lex     *Lexer
	pending []DeferredCheck
}

// NewChecks returns an empty batch bound to lex's sink and observers.
func (lex *Lexer) NewChecks() *Checks {
	return &Checks{lex: lex}
}

// Pending returns the queued checks that have not been run yet.
func (c *Checks) Pending() []DeferredCheck {
	return c.pending
}

// Run evaluates every queued check once, in the order queued, and empties
// the batch.
func (c *Checks) Run() {
	pending := c.pending
	c.pending = nil
	for _, check := range pending {
		if check.When != nil && !check.When() {
			continue
		}
		switch {
		case check.Diagnostic != nil:
			c.lex.sink.Report(*check.Diagnostic)
		case check.Notification != nil:
			c.lex.notify(*check.Notification)
		}
	}
}

func (c *Checks) warn(ev diagnostic.Event, when func() bool) {
	c.pending = append(c.pending, DeferredCheck{When: when, Diagnostic: &ev})
}

func (c *Checks) notify(ev Event, when func() bool) {
	c.pending = append(c.pending, DeferredCheck{When: when, Notification: &ev})
}
