// Copyright © 2024 The ELPS authors

package lexer

// EventKind identifies the token kind an observer notification is about.
type EventKind int

const (
	StringEvent EventKind = iota + 1
	NumberEvent
	IdentifierEvent
	TemplateHeadEvent
	TemplateMiddleEvent
	TemplateTailEvent
	NoSubstTemplateEvent
)

func (k EventKind) String() string {
	switch k {
	case StringEvent:
		return "String"
	case NumberEvent:
		return "Number"
	case IdentifierEvent:
		return "Identifier"
	case TemplateHeadEvent:
		return "TemplateHead"
	case TemplateMiddleEvent:
		return "TemplateMiddle"
	case TemplateTailEvent:
		return "TemplateTail"
	case NoSubstTemplateEvent:
		return "NoSubstTemplate"
	}
	return "unknown"
}

// Event is a per token kind notification.  Fields that do not apply to
// Kind are left zero.
type Event struct {
	Kind      EventKind
	Line      int
	Char      int
	From      int
	StartLine int
	StartChar int
	Value     string

	// Identifier
	RawName    string
	IsProperty bool

	// String
	Quote rune

	// Number
	Base      int
	Malformed bool
}

// Observer receives notifications.  String and Identifier notifications are
// delivered when the token's deferred checks run; the others are delivered
// while the token is scanned.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}

func (lex *Lexer) notify(ev Event) {
	for _, obs := range lex.observers {
		obs.Observe(ev)
	}
}

func (lex *Lexer) notification(kind EventKind, s *scanned) Event {
	ev := Event{
		Kind:  kind,
		Line:  lex.line,
		Char:  lex.char,
		From:  lex.from,
		Value: s.value,
	}
	switch {
	case s.str != nil:
		ev.StartLine, ev.StartChar = s.str.StartLine, s.str.StartCol
	case s.template != nil:
		ev.StartLine, ev.StartChar = s.template.StartLine, s.template.StartCol
	}
	return ev
}
