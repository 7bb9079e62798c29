// Copyright © 2024 The ELPS authors

// Package scope tracks JavaScript lexical scopes for a single file.  It
// binds declarations, resolves free variable usage, and reports shadowing,
// redeclaration, unused and undefined names.
//
// A Manager is driven by a parser walking the token stream.  Scopes are
// pushed and popped with Stack and Unstack; declarations and references are
// recorded through AddLabel, AddParam and the Block and Funct views.
// Most diagnostics are produced when a scope is unstacked.  Results such
// as ImpliedGlobals are complete once the global scope has been unstacked.
package scope

import (
	"sort"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// ImpliedGlobal is a name that was referenced but never declared.
type ImpliedGlobal struct {
	Name  string `json:"name" msgpack:"name"`
	Lines []int  `json:"line" msgpack:"line"`
}

// Unused is a declared name that was never referenced.
type Unused struct {
	Name      string `json:"name" msgpack:"name"`
	Line      int    `json:"line" msgpack:"line"`
	Character int    `json:"character" msgpack:"character"`
}

// Manager is the scope stack for one file.
type Manager struct {
	st   *state.State
	sink diagnostic.Sink

	predefined map[string]bool
	exported   map[string]bool
	declared   map[string]*token.Token

	stack            []*Scope
	current          *Scope
	currentFunctBody *Scope
	finished         bool

	usedGlobals    *ordered[struct{}]
	impliedGlobals *ordered[*ImpliedGlobal]
	unuseds        []Unused
}

// Globals holds the externally supplied name sets.  Any map may be nil.
// The manager updates Exported and Declared in place.
type Globals struct {
	// Predefined maps a name to whether it may be assigned.
	Predefined map[string]bool
	// Exported names are exempt from unused reporting.
	Exported map[string]bool
	// Declared names are reported as unused unless referenced.  The token
	// positions the warning.
	Declared map[string]*token.Token
}

// New returns a manager with the global scope pushed.
func New(st *state.State, sink diagnostic.Sink, globals Globals) *Manager {
	if sink == nil {
		sink = diagnostic.Discard
	}
	if globals.Predefined == nil {
		globals.Predefined = make(map[string]bool)
	}
	if globals.Exported == nil {
		globals.Exported = make(map[string]bool)
	}
	if globals.Declared == nil {
		globals.Declared = make(map[string]*token.Token)
	}
	m := &Manager{
		st:             st,
		sink:           sink,
		predefined:     globals.Predefined,
		exported:       globals.Exported,
		declared:       globals.Declared,
		usedGlobals:    newOrdered[struct{}](),
		impliedGlobals: newOrdered[*ImpliedGlobal](),
	}
	m.push(KindGlobal)
	m.currentFunctBody = m.current
	return m
}

func (m *Manager) push(kind Kind) {
	s := newScope(kind, m.current)
	if kind == KindFunctionParams || kind == KindCatchParams {
		s.params = []string{}
	}
	m.stack = append(m.stack, s)
	m.current = s
}

// Current returns the innermost scope, or nil after the global scope has
// been unstacked.
func (m *Manager) Current() *Scope {
	return m.current
}

// FunctionBody returns the innermost function body scope, which is the
// global scope outside of any function.
func (m *Manager) FunctionBody() *Scope {
	return m.currentFunctBody
}

// Depth returns the number of scopes on the stack.
func (m *Manager) Depth() int {
	return len(m.stack)
}

// Finished reports whether the global scope has been unstacked.
func (m *Manager) Finished() bool {
	return m.finished
}

// Stack pushes a new scope.  An untyped scope pushed directly on top of a
// function parameter scope becomes that function's body.
func (m *Manager) Stack(kind Kind) {
	if m.finished {
		return
	}
	previous := m.current
	m.push(kind)
	if kind == KindBlock && previous.Kind == KindFunctionParams {
		m.current.isFuncBody = true
		m.current.context = m.currentFunctBody
		m.currentFunctBody = m.current
	}
}

// Unstack pops the innermost scope, resolving its usages against its
// labels, merging unresolved usages into the parent, hoisting function
// scoped labels, and reporting unused labels.  Unstacking the global scope
// classifies the remaining usages as predefined or implied globals.
func (m *Manager) Unstack() {
	if m.finished || len(m.stack) == 0 {
		return
	}
	cur := m.current
	var parent *Scope
	if len(m.stack) > 1 {
		parent = m.stack[len(m.stack)-2]
	}
	isBody := cur == m.currentFunctBody
	isParams := cur.Kind == KindFunctionParams
	isOuter := cur.Kind == KindFunctionOuter

	for _, name := range cur.usages.names() {
		usage, _ := cur.usages.get(name)
		if label, ok := cur.labels.get(name); ok {
			m.resolve(name, label, usage)
			continue
		}
		if parent != nil {
			if up, ok := parent.usages.get(name); ok {
				up.merge(usage)
			} else {
				if isBody {
					usage.OnlyUsedSubFunction = true
				}
				parent.usages.set(name, usage)
			}
			continue
		}
		m.classifyGlobal(name, usage)
	}

	if parent == nil {
		m.warnDeclared()
	}

	if parent != nil && !isBody && !isParams && !isOuter {
		m.hoist(cur, parent)
	}

	m.checkForUnused(cur)

	m.stack = m.stack[:len(m.stack)-1]
	if isBody {
		m.currentFunctBody = nil
		for i := len(m.stack) - 1; i >= 0; i-- {
			if m.stack[i].isFuncBody || m.stack[i].Kind == KindGlobal {
				m.currentFunctBody = m.stack[i]
				break
			}
		}
	}
	m.current = parent
	if parent == nil {
		m.finished = true
	}
}

// resolve settles the usage of a name declared in the scope being popped.
func (m *Manager) resolve(name string, label *Label, usage *Usage) {
	if label.UseOutsideOfScope && !m.st.Option.FuncScope {
		for _, ref := range usage.Tokens {
			if label.Function == ref.function {
				m.warn(diagnostic.UsedOutOfScope, ref.Token, name)
			}
		}
	}
	label.Unused = false
	if label.Type == Const {
		for _, ref := range usage.Modified {
			m.warn(diagnostic.ConstOverride, ref.Token, name)
		}
	}
	if label.Type == Function || label.Type == Class {
		for _, ref := range usage.Reassigned {
			if !ref.ignoreW021 {
				m.warn(diagnostic.Reassignment, ref.Token, name, string(label.Type))
			}
		}
	}
}

func (m *Manager) classifyGlobal(name string, usage *Usage) {
	if writable, ok := m.predefined[name]; ok {
		delete(m.declared, name)
		m.usedGlobals.set(name, struct{}{})
		if !writable {
			for _, ref := range usage.Reassigned {
				if !ref.ignoreW020 {
					m.warn(diagnostic.ReadOnly, ref.Token)
				}
			}
		}
		return
	}
	for _, ref := range usage.Tokens {
		if ref.ForgiveUndef {
			continue
		}
		if m.st.Option.Undef && !ref.ignoreUndef {
			m.warn(diagnostic.Undefined, ref.Token, name)
		}
		line, _ := position(ref.Token)
		if ig, ok := m.impliedGlobals.get(name); ok {
			ig.Lines = append(ig.Lines, line)
		} else {
			m.impliedGlobals.set(name, &ImpliedGlobal{Name: name, Lines: []int{line}})
		}
	}
}

// warnDeclared reports declared names that were never used, in source
// order.
func (m *Manager) warnDeclared() {
	names := make([]string, 0, len(m.declared))
	for name := range m.declared {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, ci := position(m.declared[names[i]])
		lj, cj := position(m.declared[names[j]])
		if li != lj {
			return li < lj
		}
		if ci != cj {
			return ci < cj
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		m.warnUnused(name, m.declared[name], Var, m.st.Option.Unused)
	}
}

// hoist moves the function scoped labels of a popped block into its
// parent.
func (m *Manager) hoist(cur, parent *Scope) {
	for _, name := range cur.labels.names() {
		label, _ := cur.labels.get(name)
		if label.BlockScoped || label.Type == Exception {
			continue
		}
		if shadowed, ok := parent.labels.get(name); ok {
			shadowed.Unused = shadowed.Unused && label.Unused
		} else {
			label.UseOutsideOfScope = m.currentFunctBody.Kind != KindGlobal &&
				!m.Funct().Has(name, LookupOptions{ExcludeCurrent: true})
			parent.labels.set(name, label)
		}
		cur.labels.remove(name)
	}
}

func (m *Manager) checkForUnused(s *Scope) {
	if s.Kind == KindFunctionParams {
		m.checkParams(s)
		return
	}
	for _, name := range s.labels.names() {
		label, _ := s.labels.get(name)
		if label.Type != Exception && label.Unused {
			m.warnUnused(name, label.Token, Var, m.st.Option.Unused)
		}
	}
}

// checkParams reports unused parameters from last to first.  Under the
// last-param policy it stops at the first used parameter.
func (m *Manager) checkParams(s *Scope) {
	for i := len(s.params) - 1; i >= 0; i-- {
		name := s.params[i]
		if name == "undefined" {
			return
		}
		opt := m.st.UnusedOption()
		label, _ := s.labels.get(name)
		if label == nil {
			continue
		}
		if label.Unused {
			m.warnUnused(name, label.Token, Param, opt)
		} else if opt == state.UnusedLastParam {
			return
		}
	}
}

func (m *Manager) warnUnused(name string, tok *token.Token, typ LabelType, opt state.UnusedMode) {
	line, char := position(tok)
	raw := name
	if tok != nil && tok.Type == token.IDENTIFIER && tok.Text != "" {
		raw = tok.Text
	}
	if opt != state.UnusedOff {
		warnable := typ == Var
		if typ == Param {
			warnable = opt == state.UnusedLastParam || opt == state.UnusedStrict
		}
		if warnable {
			m.sink.Report(diagnostic.Event{
				Code: diagnostic.Unused, Line: line, Character: char, Data: []string{raw},
			})
		}
	}
	if opt != state.UnusedOff || typ == Var {
		m.unuseds = append(m.unuseds, Unused{Name: name, Line: line, Character: char})
	}
}

// UsedOrDefinedGlobals returns the predefined names that were used and
// the names declared with var or function at the top level, in first seen
// order.
func (m *Manager) UsedOrDefinedGlobals() []string {
	return m.usedGlobals.names()
}

// ImpliedGlobals returns the names referenced without any declaration, in
// first seen order.
func (m *Manager) ImpliedGlobals() []ImpliedGlobal {
	var out []ImpliedGlobal
	for _, name := range m.impliedGlobals.names() {
		ig, _ := m.impliedGlobals.get(name)
		out = append(out, ImpliedGlobal{Name: ig.Name, Lines: append([]int(nil), ig.Lines...)})
	}
	return out
}

// Unuseds returns the declarations that were never referenced.
func (m *Manager) Unuseds() []Unused {
	return append([]Unused(nil), m.unuseds...)
}

// IsPredefined reports whether name is predefined and not shadowed by a
// declaration on the stack.
func (m *Manager) IsPredefined(name string) bool {
	_, ok := m.predefined[name]
	return ok && !m.Has(name)
}

// Has reports whether name is declared in any scope on the stack.
func (m *Manager) Has(name string) bool {
	return m.lookup(name) != nil
}

// LabelType returns the type of the innermost declaration of name, or ""
// when there is none.
func (m *Manager) LabelType(name string) LabelType {
	if l := m.lookup(name); l != nil {
		return l.Type
	}
	return ""
}

func (m *Manager) lookup(name string) *Label {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if l, ok := m.stack[i].labels.get(name); ok {
			return l
		}
	}
	return nil
}

// usedSoFarInCurrentFunction returns the usage of name recorded between
// the current scope and the current function body.
func (m *Manager) usedSoFarInCurrentFunction(name string) *Usage {
	for i := len(m.stack) - 1; i >= 0; i-- {
		s := m.stack[i]
		if u, ok := s.usages.get(name); ok {
			return u
		}
		if s == m.currentFunctBody {
			break
		}
	}
	return nil
}

func (m *Manager) warn(code diagnostic.Code, tok *token.Token, data ...string) {
	line, char := position(tok)
	m.sink.Report(diagnostic.Event{Code: code, Line: line, Character: char, Data: data})
}

// position returns the line and the column before leading whitespace of
// tok.
func position(tok *token.Token) (int, int) {
	if tok == nil || tok.Source == nil {
		return 0, 0
	}
	return tok.Source.Line, tok.Source.From
}
