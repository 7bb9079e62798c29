// Copyright © 2024 The ELPS authors

package scope

import (
	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// LookupOptions narrow a function scoped lookup.
type LookupOptions struct {
	// OnlyBlockScoped ignores labels declared with var or function.
	OnlyBlockScoped bool
	// ExcludeParams stops before the function's parameter scope rather
	// than after it.
	ExcludeParams bool
	// ExcludeCurrent starts the search at the parent of the current scope.
	ExcludeCurrent bool
}

// Funct is the view of the manager limited to the current function.
type Funct struct {
	m *Manager
}

// Funct returns the function scoped view of m.
func (m *Manager) Funct() Funct {
	return Funct{m}
}

// LabelType returns the type of the innermost declaration of name within
// the current function, or "".
func (f Funct) LabelType(name string, opts LookupOptions) LabelType {
	stack := f.m.stack
	start := len(stack) - 1
	if opts.ExcludeCurrent {
		start--
	}
	for i := start; i >= 0; i-- {
		s := stack[i]
		if label, ok := s.labels.get(name); ok && (!opts.OnlyBlockScoped || label.BlockScoped) {
			return label.Type
		}
		check := s
		if opts.ExcludeParams {
			check = nil
			if i > 0 {
				check = stack[i-1]
			}
		}
		if check != nil && check.Kind == KindFunctionParams {
			return ""
		}
	}
	return ""
}

// Has reports whether name is declared within the current function.
func (f Funct) Has(name string, opts LookupOptions) bool {
	return f.LabelType(name, opts) != ""
}

// HasBreakLabel reports whether statement label name is visible within the
// current function.
func (f Funct) HasBreakLabel(name string) bool {
	for i := len(f.m.stack) - 1; i >= 0; i-- {
		s := f.m.stack[i]
		if _, ok := s.breakLabels[name]; ok {
			return true
		}
		if s.Kind == KindFunctionParams {
			return false
		}
	}
	return false
}

// Add records a function scoped label in the current scope.  It is hoisted
// to the function body when the enclosing blocks are unstacked.
func (f Funct) Add(name string, typ LabelType, tok *token.Token, unused bool) {
	if f.m.finished {
		return
	}
	f.m.current.labels.set(name, &Label{
		Type:     typ,
		Token:    tok,
		Function: f.m.currentFunctBody,
		Unused:   unused,
	})
}

// Block is the view of the manager limited to the current scope.
type Block struct {
	m *Manager
}

// Block returns the current scope view of m.
func (m *Manager) Block() Block {
	return Block{m}
}

// IsGlobal reports whether the current scope is the global scope.
func (b Block) IsGlobal() bool {
	return b.m.current != nil && b.m.current.Kind == KindGlobal
}

// Use records a reference to name.  A reference to a parameter of the
// current function marks the parameter used unless a block scoped
// declaration shadows it.  tok may be nil to record a usage without a
// position.
func (b Block) Use(name string, tok *token.Token) {
	b.use(name, tok, false)
}

// UseTypeof is like Use for a reference that never produces an undefined
// variable warning, such as the operand of typeof.
func (b Block) UseTypeof(name string, tok *token.Token) {
	b.use(name, tok, true)
}

func (b Block) use(name string, tok *token.Token, forgive bool) {
	m := b.m
	if m.finished {
		return
	}
	if params := m.currentFunctBody.Parent; params != nil {
		if label, ok := params.labels.get(name); ok && label.Type == Param {
			if !m.Funct().Has(name, LookupOptions{ExcludeParams: true, OnlyBlockScoped: true}) {
				label.Unused = false
			}
		}
	}
	usage := b.setupUsage(name)
	if tok == nil {
		return
	}
	usage.Tokens = append(usage.Tokens, &Ref{
		Token:        tok,
		ForgiveUndef: forgive,
		function:     m.currentFunctBody,
		ignoreUndef:  m.st.IsIgnored(string(diagnostic.Undefined)) || !m.st.Option.Undef,
	})
}

// Reassign records an assignment that rebinds name.
func (b Block) Reassign(name string, tok *token.Token) {
	if b.m.finished {
		return
	}
	st := b.m.st
	ref := &Ref{
		Token:      tok,
		function:   b.m.currentFunctBody,
		ignoreW020: st.IsIgnored(string(diagnostic.ReadOnly)),
		ignoreW021: st.IsIgnored(string(diagnostic.Reassignment)),
	}
	usage := b.setupUsage(name)
	usage.Modified = append(usage.Modified, ref)
	usage.Reassigned = append(usage.Reassigned, ref)
}

// Modify records a mutation of name, such as an increment or a compound
// assignment.
func (b Block) Modify(name string, tok *token.Token) {
	if b.m.finished {
		return
	}
	usage := b.setupUsage(name)
	usage.Modified = append(usage.Modified, &Ref{Token: tok, function: b.m.currentFunctBody})
}

func (b Block) setupUsage(name string) *Usage {
	cur := b.m.current
	usage, ok := cur.usages.get(name)
	if !ok {
		usage = &Usage{}
		cur.usages.set(name, usage)
	}
	return usage
}

// Add records a block scoped label in the current scope.
func (b Block) Add(name string, typ LabelType, tok *token.Token, unused bool) {
	if b.m.finished {
		return
	}
	b.m.current.labels.set(name, &Label{
		Type:        typ,
		Token:       tok,
		BlockScoped: true,
		Unused:      unused,
	})
}

// AddBreakLabel records a statement label in the current scope.  Statement
// labels live in their own namespace.
func (b Block) AddBreakLabel(name string, tok *token.Token) {
	m := b.m
	if m.finished {
		return
	}
	if m.Funct().HasBreakLabel(name) {
		m.warn(diagnostic.AlreadyDeclared, tok, name)
	} else if m.st.Option.Shadow == state.ShadowOuter {
		if m.Funct().Has(name, LookupOptions{}) {
			m.warn(diagnostic.AlreadyDefined, tok, name)
		} else {
			m.checkOuterShadow(name, tok)
		}
	}
	m.current.breakLabels[name] = tok
}
