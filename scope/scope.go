// Copyright © 2024 The ELPS authors

package scope

import "github.com/luthersystems/jsvet/parser/token"

// Kind classifies a scope on the manager's stack.
type Kind string

const (
	KindBlock          Kind = "" // untyped block, including function bodies
	KindGlobal         Kind = "global"
	KindFunctionParams Kind = "functionparams"
	KindFunctionOuter  Kind = "functionouter" // holds a named function expression's own name
	KindCatchParams    Kind = "catchparams"
)

func (k Kind) String() string {
	if k == KindBlock {
		return "block"
	}
	return string(k)
}

// LabelType is the declared kind of a binding.
type LabelType string

const (
	Var       LabelType = "var"
	Let       LabelType = "let"
	Const     LabelType = "const"
	Class     LabelType = "class"
	Function  LabelType = "function"
	Param     LabelType = "param"
	Exception LabelType = "exception"
)

// IsBlockScoped reports whether bindings of this type are scoped to the
// enclosing block rather than the enclosing function.
func (typ LabelType) IsBlockScoped() bool {
	return typ == Let || typ == Const || typ == Class
}

// Label is a declaration of a name within a scope.
type Label struct {
	Type        LabelType
	Token       *token.Token
	BlockScoped bool
	Unused      bool
	// Duplicated is set on parameters declared more than once in the same
	// parameter list.
	Duplicated bool
	// Function is the function body scope the label was declared in.  It
	// is nil for block scoped labels and parameters.
	Function *Scope
	// UseOutsideOfScope is set on a hoisted var whose name is not otherwise
	// visible in the enclosing function.
	UseOutsideOfScope bool
}

// Ref is one recorded reference to a name.
type Ref struct {
	Token *token.Token
	// ForgiveUndef marks references, such as the operand of typeof, that
	// never produce an undefined variable warning.
	ForgiveUndef bool

	function    *Scope
	ignoreUndef bool
	ignoreW020  bool
	ignoreW021  bool
}

// Usage records the references to a name seen in a scope that has not yet
// resolved them.
type Usage struct {
	Modified   []*Ref
	Reassigned []*Ref
	Tokens     []*Ref
	// OnlyUsedSubFunction is true while every reference so far came from
	// a nested function.
	OnlyUsedSubFunction bool
}

func (u *Usage) merge(other *Usage) {
	u.Modified = append(u.Modified, other.Modified...)
	u.Tokens = append(u.Tokens, other.Tokens...)
	u.Reassigned = append(u.Reassigned, other.Reassigned...)
	u.OnlyUsedSubFunction = false
}

// Scope is one entry on the manager's scope stack.
type Scope struct {
	Kind   Kind
	Parent *Scope

	labels      *ordered[*Label]
	usages      *ordered[*Usage]
	breakLabels map[string]*token.Token
	params      []string

	isFuncBody bool
	// context is the function body that was current when this body was
	// pushed.
	context *Scope
}

func newScope(kind Kind, parent *Scope) *Scope {
	return &Scope{
		Kind:        kind,
		Parent:      parent,
		labels:      newOrdered[*Label](),
		usages:      newOrdered[*Usage](),
		breakLabels: make(map[string]*token.Token),
	}
}

// IsFunctionBody reports whether the scope is the body of a function.
func (s *Scope) IsFunctionBody() bool {
	return s.isFuncBody
}

// Label returns the label declared for name in this scope, or nil.
func (s *Scope) Label(name string) *Label {
	l, _ := s.labels.get(name)
	return l
}

// LabelNames returns the names declared in this scope in declaration order.
func (s *Scope) LabelNames() []string {
	return s.labels.names()
}

// Usage returns the unresolved usage of name recorded in this scope, or
// nil.
func (s *Scope) Usage(name string) *Usage {
	u, _ := s.usages.get(name)
	return u
}

// UsageNames returns the names with unresolved usages in first use order.
func (s *Scope) UsageNames() []string {
	return s.usages.names()
}

// BreakLabel returns the token declaring statement label name, or nil.
func (s *Scope) BreakLabel(name string) *token.Token {
	return s.breakLabels[name]
}

// Params returns the parameter names of a parameter scope in declaration
// order.
func (s *Scope) Params() []string {
	return append([]string(nil), s.params...)
}

// ordered is a string keyed map that remembers insertion order, so that
// diagnostics produced by iterating it are deterministic.
type ordered[V any] struct {
	keys []string
	m    map[string]V
}

func newOrdered[V any]() *ordered[V] {
	return &ordered[V]{m: make(map[string]V)}
}

func (o *ordered[V]) get(k string) (V, bool) {
	v, ok := o.m[k]
	return v, ok
}

func (o *ordered[V]) has(k string) bool {
	_, ok := o.m[k]
	return ok
}

func (o *ordered[V]) set(k string, v V) {
	if _, ok := o.m[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.m[k] = v
}

func (o *ordered[V]) remove(k string) {
	if _, ok := o.m[k]; !ok {
		return
	}
	delete(o.m, k)
	for i, key := range o.keys {
		if key == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *ordered[V]) names() []string {
	return append([]string(nil), o.keys...)
}

func (o *ordered[V]) len() int {
	return len(o.keys)
}
