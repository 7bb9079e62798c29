// Copyright © 2024 The ELPS authors

package walker

import (
	"maps"

	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/scope"
)

type frameKind int

const (
	globalFrame frameKind = iota
	blockFrame
	bodyFrame
	objectFrame
	classFrame
	arrowFrame
	forFrame
)

// frame is an open brace, function body or other region that changes how
// tokens are read.  Frames and scopes are distinct: object literals and
// class bodies open frames but no scope.
type frame struct {
	kind frameKind
	// scopes is the number of scopes unstacked when the frame closes.
	scopes int
	// depth counts the parentheses and brackets open directly inside the
	// frame.
	depth int
	// closeWithChild closes the frame together with its next child.
	closeWithChild bool

	prologue   bool
	validated  bool
	directives map[string]bool
	inClass    bool

	// headDone is set on a for frame once its parenthesized head closes.
	headDone bool

	decl *declaration
}

// declaration tracks an open var, let or const statement.
type declaration struct {
	typ    scope.LabelType
	depth  int
	expect bool // the next identifier is a binding
	init   bool // inside an initializer
	export bool
}

// names that are parsed as values rather than as references.
var reservedValues = map[string]bool{
	"arguments": true,
	"eval":      true,
	"Infinity":  true,
	"undefined": true,
}

var compoundAssignments = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
}

func (w *Walker) top() *frame {
	return w.frames[len(w.frames)-1]
}

func (w *Walker) push(f *frame) {
	w.frames = append(w.frames, f)
}

func (w *Walker) unstack(n int) {
	for i := 0; i < n; i++ {
		w.scope.Unstack()
	}
}

// closeFrame pops the innermost frame and unstacks its scopes.
func (w *Walker) closeFrame() {
	f := w.top()
	if f.kind == globalFrame {
		return
	}
	w.frames = w.frames[:len(w.frames)-1]
	if f.kind == bodyFrame && !f.validated {
		w.scope.ValidateParams()
	}
	w.unstack(f.scopes)
	if f.directives != nil {
		w.st.Directive = f.directives
	}
	if f.kind == classFrame {
		w.st.InClassBody = f.inClass
	}
	if w.top().closeWithChild {
		w.closeFrame()
	}
}

func (w *Walker) finish() {
	for len(w.frames) > 1 {
		w.closeFrame()
	}
	w.scope.Unstack()
}

// handle interprets the current token.
func (w *Walker) handle(tok *token.Token) {
	f := w.top()
	switch f.kind {
	case arrowFrame:
		if w.endsArrow(tok, f) {
			w.closeFrame()
			w.handle(tok)
			return
		}
	case forFrame:
		if f.headDone && f.depth == 0 && tok.Is("}") {
			w.closeFrame()
			w.handle(tok)
			return
		}
	}

	w.directivePrologue(tok, f)
	if w.declaration(tok, f) {
		return
	}
	if (f.kind == objectFrame || f.kind == classFrame) && f.depth == 0 && w.atKey(f) && w.member(tok, f) {
		return
	}

	switch tok.Type {
	case token.PUNCTUATOR:
		w.punctuator(tok, f)
	case token.KEYWORD:
		w.keyword(tok, f)
	case token.IDENTIFIER:
		w.identifier(tok, f)
	}
}

// directivePrologue records string directives at the start of a program or
// function body.  Parameters are validated once the body's strictness is
// known.
func (w *Walker) directivePrologue(tok *token.Token, f *frame) {
	if !f.prologue {
		return
	}
	if tok.Type == token.STRING {
		next := w.peek(0)
		if next.Is(";") || next.Is("}") || isEnd(next) || next.Source.Line > tok.Source.Line {
			w.st.Directive[tok.Value] = true
			return
		}
	} else if tok.Is(";") && w.prev != nil && w.prev.Type == token.STRING {
		return
	}
	f.prologue = false
	if f.kind == bodyFrame && !f.validated {
		f.validated = true
		w.scope.ValidateParams()
	}
}

// declaration advances an open var, let or const statement.  It reports
// whether tok was consumed as part of a binding.
func (w *Walker) declaration(tok *token.Token, f *frame) bool {
	d := f.decl
	if d == nil || f.depth != d.depth {
		return false
	}
	switch {
	case tok.Is(";") || tok.Is("in") || tok.Is(")"):
		f.decl = nil
		return false
	case tok.Is(","):
		d.expect = true
		d.init = false
		return true
	case tok.Is("="):
		d.expect = false
		d.init = true
		return true
	case tok.Type == token.IDENTIFIER && tok.Value == "of" && !d.expect && !d.init:
		f.decl = nil
		return true
	case w.newline && !d.expect && !continues(w.prev):
		f.decl = nil
		return false
	}
	if !d.expect {
		return false
	}
	switch {
	case tok.Type == token.IDENTIFIER:
		d.expect = false
		w.scope.AddLabel(tok.Value, d.typ, tok)
		if d.export {
			w.scope.SetExported(tok.Value, tok)
		}
		return true
	case tok.Is("{") || tok.Is("["):
		d.expect = false
		w.pattern(tok, func(id *token.Token) {
			w.scope.AddLabel(id.Value, d.typ, id)
			if d.export {
				w.scope.SetExported(id.Value, id)
			}
		})
		return true
	}
	return false
}

// continues reports whether an expression cannot end after tok, so that a
// following line break does not terminate the statement.
func continues(tok *token.Token) bool {
	if tok == nil {
		return false
	}
	switch tok.Type {
	case token.PUNCTUATOR:
		return !tok.Is(")") && !tok.Is("]") && !tok.Is("}")
	case token.KEYWORD:
		return !tok.Is("this") && !tok.Is("super")
	}
	return false
}

// patternLevel is one bracket of a binding pattern.
type patternLevel struct {
	inherited bool
	def       bool
	object    bool
}

// pattern consumes a parameter list or destructuring pattern opened by
// open, calling bind for each bound identifier.  Identifiers in default
// values are references.
func (w *Walker) pattern(open *token.Token, bind func(*token.Token)) {
	levels := []patternLevel{{object: open.Is("{")}}
	for len(levels) > 0 {
		if isEnd(w.peek(0)) {
			return
		}
		tok := w.next()
		top := &levels[len(levels)-1]
		switch {
		case tok.Is("{") || tok.Is("[") || tok.Is("("):
			levels = append(levels, patternLevel{inherited: top.def, def: top.def, object: tok.Is("{")})
		case tok.Is("}") || tok.Is("]") || tok.Is(")"):
			levels = levels[:len(levels)-1]
		case tok.Is("="):
			top.def = true
		case tok.Is(","):
			top.def = top.inherited
		case tok.Type == token.IDENTIFIER && !tok.IsProperty:
			switch {
			case top.object && w.peek(0).Is(":"):
			case top.def:
				w.reference(tok)
			default:
				bind(tok)
			}
		}
	}
}

// atStatementStart reports whether the current token begins a statement.
func (w *Walker) atStatementStart() bool {
	p := w.prev
	if p != nil && p.Type == token.IDENTIFIER && p.Value == "async" {
		p = w.prev2
	}
	if p == nil {
		return true
	}
	if p.Is(";") || p.Is("{") || p.Is("}") {
		return w.top().kind != objectFrame && w.top().kind != classFrame
	}
	switch p.Value {
	case "export", "default", "else", "do":
		if p.Type == token.KEYWORD {
			return true
		}
	}
	return w.newline && !continues(p)
}

// blockStart reports whether a '{' opens a block rather than an object
// literal.
func (w *Walker) blockStart() bool {
	p := w.prev
	if p == nil {
		return true
	}
	switch p.Type {
	case token.PUNCTUATOR:
		switch p.Value {
		case ";", "{", "}", ")":
			return true
		case ":":
			return w.top().kind != objectFrame
		}
		return false
	case token.KEYWORD:
		switch p.Value {
		case "else", "try", "finally", "do", "catch":
			return true
		}
		return false
	}
	return w.newline
}

// atKey reports whether the current token is in property name position
// of an object literal or class body.
func (w *Walker) atKey(f *frame) bool {
	p := w.prev
	if p == nil {
		return false
	}
	if p.Is("*") {
		return true
	}
	if p.Type == token.IDENTIFIER {
		switch p.Value {
		case "get", "set", "async", "static":
			return true
		}
	}
	if f.kind == objectFrame {
		return p.Is("{") || p.Is(",")
	}
	return p.Is("{") || p.Is("}") || p.Is(";") || w.newline
}

// member handles a property name in an object literal or class body.  It
// reports whether tok was consumed.
func (w *Walker) member(tok *token.Token, f *frame) bool {
	switch tok.Type {
	case token.IDENTIFIER, token.KEYWORD, token.STRING, token.NUMBER, token.BOOLEAN, token.NULL:
	default:
		return false
	}
	next := w.peek(0)
	switch {
	case next.Is("("):
		w.next()
		w.openParams(w.cur, false)
		return true
	case f.kind == objectFrame && next.Is(":"):
		return true
	case f.kind == classFrame:
		return true
	}
	if tok.Type == token.IDENTIFIER {
		switch tok.Value {
		case "get", "set", "async":
			return next.IsIdentifierLike() || next.Type == token.STRING || next.Is("[") || next.Is("*")
		}
	}
	return false
}

func (w *Walker) punctuator(tok *token.Token, f *frame) {
	switch tok.Value {
	case "{":
		w.openBrace()
	case "}":
		w.closeBrace()
	case "(":
		if w.arrowParams() {
			w.scope.Stack(scope.KindFunctionParams)
			w.pattern(tok, w.addParam)
			w.closeParams(1, true)
			return
		}
		f.depth++
	case "[":
		f.depth++
	case ")", "]":
		if f.depth > 0 {
			f.depth--
		}
		if f.kind == forFrame && !f.headDone && f.depth == 0 {
			f.headDone = true
			f.closeWithChild = w.peek(0).Is("{")
		}
	case ";":
		if f.kind == forFrame && f.headDone && f.depth == 0 {
			w.closeFrame()
		}
	}
}

func (w *Walker) openBrace() {
	switch {
	case w.classPending:
		w.classPending = false
		w.push(&frame{kind: classFrame, inClass: w.st.InClassBody})
		w.st.InClassBody = true
	case w.blockStart():
		w.scope.Stack(scope.KindBlock)
		w.push(&frame{kind: blockFrame, scopes: 1})
	default:
		w.push(&frame{kind: objectFrame})
	}
}

func (w *Walker) closeBrace() {
	for {
		f := w.top()
		switch f.kind {
		case globalFrame:
			return
		case arrowFrame, forFrame:
			w.closeFrame()
			continue
		}
		w.closeFrame()
		return
	}
}

// arrowParams reports whether the '(' just consumed opens the parameter
// list of an arrow function.
func (w *Walker) arrowParams() bool {
	depth := 1
	for i := 0; ; i++ {
		t := w.peek(i)
		switch {
		case isEnd(t):
			return false
		case t.Is("("):
			depth++
		case t.Is(")"):
			depth--
			if depth == 0 {
				return w.peek(i + 1).Is("=>")
			}
		}
	}
}

// endsArrow reports whether tok ends the expression body of an arrow
// function.
func (w *Walker) endsArrow(tok *token.Token, f *frame) bool {
	if f.depth > 0 {
		return false
	}
	switch tok.Type {
	case token.TEMPLATE_MIDDLE, token.TEMPLATE_TAIL:
		return true
	case token.PUNCTUATOR:
		switch tok.Value {
		case ")", "]", "}", ",", ";":
			return true
		}
	case token.IDENTIFIER, token.KEYWORD:
		return w.newline && !continues(w.prev)
	}
	return false
}

func (w *Walker) addParam(tok *token.Token) {
	w.scope.AddParam(tok.Value, tok, scope.Param)
}

// openParams stacks the parameter scope of a function whose '(' is the
// current token and reads the parameter list.
func (w *Walker) openParams(open *token.Token, outer bool) {
	w.scope.Stack(scope.KindFunctionParams)
	scopes := 1
	if outer {
		scopes++
	}
	w.pattern(open, w.addParam)
	w.closeParams(scopes, false)
}

// closeParams opens the body of a function whose parameter list was just
// read.  scopes counts the function's scopes stacked so far.
func (w *Walker) closeParams(scopes int, arrow bool) {
	if arrow {
		if !w.peek(0).Is("=>") {
			w.unstack(scopes)
			return
		}
		w.next()
		w.arrowBody(scopes)
		return
	}
	if !w.peek(0).Is("{") {
		w.unstack(scopes)
		return
	}
	w.next()
	w.openBody(scopes)
}

func (w *Walker) openBody(scopes int) {
	w.scope.Stack(scope.KindBlock)
	w.push(&frame{
		kind:       bodyFrame,
		scopes:     scopes + 1,
		prologue:   true,
		directives: maps.Clone(w.st.Directive),
	})
}

func (w *Walker) arrowBody(scopes int) {
	if w.peek(0).Is("{") {
		w.next()
		w.openBody(scopes)
		return
	}
	w.scope.Stack(scope.KindBlock)
	w.scope.ValidateParams()
	w.push(&frame{kind: arrowFrame, scopes: scopes + 1})
}

func (w *Walker) keyword(tok *token.Token, f *frame) {
	switch tok.Value {
	case "function":
		w.function()
	case "var", "let", "const":
		f.decl = &declaration{
			typ:    scope.LabelType(tok.Value),
			depth:  f.depth,
			expect: true,
			export: w.exporting,
		}
	case "class":
		w.class()
	case "catch":
		if w.peek(0).Is("(") {
			open := w.next()
			w.scope.Stack(scope.KindCatchParams)
			w.pattern(open, func(id *token.Token) {
				w.scope.AddParam(id.Value, id, scope.Exception)
			})
			if w.peek(0).Is("{") {
				w.next()
				w.scope.Stack(scope.KindBlock)
				w.push(&frame{kind: blockFrame, scopes: 2})
			} else {
				w.unstack(1)
			}
		}
	case "for":
		if w.peek(0).Is("(") {
			w.next()
			w.scope.Stack(scope.KindBlock)
			w.push(&frame{kind: forFrame, scopes: 1, depth: 1})
		}
	case "import":
		w.importDeclaration()
	case "export":
		if w.peek(0).Is("{") {
			w.exportList()
			return
		}
		w.exporting = true
	}
}

// function handles the function keyword.
func (w *Walker) function() {
	declaration := w.atStatementStart()
	export := w.exporting
	if w.peek(0).Is("*") {
		w.next()
	}
	var name *token.Token
	if t := w.peek(0); t.Type == token.IDENTIFIER {
		name = w.next()
	}
	if !w.peek(0).Is("(") {
		return
	}
	open := w.next()
	outer := false
	if name != nil {
		if declaration {
			w.scope.AddLabel(name.Value, scope.Function, name)
			if export {
				w.scope.SetExported(name.Value, name)
			}
		} else {
			w.scope.Stack(scope.KindFunctionOuter)
			w.scope.Block().Add(name.Value, scope.Function, name, false)
			outer = true
		}
	}
	w.openParams(open, outer)
}

// class handles the class keyword.  The body is read as a class frame
// once its brace is reached.
func (w *Walker) class() {
	declaration := w.atStatementStart()
	if t := w.peek(0); t.Type == token.IDENTIFIER {
		w.next()
		if declaration {
			w.scope.AddLabel(t.Value, scope.Class, t)
			if w.exporting {
				w.scope.SetExported(t.Value, t)
			}
		}
	}
	w.classPending = true
}

// importDeclaration declares the bindings of an import statement.
func (w *Walker) importDeclaration() {
	if t := w.peek(0); t.Is("(") || t.Is(".") {
		return
	}
	for {
		t := w.peek(0)
		if isEnd(t) || t.Type == token.STRING || t.Is(";") {
			return
		}
		w.next()
		if t.Type != token.IDENTIFIER || t.Value == "as" {
			continue
		}
		next := w.peek(0)
		if t.Value == "from" && next.Type == token.STRING {
			return
		}
		if next.Type == token.IDENTIFIER && next.Value == "as" {
			continue
		}
		w.scope.AddLabel(t.Value, scope.Const, t)
	}
}

// exportList marks the names of an export { a, b as c } clause as used.
func (w *Walker) exportList() {
	w.next()
	for {
		t := w.peek(0)
		if isEnd(t) {
			return
		}
		w.next()
		if t.Is("}") {
			return
		}
		if t.Type == token.IDENTIFIER && t.Value != "as" && !(w.prev != nil && w.prev.Type == token.IDENTIFIER && w.prev.Value == "as") {
			w.scope.SetExported(t.Value, t)
		}
	}
}

func (w *Walker) identifier(tok *token.Token, f *frame) {
	if tok.IsProperty {
		return
	}
	next := w.peek(0)
	if next.Is("=>") {
		w.scope.Stack(scope.KindFunctionParams)
		w.addParam(tok)
		w.closeParams(1, true)
		return
	}
	if w.prev.Is("break") || w.prev.Is("continue") {
		return
	}
	if next.Is(":") && f.kind != objectFrame && f.kind != classFrame && w.atStatementStart() {
		w.scope.Block().AddBreakLabel(tok.Value, tok)
		return
	}
	w.reference(tok)
}

// reference records a use of the identifier tok, followed by a
// modification or reassignment when tok is an assignment target.
func (w *Walker) reference(tok *token.Token) {
	name := tok.Value
	if reservedValues[name] {
		return
	}
	next := w.peek(0)
	block := w.scope.Block()
	switch {
	case w.prev.Is("typeof") && !next.Is(".") && !next.Is("[") && !next.Is("("):
		block.UseTypeof(name, tok)
	case next.Is("="):
		block.Use(name, tok)
		block.Reassign(name, tok)
	case next.Type == token.PUNCTUATOR && compoundAssignments[next.Value]:
		block.Use(name, tok)
		block.Modify(name, tok)
	case next.Is("++") || next.Is("--") || w.prev.Is("++") || w.prev.Is("--"):
		block.Use(name, tok)
		block.Modify(name, tok)
	default:
		block.Use(name, tok)
	}
}
