// Copyright © 2024 The ELPS authors

package scope

import (
	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// AddLabel declares name with the given type in the current scope (let,
// const and class) or the current function (var and function).
func (m *Manager) AddLabel(name string, typ LabelType, tok *token.Token) {
	if m.finished {
		return
	}
	blockScoped := typ.IsBlockScoped()
	owner := m.currentFunctBody
	if blockScoped {
		owner = m.current
	}
	isExported := owner.Kind == KindGlobal && m.exported[name]

	m.checkOuterShadow(name, tok)

	if blockScoped {
		declaredHere := m.current.labels.has(name)
		if !declaredHere && m.current == m.currentFunctBody && m.current.Kind != KindGlobal {
			declaredHere = m.currentFunctBody.Parent.labels.has(name)
		}
		if !declaredHere {
			if usage, ok := m.current.usages.get(name); ok {
				if usage.OnlyUsedSubFunction {
					m.latedefWarning(typ, name, tok)
				} else {
					m.warn(diagnostic.UsedBeforeDeclared, tok, name, string(typ))
				}
			}
		}
		if declaredHere {
			m.warn(diagnostic.AlreadyDeclared, tok, name)
		} else if m.st.Option.Shadow == state.ShadowOuter && m.Funct().Has(name, LookupOptions{}) {
			m.warn(diagnostic.AlreadyDefined, tok, name)
		}
		m.Block().Add(name, typ, tok, !isExported)
		return
	}

	declaredInFunction := m.Funct().Has(name, LookupOptions{})
	if !declaredInFunction && m.usedSoFarInCurrentFunction(name) != nil {
		m.latedefWarning(typ, name, tok)
	}
	if m.Funct().Has(name, LookupOptions{OnlyBlockScoped: true}) {
		m.warn(diagnostic.AlreadyDeclared, tok, name)
	} else if m.st.Option.Shadow != state.ShadowAllow &&
		declaredInFunction && m.currentFunctBody.Kind != KindGlobal {
		m.warn(diagnostic.AlreadyDefined, tok, name)
	}
	m.Funct().Add(name, typ, tok, !isExported)
	if m.currentFunctBody.Kind == KindGlobal {
		m.usedGlobals.set(name, struct{}{})
	}
}

// AddParam declares a parameter in the current parameter scope.  A
// repeated name is only flagged; ValidateParams reports it once the
// function's strictness is known.  A catch binding uses type Exception.
func (m *Manager) AddParam(name string, tok *token.Token, typ LabelType) {
	if m.finished {
		return
	}
	if typ == "" {
		typ = Param
	}
	if typ == Exception {
		prev := m.Funct().LabelType(name, LookupOptions{})
		if prev != "" && prev != Exception && !m.st.Option.Node {
			m.warn(diagnostic.IEOverwrite, tok, name)
		}
	}
	if label, ok := m.current.labels.get(name); ok {
		label.Duplicated = true
	} else {
		m.checkOuterShadow(name, tok)
		m.current.labels.set(name, &Label{Type: typ, Token: tok, Unused: true})
		m.current.params = append(m.current.params, name)
	}
	if usage, ok := m.current.usages.get(name); ok {
		if usage.OnlyUsedSubFunction {
			m.latedefWarning(typ, name, tok)
		} else {
			m.warn(diagnostic.UsedBeforeDeclared, tok, name, string(typ))
		}
	}
}

// ValidateParams reports duplicated parameters of the current function.
// It is an error in strict mode code and a warning otherwise.
func (m *Manager) ValidateParams() {
	if m.finished || m.currentFunctBody.Kind == KindGlobal {
		return
	}
	params := m.currentFunctBody.Parent
	if params == nil || params.params == nil {
		return
	}
	strict := m.st.IsStrict()
	for _, name := range params.params {
		label, _ := params.labels.get(name)
		if label == nil || !label.Duplicated {
			continue
		}
		if strict {
			m.warn(diagnostic.AlreadyDeclared, label.Token, name)
		} else if m.st.Option.Shadow != state.ShadowAllow {
			m.warn(diagnostic.AlreadyDefined, label.Token, name)
		}
	}
}

// AddExported exempts name from unused reporting.  The name is looked up
// in the declared set, then the global scope, then the enclosing untyped
// blocks.  Otherwise it is remembered so that a later top level
// declaration is not reported.
func (m *Manager) AddExported(name string) {
	if len(m.stack) == 0 {
		return
	}
	if _, ok := m.declared[name]; ok {
		delete(m.declared, name)
		return
	}
	if label, ok := m.stack[0].labels.get(name); ok {
		label.Unused = false
		return
	}
	for _, s := range m.stack[1:] {
		if s.Kind != KindBlock {
			break
		}
		if label, ok := s.labels.get(name); ok && !label.BlockScoped {
			label.Unused = false
			return
		}
	}
	m.exported[name] = true
}

// SetExported marks name as used by an export statement at tok.
func (m *Manager) SetExported(name string, tok *token.Token) {
	m.Block().Use(name, tok)
}

// checkOuterShadow warns when name shadows a label outside the current
// function, or any statement label.  It only runs under the outer shadow
// policy.
func (m *Manager) checkOuterShadow(name string, tok *token.Token) {
	if m.st.Option.Shadow != state.ShadowOuter {
		return
	}
	isGlobal := m.currentFunctBody.Kind == KindGlobal
	isNewFunction := m.current.Kind == KindFunctionParams
	outside := !isGlobal
	for i, s := range m.stack {
		if !isNewFunction && i+1 < len(m.stack) && m.stack[i+1] == m.currentFunctBody {
			outside = false
		}
		if outside && s.labels.has(name) {
			m.warn(diagnostic.OuterShadow, tok, name)
		}
		if _, ok := s.breakLabels[name]; ok {
			m.warn(diagnostic.OuterShadow, tok, name)
		}
	}
}

// latedefWarning reports a use before definition.  Functions are exempt
// under the nofunc policy.
func (m *Manager) latedefWarning(typ LabelType, name string, tok *token.Token) {
	switch m.st.Option.Latedef {
	case state.LatedefOff:
		return
	case state.LatedefNoFunc:
		if typ == Function {
			return
		}
	}
	m.warn(diagnostic.UsedBeforeDefined, tok, name)
}
