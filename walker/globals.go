// Copyright © 2024 The ELPS authors

package walker

import "github.com/luthersystems/jsvet/state"

var (
	es3Globals = []string{
		"Array", "Boolean", "Date", "decodeURI", "decodeURIComponent",
		"encodeURI", "encodeURIComponent", "Error", "EvalError", "Function",
		"hasOwnProperty", "isFinite", "isNaN", "Math", "NaN", "Number",
		"Object", "parseInt", "parseFloat", "RangeError", "ReferenceError",
		"RegExp", "String", "SyntaxError", "TypeError", "URIError",
	}
	es5Globals = []string{"JSON"}
	es6Globals = []string{
		"ArrayBuffer", "DataView", "Float32Array", "Float64Array",
		"Int8Array", "Int16Array", "Int32Array", "Map", "Promise", "Proxy",
		"Reflect", "Set", "Symbol", "Uint8Array", "Uint16Array",
		"Uint32Array", "Uint8ClampedArray", "WeakMap", "WeakSet",
	}
	// nodeGlobals maps the Node.js globals to whether they are writable.
	nodeGlobals = map[string]bool{
		"__filename":     false,
		"__dirname":      false,
		"GLOBAL":         false,
		"global":         false,
		"module":         false,
		"require":        false,
		"Buffer":         true,
		"console":        false,
		"exports":        true,
		"process":        false,
		"setTimeout":     false,
		"clearTimeout":   false,
		"setInterval":    false,
		"clearInterval":  false,
		"setImmediate":   false,
		"clearImmediate": false,
	}
)

// StandardGlobals returns the read only built-in globals of the language
// version selected by opts, plus the Node.js globals when opts.Node is set.
// The value reports whether the global may be assigned.
func StandardGlobals(opts state.Options) map[string]bool {
	st := state.State{Option: opts}
	globals := make(map[string]bool)
	add := func(names []string) {
		for _, name := range names {
			globals[name] = false
		}
	}
	add(es3Globals)
	if st.InES5(false) {
		add(es5Globals)
	}
	if st.InES6(false) {
		add(es6Globals)
	}
	if opts.Node {
		for name, writable := range nodeGlobals {
			globals[name] = writable
		}
	}
	return globals
}
