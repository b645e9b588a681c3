// Package literaleval evaluates the object/array-literal and scalar
// JavaScript-expression text captured from a JSX attribute's `{...}`
// container (spec §4.1's "JSX expression with object literal" / "array
// literal" value forms) into a generic Go value, using a real sandboxed JS
// VM instead of a second hand-rolled expression grammar.
//
// Grounded on victorzhuk-go-ent/internal/execution/codemode.go, which uses
// the same goja.New()+vm.Set(nil globals)+vm.RunString()+.Export() shape
// to run untrusted script text.
package literaleval

import (
	"fmt"

	"github.com/dop251/goja"
)

// Eval parses and evaluates raw (the text between an attribute's `{` and
// `}`, e.g. `{name: "researcher", retries: 3}` or `["a", "b"]`) and
// returns the resulting Go value: map[string]interface{}, []interface{},
// string, float64, bool, or nil.
//
// Callers pass the text of object- and array-literal attribute values;
// spec §1 rules out general JSX-expression interpretation. The sandbox
// blanks require, process and global, but the ECMAScript built-ins goja
// provides (Object, Math, JSON, ...) stay reachable, and raw is not
// checked to be a pure literal before it runs.
func Eval(raw string) (interface{}, error) {
	vm := goja.New()
	_ = vm.Set("require", goja.Undefined())
	_ = vm.Set("process", goja.Undefined())
	_ = vm.Set("global", goja.Undefined())

	// Wrapping in parens disambiguates `{...}` as an object-literal
	// expression rather than a block statement, the same ambiguity
	// JavaScript itself resolves this way at the top of a statement.
	script := "(" + raw + ")"
	value, err := vm.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("literaleval: evaluating %q: %w", raw, err)
	}
	return value.Export(), nil
}

// EvalObject is a convenience wrapper for the common case (SpawnAgent's
// `input={{...}}`): it requires the result to be a JSON-object-shaped map.
func EvalObject(raw string) (map[string]interface{}, error) {
	v, err := Eval(raw)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("literaleval: expected an object literal, got %T", v)
	}
	return m, nil
}

// EvalArray is the array-literal analogue of EvalObject (used by
// AskUser's `options={[...]}`).
func EvalArray(raw string) ([]interface{}, error) {
	v, err := Eval(raw)
	if err != nil {
		return nil, err
	}
	a, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("literaleval: expected an array literal, got %T", v)
	}
	return a, nil
}
