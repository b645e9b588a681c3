// Package fieldpath implements spec §4.5's structural field-path
// validation: given the raw text of an annotated TypeScript type and a
// dotted/indexed path extracted from a runtimeVarRef, decide whether the
// path is a valid member path through that type — without a general type
// checker, per spec §1's non-goals.
package fieldpath

import "strings"

// ShapeKind classifies the mini schema parsed out of a type's text.
type ShapeKind int

const (
	ShapeObject ShapeKind = iota
	ShapeArray
	ShapePrimitive
	ShapeUnknown // unrecognized shape: "any further path accepted" (§4.5)
)

type Shape struct {
	Kind     ShapeKind
	Fields   map[string]Shape // ShapeObject
	Element  *Shape           // ShapeArray
	unionHadMultipleNonNull bool
}

var primitives = map[string]bool{"string": true, "number": true, "boolean": true}

// Parse builds a Shape from a raw type-text string (as captured by
// tsx_parser's captureTypeText), resolving it against the declaring
// file's type aliases so `type T = {...}` can be referenced by name.
func Parse(typeText string, aliases map[string]string) Shape {
	return parseType(typeText, aliases, 0)
}

func parseType(text string, aliases map[string]string, depth int) Shape {
	text = strings.TrimSpace(text)
	if depth > 32 || text == "" {
		return Shape{Kind: ShapeUnknown}
	}

	// Union: split on top-level '|'. "A | null" / "A | undefined" resolve
	// to A's shape (Open Question #3 in DESIGN.md); a union with more than
	// one non-null/undefined branch degrades to ShapeUnknown.
	if branches := splitTopLevel(text, '|'); len(branches) > 1 {
		var nonNull []string
		for _, b := range branches {
			b = strings.TrimSpace(b)
			if b == "null" || b == "undefined" {
				continue
			}
			nonNull = append(nonNull, b)
		}
		if len(nonNull) == 1 {
			return parseType(nonNull[0], aliases, depth+1)
		}
		return Shape{Kind: ShapeUnknown, unionHadMultipleNonNull: true}
	}

	// Array: "S[]".
	if strings.HasSuffix(text, "[]") {
		elem := parseType(text[:len(text)-2], aliases, depth+1)
		return Shape{Kind: ShapeArray, Element: &elem}
	}
	if strings.HasPrefix(text, "Array<") && strings.HasSuffix(text, ">") {
		elem := parseType(text[len("Array<"):len(text)-1], aliases, depth+1)
		return Shape{Kind: ShapeArray, Element: &elem}
	}

	// Object literal: "{ k: T; k2?: T2 }".
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return Shape{Kind: ShapeObject, Fields: parseObjectFields(text[1:len(text)-1], aliases, depth)}
	}

	if primitives[text] {
		return Shape{Kind: ShapePrimitive}
	}

	// Named alias lookup (e.g. a `type Phase = {...}` referenced by name).
	if aliasText, ok := aliases[text]; ok && aliasText != text {
		return parseType(aliasText, aliases, depth+1)
	}

	return Shape{Kind: ShapeUnknown}
}

func parseObjectFields(body string, aliases map[string]string, depth int) map[string]Shape {
	fields := map[string]Shape{}
	for _, stmt := range splitTopLevel(body, ';', ',') {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		colon := indexTopLevel(stmt, ':')
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(stmt[:colon])
		name = strings.TrimSuffix(name, "?")
		typeText := strings.TrimSpace(stmt[colon+1:])
		fields[name] = parseType(typeText, aliases, depth+1)
	}
	return fields
}

// splitTopLevel splits text on any of seps, ignoring occurrences nested
// inside (), [], {}, or <>.
func splitTopLevel(text string, seps ...rune) []string {
	var parts []string
	depth := 0
	last := 0
	isSep := func(r rune) bool {
		for _, s := range seps {
			if r == s {
				return true
			}
		}
		return false
	}
	for i, r := range text {
		switch r {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		default:
			if depth == 0 && isSep(r) {
				parts = append(parts, text[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, text[last:])
	return parts
}

func indexTopLevel(text string, sep rune) int {
	depth := 0
	for i, r := range text {
		switch r {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		default:
			if depth == 0 && r == sep {
				return i
			}
		}
	}
	return -1
}

// Step is one segment of a runtimeVarRef path: either a member name
// (`.phase`) or a numeric index (`[0]`).
type Step struct {
	Name    string
	IsIndex bool
	Index   int
}

// Validate walks path through shape and reports the first step that
// cannot be resolved, if any. ok is true when every step resolved (or the
// walk entered an ShapeUnknown region, which accepts any further path per
// §4.5).
func Validate(shape Shape, path []Step) (ok bool, badStep string) {
	cur := shape
	for _, step := range path {
		switch cur.Kind {
		case ShapeUnknown:
			return true, ""
		case ShapeArray:
			if !step.IsIndex {
				return false, step.Name
			}
			if cur.Element == nil {
				return true, ""
			}
			cur = *cur.Element
		case ShapeObject:
			if step.IsIndex {
				return false, "[]"
			}
			next, found := cur.Fields[step.Name]
			if !found {
				return false, step.Name
			}
			cur = next
		case ShapePrimitive:
			return false, step.Name
		}
	}
	return true, ""
}
