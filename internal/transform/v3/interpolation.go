package v3

import (
	"strconv"
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/fieldpath"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/logger"
)

// parseRuntimeRef parses a dotted/indexed runtime variable reference (spec
// §3.2's runtimeVarRef), e.g. "ctx.phase.id" or "ctx.items[0].name", and
// validates the path structurally against the declaring useRuntimeVar's
// type text (spec §4.5), reporting UnknownField on the first step that
// cannot be resolved.
func (t *Transformer) parseRuntimeRef(raw string, loc logger.Range) (*ir.RuntimeVarRef, error) {
	segs, err := splitPath(raw)
	if err != nil || len(segs) == 0 {
		return nil, diag.New(diag.ParseError, t.loc(loc), "unable to parse runtime variable reference %q", raw)
	}
	localName := segs[0].name
	decl, ok := t.varsByLocal[localName]
	if !ok {
		return nil, diag.New(diag.ParseError, t.loc(loc), "%q does not refer to a useRuntimeVar binding", localName)
	}

	ref := &ir.RuntimeVarRef{VarName: decl.VarName}
	var fsteps []fieldpath.Step
	for _, s := range segs[1:] {
		ref.Path = append(ref.Path, ir.PathStep{Name: s.name, IsIndex: s.isIndex, Index: s.index})
		fsteps = append(fsteps, fieldpath.Step{Name: s.name, IsIndex: s.isIndex})
	}

	if shape, ok := t.shapes[decl.VarName]; ok {
		if ok, bad := fieldpath.Validate(shape, fsteps); !ok {
			return nil, diag.New(diag.UnknownField, t.loc(loc), "%q is not a field of %s (runtime variable %q)", bad, decl.TypeText, localName)
		}
	}
	return ref, nil
}

type pathSeg struct {
	name    string
	isIndex bool
	index   int
}

// splitPath tokenizes a path expression like "ctx.items[0].name" into
// segments. It intentionally accepts only the closed grammar runtime
// variable references use: identifiers, '.', and '[<digits>]'.
func splitPath(raw string) ([]pathSeg, error) {
	raw = strings.TrimSpace(raw)
	var segs []pathSeg
	i := 0
	for i < len(raw) {
		switch {
		case raw[i] == '.':
			i++
		case raw[i] == '[':
			j := strings.IndexByte(raw[i:], ']')
			if j < 0 {
				return nil, strconvErr(raw)
			}
			numText := raw[i+1 : i+j]
			n, err := strconv.Atoi(strings.TrimSpace(numText))
			if err != nil {
				return nil, err
			}
			segs = append(segs, pathSeg{isIndex: true, index: n})
			i += j + 1
		case isIdentByte(raw[i], true):
			start := i
			i++
			for i < len(raw) && isIdentByte(raw[i], false) {
				i++
			}
			segs = append(segs, pathSeg{name: raw[start:i]})
		default:
			i++
		}
	}
	return segs, nil
}

func isIdentByte(c byte, start bool) bool {
	if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	if !start && c >= '0' && c <= '9' {
		return true
	}
	return false
}

func strconvErr(raw string) error {
	return &pathParseError{raw}
}

type pathParseError struct{ raw string }

func (e *pathParseError) Error() string { return "malformed runtime variable path: " + e.raw }
