package v3

import (
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// handleCall lowers <X.Call args={...} output={var}/> (spec §4.4) into an
// ir.Call node: X is the local identifier bound by `const X = runtimeFn(fn)`,
// so its namespace and resolved function name come from the file's
// runtimeFn table rather than from the tag text itself.
func (t *Transformer) handleCall(el *tsx_ast.JsxElement) (*ir.Node, error) {
	localName := strings.TrimSuffix(el.Tag, ".Call")
	fn, ok := t.fnsByLocal[localName]
	if !ok {
		return nil, diag.New(diag.ParseError, t.loc(el.Loc), "%q does not refer to a runtimeFn binding", localName)
	}

	var args map[string]interface{}
	if v := rawAttr(el, "args"); v != nil && v.Kind == tsx_ast.AttrObjectLiteral {
		obj, err := evalObject(v.Raw)
		if err != nil {
			return nil, diag.New(diag.ParseError, t.loc(v.Loc), "evaluating <%s> args literal: %v", el.Tag, err)
		}
		args = obj
	}

	output := stringAttr(el, "output")
	if output == "" {
		output = identAttr(el, "output")
	}

	namespace := localName
	if fn.ImportPath != "" {
		namespace = runtimeNamespace(fn.ImportPath)
	}

	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Call{
		Namespace: namespace,
		FnName:    fn.FnName,
		Args:      args,
		Output:    output,
	}}, nil
}
