package v3

import (
	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// parsePairedIf mirrors v1's sibling-pairing FSM (spec §4.9) but resolves a
// full condition expression (spec §3.2's ADT) instead of a plain boolean
// literal, since runtime variables are in scope here.
func (t *Transformer) parsePairedIf(children []tsx_ast.JsxChild, i int) (*ir.Node, int, error) {
	el := children[i].Element
	cond, err := t.parseIfCondition(el)
	if err != nil {
		return nil, 0, err
	}
	body, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, 0, err
	}
	node := &ir.Node{Loc: t.loc(el.Loc), Data: ir.If{Condition: cond}, Children: body}

	if i+1 < len(children) && children[i+1].Kind == tsx_ast.ChildElement && children[i+1].Element.Tag == "Else" {
		elseEl := children[i+1].Element
		elseBody, err := t.transformChildren(elseEl.Children)
		if err != nil {
			return nil, 0, err
		}
		ifData := node.Data.(ir.If)
		ifData.ElseBody = elseBody
		node.Data = ifData
		return node, 2, nil
	}
	return node, 1, nil
}

// parseIfCondition reads the `condition` prop: a bare boolean literal
// behaves exactly like v1 (CondLiteral), while an identifier-shaped
// expression container is parsed as a full condition expression.
func (t *Transformer) parseIfCondition(el *tsx_ast.JsxElement) (ir.Condition, error) {
	v := rawAttr(el, "condition")
	if v == nil {
		return ir.Condition{Kind: ir.CondLiteral, Literal: false}, nil
	}
	switch v.Kind {
	case tsx_ast.AttrBoolean, tsx_ast.AttrBooleanShorthand:
		return ir.Condition{Kind: ir.CondLiteral, Literal: v.Bool || v.Kind == tsx_ast.AttrBooleanShorthand}, nil
	default:
		return t.parseCondition(v.Raw, v.Loc)
	}
}

func (t *Transformer) parsePairedOnStatus(children []tsx_ast.JsxChild, i int) (*ir.Node, int, error) {
	el := children[i].Element
	status := stringAttr(el, "status")
	outputRef := stringAttr(el, "output")
	if outputRef == "" {
		outputRef = identAttr(el, "output")
	}
	if outputRef == "" {
		return nil, 0, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<OnStatus> requires an \"output\" prop")
	}
	if err := t.validateOutputRef(outputRef, t.loc(el.Loc)); err != nil {
		return nil, 0, err
	}
	body, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, 0, err
	}
	node := &ir.Node{Loc: t.loc(el.Loc), Data: ir.OnStatus{Status: status, OutputRef: outputRef}, Children: body}

	if i+1 < len(children) && children[i+1].Kind == tsx_ast.ChildElement && children[i+1].Element.Tag == "OnStatusDefault" {
		defEl := children[i+1].Element
		defBody, err := t.transformChildren(defEl.Children)
		if err != nil {
			return nil, 0, err
		}
		defNode := &ir.Node{Loc: t.loc(defEl.Loc), Data: ir.OnStatusDefault{OutputRef: outputRef}, Children: defBody}
		return &ir.Node{Data: ir.Group{}, Children: []*ir.Node{node, defNode}}, 2, nil
	}
	return node, 1, nil
}

// validateOutputRef enforces spec §3.3 invariant 3: an outputRef must name
// a useOutput() declaration visible in the same document.
func (t *Transformer) validateOutputRef(outputRef string, loc *logger.MsgLocation) error {
	for _, d := range t.File.OutputDecls {
		if d.LocalName == outputRef {
			return nil
		}
	}
	return diag.New(diag.UnknownField, loc, "\"output\" references %q, which is not declared by a useOutput() call", outputRef)
}
