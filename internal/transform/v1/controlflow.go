package v1

import (
	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// parsePairedIf and parsePairedOnStatus implement the lookahead rule from
// spec §4.9: when the driver emits a pairable node, it looks ahead past
// whitespace-only text (already dropped by the front-end, spec §4.1) to
// the next sibling; if it matches the partner tag, the sibling's content
// is merged in and the index is advanced past both. consumed reports how
// many entries of children were consumed starting at i.

func (t *Transformer) parsePairedIf(children []tsx_ast.JsxChild, i int) (*ir.Node, int, error) {
	el := children[i].Element
	cond := t.parseLiteralCondition(el)
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

// parseLiteralCondition handles the only condition form spec §4.3's plain
// V1 pipeline can express (no runtime variables exist outside V3): a
// literal boolean captured from the `condition` prop. internal/transform/v3
// parses If conditions with its own full condition-ADT parser (§3.2), since
// runtime variable references are in scope there.
func (t *Transformer) parseLiteralCondition(el *tsx_ast.JsxElement) ir.Condition {
	return ir.Condition{Kind: ir.CondLiteral, Literal: boolAttr(el, "condition")}
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
		return wrapPairedStatus(node, defNode), 2, nil
	}
	return node, 1, nil
}

// wrapPairedStatus groups an OnStatus and its inherited OnStatusDefault
// into an ir.Group so the emitter can walk them as a single paired unit
// while keeping each node's own Data/Children intact.
func wrapPairedStatus(onStatus, onDefault *ir.Node) *ir.Node {
	return &ir.Node{Data: ir.Group{}, Children: []*ir.Node{onStatus, onDefault}}
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
