package v3

import (
	"strconv"
	"strings"

	"github.com/reactagentic/compiler/internal/ir"
)

// renderInline mirrors v1's emphasis rules with one addition: a runtime
// variable interpolation renders to its $VAR[.a.b[0]] shell form
// (spec §4.7).
func renderInline(nodes []*ir.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(renderInlineNode(n))
	}
	return b.String()
}

func renderInlineNode(n *ir.Node) string {
	switch data := n.Data.(type) {
	case ir.Text:
		return data.Text
	case ir.Bold:
		return "**" + renderInline(n.Children) + "**"
	case ir.Italic:
		return "*" + renderInline(n.Children) + "*"
	case ir.InlineCode:
		return "`" + data.Code + "`"
	case ir.Link:
		return "[" + renderInline(n.Children) + "](" + data.Href + ")"
	case ir.LineBreak:
		return "  \n"
	case ir.RuntimeVarInterpolation:
		return renderRuntimeRef(data.Ref)
	default:
		return renderInline(n.Children)
	}
}

func renderRuntimeRef(ref ir.RuntimeVarRef) string {
	var b strings.Builder
	b.WriteString("$" + ref.VarName)
	for _, step := range ref.Path {
		if step.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(step.Index))
			b.WriteString("]")
		} else {
			b.WriteString(".")
			b.WriteString(step.Name)
		}
	}
	return b.String()
}
