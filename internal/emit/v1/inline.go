package v1

import (
	"strconv"
	"strings"

	"github.com/reactagentic/compiler/internal/ir"
)

// renderInline renders a run of inline nodes (spec §4.6's emphasis rules):
// Bold/Italic nest by wrapping their children's rendered text in the
// matching marker, with the "***text***" combined form arising naturally
// when a Bold wraps a sole Italic child or vice versa since the markers
// simply concatenate.
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

// renderRuntimeRef renders the $VAR / $VAR.a.b[0] shape (spec §4.4). The
// plain pipeline never produces a RuntimeVarInterpolation node, but the
// case is handled rather than silently dropped to text.
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
