package v1

import (
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// KnownTags is the closed vocabulary from spec §6.1 this transformer
// recognizes, used both for dispatch and for suggest()'s "did you mean"
// list on UnknownComponent.
var KnownTags = []string{
	"Command", "Agent", "Skill", "SkillFile", "SkillStatic",
	"h1", "h2", "h3", "h4", "h5", "h6", "p", "b", "i", "strong", "em", "code",
	"a", "ul", "ol", "li", "blockquote", "pre", "br", "hr",
	"Markdown", "XmlBlock", "table", "Step", "ExecutionContext", "Indent",
	"SpawnAgent", "OnStatus", "OnStatusDefault", "ReadFile",
	"If", "Else", "Loop", "Break", "Return", "AskUser",
	// Meta-prompting composites (spec §9): inlined by the transformer and
	// never survive into the IR.
	"MetaPrompt", "GatherContext",
}

var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "code": true, "a": true, "br": true,
}

// transformChildren drives the block-child iteration FSM from spec §4.9,
// wraps stray inline/text runs in implicit paragraphs (§4.3's
// "inline-in-block wrapping"), and dispatches known tags through
// dispatchElement.
func (t *Transformer) transformChildren(children []tsx_ast.JsxChild) ([]*ir.Node, error) {
	var out []*ir.Node
	var pending []*ir.Node

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, &ir.Node{Data: ir.Paragraph{}, Children: pending})
		pending = nil
	}

	i := 0
	for i < len(children) {
		child := children[i]
		switch child.Kind {
		case tsx_ast.ChildText:
			pending = append(pending, &ir.Node{Loc: t.loc(child.Loc), Data: ir.Text{Text: child.Text}})
			i++
			continue
		case tsx_ast.ChildExpression:
			// V1 has no runtime-variable interpolation (that is V3-only,
			// spec §4.4); a stray `{expr}` is rendered as literal text.
			pending = append(pending, &ir.Node{Loc: t.loc(child.Loc), Data: ir.Text{Text: child.Expression}})
			i++
			continue
		case tsx_ast.ChildElement:
			el := child.Element
			if inlineTags[el.Tag] {
				node, err := t.dispatchElement(el)
				if err != nil {
					return nil, err
				}
				pending = append(pending, node)
				i++
				continue
			}

			flush()

			switch el.Tag {
			case "If":
				node, consumed, err := t.parsePairedIf(children, i)
				if err != nil {
					return nil, err
				}
				out = append(out, node)
				i += consumed
				continue
			case "Else":
				return nil, diag.New(diag.InvalidChild, t.loc(el.Loc), "<Else> with no preceding <If>")
			case "OnStatus":
				node, consumed, err := t.parsePairedOnStatus(children, i)
				if err != nil {
					return nil, err
				}
				out = append(out, node)
				i += consumed
				continue
			case "OnStatusDefault":
				outputRef := stringAttr(el, "output")
				if outputRef == "" {
					outputRef = identAttr(el, "output")
				}
				if outputRef != "" {
					node, err := t.dispatchElement(el)
					if err != nil {
						return nil, err
					}
					out = append(out, node)
					i++
					continue
				}
				return nil, diag.New(diag.InvalidChild, t.loc(el.Loc), "<OnStatusDefault> with no preceding <OnStatus> and no explicit \"output\"")
			case "MetaPrompt", "GatherContext":
				// Composite pass-through wrapper: inline its children
				// directly, never survives into the IR (spec §9).
				inner, err := t.transformChildren(el.Children)
				if err != nil {
					return nil, err
				}
				out = append(out, inner...)
				i++
				continue
			default:
				node, err := t.dispatchElement(el)
				if err != nil {
					return nil, err
				}
				out = append(out, node)
				i++
				continue
			}
		}
	}
	flush()
	return out, nil
}

// dispatchElement is the table-driven lookup from spec §4.3: every known
// component has a handler producing one IR node; unknown tags are a hard
// UnknownComponent error with a "did you mean" suggestion.
func (t *Transformer) dispatchElement(el *tsx_ast.JsxElement) (*ir.Node, error) {
	switch el.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return t.handleHeading(el)
	case "p":
		return t.handleContainer(el, ir.Paragraph{})
	case "b", "strong":
		return t.handleContainer(el, ir.Bold{})
	case "i", "em":
		return t.handleContainer(el, ir.Italic{})
	case "code":
		return t.handleInlineCode(el)
	case "a":
		return t.handleLink(el)
	case "ul":
		return t.handleList(el, false)
	case "ol":
		return t.handleList(el, true)
	case "li":
		return t.handleContainer(el, ir.ListItem{})
	case "blockquote":
		return t.handleContainer(el, ir.Blockquote{})
	case "pre":
		return t.handleCodeBlock(el)
	case "br":
		return &ir.Node{Loc: t.loc(el.Loc), Data: ir.LineBreak{}}, nil
	case "hr":
		return &ir.Node{Loc: t.loc(el.Loc), Data: ir.ThematicBreak{}}, nil
	case "Markdown":
		return t.handleMarkdown(el)
	case "XmlBlock":
		return t.handleXmlBlock(el)
	case "table":
		return t.handleTable(el)
	case "Step":
		return t.handleStep(el)
	case "ExecutionContext":
		return t.handleContainer(el, ir.ExecutionContext{})
	case "Indent":
		return t.handleContainer(el, ir.Indent{})
	case "ReadFile":
		return t.handleReadFile(el)
	case "SpawnAgent":
		return t.handleSpawnAgent(el)
	case "Loop":
		return t.handleLoop(el)
	case "Break":
		return t.handleBreak(el)
	case "Return":
		return t.handleReturn(el)
	case "AskUser":
		return t.handleAskUser(el)
	case "OnStatusDefault":
		return t.handleOnStatusDefault(el)
	default:
		suggestion, ok := suggest(el.Tag, KnownTags)
		msg := "unknown component \"%s\""
		if ok {
			return nil, diag.New(diag.UnknownComponent, t.loc(el.Loc), msg+" (did you mean \"%s\"?)", el.Tag, suggestion)
		}
		return nil, diag.New(diag.UnknownComponent, t.loc(el.Loc), msg, el.Tag)
	}
}

func (t *Transformer) handleHeading(el *tsx_ast.JsxElement) (*ir.Node, error) {
	level := int(el.Tag[1] - '0')
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Heading{Level: level}, Children: children}, nil
}

func (t *Transformer) handleContainer(el *tsx_ast.JsxElement, data ir.NodeData) (*ir.Node, error) {
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: data, Children: children}, nil
}

func (t *Transformer) handleInlineCode(el *tsx_ast.JsxElement) (*ir.Node, error) {
	// Inline code wins over emphasis: text nested in <b>, <i> and the like
	// inside <code> is flattened into the code span as plain text.
	var sb strings.Builder
	var collect func(e *tsx_ast.JsxElement)
	collect = func(e *tsx_ast.JsxElement) {
		for _, c := range e.Children {
			switch c.Kind {
			case tsx_ast.ChildText:
				sb.WriteString(c.Text)
			case tsx_ast.ChildElement:
				collect(c.Element)
			}
		}
	}
	collect(el)
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.InlineCode{Code: sb.String()}}, nil
}

func (t *Transformer) handleLink(el *tsx_ast.JsxElement) (*ir.Node, error) {
	href := stringAttr(el, "href")
	if href == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<a> requires an \"href\" prop")
	}
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Link{Href: href}, Children: children}, nil
}

func (t *Transformer) handleList(el *tsx_ast.JsxElement, ordered bool) (*ir.Node, error) {
	start := 1
	if ordered {
		if v := tsx_parser_numberAttr(el, "start"); v > 0 {
			start = v
		}
	}
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.List{Ordered: ordered, Start: start}, Children: children}, nil
}

func (t *Transformer) handleCodeBlock(el *tsx_ast.JsxElement) (*ir.Node, error) {
	lang := ""
	if cls := stringAttr(el, "className"); strings.HasPrefix(cls, "language-") {
		lang = strings.TrimPrefix(cls, "language-")
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.CodeBlock{Language: lang, Code: strings.Trim(childText(el), "\n")}}, nil
}

func (t *Transformer) handleMarkdown(el *tsx_ast.JsxElement) (*ir.Node, error) {
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.RawMarkdown{Text: childText(el)}}, nil
}

func (t *Transformer) handleXmlBlock(el *tsx_ast.JsxElement) (*ir.Node, error) {
	tag := stringAttr(el, "tag")
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.XmlBlock{Tag: tag}, Children: children}, nil
}

func (t *Transformer) handleTable(el *tsx_ast.JsxElement) (*ir.Node, error) {
	// Table content arrives as a header array and row arrays via props,
	// matching how the rest of the closed grammar passes structured data
	// (object/array literal attribute expressions) rather than as nested
	// <tr>/<td> elements, which spec §6.1 does not list.
	header := stringSliceAttr(el, "header")
	var rows [][]string
	if v := tsx_parser_rawAttr(el, "rows"); v != nil && v.Kind == tsx_ast.AttrArrayLiteral {
		raw, err := evalArray(v.Raw)
		if err == nil {
			for _, r := range raw {
				if items, ok := r.([]interface{}); ok {
					row := make([]string, 0, len(items))
					for _, it := range items {
						row = append(row, toString(it))
					}
					rows = append(rows, row)
				}
			}
		}
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Table{Header: header, Rows: rows}}, nil
}

func (t *Transformer) handleStep(el *tsx_ast.JsxElement) (*ir.Node, error) {
	title := stringAttr(el, "title")
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Step{Title: title}, Children: children}, nil
}

func (t *Transformer) handleReadFile(el *tsx_ast.JsxElement) (*ir.Node, error) {
	path := stringAttr(el, "path")
	as := stringAttr(el, "as")
	if path == "" || as == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<ReadFile> requires \"path\" and \"as\" props")
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.ReadFile{Path: path, As: as, Optional: boolAttr(el, "optional")}}, nil
}

func (t *Transformer) handleLoop(el *tsx_ast.JsxElement) (*ir.Node, error) {
	maxIter := tsx_parser_numberAttr(el, "max")
	counter := stringAttr(el, "counter")
	if counter == "" {
		counter = "I"
	}
	t.loopDepth++
	children, err := t.transformChildren(el.Children)
	t.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Loop{MaxIterations: maxIter, Counter: counter}, Children: children}, nil
}

func (t *Transformer) handleBreak(el *tsx_ast.JsxElement) (*ir.Node, error) {
	if t.loopDepth == 0 {
		return nil, diag.New(diag.InvalidChild, t.loc(el.Loc), "<Break/> outside any <Loop>")
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Break{Message: stringAttr(el, "message")}}, nil
}

func (t *Transformer) handleReturn(el *tsx_ast.JsxElement) (*ir.Node, error) {
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Return{Status: stringAttr(el, "status"), Message: stringAttr(el, "message")}}, nil
}

func (t *Transformer) handleAskUser(el *tsx_ast.JsxElement) (*ir.Node, error) {
	question := stringAttr(el, "question")
	if question == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<AskUser> requires a \"question\" prop")
	}
	options := stringSliceAttr(el, "options")
	capture := stringAttr(el, "capture")
	if capture == "" {
		capture = identAttr(el, "capture")
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.AskUser{
		Question:    question,
		Options:     options,
		Header:      stringAttr(el, "header"),
		Description: stringAttr(el, "description"),
		CaptureVar:  capture,
	}}, nil
}

func (t *Transformer) handleOnStatusDefault(el *tsx_ast.JsxElement) (*ir.Node, error) {
	outputRef := stringAttr(el, "output")
	if outputRef == "" {
		outputRef = identAttr(el, "output")
	}
	if outputRef != "" {
		if err := t.validateOutputRef(outputRef, t.loc(el.Loc)); err != nil {
			return nil, err
		}
	}
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.OnStatusDefault{OutputRef: outputRef}, Children: children}, nil
}

func childText(el *tsx_ast.JsxElement) string {
	var sb strings.Builder
	for _, c := range el.Children {
		if c.Kind == tsx_ast.ChildText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// tsx_parser_numberAttr reads a numeric attribute through the
// tsx_parser_rawAttr wrapper in attrs.go, returning 0 when the attribute is
// absent or not a number.
func tsx_parser_numberAttr(el *tsx_ast.JsxElement, name string) int {
	v := tsx_parser_rawAttr(el, name)
	if v == nil {
		return 0
	}
	if v.Kind == tsx_ast.AttrNumber {
		return int(v.Number)
	}
	return 0
}
