package v3

import (
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// KnownTags is the vocabulary of a runtime Command: v1's tags without the
// Agent/Skill roots and the skill-only children. <X.Call> is reported
// generically since X varies per document, so it is not itself listed (dotted tags are detected via
// isCallTag instead of a table lookup).
var KnownTags = []string{
	"Command",
	"h1", "h2", "h3", "h4", "h5", "h6", "p", "b", "i", "strong", "em", "code",
	"a", "ul", "ol", "li", "blockquote", "pre", "br", "hr",
	"Markdown", "XmlBlock", "table", "Step", "ExecutionContext", "Indent",
	"SpawnAgent", "OnStatus", "OnStatusDefault", "ReadFile",
	"If", "Else", "Loop", "Break", "Return", "AskUser",
	"MetaPrompt", "GatherContext",
}

var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "code": true, "a": true, "br": true,
}

func isCallTag(tag string) bool { return strings.HasSuffix(tag, ".Call") }

// transformChildren is v1's FSM (spec §4.9) plus runtime interpolation: a
// ChildExpression lowers to an ir.RuntimeVarInterpolation instead of
// surviving as literal text, since V3 documents have runtime variables in
// scope (spec §4.4).
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
			ref, err := t.parseRuntimeRef(child.Expression, child.Loc)
			if err != nil {
				return nil, err
			}
			pending = append(pending, &ir.Node{Loc: t.loc(child.Loc), Data: ir.RuntimeVarInterpolation{Ref: *ref}})
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

			switch {
			case el.Tag == "If":
				node, consumed, err := t.parsePairedIf(children, i)
				if err != nil {
					return nil, err
				}
				out = append(out, node)
				i += consumed
				continue
			case el.Tag == "Else":
				return nil, diag.New(diag.InvalidChild, t.loc(el.Loc), "<Else> with no preceding <If>")
			case el.Tag == "OnStatus":
				node, consumed, err := t.parsePairedOnStatus(children, i)
				if err != nil {
					return nil, err
				}
				out = append(out, node)
				i += consumed
				continue
			case el.Tag == "OnStatusDefault":
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
			case el.Tag == "MetaPrompt" || el.Tag == "GatherContext":
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

func (t *Transformer) dispatchElement(el *tsx_ast.JsxElement) (*ir.Node, error) {
	if isCallTag(el.Tag) {
		return t.handleCall(el)
	}
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
		// Inline code wins over emphasis: text nested in <b>, <i> and the
		// like inside <code> is flattened into the code span as plain text.
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
		return &ir.Node{Loc: t.loc(el.Loc), Data: ir.RawMarkdown{Text: childText(el)}}, nil
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
		return &ir.Node{Loc: t.loc(el.Loc), Data: ir.Return{Status: stringAttr(el, "status"), Message: stringAttr(el, "message")}}, nil
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
		if v := numberAttr(el, "start"); v > 0 {
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

func (t *Transformer) handleXmlBlock(el *tsx_ast.JsxElement) (*ir.Node, error) {
	tag := stringAttr(el, "tag")
	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.XmlBlock{Tag: tag}, Children: children}, nil
}

func (t *Transformer) handleTable(el *tsx_ast.JsxElement) (*ir.Node, error) {
	header := stringSliceAttr(el, "header")
	var rows [][]string
	if v := rawAttr(el, "rows"); v != nil && v.Kind == tsx_ast.AttrArrayLiteral {
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
	maxIter := numberAttr(el, "max")
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

func (t *Transformer) handleAskUser(el *tsx_ast.JsxElement) (*ir.Node, error) {
	question := stringAttr(el, "question")
	if question == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<AskUser> requires a \"question\" prop")
	}
	capture := stringAttr(el, "capture")
	if capture == "" {
		capture = identAttr(el, "capture")
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: ir.AskUser{
		Question:    question,
		Options:     stringSliceAttr(el, "options"),
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
