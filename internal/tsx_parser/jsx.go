package tsx_parser

import (
	"strconv"
	"strings"

	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
	"github.com/reactagentic/compiler/internal/tsx_lexer"
)

// parseDefaultExportExpr unwraps any parentheses around the expression
// after `export default`, or after a `return` inside a default-exported
// function (parseTopLevel consumes that keyword first), per spec §4.1's
// root_element query ("unwraps parentheses around `export default (...)`
// and return-statement expressions").
func (p *parser) parseDefaultExportExpr() (*tsx_ast.JsxElement, error) {
	for p.lex.Token == tsx_lexer.TOpenParen {
		p.lex.Next()
	}
	if p.lex.Token != tsx_lexer.TLessThan {
		return nil, nil
	}
	return p.parseJsxElement()
}

func (p *parser) parseJsxElement() (*tsx_ast.JsxElement, error) {
	startRange := p.lex.Range()
	if p.lex.Token != tsx_lexer.TLessThan {
		return nil, p.lex.SyntaxError("expected '<' to begin a JSX element")
	}
	p.lex.Next()
	if p.lex.Token != tsx_lexer.TIdentifier {
		return nil, p.lex.SyntaxError("expected a JSX tag name")
	}
	tag := p.lex.Identifier
	p.lex.Next()
	for p.lex.Token == tsx_lexer.TDot {
		p.lex.Next()
		if p.lex.Token == tsx_lexer.TIdentifier {
			tag += "." + p.lex.Identifier
			p.lex.Next()
		}
	}
	var typeArgs []string
	if p.lex.Token == tsx_lexer.TLessThan {
		p.lex.Next()
		typeArgs = append(typeArgs, strings.TrimSpace(p.captureTypeArgText()))
	}

	elem := &tsx_ast.JsxElement{Tag: tag, TypeArgs: typeArgs}
	for p.lex.Token == tsx_lexer.TIdentifier {
		attr, err := p.parseJsxAttr()
		if err != nil {
			return nil, err
		}
		elem.Attrs = append(elem.Attrs, attr)
	}

	switch p.lex.Token {
	case tsx_lexer.TSlashGreaterThan:
		elem.SelfClosing = true
		p.lex.Next()
		elem.Loc = spanTo(startRange, p.lex.Range())
		return elem, nil
	case tsx_lexer.TGreaterThan:
		p.lex.Next()
	default:
		return nil, p.lex.SyntaxError("expected '>' or '/>' closing the '%s' tag", tag)
	}

	children, err := p.parseJsxChildren(tag)
	if err != nil {
		return nil, err
	}
	elem.Children = children
	elem.Loc = spanTo(startRange, p.lex.Range())
	return elem, nil
}

func (p *parser) parseJsxAttr() (tsx_ast.JsxAttr, error) {
	startRange := p.lex.Range()
	name := p.lex.Identifier
	p.lex.Next()
	if p.lex.Token != tsx_lexer.TEquals {
		return tsx_ast.JsxAttr{
			Name:  name,
			Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrBooleanShorthand, Bool: true, Loc: startRange},
			Loc:   startRange,
		}, nil
	}
	p.lex.Next()
	value, err := p.parseAttrValue()
	if err != nil {
		return tsx_ast.JsxAttr{}, err
	}
	return tsx_ast.JsxAttr{Name: name, Value: value, Loc: spanTo(startRange, p.lex.Range())}, nil
}

func (p *parser) parseAttrValue() (tsx_ast.AttrValue, error) {
	valueRange := p.lex.Range()
	switch p.lex.Token {
	case tsx_lexer.TStringLiteral:
		v := tsx_ast.AttrValue{Kind: tsx_ast.AttrString, String: p.lex.StringValue, Loc: valueRange}
		p.lex.Next()
		return v, nil
	case tsx_lexer.TOpenBrace:
		return p.parseAttrExpressionContainer()
	default:
		return tsx_ast.AttrValue{}, p.lex.SyntaxError("unsupported JSX attribute value form")
	}
}

// parseAttrExpressionContainer captures the raw text of a `{...}`
// container, classifies it into the closed set of shapes spec §4.1
// allows, and advances past the closing brace.
func (p *parser) parseAttrExpressionContainer() (tsx_ast.AttrValue, error) {
	outerStart := p.lex.Range()
	p.lex.Next() // consume the container's opening '{'
	innerStartOffset := p.lex.Range().Loc.Start
	depth := 0
	for {
		switch p.lex.Token {
		case tsx_lexer.TEndOfFile:
			return tsx_ast.AttrValue{}, p.lex.SyntaxError("unterminated JSX expression container")
		case tsx_lexer.TOpenBrace, tsx_lexer.TOpenBracket, tsx_lexer.TOpenParen:
			depth++
		case tsx_lexer.TCloseBracket, tsx_lexer.TCloseParen:
			depth--
		case tsx_lexer.TCloseBrace:
			if depth == 0 {
				goto done
			}
			depth--
		}
		p.lex.Next()
	}
done:
	innerEndOffset := p.lex.Range().Loc.Start
	raw := strings.TrimSpace(p.lex.Contents()[innerStartOffset:innerEndOffset])
	p.lex.Next() // consume the container's closing '}'
	loc := spanTo(outerStart, p.lex.Range())
	return classifyExpressionText(raw, loc), nil
}

func classifyExpressionText(raw string, loc logger.Range) tsx_ast.AttrValue {
	v := tsx_ast.AttrValue{Raw: raw, Loc: loc}
	switch {
	case strings.HasPrefix(raw, "{"):
		v.Kind = tsx_ast.AttrObjectLiteral
	case strings.HasPrefix(raw, "["):
		v.Kind = tsx_ast.AttrArrayLiteral
	case raw == "true":
		v.Kind = tsx_ast.AttrBoolean
		v.Bool = true
	case raw == "false":
		v.Kind = tsx_ast.AttrBoolean
		v.Bool = false
	default:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			v.Kind = tsx_ast.AttrNumber
			v.Number = n
		} else {
			v.Kind = tsx_ast.AttrIdentifierRef
			v.Ident = raw
		}
	}
	return v
}

// parseJsxChildren consumes child nodes until the matching closing tag,
// dropping whitespace-only text nodes between elements per spec §4.1 (the
// sibling-pairing FSM in internal/transform relies on this already being
// done so it only has to special-case whitespace-only nodes that remain
// adjacent to real content).
func (p *parser) parseJsxChildren(openTag string) ([]tsx_ast.JsxChild, error) {
	var children []tsx_ast.JsxChild
	for {
		if p.lex.Token == tsx_lexer.TLessThanSlash {
			p.lex.Next()
			if p.lex.Token == tsx_lexer.TIdentifier {
				closeTag := p.lex.Identifier
				p.lex.Next()
				for p.lex.Token == tsx_lexer.TDot {
					p.lex.Next()
					if p.lex.Token == tsx_lexer.TIdentifier {
						closeTag += "." + p.lex.Identifier
						p.lex.Next()
					}
				}
				if closeTag != openTag {
					return nil, p.lex.SyntaxError("mismatched closing tag: expected </%s>, found </%s>", openTag, closeTag)
				}
			}
			if p.lex.Token == tsx_lexer.TGreaterThan {
				p.lex.Next()
			}
			return children, nil
		}
		if p.lex.Token == tsx_lexer.TEndOfFile {
			return nil, p.lex.SyntaxError("unterminated JSX element <%s>", openTag)
		}
		if p.lex.Token == tsx_lexer.TLessThan {
			child, err := p.parseJsxElement()
			if err != nil {
				return nil, err
			}
			children = append(children, tsx_ast.JsxChild{Kind: tsx_ast.ChildElement, Element: child, Loc: child.Loc})
			continue
		}
		if p.lex.Token == tsx_lexer.TOpenBrace {
			loc := p.lex.Range()
			container, err := p.parseAttrExpressionContainer()
			if err != nil {
				return nil, err
			}
			children = append(children, tsx_ast.JsxChild{Kind: tsx_ast.ChildExpression, Expression: container.Raw, Loc: loc})
			continue
		}
		text := p.lex.NextJSXText()
		loc := p.lex.Range()
		// A whitespace-only run normalizes to "" (tsx_lexer.NextJSXText
		// collapses runs and trims edges); per spec §4.1's front-end
		// guarantee, whitespace-only JSX text nodes between elements are
		// dropped rather than surviving into the AST.
		if text != "" {
			children = append(children, tsx_ast.JsxChild{Kind: tsx_ast.ChildText, Text: text, Loc: loc})
		}
		p.lex.Next()
	}
}

// RootElement implements spec §4.1's root_element(file) query.
func RootElement(file *tsx_ast.File) *tsx_ast.JsxElement { return file.Root }

// GetAttribute implements spec §4.1's get_attribute(element, name) query.
func GetAttribute(element *tsx_ast.JsxElement, name string) *tsx_ast.AttrValue {
	for i := range element.Attrs {
		if element.Attrs[i].Name == name {
			return &element.Attrs[i].Value
		}
	}
	return nil
}
