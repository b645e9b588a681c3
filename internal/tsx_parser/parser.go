// Package tsx_parser turns a single .tsx source file into a tsx_ast.File:
// its imports, interface/type-alias declarations, useRuntimeVar/runtimeFn
// call sites, and the root JSX element of its default export. It exposes
// exactly the queries spec §4.1 names (RootElement, GetAttribute) plus the
// raw declarations internal/resolver needs for ResolveType.
package tsx_parser

import (
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
	"github.com/reactagentic/compiler/internal/tsx_lexer"
)

type parser struct {
	source *logger.Source
	log    *logger.Log
	lex    *tsx_lexer.Lexer
	file   *tsx_ast.File
}

// Parse produces a tsx_ast.File for source, or a *diag.Error of kind
// ParseError. Import resolution is internal/resolver's job, not the
// parser's.
func Parse(source *logger.Source, log *logger.Log) (*tsx_ast.File, error) {
	p := &parser{
		source: source,
		log:    log,
		lex:    tsx_lexer.NewLexer(source, log),
		file:   &tsx_ast.File{Path: source.PrettyPath, Source: source},
	}
	if err := p.parseTopLevel(); err != nil {
		return nil, err
	}
	if p.file.Root == nil {
		loc := logger.LocationIn(source, logger.Range{})
		return nil, diag.New(diag.ParseError, loc, "no JSX element reachable from a default export in %q", source.PrettyPath)
	}
	return p.file, nil
}

func (p *parser) parseTopLevel() error {
	inDefault := false
	for p.lex.Token != tsx_lexer.TEndOfFile {
		switch p.lex.Token {
		case tsx_lexer.TImport:
			if err := p.parseImport(); err != nil {
				return err
			}
		case tsx_lexer.TInterface:
			if err := p.parseInterface(); err != nil {
				return err
			}
		case tsx_lexer.TType:
			if err := p.parseTypeAlias(); err != nil {
				return err
			}
		case tsx_lexer.TConst:
			if err := p.parseConst(); err != nil {
				return err
			}
		case tsx_lexer.TExport:
			p.lex.Next()
			if p.lex.Token == tsx_lexer.TDefault {
				inDefault = true
				p.lex.Next()
				root, err := p.parseDefaultExportExpr()
				if err != nil {
					return err
				}
				p.file.Root = root
			}
			// `export interface`/`export type`/`export const` fall through
			// to the same handling on the next loop iteration.
		case tsx_lexer.TIdentifier:
			// In `export default function Name() { ... return (<...>) }` the
			// first return statement that yields JSX supplies the root.
			if inDefault && p.file.Root == nil && p.lex.Identifier == "return" {
				p.lex.Next()
				root, err := p.parseDefaultExportExpr()
				if err != nil {
					return err
				}
				p.file.Root = root
			} else {
				p.lex.Next()
			}
		default:
			p.lex.Next()
		}
	}
	return nil
}

// parseImport handles `import { A, B as C } from "./path"` and
// `import Default from "./path"`.
func (p *parser) parseImport() error {
	startRange := p.lex.Range()
	p.lex.Next() // consume 'import'
	var names []tsx_ast.ImportedName
	if p.lex.Token == tsx_lexer.TOpenBrace {
		p.lex.Next()
		for p.lex.Token != tsx_lexer.TCloseBrace && p.lex.Token != tsx_lexer.TEndOfFile {
			if p.lex.Token == tsx_lexer.TIdentifier {
				imported := p.lex.Identifier
				local := imported
				p.lex.Next()
				if p.lex.Token == tsx_lexer.TIdentifier && p.lex.Identifier == "as" {
					p.lex.Next()
					local = p.lex.Identifier
					p.lex.Next()
				}
				names = append(names, tsx_ast.ImportedName{Imported: imported, Local: local})
			}
			if p.lex.Token == tsx_lexer.TComma {
				p.lex.Next()
			}
		}
		if p.lex.Token == tsx_lexer.TCloseBrace {
			p.lex.Next()
		}
	} else if p.lex.Token == tsx_lexer.TIdentifier {
		name := p.lex.Identifier
		names = append(names, tsx_ast.ImportedName{Imported: "default", Local: name})
		p.lex.Next()
	}
	if p.lex.Token == tsx_lexer.TFrom {
		p.lex.Next()
	}
	from := ""
	if p.lex.Token == tsx_lexer.TStringLiteral {
		from = p.lex.StringValue
		p.lex.Next()
	}
	if p.lex.Token == tsx_lexer.TSemicolon {
		p.lex.Next()
	}
	p.file.Imports = append(p.file.Imports, tsx_ast.ImportDecl{
		Names: names,
		From:  from,
		Loc:   spanTo(startRange, p.lex.Range()),
	})
	return nil
}

// parseInterface handles `interface Name { field: Type; field2?: Type2 }`.
func (p *parser) parseInterface() error {
	startRange := p.lex.Range()
	p.lex.Next() // 'interface'
	name := p.lex.Identifier
	p.lex.Next()
	// Skip `extends Base` clauses; they do not participate in field-path
	// validation (spec §4.5 does not specify interface inheritance).
	for p.lex.Token == tsx_lexer.TIdentifier && p.lex.Token != tsx_lexer.TOpenBrace {
		p.lex.Next()
		if p.lex.Token == tsx_lexer.TOpenBrace {
			break
		}
	}
	fields, err := p.parseObjectTypeBody()
	if err != nil {
		return err
	}
	p.file.Interfaces = append(p.file.Interfaces, tsx_ast.InterfaceDecl{
		Name:   name,
		Fields: fields,
		Loc:    spanTo(startRange, p.lex.Range()),
	})
	return nil
}

// parseObjectTypeBody parses `{ k: T; k2?: T2; ... }` into TypeFields. It
// does not attempt to parse T structurally — that is fieldpath's job; it
// only captures T's raw text, tracking bracket depth so embedded `;`/`,`
// inside a nested object/array/union are not mistaken for field
// separators.
func (p *parser) parseObjectTypeBody() ([]tsx_ast.TypeField, error) {
	if p.lex.Token != tsx_lexer.TOpenBrace {
		return nil, p.lex.SyntaxError("expected '{' to begin an object type")
	}
	p.lex.Next()
	var fields []tsx_ast.TypeField
	for p.lex.Token != tsx_lexer.TCloseBrace && p.lex.Token != tsx_lexer.TEndOfFile {
		if p.lex.Token != tsx_lexer.TIdentifier {
			p.lex.Next()
			continue
		}
		fieldName := p.lex.Identifier
		p.lex.Next()
		required := true
		if p.lex.Token == tsx_lexer.TQuestion {
			required = false
			p.lex.Next()
		}
		if p.lex.Token == tsx_lexer.TColon {
			p.lex.Next()
		}
		typeText := p.captureTypeText()
		fields = append(fields, tsx_ast.TypeField{Name: fieldName, TypeText: typeText, Required: required})
		if p.lex.Token == tsx_lexer.TSemicolon || p.lex.Token == tsx_lexer.TComma {
			p.lex.Next()
		}
	}
	if p.lex.Token == tsx_lexer.TCloseBrace {
		p.lex.Next()
	}
	return fields, nil
}

// captureTypeText reassembles the raw text of a type annotation up to the
// next field separator at bracket depth zero, by re-tokenizing and
// stringifying. This is intentionally lossy about whitespace/comments (not
// observable — type text is only ever fed back into fieldpath, never
// printed to the user).
func (p *parser) captureTypeText() string {
	var sb strings.Builder
	depth := 0
	for {
		switch p.lex.Token {
		case tsx_lexer.TEndOfFile:
			return sb.String()
		case tsx_lexer.TSemicolon, tsx_lexer.TComma:
			if depth == 0 {
				return sb.String()
			}
		case tsx_lexer.TOpenBrace, tsx_lexer.TOpenBracket, tsx_lexer.TOpenParen, tsx_lexer.TLessThan:
			depth++
		case tsx_lexer.TCloseBrace:
			if depth == 0 {
				return sb.String()
			}
			depth--
		case tsx_lexer.TCloseBracket, tsx_lexer.TCloseParen, tsx_lexer.TGreaterThan:
			depth--
		}
		sb.WriteString(tokenText(p.lex))
		p.lex.Next()
	}
}

func tokenText(lex *tsx_lexer.Lexer) string {
	switch lex.Token {
	case tsx_lexer.TIdentifier:
		return lex.Identifier
	case tsx_lexer.TStringLiteral:
		return "\"" + lex.StringValue + "\""
	case tsx_lexer.TOpenBrace:
		return "{"
	case tsx_lexer.TCloseBrace:
		return "}"
	case tsx_lexer.TOpenBracket:
		return "["
	case tsx_lexer.TCloseBracket:
		return "]"
	case tsx_lexer.TLessThan:
		return "<"
	case tsx_lexer.TGreaterThan:
		return ">"
	case tsx_lexer.TBar:
		return "|"
	case tsx_lexer.TColon:
		return ":"
	case tsx_lexer.TDot:
		return "."
	case tsx_lexer.TQuestion:
		return "?"
	default:
		return lex.Raw()
	}
}

// parseTypeAlias handles `type Name = <typetext>;`.
func (p *parser) parseTypeAlias() error {
	startRange := p.lex.Range()
	p.lex.Next() // 'type'
	name := p.lex.Identifier
	p.lex.Next()
	if p.lex.Token == tsx_lexer.TEquals {
		p.lex.Next()
	}
	typeText := p.captureTypeText()
	if p.lex.Token == tsx_lexer.TSemicolon {
		p.lex.Next()
	}
	p.file.TypeAliases = append(p.file.TypeAliases, tsx_ast.TypeAliasDecl{
		Name:     name,
		TypeText: typeText,
		Loc:      spanTo(startRange, p.lex.Range()),
	})
	return nil
}

// parseConst recognizes three shapes used by the transformers (spec
// §3.3/§4.4):
//
//	const ctx = useRuntimeVar<{...}>("CTX")
//	const Deploy = runtimeFn(deployFn)  // deployFn imported from a relative path
//	const out = useOutput()             // declares a name an outputRef may target
func (p *parser) parseConst() error {
	startRange := p.lex.Range()
	p.lex.Next() // 'const'
	if p.lex.Token != tsx_lexer.TIdentifier {
		return nil
	}
	localName := p.lex.Identifier
	p.lex.Next()
	if p.lex.Token != tsx_lexer.TEquals {
		return nil
	}
	p.lex.Next()
	if p.lex.Token != tsx_lexer.TIdentifier {
		return nil
	}
	callee := p.lex.Identifier
	switch callee {
	case "useRuntimeVar":
		p.lex.Next()
		typeText := ""
		if p.lex.Token == tsx_lexer.TLessThan {
			p.lex.Next()
			typeText = p.captureTypeArgText()
		}
		if p.lex.Token == tsx_lexer.TOpenParen {
			p.lex.Next()
		}
		varName := ""
		if p.lex.Token == tsx_lexer.TStringLiteral {
			varName = strings.ToUpper(p.lex.StringValue)
			p.lex.Next()
		}
		if p.lex.Token == tsx_lexer.TCloseParen {
			p.lex.Next()
		}
		p.file.RuntimeVarDecls = append(p.file.RuntimeVarDecls, tsx_ast.RuntimeVarDecl{
			VarName:   varName,
			LocalName: localName,
			TypeText:  typeText,
			Loc:       spanTo(startRange, p.lex.Range()),
		})
	case "runtimeFn":
		p.lex.Next()
		fnName := ""
		if p.lex.Token == tsx_lexer.TOpenParen {
			p.lex.Next()
			if p.lex.Token == tsx_lexer.TIdentifier {
				fnName = p.lex.Identifier
				p.lex.Next()
			}
			if p.lex.Token == tsx_lexer.TCloseParen {
				p.lex.Next()
			}
		}
		importPath := p.resolveImportPathFor(fnName)
		p.file.RuntimeFnDecls = append(p.file.RuntimeFnDecls, tsx_ast.RuntimeFnDecl{
			LocalName:  localName,
			ImportPath: importPath,
			FnName:     fnName,
			Loc:        spanTo(startRange, p.lex.Range()),
		})
	case "useOutput":
		p.lex.Next()
		if p.lex.Token == tsx_lexer.TOpenParen {
			p.lex.Next()
		}
		if p.lex.Token == tsx_lexer.TCloseParen {
			p.lex.Next()
		}
		p.file.OutputDecls = append(p.file.OutputDecls, tsx_ast.OutputDecl{
			LocalName: localName,
			Loc:       spanTo(startRange, p.lex.Range()),
		})
	}
	return nil
}

func (p *parser) resolveImportPathFor(localFnName string) string {
	for _, imp := range p.file.Imports {
		for _, n := range imp.Names {
			if n.Local == localFnName {
				return imp.From
			}
		}
	}
	return ""
}

// captureTypeArgText captures a generic type argument's raw text up to the
// matching top-level '>'.
func (p *parser) captureTypeArgText() string {
	var sb strings.Builder
	depth := 0
	for {
		switch p.lex.Token {
		case tsx_lexer.TEndOfFile:
			return sb.String()
		case tsx_lexer.TGreaterThan:
			if depth == 0 {
				p.lex.Next()
				return sb.String()
			}
			depth--
		case tsx_lexer.TOpenBrace, tsx_lexer.TOpenBracket, tsx_lexer.TOpenParen:
			depth++
		case tsx_lexer.TCloseBrace, tsx_lexer.TCloseBracket, tsx_lexer.TCloseParen:
			depth--
		}
		sb.WriteString(tokenText(p.lex))
		p.lex.Next()
	}
}

func spanTo(start, end logger.Range) logger.Range {
	return logger.Range{Loc: start.Loc, Len: end.Loc.Start - start.Loc.Start}
}
