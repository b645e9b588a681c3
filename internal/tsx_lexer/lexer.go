// Package tsx_lexer tokenizes the reduced TSX grammar the front-end needs:
// import/interface/type declarations, the default-exported JSX expression,
// and the useRuntimeVar/runtimeFn call forms. Unlike esbuild's
// internal/js_lexer (a full ECMAScript lexer), this lexer only recognizes
// the closed vocabulary spec §6.1 and §4.1/§4.4 require — general
// TypeScript/JS expression syntax is explicitly out of scope (spec §1).
//
// As in the teacher, the lexer is driven token-by-token by the parser
// rather than run to completion up front, because JSX text runs are
// context-sensitive (they must not be tokenized like code).
package tsx_lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/logger"
)

type T uint8

const (
	TEndOfFile T = iota
	TIdentifier
	TStringLiteral
	TNumericLiteral
	TLessThan
	TLessThanSlash // "</"
	TSlashGreaterThan // "/>"
	TGreaterThan
	TEquals
	TOpenBrace
	TCloseBrace
	TOpenParen
	TCloseParen
	TOpenBracket
	TCloseBracket
	TDot
	TComma
	TColon
	TSemicolon
	TQuestion
	TBar // "|"
	TSlash
	TJSXText // raw text run between JSX tags
	TSyntaxError

	// Keywords relevant to the declarations the front-end resolves.
	TImport
	TFrom
	TExport
	TDefault
	TInterface
	TType
	TConst
	TTrue
	TFalse
)

var keywords = map[string]T{
	"import":    TImport,
	"from":      TFrom,
	"export":    TExport,
	"default":   TDefault,
	"interface": TInterface,
	"type":      TType,
	"const":     TConst,
	"true":      TTrue,
	"false":     TFalse,
}

type Lexer struct {
	Source       *logger.Source
	Log          *logger.Log
	contents     string
	current      int
	start        int
	end          int
	Token        T
	Identifier   string
	StringValue  string
	NumberValue  float64
	codePoint    rune
}

func NewLexer(source *logger.Source, log *logger.Log) *Lexer {
	l := &Lexer{Source: source, Log: log, contents: source.Contents}
	l.step()
	l.Next()
	return l
}

func (l *Lexer) step() {
	if l.current >= len(l.contents) {
		l.codePoint = -1
		l.end = l.current
		return
	}
	cp, width := utf8.DecodeRuneInString(l.contents[l.current:])
	l.end = l.current
	l.codePoint = cp
	l.current += width
}

func (l *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(l.start)}, Len: int32(l.end - l.start)}
}

func (l *Lexer) Raw() string { return l.contents[l.start:l.end] }

// Contents returns the full source text, so callers can slice out raw
// spans (e.g. the text of a balanced `{...}` expression container)
// without losing original spacing or quoting.
func (l *Lexer) Contents() string { return l.contents }

func (l *Lexer) SyntaxError(format string, args ...interface{}) *diag.Error {
	loc := logger.LocationIn(l.Source, l.Range())
	return diag.New(diag.ParseError, loc, format, args...)
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Next scans one ordinary (non-JSX-text) token.
func (l *Lexer) Next() {
	for {
		l.start = l.end
		switch l.codePoint {
		case -1:
			l.Token = TEndOfFile
			return
		case ' ', '\t', '\n', '\r':
			l.step()
			continue
		case '/':
			l.step()
			if l.codePoint == '/' {
				for l.codePoint != '\n' && l.codePoint != -1 {
					l.step()
				}
				continue
			}
			if l.codePoint == '*' {
				l.step()
				for {
					if l.codePoint == -1 {
						break
					}
					if l.codePoint == '*' {
						l.step()
						if l.codePoint == '/' {
							l.step()
							break
						}
						continue
					}
					l.step()
				}
				continue
			}
			if l.codePoint == '>' {
				l.step()
				l.Token = TSlashGreaterThan
				return
			}
			l.Token = TSlash
			return
		case '<':
			l.step()
			if l.codePoint == '/' {
				l.step()
				l.Token = TLessThanSlash
				return
			}
			l.Token = TLessThan
			return
		case '>':
			l.step()
			l.Token = TGreaterThan
			return
		case '=':
			l.step()
			l.Token = TEquals
			return
		case '{':
			l.step()
			l.Token = TOpenBrace
			return
		case '}':
			l.step()
			l.Token = TCloseBrace
			return
		case '(':
			l.step()
			l.Token = TOpenParen
			return
		case ')':
			l.step()
			l.Token = TCloseParen
			return
		case '[':
			l.step()
			l.Token = TOpenBracket
			return
		case ']':
			l.step()
			l.Token = TCloseBracket
			return
		case '.':
			l.step()
			l.Token = TDot
			return
		case ',':
			l.step()
			l.Token = TComma
			return
		case ':':
			l.step()
			l.Token = TColon
			return
		case ';':
			l.step()
			l.Token = TSemicolon
			return
		case '?':
			l.step()
			l.Token = TQuestion
			return
		case '|':
			l.step()
			l.Token = TBar
			return
		case '"', '\'':
			l.scanString(l.codePoint)
			return
		default:
			if l.codePoint >= '0' && l.codePoint <= '9' {
				l.scanNumber()
				return
			}
			if isIdentStart(l.codePoint) {
				l.scanIdentifier()
				return
			}
			l.step()
			l.Token = TSyntaxError
			return
		}
	}
}

func (l *Lexer) scanString(quote rune) {
	l.step() // consume opening quote
	var sb strings.Builder
	for l.codePoint != quote {
		if l.codePoint == -1 {
			l.Token = TSyntaxError
			return
		}
		if l.codePoint == '\\' {
			l.step()
		}
		sb.WriteRune(l.codePoint)
		l.step()
	}
	l.step() // consume closing quote
	l.StringValue = sb.String()
	l.Token = TStringLiteral
}

func (l *Lexer) scanNumber() {
	for (l.codePoint >= '0' && l.codePoint <= '9') || l.codePoint == '.' {
		l.step()
	}
	text := l.contents[l.start:l.end]
	n, _ := strconv.ParseFloat(text, 64)
	l.NumberValue = n
	l.Token = TNumericLiteral
}

func (l *Lexer) scanIdentifier() {
	for isIdentPart(l.codePoint) {
		l.step()
	}
	text := l.contents[l.start:l.end]
	l.Identifier = text
	if kw, ok := keywords[text]; ok {
		l.Token = kw
		return
	}
	l.Token = TIdentifier
}

// NextJSXText scans raw text from the start of the current token up to the
// next "<" or "{", collapsing internal whitespace runs and trimming the
// edges per spec §4.1's normalization guarantee. The parser calls it when
// the current token is the first token of a text run, so that token's text
// is part of the result; Token itself is left untouched.
func (l *Lexer) NextJSXText() string {
	start := l.start
	for l.codePoint != '<' && l.codePoint != '{' && l.codePoint != -1 {
		l.step()
	}
	raw := l.contents[start:l.end]
	return normalizeWhitespace(raw)
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// IsWhitespaceOnly reports whether a text run is entirely whitespace,
// which the sibling-pairing FSM (§4.9) must skip over transparently.
func IsWhitespaceOnly(s string) bool {
	return strings.TrimSpace(s) == ""
}
