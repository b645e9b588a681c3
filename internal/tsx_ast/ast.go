// Package tsx_ast defines the AST produced by internal/tsx_parser for a
// single .tsx file. It covers exactly the closed grammar in spec §6.1 plus
// the handful of TypeScript declarations (imports, interfaces, type
// aliases, useRuntimeVar/runtimeFn calls) the front-end needs to resolve
// — it is not a general TypeScript AST.
package tsx_ast

import "github.com/reactagentic/compiler/internal/logger"

// File is the parsed representation of one source file.
type File struct {
	Path       string
	Source     *logger.Source
	Imports    []ImportDecl
	Interfaces []InterfaceDecl
	TypeAliases []TypeAliasDecl
	// RuntimeVarDecls records every `useRuntimeVar<T>(name)` call found at
	// the top level of the default-exported function/expression.
	RuntimeVarDecls []RuntimeVarDecl
	// RuntimeFnDecls records every `runtimeFn(fn)` call, keyed by the local
	// identifier bound to its result.
	RuntimeFnDecls []RuntimeFnDecl
	// OutputDecls records every `useOutput()` call, one per local identifier
	// an onStatus/onStatusDefault `output` prop may reference.
	OutputDecls []OutputDecl
	Root       *JsxElement
}

type ImportDecl struct {
	Names []ImportedName
	From  string // module specifier, e.g. "./agents/researcher"
	Loc   logger.Range
}

type ImportedName struct {
	Imported string
	Local    string
}

// InterfaceDecl is a resolved `interface Name { field: Type; ... }`.
type InterfaceDecl struct {
	Name   string
	Fields []TypeField
	Loc    logger.Range
}

// TypeAliasDecl is a resolved `type Name = <type text>`.
type TypeAliasDecl struct {
	Name    string
	TypeText string
	Loc     logger.Range
}

// TypeField is one member of an interface or object type literal.
type TypeField struct {
	Name     string
	TypeText string
	Required bool
}

type RuntimeVarDecl struct {
	VarName  string // the shell-variable name, e.g. CTX (upper-cased "ctx")
	LocalName string // the local JS identifier bound to the hook result, e.g. "ctx"
	TypeText string // opaque type-parameter text, e.g. "{phase:{id:string}}"
	Loc      logger.Range
}

type RuntimeFnDecl struct {
	LocalName  string // local identifier the call result is bound to, e.g. "Deploy"
	ImportPath string // relative TS file the function comes from
	FnName     string // the imported function's name
	Loc        logger.Range
}

// OutputDecl records a `const out = useOutput()` declaration (spec §3.3
// invariant 3): the local identifier an `onStatus`/`onStatusDefault`'s
// `output` prop must reference.
type OutputDecl struct {
	LocalName string
	Loc       logger.Range
}

// JsxElement is a single JSX element node: <Tag attr=... >children</Tag>.
type JsxElement struct {
	Tag        string   // e.g. "Command", "SpawnAgent", "X.Call"
	TypeArgs   []string // e.g. ["ResearcherInput"] for <SpawnAgent<ResearcherInput>>
	Attrs      []JsxAttr
	Children   []JsxChild
	Loc        logger.Range
	SelfClosing bool
}

type JsxAttr struct {
	Name  string
	Value AttrValue
	Loc   logger.Range
}

// AttrValueKind discriminates the closed set of attribute value forms from
// spec §4.1.
type AttrValueKind int

const (
	AttrString AttrValueKind = iota
	AttrIdentifierRef
	AttrObjectLiteral
	AttrArrayLiteral
	AttrBoolean
	AttrNumber
	AttrBooleanShorthand // bare attribute name, presence implies true
)

type AttrValue struct {
	Kind AttrValueKind
	// Raw is the literal source text of a JSX-expression-container value
	// (everything between `{` and `}`), used by literaleval for object and
	// array literals.
	Raw    string
	String string
	Bool   bool
	Number float64
	Ident  string
	Loc    logger.Range
}

// JsxChild is either a JsxElement, an expression-container interpolation
// ({expr}), or literal text.
type JsxChildKind int

const (
	ChildElement JsxChildKind = iota
	ChildText
	ChildExpression
)

type JsxChild struct {
	Kind       JsxChildKind
	Element    *JsxElement
	Text       string
	Expression string // raw text inside `{...}` for ChildExpression
	Loc        logger.Range
}
