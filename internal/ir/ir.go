// Package ir defines the typed intermediate representation from spec
// §3.2/§3.3: a discriminated tree of nodes built once per document by a
// transformer and consumed read-only by an emitter.
//
// Following the teacher's own js_ast convention (an Expr{Loc, Data} wrapper
// around a closed set of concrete E* structs switched on via a Go type
// switch), every IR node is a Node{Loc, Children, Data} wrapper around a
// concrete Data payload; Kind is derived from Data's dynamic type via
// KindOf, so there is exactly one source of truth for "what kind of node
// is this" and callers type-switch on Data the same way js_printer type-
// switches on js_ast.E*.
package ir

import "github.com/reactagentic/compiler/internal/logger"

// Node is the common shape every IR node uses. Children are held by value
// reference (arena-friendly: no back-pointers, per spec §9).
type Node struct {
	Loc      *logger.MsgLocation
	Data     NodeData
	Children []*Node
}

// NodeData is implemented by every concrete payload type below. The
// method is a zero-cost marker (mirrors js_ast's isExpr()/isStmt()
// pattern) that exists purely so the Go compiler catches passing the
// wrong type into a Node.Data field.
type NodeData interface{ isNodeData() }

// --- Document roots -------------------------------------------------

type Frontmatter struct {
	// Fields is ordered so §8 property 1 (deterministic output) holds
	// regardless of Go's unordered map iteration.
	Fields []FrontmatterField
}

type FrontmatterField struct {
	Key   string // kebab-case, already mapped from the camelCase prop name
	Value interface{}
}

// Document, AgentDocument and SkillDocument are the three top-level roots
// from spec §3.1. They are never nested inside another node's Children,
// so — unlike blocks and inlines — they hold their Loc/Children directly
// rather than through the generic Node/NodeData wrapper.
type Document struct {
	Loc         *logger.MsgLocation
	Children    []*Node
	Frontmatter Frontmatter
	OutputPath  string

	// Runtime-only fields (present only when this document went through
	// the V3 pipeline, per spec §3.2).
	IsRuntime         bool
	RuntimeVarDecls   []RuntimeVarDecl
	RuntimeNamespace  string
	RuntimeImportPath string
	RuntimeFnNames    []string
}

type RuntimeVarDecl struct {
	VarName  string
	TypeText string
}

type AgentDocument struct {
	Loc         *logger.MsgLocation
	Children    []*Node
	Frontmatter Frontmatter
	OutputPath  string
	InputType   string
	OutputType  string
}

type SkillDocument struct {
	Loc         *logger.MsgLocation
	Children    []*Node
	Frontmatter Frontmatter
	OutputDir   string // .claude/skills/<name>/
	Files       []SkillFile
	Statics     []SkillStatic
}

type SkillFile struct {
	Name     string // relative output path, e.g. "reference.md"
	Children []*Node
}

type SkillStatic struct {
	Src  string // resolved absolute path (resolved against authoring dir, §3.3 invariant 7)
	Dest string // relative output path under the skill directory
}

// --- Block node payloads ---------------------------------------------

type Heading struct{ Level int } // clamped 1..6

func (Heading) isNodeData() {}

type Paragraph struct{}

func (Paragraph) isNodeData() {}

type List struct {
	Ordered bool
	Start   int
}

func (List) isNodeData() {}

type ListItem struct{}

func (ListItem) isNodeData() {}

type Blockquote struct{}

func (Blockquote) isNodeData() {}

type CodeBlock struct {
	Language string
	Code     string
}

func (CodeBlock) isNodeData() {}

type ThematicBreak struct{}

func (ThematicBreak) isNodeData() {}

type Table struct {
	Header []string
	Rows   [][]string
}

func (Table) isNodeData() {}

type Indent struct{}

func (Indent) isNodeData() {}

type XmlBlock struct{ Tag string }

func (XmlBlock) isNodeData() {}

type ExecutionContext struct{}

func (ExecutionContext) isNodeData() {}

type Step struct{ Title string }

func (Step) isNodeData() {}

type RawMarkdown struct{ Text string }

func (RawMarkdown) isNodeData() {}

type ReadFile struct {
	Path     string
	As       string
	Optional bool
}

func (ReadFile) isNodeData() {}

type SpawnAgent struct {
	Agent           string
	Description     string
	Model           string
	InputTypeName   string
	Input           map[string]interface{}
	InputRuntimeRef *RuntimeVarRef
	ReadAgentFile   bool
	Prompt          string
}

func (SpawnAgent) isNodeData() {}

type OnStatus struct {
	Status    string
	OutputRef string
}

func (OnStatus) isNodeData() {}

type OnStatusDefault struct {
	OutputRef string
}

func (OnStatusDefault) isNodeData() {}

type AskUser struct {
	Question    string
	Options     []string
	Header      string
	Description string
	CaptureVar  string
}

func (AskUser) isNodeData() {}

type If struct {
	Condition Condition
	ElseBody  []*Node
}

func (If) isNodeData() {}

type Else struct{}

func (Else) isNodeData() {}

type Loop struct {
	MaxIterations int
	Counter       string
}

func (Loop) isNodeData() {}

type Break struct{ Message string }

func (Break) isNodeData() {}

type Return struct {
	Status  string
	Message string
}

func (Return) isNodeData() {}

type Call struct {
	Namespace string
	FnName    string
	Args      map[string]interface{}
	Output    string
}

func (Call) isNodeData() {}

// --- Inline node payloads ---------------------------------------------

type Text struct{ Text string }

func (Text) isNodeData() {}

type Bold struct{}

func (Bold) isNodeData() {}

type Italic struct{}

func (Italic) isNodeData() {}

type InlineCode struct{ Code string }

func (InlineCode) isNodeData() {}

type Link struct{ Href string }

func (Link) isNodeData() {}

type LineBreak struct{}

func (LineBreak) isNodeData() {}

// Group is a transparent container: a transformer uses it to bundle
// sibling nodes (e.g. a paired OnStatus + its inherited OnStatusDefault)
// that must travel together but each keep their own Data/Children.
// Emitters flatten it away before rendering (see renderBlocks in emit/v1
// and emit/v3).
type Group struct{}

func (Group) isNodeData() {}

// IsGroup reports whether n is a transparent Group wrapper.
func IsGroup(n *Node) bool {
	_, ok := n.Data.(Group)
	return ok
}

// RuntimeVarRef is spec §3.2's runtimeVarRef{varName, path[]}.
type RuntimeVarRef struct {
	VarName string
	Path    []PathStep
}

type PathStep struct {
	Name    string
	IsIndex bool
	Index   int
}

type RuntimeVarInterpolation struct{ Ref RuntimeVarRef }

func (RuntimeVarInterpolation) isNodeData() {}

// --- Condition ADT (spec §3.2) -----------------------------------------

type ConditionKind uint8

const (
	CondLiteral ConditionKind = iota
	CondRef
	CondEq
	CondNot
	CondAnd
	CondOr
)

type Condition struct {
	Kind    ConditionKind
	Literal bool           // CondLiteral
	Ref     *RuntimeVarRef // CondRef, and CondEq's left-hand side
	EqValue string         // CondEq's right-hand literal text, e.g. "SUCCESS"
	Inner   *Condition     // CondNot's operand
	Left    *Condition     // CondAnd/CondOr left operand
	Right   *Condition     // CondAnd/CondOr right operand
}
