// Package v1 implements spec §4.3: the classic JSX -> IR transformer for
// Command, Agent and Skill documents. Dispatch is table-driven on tag
// name (internal/transform/v1/blocks.go); sibling pairing for If/Else and
// OnStatus/OnStatusDefault is a small state machine (controlflow.go, spec
// §4.9); agent-interface validation and skill collection have their own
// files (agents.go, skills.go).
package v1

import (
	"fmt"
	"path/filepath"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/resolver"
	"github.com/reactagentic/compiler/internal/tsx_ast"
	"github.com/reactagentic/compiler/internal/tsx_parser"
)

// Transformer carries everything a single document's transform pass needs:
// the owning file (for locations), a resolver for cross-file agent
// interface lookups, the shared log, and build config (for readAgentFile's
// agentsDir and Skill output layout).
type Transformer struct {
	File     *tsx_ast.File
	Resolver *resolver.Resolver
	Log      *logger.Log
	Config   config.Config
	// loopDepth tracks lexical nesting inside <Loop> so handleBreak can
	// reject a <Break/> outside any loop (spec §3.3 invariant 4).
	loopDepth int
}

func New(file *tsx_ast.File, res *resolver.Resolver, log *logger.Log, cfg config.Config) *Transformer {
	return &Transformer{File: file, Resolver: res, Log: log, Config: cfg}
}

func (t *Transformer) loc(r logger.Range) *logger.MsgLocation {
	return logger.LocationIn(t.File.Source, r)
}

// TransformCommand builds a §3.1 Command document from the file's root
// <Command> element.
func (t *Transformer) TransformCommand(root *tsx_ast.JsxElement) (*ir.Document, error) {
	name := stringAttr(root, "name")
	if name == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(root.Loc), "<Command> requires a \"name\" prop")
	}
	description := stringAttr(root, "description")
	folder := stringAttr(root, "folder")

	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "name", Value: name},
		{Key: "description", Value: description},
	}}
	if v := stringAttr(root, "argumentHint"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "argument-hint", Value: v})
	}
	if v := stringAttr(root, "agent"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "agent", Value: v})
	}
	if v := stringSliceAttr(root, "allowedTools"); len(v) > 0 {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "allowed-tools", Value: v})
	}

	children, err := t.transformChildren(root.Children)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(t.Config.OutputDir, folder, name+".md")
	return &ir.Document{
		Loc:         t.loc(root.Loc),
		Children:    children,
		Frontmatter: fm,
		OutputPath:  outPath,
	}, nil
}

// TransformAgent builds a §3.1 Agent document from the file's root
// <Agent> element. Agents still accept ReadFile and the content-primitive
// tags per spec §4.2 ("still eligible for ReadFile and contract
// components").
func (t *Transformer) TransformAgent(root *tsx_ast.JsxElement) (*ir.AgentDocument, error) {
	name := stringAttr(root, "name")
	if name == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(root.Loc), "<Agent> requires a \"name\" prop")
	}
	description := stringAttr(root, "description")
	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "name", Value: name},
		{Key: "description", Value: description},
	}}
	if v := stringSliceAttr(root, "tools"); len(v) > 0 {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "tools", Value: v})
	}
	if v := stringAttr(root, "color"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "color", Value: v})
	}

	children, err := t.transformChildren(root.Children)
	if err != nil {
		return nil, err
	}

	inputType := ""
	if len(root.TypeArgs) > 0 {
		inputType = root.TypeArgs[0]
	}
	outputType := identAttr(root, "outputType")

	return &ir.AgentDocument{
		Loc:         t.loc(root.Loc),
		Children:    children,
		Frontmatter: fm,
		OutputPath:  filepath.Join(".claude/agents", name+".md"),
		InputType:   inputType,
		OutputType:  outputType,
	}, nil
}

func stringAttr(el *tsx_ast.JsxElement, name string) string {
	v := tsx_parser.GetAttribute(el, name)
	if v == nil {
		return ""
	}
	switch v.Kind {
	case tsx_ast.AttrString:
		return v.String
	case tsx_ast.AttrIdentifierRef:
		return v.Ident
	}
	return ""
}

func identAttr(el *tsx_ast.JsxElement, name string) string {
	v := tsx_parser.GetAttribute(el, name)
	if v == nil {
		return ""
	}
	return v.Ident
}

func boolAttr(el *tsx_ast.JsxElement, name string) bool {
	v := tsx_parser.GetAttribute(el, name)
	if v == nil {
		return false
	}
	switch v.Kind {
	case tsx_ast.AttrBooleanShorthand:
		return true
	case tsx_ast.AttrBoolean:
		return v.Bool
	}
	return false
}

func stringSliceAttr(el *tsx_ast.JsxElement, name string) []string {
	v := tsx_parser.GetAttribute(el, name)
	if v == nil || v.Kind != tsx_ast.AttrArrayLiteral {
		return nil
	}
	items, err := evalArray(v.Raw)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprintf("%v", it))
	}
	return out
}
