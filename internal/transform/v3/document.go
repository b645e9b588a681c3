package v3

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// TransformCommand builds a §3.1 Command document through the runtime
// pipeline (spec §4.4): same frontmatter shape as v1.TransformCommand, but
// the document also carries the runtime variable declarations and called
// function namespace/import path the bundler and V3 emitter need.
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

	var varDecls []ir.RuntimeVarDecl
	for _, v := range t.File.RuntimeVarDecls {
		varDecls = append(varDecls, ir.RuntimeVarDecl{VarName: v.VarName, TypeText: v.TypeText})
	}

	namespace, importPath, fnNames, err := t.calledFunctions()
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(t.Config.OutputDir, folder, name+".md")
	return &ir.Document{
		Loc:               t.loc(root.Loc),
		Children:          children,
		Frontmatter:       fm,
		OutputPath:        outPath,
		IsRuntime:         true,
		RuntimeVarDecls:   varDecls,
		RuntimeNamespace:  namespace,
		RuntimeImportPath: importPath,
		RuntimeFnNames:    fnNames,
	}, nil
}

// calledFunctions derives the bundler-facing tuple from the file's
// runtimeFn declarations. Spec §4.4 expects one runtime module per
// Command; invariant 6 makes a second import path in the same document a
// NamespaceConflict rather than a silently-dropped decl.
func (t *Transformer) calledFunctions() (namespace, importPath string, fnNames []string, err error) {
	var first tsx_ast.RuntimeFnDecl
	for _, fn := range t.File.RuntimeFnDecls {
		if importPath == "" {
			first = fn
			importPath = fn.ImportPath
			namespace = runtimeNamespace(importPath)
		} else if fn.ImportPath != importPath {
			return "", "", nil, &diag.Error{
				Kind:    diag.NamespaceConflict,
				Message: fmt.Sprintf("this document calls runtime functions from two different files: %q and %q", importPath, fn.ImportPath),
				Primary: t.loc(fn.Loc),
				Secondary: []diag.SecondaryLocation{
					{Label: "first declared at:", Location: t.loc(first.Loc)},
				},
			}
		}
		fnNames = append(fnNames, fn.FnName)
	}
	return namespace, importPath, fnNames, nil
}

// runtimeNamespace derives a bundler-facing namespace from a runtimeFn
// import specifier: the base filename with its TypeScript extension
// (".ts" or ".tsx") stripped, e.g. "./runtime.ts" -> "runtime".
func runtimeNamespace(importPath string) string {
	base := filepath.Base(importPath)
	base = strings.TrimSuffix(base, ".tsx")
	base = strings.TrimSuffix(base, ".ts")
	return base
}
