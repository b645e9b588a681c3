package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/diag"
	emitv3 "github.com/reactagentic/compiler/internal/emit/v3"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

func newCtxFile() *tsx_ast.File {
	return &tsx_ast.File{
		Path:   "cmd.tsx",
		Source: &logger.Source{PrettyPath: "cmd.tsx"},
		RuntimeVarDecls: []tsx_ast.RuntimeVarDecl{
			{VarName: "CTX", LocalName: "ctx", TypeText: "{phase:{id:string}}"},
		},
	}
}

func textAttr(name, value string) tsx_ast.JsxAttr {
	return tsx_ast.JsxAttr{Name: name, Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrString, String: value}}
}

func textChild(text string) tsx_ast.JsxChild {
	return tsx_ast.JsxChild{Kind: tsx_ast.ChildText, Text: text}
}

func exprChild(expr string) tsx_ast.JsxChild {
	return tsx_ast.JsxChild{Kind: tsx_ast.ChildExpression, Expression: expr}
}

func elementChild(el *tsx_ast.JsxElement) tsx_ast.JsxChild {
	return tsx_ast.JsxChild{Kind: tsx_ast.ChildElement, Element: el}
}

// TestS4RuntimeVariableInterpolation pins spec.md S4's accepted path.
func TestS4RuntimeVariableInterpolation(t *testing.T) {
	file := newCtxFile()
	root := &tsx_ast.JsxElement{
		Tag:   "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{
				textChild("Phase "),
				exprChild("ctx.phase.id"),
			}}),
		},
	}

	tr := New(file, nil, logger.NewLog(), config.Default())
	doc, err := tr.TransformCommand(root)
	require.NoError(t, err)

	out, _, err := emitv3.EmitDocument(doc, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out, "Phase $CTX.phase.id")
}

// TestS4UnknownFieldIsRejected pins spec.md S4's rejected path.
func TestS4UnknownFieldIsRejected(t *testing.T) {
	file := newCtxFile()
	root := &tsx_ast.JsxElement{
		Tag:   "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{
				exprChild("ctx.phase.wrong"),
			}}),
		},
	}

	tr := New(file, nil, logger.NewLog(), config.Default())
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.UnknownField, de.Kind)
	assert.Contains(t, de.Message, "wrong")
}

// TestOnStatusWithUndeclaredOutputIsUnknownField pins spec.md invariant 3
// for the runtime pipeline: an outputRef must name a useOutput()
// declaration in the same document.
func TestOnStatusWithUndeclaredOutputIsUnknownField(t *testing.T) {
	file := &tsx_ast.File{Path: "cmd.tsx", Source: &logger.Source{PrettyPath: "cmd.tsx"}}
	outAttr := tsx_ast.JsxAttr{Name: "output", Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrIdentifierRef, Ident: "missing"}}
	root := &tsx_ast.JsxElement{
		Tag:   "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag:   "OnStatus",
				Attrs: []tsx_ast.JsxAttr{outAttr, textAttr("status", "SUCCESS")},
			}),
		},
	}

	tr := New(file, nil, logger.NewLog(), config.Default())
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.UnknownField, de.Kind)
}

// TestBreakOutsideLoopIsInvalidChild pins spec.md invariant 4's first half
// for the runtime pipeline.
func TestBreakOutsideLoopIsInvalidChild(t *testing.T) {
	file := &tsx_ast.File{Path: "cmd.tsx", Source: &logger.Source{PrettyPath: "cmd.tsx"}}
	root := &tsx_ast.JsxElement{
		Tag:   "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "Break"}),
		},
	}

	tr := New(file, nil, logger.NewLog(), config.Default())
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.InvalidChild, de.Kind)
}

// TestBreakInsideLoopIsAccepted is the positive counterpart.
func TestBreakInsideLoopIsAccepted(t *testing.T) {
	file := &tsx_ast.File{Path: "cmd.tsx", Source: &logger.Source{PrettyPath: "cmd.tsx"}}
	root := &tsx_ast.JsxElement{
		Tag:   "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag: "Loop",
				Children: []tsx_ast.JsxChild{
					elementChild(&tsx_ast.JsxElement{Tag: "Break"}),
				},
			}),
		},
	}

	tr := New(file, nil, logger.NewLog(), config.Default())
	_, err := tr.TransformCommand(root)
	require.NoError(t, err)
}

func TestRuntimeNamespaceStripsTsAndTsxExtensions(t *testing.T) {
	assert.Equal(t, "runtime", runtimeNamespace("./runtime.ts"))
	assert.Equal(t, "runtime", runtimeNamespace("./runtime.tsx"))
	assert.Equal(t, "deploy", runtimeNamespace("../deploy.ts"))
}

// TestCalledFunctionsDerivesNamespaceFromImportPath pins the bundler-facing
// tuple a runtime Command contributes (spec §4.8's input).
func TestCalledFunctionsDerivesNamespaceFromImportPath(t *testing.T) {
	file := &tsx_ast.File{
		Path:   "cmd.tsx",
		Source: &logger.Source{PrettyPath: "cmd.tsx"},
		RuntimeFnDecls: []tsx_ast.RuntimeFnDecl{
			{LocalName: "Deploy", ImportPath: "./runtime.ts", FnName: "deployFn"},
		},
	}
	tr := New(file, nil, logger.NewLog(), config.Default())
	namespace, importPath, fnNames, err := tr.calledFunctions()
	require.NoError(t, err)
	assert.Equal(t, "runtime", namespace)
	assert.Equal(t, "./runtime.ts", importPath)
	assert.Equal(t, []string{"deployFn"}, fnNames)
}

// TestCalledFunctionsRejectsMixedImportPaths pins spec.md invariant 6: a
// single document may call runtime functions from only one namespace.
func TestCalledFunctionsRejectsMixedImportPaths(t *testing.T) {
	file := &tsx_ast.File{
		Path:   "cmd.tsx",
		Source: &logger.Source{PrettyPath: "cmd.tsx"},
		RuntimeFnDecls: []tsx_ast.RuntimeFnDecl{
			{LocalName: "Deploy", ImportPath: "./runtime.ts", FnName: "deployFn"},
			{LocalName: "Rollback", ImportPath: "./other.ts", FnName: "rollbackFn"},
		},
	}
	tr := New(file, nil, logger.NewLog(), config.Default())
	_, _, _, err := tr.calledFunctions()
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.NamespaceConflict, de.Kind)
}
