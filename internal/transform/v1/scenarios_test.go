package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/diag"
	emitv1 "github.com/reactagentic/compiler/internal/emit/v1"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/resolver"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

func newTransformer() *Transformer {
	file := &tsx_ast.File{Path: "cmd.tsx", Source: &logger.Source{PrettyPath: "cmd.tsx"}}
	log := logger.NewLog()
	cache := resolver.NewCache()
	res := resolver.NewResolver(cache, file, func(string) (string, error) { return "", nil }, log)
	return New(file, res, log, config.Default())
}

func textAttr(name, value string) tsx_ast.JsxAttr {
	return tsx_ast.JsxAttr{Name: name, Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrString, String: value}}
}

func textChild(text string) tsx_ast.JsxChild {
	return tsx_ast.JsxChild{Kind: tsx_ast.ChildText, Text: text}
}

func elementChild(el *tsx_ast.JsxElement) tsx_ast.JsxChild {
	return tsx_ast.JsxChild{Kind: tsx_ast.ChildElement, Element: el}
}

// TestS1MinimalCommand pins spec.md S1 end to end: transform + emit.
func TestS1MinimalCommand(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag: "Command",
		Attrs: []tsx_ast.JsxAttr{
			textAttr("name", "hello"),
			textAttr("description", "say hi"),
		},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{textChild("Hi.")}}),
		},
	}

	tr := newTransformer()
	doc, err := tr.TransformCommand(root)
	require.NoError(t, err)
	assert.Equal(t, ".claude/commands/hello.md", doc.OutputPath)

	out, err := emitv1.EmitDocument(doc, config.Default())
	require.NoError(t, err)
	assert.Equal(t, "---\nname: hello\ndescription: say hi\n---\nHi.\n", out)
}

// TestS2AnchorWithoutHrefIsMissingRequiredProp pins spec.md S2.
func TestS2AnchorWithoutHrefIsMissingRequiredProp(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{
				elementChild(&tsx_ast.JsxElement{Tag: "a", Children: []tsx_ast.JsxChild{textChild("click")}}),
			}}),
		},
	}

	tr := newTransformer()
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.MissingRequiredProp, de.Kind)
}

// TestS3OnStatusDefaultSiblingPairing pins spec.md S3's paired-sibling
// rendering; the lone-OnStatusDefault rejection is checked by
// TestS3LoneOnStatusDefaultWithoutOutputIsRejected.
func TestS3OnStatusDefaultSiblingPairing(t *testing.T) {
	outAttr := tsx_ast.JsxAttr{Name: "output", Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrIdentifierRef, Ident: "out"}}
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag:   "OnStatus",
				Attrs: []tsx_ast.JsxAttr{outAttr, textAttr("status", "SUCCESS")},
				Children: []tsx_ast.JsxChild{
					elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{textChild("ok")}}),
				},
			}),
			elementChild(&tsx_ast.JsxElement{
				Tag: "OnStatusDefault",
				Children: []tsx_ast.JsxChild{
					elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{textChild("fallback")}}),
				},
			}),
		},
	}

	tr := newTransformer()
	tr.File.OutputDecls = []tsx_ast.OutputDecl{{LocalName: "out"}}
	doc, err := tr.TransformCommand(root)
	require.NoError(t, err)

	out, err := emitv1.EmitDocument(doc, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out, "**On SUCCESS:**\n\nok\n\n**On any other status:**\n\nfallback")
}

func TestS3LoneOnStatusDefaultWithoutOutputIsRejected(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag: "OnStatusDefault",
				Children: []tsx_ast.JsxChild{
					elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{textChild("fallback")}}),
				},
			}),
		},
	}

	tr := newTransformer()
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.InvalidChild, de.Kind)
}

// TestOnStatusWithUndeclaredOutputIsUnknownField pins spec.md invariant 3:
// an outputRef must name a useOutput() declaration in the same document.
func TestOnStatusWithUndeclaredOutputIsUnknownField(t *testing.T) {
	outAttr := tsx_ast.JsxAttr{Name: "output", Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrIdentifierRef, Ident: "missing"}}
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag:   "OnStatus",
				Attrs: []tsx_ast.JsxAttr{outAttr, textAttr("status", "SUCCESS")},
			}),
		},
	}

	tr := newTransformer()
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.UnknownField, de.Kind)
}

// TestBreakOutsideLoopIsInvalidChild pins spec.md invariant 4's first half:
// a <Break/> must be nested inside some <Loop> ancestor.
func TestBreakOutsideLoopIsInvalidChild(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "Break"}),
		},
	}

	tr := newTransformer()
	_, err := tr.TransformCommand(root)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.InvalidChild, de.Kind)
}

// TestBreakInsideLoopIsAccepted is the positive counterpart.
func TestBreakInsideLoopIsAccepted(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
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

	tr := newTransformer()
	_, err := tr.TransformCommand(root)
	require.NoError(t, err)
}

// TestS5SpawnAgentWithReadAgentFile pins spec.md S5.
func TestS5SpawnAgentWithReadAgentFile(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag:  "Command",
		Attrs: []tsx_ast.JsxAttr{textAttr("name", "x"), textAttr("description", "d")},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag: "SpawnAgent",
				Attrs: []tsx_ast.JsxAttr{
					textAttr("agent", "researcher"),
					textAttr("model", "sonnet"),
					textAttr("description", "Research"),
					{Name: "readAgentFile", Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrBooleanShorthand}},
					textAttr("prompt", "Do X"),
				},
			}),
		},
	}

	cfg := config.Default()
	cfg.AgentsDir = "/home/user/.claude/agents/"
	tr := New(&tsx_ast.File{Path: "cmd.tsx", Source: &logger.Source{PrettyPath: "cmd.tsx"}}, nil, logger.NewLog(), cfg)
	doc, err := tr.TransformCommand(root)
	require.NoError(t, err)

	out, err := emitv1.EmitDocument(doc, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `prompt="First, read /home/user/.claude/agents/researcher.md for your role and instructions.\n\nDo X"`)
	assert.Contains(t, out, `subagent_type="researcher"`)
}
