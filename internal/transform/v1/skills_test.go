package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/config"
	emitv1 "github.com/reactagentic/compiler/internal/emit/v1"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/resolver"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

func newSkillTransformer(path string) *Transformer {
	file := &tsx_ast.File{Path: path, Source: &logger.Source{PrettyPath: path}}
	log := logger.NewLog()
	cache := resolver.NewCache()
	res := resolver.NewResolver(cache, file, func(string) (string, error) { return "", nil }, log)
	return New(file, res, log, config.Default())
}

// TestS6SkillMultiFileOutput pins spec.md S6: a <Skill> with a <SkillFile>
// and a <SkillStatic> produces SKILL.md, an extra markdown file and a
// static-copy action resolved against the authoring file's directory.
func TestS6SkillMultiFileOutput(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag: "Skill",
		Attrs: []tsx_ast.JsxAttr{
			textAttr("name", "deploy"),
			textAttr("description", "Deploy the service"),
			{Name: "disableModelInvocation", Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrBooleanShorthand}},
			{Name: "allowedTools", Value: tsx_ast.AttrValue{Kind: tsx_ast.AttrArrayLiteral, Raw: `["Bash", "Read"]`}},
		},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{textChild("Deploy the service.")}}),
			elementChild(&tsx_ast.JsxElement{
				Tag:   "SkillFile",
				Attrs: []tsx_ast.JsxAttr{textAttr("name", "reference.md")},
				Children: []tsx_ast.JsxChild{
					elementChild(&tsx_ast.JsxElement{Tag: "p", Children: []tsx_ast.JsxChild{textChild("Reference material.")}}),
				},
			}),
			elementChild(&tsx_ast.JsxElement{
				Tag:   "SkillStatic",
				Attrs: []tsx_ast.JsxAttr{textAttr("src", "scripts/deploy.sh")},
			}),
		},
	}

	tr := newSkillTransformer("/project/skills/deploy.tsx")
	doc, err := tr.TransformSkill(root)
	require.NoError(t, err)
	assert.Equal(t, ".claude/skills/deploy", doc.OutputDir)
	require.Len(t, doc.Statics, 1)
	assert.Equal(t, "/project/skills/scripts/deploy.sh", doc.Statics[0].Src)
	assert.Equal(t, "deploy.sh", doc.Statics[0].Dest)

	out, err := emitv1.EmitSkill(doc, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out.SkillMD, "disable-model-invocation: true\n")
	assert.Contains(t, out.SkillMD, "allowed-tools:\n")
	assert.Contains(t, out.SkillMD, "- Bash\n")
	assert.Contains(t, out.SkillMD, "- Read\n")
	assert.Contains(t, out.SkillMD, "Deploy the service.")
	require.Contains(t, out.Files, "reference.md")
	assert.Contains(t, out.Files["reference.md"], "Reference material.")
	require.Len(t, out.Statics, 1)
	assert.Equal(t, "deploy.sh", out.Statics[0].Dest)
}

// TestS6DuplicateSkillFilePathIsRejected pins spec §3.3's duplicate-output-path
// invariant: two children that would write the same destination path fail.
func TestS6DuplicateSkillFilePathIsRejected(t *testing.T) {
	root := &tsx_ast.JsxElement{
		Tag: "Skill",
		Attrs: []tsx_ast.JsxAttr{
			textAttr("name", "deploy"),
			textAttr("description", "Deploy the service"),
		},
		Children: []tsx_ast.JsxChild{
			elementChild(&tsx_ast.JsxElement{
				Tag:      "SkillFile",
				Attrs:    []tsx_ast.JsxAttr{textAttr("name", "reference.md")},
				Children: []tsx_ast.JsxChild{textChild("a")},
			}),
			elementChild(&tsx_ast.JsxElement{
				Tag:   "SkillStatic",
				Attrs: []tsx_ast.JsxAttr{textAttr("src", "assets/reference.md"), textAttr("dest", "reference.md")},
			}),
		},
	}

	tr := newSkillTransformer("/project/skills/deploy.tsx")
	_, err := tr.TransformSkill(root)
	require.Error(t, err)
}
