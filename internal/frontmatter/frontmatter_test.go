package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/ir"
)

// TestRenderMinimalCommand pins S1 from spec.md: exactly name/description,
// nothing else.
func TestRenderMinimalCommand(t *testing.T) {
	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "name", Value: "hello"},
		{Key: "description", Value: "say hi"},
	}}
	out, err := Render(fm)
	require.NoError(t, err)
	assert.Equal(t, "---\nname: hello\ndescription: say hi\n---\n", out)
}

func TestRenderOmitsEmptyOptionalFields(t *testing.T) {
	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "name", Value: "hello"},
		{Key: "argument-hint", Value: ""},
		{Key: "allowed-tools", Value: []string{}},
	}}
	out, err := Render(fm)
	require.NoError(t, err)
	assert.Equal(t, "---\nname: hello\n---\n", out)
}

func TestRenderPreservesFieldOrder(t *testing.T) {
	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "z-last", Value: "1"},
		{Key: "a-first", Value: "2"},
	}}
	out, err := Render(fm)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[1], "z-last:"))
	assert.True(t, strings.HasPrefix(lines[2], "a-first:"))
}

// TestRenderKebabCaseBoolAndArray pins S6's skill frontmatter shape:
// disable-model-invocation as a bool, allowed-tools as block-form YAML.
func TestRenderKebabCaseBoolAndArray(t *testing.T) {
	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "name", Value: "deploy"},
		{Key: "disable-model-invocation", Value: true},
		{Key: "allowed-tools", Value: []string{"Bash", "Read"}},
	}}
	out, err := Render(fm)
	require.NoError(t, err)
	assert.Contains(t, out, "disable-model-invocation: true\n")
	assert.Contains(t, out, "allowed-tools:\n")
	assert.Contains(t, out, "- Bash\n")
	assert.Contains(t, out, "- Read\n")
}
