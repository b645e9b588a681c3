package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/ir"
)

func TestEscapeTaskArgEscapesBackslashQuoteAndNewlineExactlyOnce(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeTaskArg(`a\b`))
	assert.Equal(t, `a\"b`, escapeTaskArg(`a"b`))
	assert.Equal(t, `a\nb`, escapeTaskArg("a\nb"))
}

func TestRenderSpawnAgentWithoutReadAgentFileLeavesPromptUntouched(t *testing.T) {
	cfg := config.Default()
	out, err := renderSpawnAgent(ir.SpawnAgent{Agent: "researcher", Description: "Research", Prompt: "Do X"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, `Task(prompt="Do X", subagent_type="researcher", description="Research")`, out)
}

func TestRenderReadFileQuotesPathsWithSpaces(t *testing.T) {
	assert.Equal(t, "```bash\nOUT=$(cat \"my file.txt\")\n```", renderReadFile(ir.ReadFile{Path: "my file.txt", As: "OUT"}))
	assert.Equal(t, "```bash\nOUT=$(cat plain.txt 2>/dev/null)\n```", renderReadFile(ir.ReadFile{Path: "plain.txt", As: "OUT", Optional: true}))
}

func TestRenderTable(t *testing.T) {
	data := ir.Table{Header: []string{"name", "role"}, Rows: [][]string{{"Ana", "lead"}, {"Bo", "eng"}}}
	assert.Equal(t, "| name | role |\n| --- | --- |\n| Ana | lead |\n| Bo | eng |", renderTable(data))
}

func TestRenderConditionOnlySupportsLiterals(t *testing.T) {
	assert.Equal(t, "true", renderCondition(ir.Condition{Kind: ir.CondLiteral, Literal: true}))
	assert.Equal(t, "condition", renderCondition(ir.Condition{Kind: ir.CondRef}))
}

func TestRenderAskUserWithOptions(t *testing.T) {
	out := renderAskUser(ir.AskUser{Question: "Proceed?", Options: []string{"Yes", "No"}, CaptureVar: "ANSWER"})
	assert.Equal(t, `AskUserQuestion(question="Proceed?", options=["Yes", "No"], capture=$ANSWER)`, out)
}
