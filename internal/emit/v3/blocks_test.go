package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/ir"
)

func ref(varName string, path ...ir.PathStep) *ir.RuntimeVarRef {
	return &ir.RuntimeVarRef{VarName: varName, Path: path}
}

func TestRenderConditionLiteral(t *testing.T) {
	assert.Equal(t, "true", renderCondition(ir.Condition{Kind: ir.CondLiteral, Literal: true}))
	assert.Equal(t, "false", renderCondition(ir.Condition{Kind: ir.CondLiteral, Literal: false}))
}

func TestRenderConditionRef(t *testing.T) {
	c := ir.Condition{Kind: ir.CondRef, Ref: ref("CTX", ir.PathStep{Name: "ready"})}
	assert.Equal(t, "$CTX.ready", renderCondition(c))
}

func TestRenderConditionEqQuotesValue(t *testing.T) {
	c := ir.Condition{Kind: ir.CondEq, Ref: ref("CTX", ir.PathStep{Name: "phase"}, ir.PathStep{Name: "id"}), EqValue: "SUCCESS"}
	assert.Equal(t, `$CTX.phase.id = "SUCCESS"`, renderCondition(c))
}

func TestRenderConditionNot(t *testing.T) {
	inner := ir.Condition{Kind: ir.CondRef, Ref: ref("CTX", ir.PathStep{Name: "ready"})}
	c := ir.Condition{Kind: ir.CondNot, Inner: &inner}
	assert.Equal(t, "not $CTX.ready", renderCondition(c))
}

func TestRenderConditionAndOr(t *testing.T) {
	left := ir.Condition{Kind: ir.CondRef, Ref: ref("CTX", ir.PathStep{Name: "a"})}
	right := ir.Condition{Kind: ir.CondRef, Ref: ref("CTX", ir.PathStep{Name: "b"})}
	and := ir.Condition{Kind: ir.CondAnd, Left: &left, Right: &right}
	or := ir.Condition{Kind: ir.CondOr, Left: &left, Right: &right}
	assert.Equal(t, "($CTX.a and $CTX.b)", renderCondition(and))
	assert.Equal(t, "($CTX.a or $CTX.b)", renderCondition(or))
}

func TestRenderCallWithOutput(t *testing.T) {
	cfg := config.Default()
	out, err := renderCall(ir.Call{Namespace: "deploy", FnName: "run", Args: map[string]interface{}{"target": "prod"}, Output: "RESULT"}, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "RESULT=$(node ")
	assert.Contains(t, out, "deploy.run '{\"target\":\"prod\"}'")
}

func TestRenderCallWithoutOutput(t *testing.T) {
	cfg := config.Default()
	out, err := renderCall(ir.Call{Namespace: "deploy", FnName: "run"}, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "deploy.run '{}'")
	assert.NotContains(t, out, "=$(")
}

func TestRenderBlockLoopBreakReturn(t *testing.T) {
	cfg := config.Default()
	loopNode := &ir.Node{Data: ir.Loop{MaxIterations: 3, Counter: "ITER"}}
	s, err := renderBlock(loopNode, cfg)
	require.NoError(t, err)
	assert.Equal(t, "**Loop up to 3 times (counter: $ITER):**\n\n", s)

	breakNode := &ir.Node{Data: ir.Break{Message: "done early"}}
	s, err = renderBlock(breakNode, cfg)
	require.NoError(t, err)
	assert.Equal(t, "**Break loop:** done early", s)

	returnNode := &ir.Node{Data: ir.Return{Status: "SUCCESS", Message: "all good"}}
	s, err = renderBlock(returnNode, cfg)
	require.NoError(t, err)
	assert.Equal(t, "**End command** (SUCCESS): all good", s)
}

func TestRenderIfWithElse(t *testing.T) {
	cfg := config.Default()
	cond := ir.Condition{Kind: ir.CondRef, Ref: ref("CTX", ir.PathStep{Name: "ready"})}
	body := []*ir.Node{{Data: ir.Paragraph{}, Children: []*ir.Node{{Data: ir.Text{Text: "go"}}}}}
	elseBody := []*ir.Node{{Data: ir.Paragraph{}, Children: []*ir.Node{{Data: ir.Text{Text: "wait"}}}}}

	s, err := renderIf(ir.If{Condition: cond, ElseBody: elseBody}, body, cfg)
	require.NoError(t, err)
	assert.Equal(t, "**If $CTX.ready:**\n\ngo\n\n**Otherwise:**\n\nwait", s)
}

func TestRenderTable(t *testing.T) {
	data := ir.Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	assert.Equal(t, "| a | b |\n| --- | --- |\n| 1 | 2 |", renderTable(data))
}

func TestRenderListOrderedAndUnordered(t *testing.T) {
	cfg := config.Default()
	items := []*ir.Node{
		{Children: []*ir.Node{{Data: ir.Paragraph{}, Children: []*ir.Node{{Data: ir.Text{Text: "first"}}}}}},
		{Children: []*ir.Node{{Data: ir.Paragraph{}, Children: []*ir.Node{{Data: ir.Text{Text: "second"}}}}}},
	}
	s, err := renderList(ir.List{Ordered: false}, items, cfg)
	require.NoError(t, err)
	assert.Equal(t, "- first\n- second", s)

	s, err = renderList(ir.List{Ordered: true, Start: 1}, items, cfg)
	require.NoError(t, err)
	assert.Equal(t, "1. first\n2. second", s)
}
