package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactagentic/compiler/internal/logger"
)

func TestErrorStringWithoutLocation(t *testing.T) {
	err := New(UnknownComponent, nil, "unknown tag %q", "Foo")
	assert.Equal(t, "UnknownComponent: unknown tag \"Foo\"", err.Error())
}

func TestErrorStringWithLocation(t *testing.T) {
	loc := &logger.MsgLocation{File: "cmd.tsx", Line: 3, Column: 5}
	err := New(MissingRequiredProp, loc, "<a> requires \"href\"")
	assert.Equal(t, "cmd.tsx:3:5: MissingRequiredProp: <a> requires \"href\"", err.Error())
}

func TestWithSecondaryCarriesLocation(t *testing.T) {
	primary := &logger.MsgLocation{File: "a.tsx", Line: 1, Column: 1}
	secondary := &logger.MsgLocation{File: "agent.tsx", Line: 9, Column: 2}
	err := WithSecondary(InterfaceMismatch, primary, "Agent interface defined at:", secondary, "missing field %q", "id")
	assert.Equal(t, InterfaceMismatch, err.Kind)
	assert.Len(t, err.Secondary, 1)
	assert.Equal(t, "Agent interface defined at:", err.Secondary[0].Label)
	assert.Same(t, secondary, err.Secondary[0].Location)
}

func TestReportAddsErrorAndNotesToLog(t *testing.T) {
	primary := &logger.MsgLocation{File: "a.tsx", Line: 1, Column: 1}
	secondary := &logger.MsgLocation{File: "agent.tsx", Line: 9, Column: 2}
	err := WithSecondary(InterfaceMismatch, primary, "Agent interface defined at:", secondary, "missing field %q", "id")

	log := logger.NewLog()
	err.Report(log)
	assert.True(t, log.HasErrors())
}
