package classify

import (
	"testing"

	"github.com/reactagentic/compiler/internal/tsx_ast"
)

func TestClassifyNilRootIsUnknown(t *testing.T) {
	if got := Classify(&tsx_ast.File{}); got != PipelineUnknown {
		t.Fatalf("expected PipelineUnknown for a nil root, got %v", got)
	}
}

func TestClassifyPlainCommand(t *testing.T) {
	file := &tsx_ast.File{Root: &tsx_ast.JsxElement{Tag: "Command"}}
	if got := Classify(file); got != PipelineV1Command {
		t.Fatalf("expected PipelineV1Command, got %v", got)
	}
}

func TestClassifyRuntimeCommandByDecl(t *testing.T) {
	file := &tsx_ast.File{
		Root:            &tsx_ast.JsxElement{Tag: "Command"},
		RuntimeVarDecls: []tsx_ast.RuntimeVarDecl{{VarName: "CTX"}},
	}
	if got := Classify(file); got != PipelineV3RuntimeCommand {
		t.Fatalf("expected PipelineV3RuntimeCommand, got %v", got)
	}
}

func TestClassifyRuntimeCommandByImport(t *testing.T) {
	file := &tsx_ast.File{
		Root: &tsx_ast.JsxElement{Tag: "Command"},
		Imports: []tsx_ast.ImportDecl{
			{Names: []tsx_ast.ImportedName{{Imported: "useRuntimeVar", Local: "useRuntimeVar"}}},
		},
	}
	if got := Classify(file); got != PipelineV3RuntimeCommand {
		t.Fatalf("expected PipelineV3RuntimeCommand from an import, got %v", got)
	}
}

func TestClassifyAgent(t *testing.T) {
	file := &tsx_ast.File{Root: &tsx_ast.JsxElement{Tag: "Agent"}}
	if got := Classify(file); got != PipelineV1Agent {
		t.Fatalf("expected PipelineV1Agent, got %v", got)
	}
}

func TestClassifySkill(t *testing.T) {
	file := &tsx_ast.File{Root: &tsx_ast.JsxElement{Tag: "Skill"}}
	if got := Classify(file); got != PipelineV1Skill {
		t.Fatalf("expected PipelineV1Skill, got %v", got)
	}
}

func TestClassifyUnrecognizedRootTag(t *testing.T) {
	file := &tsx_ast.File{Root: &tsx_ast.JsxElement{Tag: "div"}}
	if got := Classify(file); got != PipelineUnknown {
		t.Fatalf("expected PipelineUnknown for an unrecognized root tag, got %v", got)
	}
}
