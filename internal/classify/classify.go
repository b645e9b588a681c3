// Package classify implements spec §4.2: choosing the downstream
// transformer/emitter pair from a parsed file's root element tag and its
// import table.
package classify

import "github.com/reactagentic/compiler/internal/tsx_ast"

type Pipeline uint8

const (
	PipelineV1Command Pipeline = iota
	PipelineV3RuntimeCommand
	PipelineV1Agent
	PipelineV1Skill
	PipelineUnknown
)

// Classify implements spec §4.2's rule table: a `Command` root importing
// `useRuntimeVar` or `runtimeFn` goes to the V3 runtime pipeline; `Agent`
// and `Skill` roots each have their own fixed pipeline; anything else
// tagged `Command` is plain V1.
func Classify(file *tsx_ast.File) Pipeline {
	if file.Root == nil {
		return PipelineUnknown
	}
	switch file.Root.Tag {
	case "Agent":
		return PipelineV1Agent
	case "Skill":
		return PipelineV1Skill
	case "Command":
		if importsRuntimeHooks(file) {
			return PipelineV3RuntimeCommand
		}
		return PipelineV1Command
	default:
		return PipelineUnknown
	}
}

func importsRuntimeHooks(file *tsx_ast.File) bool {
	if len(file.RuntimeVarDecls) > 0 || len(file.RuntimeFnDecls) > 0 {
		return true
	}
	for _, imp := range file.Imports {
		for _, n := range imp.Names {
			if n.Imported == "useRuntimeVar" || n.Imported == "runtimeFn" {
				return true
			}
		}
	}
	return false
}
