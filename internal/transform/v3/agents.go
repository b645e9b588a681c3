package v3

import (
	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// handleSpawnAgent extends v1's agent-interface validation (spec §4.3) with
// the runtime-variable-reference case spec §4.3 calls out explicitly: "When
// input is a runtime variable reference, no compile-time field validation
// is possible."
func (t *Transformer) handleSpawnAgent(el *tsx_ast.JsxElement) (*ir.Node, error) {
	agent := stringAttr(el, "agent")
	description := stringAttr(el, "description")
	if agent == "" || description == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<SpawnAgent> requires \"agent\" and \"description\" props")
	}

	spawn := ir.SpawnAgent{
		Agent:         agent,
		Description:   description,
		Model:         stringAttr(el, "model"),
		ReadAgentFile: boolAttr(el, "readAgentFile"),
		Prompt:        stringAttr(el, "prompt"),
	}
	if len(el.TypeArgs) > 0 {
		spawn.InputTypeName = el.TypeArgs[0]
	}

	inputAttr := rawAttr(el, "input")
	if inputAttr != nil {
		switch inputAttr.Kind {
		case tsx_ast.AttrObjectLiteral:
			obj, err := evalObject(inputAttr.Raw)
			if err != nil {
				return nil, diag.New(diag.ParseError, t.loc(inputAttr.Loc), "evaluating SpawnAgent input literal: %v", err)
			}
			spawn.Input = obj
			if spawn.InputTypeName != "" {
				if err := t.validateAgentInput(el, spawn.InputTypeName, obj); err != nil {
					return nil, err
				}
			}
		case tsx_ast.AttrIdentifierRef:
			if _, ok := t.varsByLocal[firstSegment(inputAttr.Ident)]; ok {
				ref, err := t.parseRuntimeRef(inputAttr.Ident, inputAttr.Loc)
				if err != nil {
					return nil, err
				}
				spawn.InputRuntimeRef = ref
			} else {
				spawn.InputRuntimeRef = &ir.RuntimeVarRef{VarName: inputAttr.Ident}
			}
		}
	}

	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: spawn, Children: children}, nil
}

func firstSegment(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' || path[i] == '[' {
			return path[:i]
		}
	}
	return path
}

// validateAgentInput mirrors v1's check: missing required fields are
// InterfaceMismatch errors, unknown extra fields are warnings only.
func (t *Transformer) validateAgentInput(el *tsx_ast.JsxElement, typeName string, input map[string]interface{}) error {
	desc, err := t.Resolver.ResolveType(typeName)
	if err != nil {
		return err
	}
	if desc == nil {
		return nil
	}
	for _, field := range desc.Fields {
		if !field.Required {
			continue
		}
		if _, ok := input[field.Name]; !ok {
			return diag.WithSecondary(diag.InterfaceMismatch, t.loc(el.Loc), "Agent interface defined at:", desc.Loc,
				"SpawnAgent input literal is missing required field %q of %s", field.Name, typeName)
		}
	}
	known := make(map[string]bool, len(desc.Fields))
	for _, field := range desc.Fields {
		known[field.Name] = true
	}
	for key := range input {
		if !known[key] {
			t.Log.AddWarning(t.loc(el.Loc), "SpawnAgent input literal has a field \""+key+"\" not present in "+typeName)
		}
	}
	return nil
}
