package v1

import (
	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// handleSpawnAgent implements spec §4.3's agent-interface validation:
// SpawnAgent may declare a type parameter (e.g. <SpawnAgent<ResearcherInput>>).
// When `input` is an object literal, the parameter is resolved via the
// front-end/resolver, required fields missing from the literal are errors
// (InterfaceMismatch), and extra fields are warnings (the one diagnostic
// below "error" per spec §7). When `input` is a runtime variable
// reference, no compile-time field validation is possible.
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

	inputAttr := tsx_parser_rawAttr(el, "input")
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
			spawn.InputRuntimeRef = &ir.RuntimeVarRef{VarName: inputAttr.Ident}
		}
	}

	children, err := t.transformChildren(el.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Loc: t.loc(el.Loc), Data: spawn, Children: children}, nil
}

// validateAgentInput resolves typeName against the document's import table
// and checks input against it per spec §4.3: missing required fields are
// InterfaceMismatch errors, unknown extra fields are warnings only.
func (t *Transformer) validateAgentInput(el *tsx_ast.JsxElement, typeName string, input map[string]interface{}) error {
	desc, err := t.Resolver.ResolveType(typeName)
	if err != nil {
		return err
	}
	if desc == nil {
		return nil // an unresolved type name skips validation; no diagnostic is reported for it
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
