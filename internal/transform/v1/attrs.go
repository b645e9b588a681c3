package v1

import (
	"github.com/reactagentic/compiler/internal/tsx_ast"
	"github.com/reactagentic/compiler/internal/tsx_parser"
	"github.com/reactagentic/compiler/internal/tsx_parser/literaleval"
)

func evalArray(raw string) ([]interface{}, error) { return literaleval.EvalArray(raw) }
func evalObject(raw string) (map[string]interface{}, error) { return literaleval.EvalObject(raw) }

func tsx_parser_rawAttr(el *tsx_ast.JsxElement, name string) *tsx_ast.AttrValue {
	return tsx_parser.GetAttribute(el, name)
}
