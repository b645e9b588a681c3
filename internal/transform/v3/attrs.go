package v3

import (
	"fmt"

	"github.com/reactagentic/compiler/internal/tsx_ast"
	"github.com/reactagentic/compiler/internal/tsx_parser"
	"github.com/reactagentic/compiler/internal/tsx_parser/literaleval"
)

func rawAttr(el *tsx_ast.JsxElement, name string) *tsx_ast.AttrValue {
	return tsx_parser.GetAttribute(el, name)
}

func stringAttr(el *tsx_ast.JsxElement, name string) string {
	v := rawAttr(el, name)
	if v == nil {
		return ""
	}
	switch v.Kind {
	case tsx_ast.AttrString:
		return v.String
	case tsx_ast.AttrIdentifierRef:
		return v.Ident
	}
	return ""
}

func identAttr(el *tsx_ast.JsxElement, name string) string {
	v := rawAttr(el, name)
	if v == nil {
		return ""
	}
	return v.Ident
}

func boolAttr(el *tsx_ast.JsxElement, name string) bool {
	v := rawAttr(el, name)
	if v == nil {
		return false
	}
	switch v.Kind {
	case tsx_ast.AttrBooleanShorthand:
		return true
	case tsx_ast.AttrBoolean:
		return v.Bool
	}
	return false
}

func numberAttr(el *tsx_ast.JsxElement, name string) int {
	v := rawAttr(el, name)
	if v == nil || v.Kind != tsx_ast.AttrNumber {
		return 0
	}
	return int(v.Number)
}

func stringSliceAttr(el *tsx_ast.JsxElement, name string) []string {
	v := rawAttr(el, name)
	if v == nil || v.Kind != tsx_ast.AttrArrayLiteral {
		return nil
	}
	items, err := evalArray(v.Raw)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprintf("%v", it))
	}
	return out
}

func evalArray(raw string) ([]interface{}, error) { return literaleval.EvalArray(raw) }
func evalObject(raw string) (map[string]interface{}, error) { return literaleval.EvalObject(raw) }

func childText(el *tsx_ast.JsxElement) string {
	var out string
	for _, c := range el.Children {
		if c.Kind == tsx_ast.ChildText {
			out += c.Text
		}
	}
	return out
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
