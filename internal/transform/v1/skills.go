package v1

import (
	"path/filepath"

	"github.com/reactagentic/compiler/internal/diag"
	"github.com/reactagentic/compiler/internal/ir"
	"github.com/reactagentic/compiler/internal/logger"
	"github.com/reactagentic/compiler/internal/tsx_ast"
)

// TransformSkill builds a §3.1 Skill document from the file's root <Skill>
// element. Unlike Command/Agent, a Skill's children partition into three
// streams: regular content (the SKILL.md body), <SkillFile> children (extra
// markdown files bundled alongside SKILL.md) and <SkillStatic> children
// (non-markdown assets copied verbatim, spec §3.3 invariant 7).
func (t *Transformer) TransformSkill(root *tsx_ast.JsxElement) (*ir.SkillDocument, error) {
	name := stringAttr(root, "name")
	if name == "" {
		return nil, diag.New(diag.MissingRequiredProp, t.loc(root.Loc), "<Skill> requires a \"name\" prop")
	}
	description := stringAttr(root, "description")

	fm := ir.Frontmatter{Fields: []ir.FrontmatterField{
		{Key: "name", Value: name},
		{Key: "description", Value: description},
	}}
	if boolAttr(root, "disableModelInvocation") {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "disable-model-invocation", Value: true})
	}
	if v := tsx_parser_rawAttr(root, "userInvocable"); v != nil {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "user-invocable", Value: boolAttr(root, "userInvocable")})
	}
	if v := stringSliceAttr(root, "allowedTools"); len(v) > 0 {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "allowed-tools", Value: v})
	}
	if v := stringAttr(root, "argumentHint"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "argument-hint", Value: v})
	}
	if v := stringAttr(root, "model"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "model", Value: v})
	}
	if v := stringAttr(root, "context"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "context", Value: v})
	}
	if v := stringAttr(root, "agent"); v != "" {
		fm.Fields = append(fm.Fields, ir.FrontmatterField{Key: "agent", Value: v})
	}

	doc := &ir.SkillDocument{
		Loc:         t.loc(root.Loc),
		Frontmatter: fm,
		OutputDir:   filepath.Join(".claude", "skills", name),
	}

	destSeen := map[string]bool{}
	authorDir := filepath.Dir(t.File.Path)

	var body []tsx_ast.JsxChild
	for _, child := range root.Children {
		if child.Kind != tsx_ast.ChildElement {
			body = append(body, child)
			continue
		}
		el := child.Element
		switch el.Tag {
		case "SkillFile":
			fname := stringAttr(el, "name")
			if fname == "" {
				return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<SkillFile> requires a \"name\" prop")
			}
			if err := checkDuplicateSkillPath(t, destSeen, fname, el.Loc); err != nil {
				return nil, err
			}
			children, err := t.transformChildren(el.Children)
			if err != nil {
				return nil, err
			}
			doc.Files = append(doc.Files, ir.SkillFile{Name: fname, Children: children})
		case "SkillStatic":
			src := stringAttr(el, "src")
			if src == "" {
				return nil, diag.New(diag.MissingRequiredProp, t.loc(el.Loc), "<SkillStatic> requires a \"src\" prop")
			}
			dest := stringAttr(el, "dest")
			if dest == "" {
				dest = filepath.Base(src)
			}
			if err := checkDuplicateSkillPath(t, destSeen, dest, el.Loc); err != nil {
				return nil, err
			}
			resolvedSrc := src
			if !filepath.IsAbs(src) {
				resolvedSrc = filepath.Join(authorDir, src)
			}
			doc.Statics = append(doc.Statics, ir.SkillStatic{Src: resolvedSrc, Dest: dest})
		default:
			body = append(body, child)
		}
	}

	children, err := t.transformChildren(body)
	if err != nil {
		return nil, err
	}
	doc.Children = children
	if err := checkDuplicateSkillPath(t, destSeen, "SKILL.md", root.Loc); err != nil {
		return nil, err
	}
	return doc, nil
}

func checkDuplicateSkillPath(t *Transformer, seen map[string]bool, path string, loc logger.Range) error {
	if seen[path] {
		return diag.New(diag.DuplicateSkillPath, t.loc(loc), "skill output path %q is used more than once", path)
	}
	seen[path] = true
	return nil
}
