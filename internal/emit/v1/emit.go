// Package v1 implements spec §4.6: walking IR produced by
// internal/transform/v1 and rendering Markdown plus YAML frontmatter. It
// never re-derives structure the transformer already decided (tag
// vocabulary, sibling pairing) — it only has opinions about Markdown
// syntax.
package v1

import (
	"strings"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/frontmatter"
	"github.com/reactagentic/compiler/internal/ir"
)

// EmitDocument renders a Command document's full file contents
// (frontmatter + body).
func EmitDocument(doc *ir.Document, cfg config.Config) (string, error) {
	return render(doc.Frontmatter, doc.Children, cfg)
}

// EmitAgent renders an Agent document's full file contents.
func EmitAgent(doc *ir.AgentDocument, cfg config.Config) (string, error) {
	return render(doc.Frontmatter, doc.Children, cfg)
}

// SkillOutput is every file a Skill document produces: SKILL.md's body,
// one entry per SkillFile, and the static copy actions for the driver to
// perform (spec §4.6 "the emitter just records source/destination pairs").
type SkillOutput struct {
	SkillMD string
	Files   map[string]string // relative path -> rendered content
	Statics []ir.SkillStatic
}

// EmitSkill renders a Skill document into SKILL.md plus its SkillFiles.
func EmitSkill(doc *ir.SkillDocument, cfg config.Config) (SkillOutput, error) {
	skillMD, err := render(doc.Frontmatter, doc.Children, cfg)
	if err != nil {
		return SkillOutput{}, err
	}
	out := SkillOutput{SkillMD: skillMD, Files: map[string]string{}, Statics: doc.Statics}
	for _, f := range doc.Files {
		body, err := renderBody(f.Children, cfg)
		if err != nil {
			return SkillOutput{}, err
		}
		out.Files[f.Name] = body
	}
	return out, nil
}

func render(fm ir.Frontmatter, children []*ir.Node, cfg config.Config) (string, error) {
	fmText, err := frontmatter.Render(fm)
	if err != nil {
		return "", err
	}
	body, err := renderBody(children, cfg)
	if err != nil {
		return "", err
	}
	return fmText + body, nil
}

// renderBody joins top-level blocks with a single blank line between them
// and guarantees the final output ends with exactly one trailing newline
// (spec §4.6).
func renderBody(children []*ir.Node, cfg config.Config) (string, error) {
	blocks, err := renderBlocks(children, cfg)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, b := range blocks {
		lines = append(lines, strings.TrimRight(b, " \t"))
	}
	text := strings.Join(lines, "\n\n")
	text = strings.TrimRight(text, "\n") + "\n"
	return text, nil
}
