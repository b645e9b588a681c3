// Package v3 implements spec §4.7: the same Markdown grammar as
// internal/emit/v1, extended with runtime-variable interpolation, the
// full condition ADT, and runtime function call lowering. It duplicates
// v1's small rendering helpers rather than importing them.
package v3

import (
	"strings"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/frontmatter"
	"github.com/reactagentic/compiler/internal/ir"
)

// EmitDocument renders a V3 Command document's full file contents and
// returns the (namespace, importPath, calledFunctions[]) tuple the
// bundler needs (spec §4.7's final paragraph).
func EmitDocument(doc *ir.Document, cfg config.Config) (string, RuntimeUsage, error) {
	text, err := render(doc.Frontmatter, doc.Children, cfg)
	if err != nil {
		return "", RuntimeUsage{}, err
	}
	usage := RuntimeUsage{
		Namespace:  doc.RuntimeNamespace,
		ImportPath: doc.RuntimeImportPath,
		Functions:  doc.RuntimeFnNames,
	}
	return text, usage, nil
}

// RuntimeUsage is one document's contribution to the bundler's input set
// (spec §4.8): a distinct runtime-source path, the namespace it's
// addressed by, and the functions this document actually calls.
type RuntimeUsage struct {
	Namespace  string
	ImportPath string
	Functions  []string
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
