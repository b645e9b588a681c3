// Package frontmatter is the adapter over the external YAML serializer
// spec §1 names as a collaborator ("serialize(map) -> yaml"). It wraps
// gopkg.in/yaml.v3, building an explicit yaml.Node mapping (rather than a
// plain Go map) so key order is preserved exactly as authored — Go map
// iteration order is random, and spec §8 property 1 requires deterministic
// output.
package frontmatter

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reactagentic/compiler/internal/ir"
)

// Render serializes fm as a `---\n...\n---\n` frontmatter block. Fields
// whose Value is nil or an empty string/slice are omitted, matching spec
// §4.6 ("empty optional fields omitted").
func Render(fm ir.Frontmatter) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fm.Fields {
		if isEmpty(f.Value) {
			continue
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		valueNode := toNode(f.Value)
		doc.Content = append(doc.Content, keyNode, valueNode)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write([]byte(out))
	b.WriteString("---\n")
	return b.String(), nil
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case bool:
		return false // booleans are always meaningful once set
	}
	return false
}

func toNode(v interface{}) *yaml.Node {
	switch t := v.(type) {
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}
	case []string:
		// Block form for any array with >= 1 element, per spec §6.2.
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: 0}
		for _, item := range t {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq
	default:
		n := &yaml.Node{}
		_ = n.Encode(t)
		return n
	}
}
