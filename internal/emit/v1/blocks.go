package v1

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/ir"
)

// indentUnit is the fixed nested-list/indent width (spec §4.6 "fixed width
// (implementation-chosen; must be consistent)"); see DESIGN.md's Open
// Question decision.
const indentUnit = "  "

// renderBlocks renders each top-level node as one block string; an
// ir.Group is transparent and splices its children's blocks in place
// (spec §4.9's paired OnStatus/OnStatusDefault).
func renderBlocks(nodes []*ir.Node, cfg config.Config) ([]string, error) {
	var out []string
	for _, n := range nodes {
		if ir.IsGroup(n) {
			inner, err := renderBlocks(n.Children, cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		s, err := renderBlock(n, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func joinBlocks(nodes []*ir.Node, cfg config.Config) (string, error) {
	blocks, err := renderBlocks(nodes, cfg)
	if err != nil {
		return "", err
	}
	return strings.Join(blocks, "\n\n"), nil
}

func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func renderBlock(n *ir.Node, cfg config.Config) (string, error) {
	switch data := n.Data.(type) {
	case ir.Heading:
		return strings.Repeat("#", data.Level) + " " + renderInline(n.Children), nil
	case ir.Paragraph:
		return renderInline(n.Children), nil
	case ir.List:
		return renderList(data, n.Children, cfg)
	case ir.Blockquote:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return indentLines(body, "> "), nil
	case ir.CodeBlock:
		return "```" + data.Language + "\n" + data.Code + "\n```", nil
	case ir.ThematicBreak:
		return "---", nil
	case ir.Table:
		return renderTable(data), nil
	case ir.Indent:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return indentLines(body, indentUnit), nil
	case ir.XmlBlock:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<%s>\n%s\n</%s>", data.Tag, body, data.Tag), nil
	case ir.ExecutionContext:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<execution-context>\n%s\n</execution-context>", body), nil
	case ir.Step:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		if body == "" {
			return "### " + data.Title, nil
		}
		return "### " + data.Title + "\n\n" + body, nil
	case ir.RawMarkdown:
		return data.Text, nil
	case ir.ReadFile:
		return renderReadFile(data), nil
	case ir.SpawnAgent:
		return renderSpawnAgent(data, cfg)
	case ir.OnStatus:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**On %s:**\n\n%s", data.Status, body), nil
	case ir.OnStatusDefault:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**On any other status:**\n\n%s", body), nil
	case ir.If:
		return renderIf(data, n.Children, cfg)
	case ir.Loop:
		body, err := joinBlocks(n.Children, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**Loop up to %d times (counter: $%s):**\n\n%s", data.MaxIterations, data.Counter, body), nil
	case ir.Break:
		if data.Message != "" {
			return "**Break loop:** " + data.Message, nil
		}
		return "**Break loop**", nil
	case ir.Return:
		return renderReturn(data), nil
	case ir.AskUser:
		return renderAskUser(data), nil
	case ir.LineBreak:
		return "", nil
	default:
		return renderInline([]*ir.Node{n}), nil
	}
}

func renderIf(data ir.If, children []*ir.Node, cfg config.Config) (string, error) {
	body, err := joinBlocks(children, cfg)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("**If %s:**\n\n%s", renderCondition(data.Condition), body)
	if len(data.ElseBody) > 0 {
		elseBody, err := joinBlocks(data.ElseBody, cfg)
		if err != nil {
			return "", err
		}
		out += fmt.Sprintf("\n\n**Otherwise:**\n\n%s", elseBody)
	}
	return out, nil
}

// renderCondition is V1's condition renderer: the only condition shape the
// plain pipeline can produce is a literal boolean (spec §4.3's
// parseLiteralCondition); internal/emit/v3 renders the full ADT.
func renderCondition(c ir.Condition) string {
	if c.Kind == ir.CondLiteral {
		return strconv.FormatBool(c.Literal)
	}
	return "condition"
}

func renderReturn(data ir.Return) string {
	out := "**End command**"
	if data.Status != "" {
		out += fmt.Sprintf(" (%s)", data.Status)
	}
	if data.Message != "" {
		out += ": " + data.Message
	}
	return out
}

func renderReadFile(data ir.ReadFile) string {
	cmd := "cat " + quoteShellPath(data.Path)
	if data.Optional {
		cmd += " 2>/dev/null"
	}
	return fmt.Sprintf("```bash\n%s=$(%s)\n```", data.As, cmd)
}

func quoteShellPath(path string) string {
	if strings.ContainsAny(path, " \t$") {
		return "\"" + path + "\""
	}
	return path
}

func renderSpawnAgent(data ir.SpawnAgent, cfg config.Config) (string, error) {
	prompt := data.Prompt
	if data.ReadAgentFile {
		agentsDir := strings.TrimSuffix(cfg.AgentsDir, "/")
		prompt = fmt.Sprintf("First, read %s/%s.md for your role and instructions.\n\n%s", agentsDir, data.Agent, prompt)
	}
	args := []string{
		fmt.Sprintf(`prompt="%s"`, escapeTaskArg(prompt)),
		fmt.Sprintf(`subagent_type="%s"`, escapeTaskArg(data.Agent)),
	}
	if data.Model != "" {
		args = append(args, fmt.Sprintf(`model="%s"`, escapeTaskArg(data.Model)))
	}
	args = append(args, fmt.Sprintf(`description="%s"`, escapeTaskArg(data.Description)))
	return "Task(" + strings.Join(args, ", ") + ")", nil
}

func escapeTaskArg(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func renderAskUser(data ir.AskUser) string {
	args := []string{fmt.Sprintf(`question="%s"`, escapeTaskArg(data.Question))}
	if len(data.Options) > 0 {
		quoted := make([]string, len(data.Options))
		for i, o := range data.Options {
			quoted[i] = fmt.Sprintf(`"%s"`, escapeTaskArg(o))
		}
		args = append(args, "options=["+strings.Join(quoted, ", ")+"]")
	}
	if data.Header != "" {
		args = append(args, fmt.Sprintf(`header="%s"`, escapeTaskArg(data.Header)))
	}
	if data.Description != "" {
		args = append(args, fmt.Sprintf(`description="%s"`, escapeTaskArg(data.Description)))
	}
	if data.CaptureVar != "" {
		args = append(args, "capture=$"+data.CaptureVar)
	}
	return "AskUserQuestion(" + strings.Join(args, ", ") + ")"
}

func renderList(data ir.List, items []*ir.Node, cfg config.Config) (string, error) {
	var lines []string
	n := data.Start
	for _, item := range items {
		marker := "- "
		if data.Ordered {
			marker = strconv.Itoa(n) + ". "
			n++
		}
		body, err := joinBlocks(item.Children, cfg)
		if err != nil {
			return "", err
		}
		parts := strings.Split(body, "\n")
		if len(parts) == 0 {
			lines = append(lines, strings.TrimRight(marker, " "))
			continue
		}
		lines = append(lines, marker+parts[0])
		for _, p := range parts[1:] {
			if p == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, indentUnit+p)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func renderTable(data ir.Table) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(data.Header, " | ") + " |\n")
	sep := make([]string, len(data.Header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |")
	for _, row := range data.Rows {
		b.WriteString("\n| " + strings.Join(row, " | ") + " |")
	}
	return b.String()
}
