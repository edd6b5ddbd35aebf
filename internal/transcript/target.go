package transcript

import "strings"

// bashTargetRunes is how much of a shell command is kept as its target.
const bashTargetRunes = 30

// extractTarget derives the short display target of a tool invocation from
// its input. Only a few well-known tools have one.
func extractTarget(name string, input map[string]any) string {
	if input == nil {
		return ""
	}

	switch name {
	case "Read", "Write", "Edit", "MultiEdit":
		return stringArg(input, "file_path")
	case "NotebookEdit":
		return stringArg(input, "notebook_path")
	case "Glob", "Grep":
		return stringArg(input, "pattern")
	case "Bash":
		return truncateRunes(stringArg(input, "command"), bashTargetRunes)
	default:
		return ""
	}
}

func stringArg(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// splitMCPName splits mcp__server__tool into its server and tool parts.
// Both are empty for names without the MCP prefix.
func splitMCPName(name string) (server, tool string) {
	rest, ok := strings.CutPrefix(name, mcpPrefix)
	if !ok {
		return "", ""
	}
	server, tool, _ = strings.Cut(rest, "__")
	return server, tool
}
