package transcript

import "time"

// Entry is one decoded line of a Claude Code JSONL transcript. Only the
// fields the reducer folds over are retained.
type Entry struct {
	Type      string
	Timestamp time.Time // zero when the line carries no usable timestamp
	Blocks    []ContentBlock
}

// ContentBlock represents one block of message.content.
type ContentBlock struct {
	Type string

	// tool_use
	ID    string
	Name  string
	Input map[string]any

	// tool_result
	ToolUseID string
	IsError   bool
}

// Block discriminants the reducer acts on. Everything else is ignored.
const (
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ToolStatus is the lifecycle state of a tool invocation.
type ToolStatus string

const (
	ToolRunning   ToolStatus = "running"
	ToolCompleted ToolStatus = "completed"
	ToolError     ToolStatus = "error"
)

// AgentStatus is the lifecycle state of a subagent invocation. Subagents have
// no error state; a failed dispatch still completes.
type AgentStatus string

const (
	AgentRunning   AgentStatus = "running"
	AgentCompleted AgentStatus = "completed"
)

// TodoStatus is the state of one todo item as written by TodoWrite.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// ToolEntry tracks one tool invocation from tool_use to tool_result.
type ToolEntry struct {
	ID        string
	Name      string
	Status    ToolStatus
	Target    string
	StartTime time.Time
	EndTime   time.Time
}

// Server returns the MCP server segment of an mcp__server__tool name, or "".
func (t ToolEntry) Server() string {
	server, _ := splitMCPName(t.Name)
	return server
}

// ShortName returns the tool segment of an MCP tool name, or the full name
// for built-in tools.
func (t ToolEntry) ShortName() string {
	if _, tool := splitMCPName(t.Name); tool != "" {
		return tool
	}
	return t.Name
}

// AgentEntry tracks one Task/Agent dispatch.
type AgentEntry struct {
	ID          string
	Type        string
	Model       string
	Description string
	Status      AgentStatus
	StartTime   time.Time
	EndTime     time.Time
}

// TodoItem is one element of a TodoWrite todos argument.
type TodoItem struct {
	Content    string     `json:"content" mapstructure:"content"`
	Status     TodoStatus `json:"status" mapstructure:"status"`
	ActiveForm string     `json:"activeForm,omitempty" mapstructure:"activeForm"`
}

// Summary is the bounded result of folding a transcript.
type Summary struct {
	Tools        []ToolEntry // most recent MaxTools, discovery order
	Agents       []AgentEntry
	Todos        []TodoItem
	SessionStart time.Time // first timestamp seen; zero if none

	// MCPCompleted counts completed MCP tool invocations. Errored MCP
	// invocations are counted neither here nor in MCPRunning.
	MCPCompleted int
	MCPRunning   []ToolEntry
}
