package transcript

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

const (
	DefaultMaxTools  = 20
	DefaultMaxAgents = 10

	todoTool  = "TodoWrite"
	mcpPrefix = "mcp__"
)

// dispatchTools start a subagent rather than a direct action.
var dispatchTools = map[string]bool{
	"Task":  true,
	"Agent": true,
}

// Options configures a Reducer. Zero values select the defaults.
type Options struct {
	MaxTools     int
	MaxAgents    int
	MaxLineBytes int

	// Now stamps tool_result end times. Transcripts carry no result time.
	Now    func() time.Time
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxTools <= 0 {
		o.MaxTools = DefaultMaxTools
	}
	if o.MaxAgents <= 0 {
		o.MaxAgents = DefaultMaxAgents
	}
	if o.MaxLineBytes <= 0 {
		o.MaxLineBytes = DefaultMaxLineBytes
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Reducer folds transcript entries, in stream order, into tool, MCP tool and
// subagent ledgers plus the latest todo list. It is not safe for concurrent
// use.
type Reducer struct {
	opts Options

	tools  ledger[ToolEntry]
	mcp    ledger[ToolEntry]
	agents ledger[AgentEntry]

	todos        []TodoItem
	sessionStart time.Time
	dangling     int
}

// NewReducer returns an empty Reducer.
func NewReducer(opts Options) *Reducer {
	return &Reducer{opts: opts.withDefaults()}
}

// Apply folds one entry. Blocks are processed in array order.
func (r *Reducer) Apply(e Entry) {
	if r.sessionStart.IsZero() && !e.Timestamp.IsZero() {
		r.sessionStart = e.Timestamp
	}

	for _, b := range e.Blocks {
		switch b.Type {
		case BlockToolUse:
			r.start(b, e.Timestamp)
		case BlockToolResult:
			r.finish(b)
		}
	}
}

// start records a tool_use. A repeated id overwrites the earlier entry and
// resets it to running.
func (r *Reducer) start(b ContentBlock, ts time.Time) {
	switch {
	case dispatchTools[b.Name]:
		args := decodeAgentArgs(b.Input)
		if args.SubagentType == "" {
			args.SubagentType = "unknown"
		}
		r.agents.put(b.ID, AgentEntry{
			ID:          b.ID,
			Type:        args.SubagentType,
			Model:       args.Model,
			Description: args.Description,
			Status:      AgentRunning,
			StartTime:   ts,
		})

	case b.Name == todoTool:
		if todos, ok := decodeTodos(b.Input); ok {
			r.todos = todos
		}

	case strings.HasPrefix(b.Name, mcpPrefix):
		r.mcp.put(b.ID, newToolEntry(b, ts))

	default:
		r.tools.put(b.ID, newToolEntry(b, ts))
	}
}

// finish closes every entry the result's id matches, across all three
// ledgers. End time is the processing time.
func (r *Reducer) finish(b ContentBlock) {
	now := r.opts.Now()
	matched := false

	if t, ok := r.tools.get(b.ToolUseID); ok {
		matched = true
		closeTool(t, b.IsError, now)
	}
	if a, ok := r.agents.get(b.ToolUseID); ok {
		matched = true
		if a.Status == AgentRunning {
			a.Status = AgentCompleted
			a.EndTime = now
		}
	}
	if t, ok := r.mcp.get(b.ToolUseID); ok {
		matched = true
		closeTool(t, b.IsError, now)
	}

	if !matched {
		r.dangling++
	}
}

// Dangling reports how many tool_result blocks matched no known invocation.
func (r *Reducer) Dangling() int {
	return r.dangling
}

// Finalize produces the bounded Summary. The Reducer may keep folding
// afterwards; Finalize does not mutate it.
func (r *Reducer) Finalize() Summary {
	s := Summary{
		Tools:        r.tools.tail(r.opts.MaxTools),
		Agents:       r.agents.tail(r.opts.MaxAgents),
		SessionStart: r.sessionStart,
	}
	if len(r.todos) > 0 {
		s.Todos = append([]TodoItem(nil), r.todos...)
	}

	for _, t := range r.mcp.all() {
		switch t.Status {
		case ToolCompleted:
			s.MCPCompleted++
		case ToolRunning:
			s.MCPRunning = append(s.MCPRunning, t)
		}
	}
	return s
}

func newToolEntry(b ContentBlock, ts time.Time) ToolEntry {
	return ToolEntry{
		ID:        b.ID,
		Name:      b.Name,
		Status:    ToolRunning,
		Target:    extractTarget(b.Name, b.Input),
		StartTime: ts,
	}
}

// closeTool moves a running entry to its terminal state. Terminal entries
// are left alone.
func closeTool(t *ToolEntry, failed bool, at time.Time) {
	if t.Status != ToolRunning {
		return
	}
	t.Status = ToolCompleted
	if failed {
		t.Status = ToolError
	}
	t.EndTime = at
}

type agentArgs struct {
	SubagentType string `mapstructure:"subagent_type"`
	Model        string `mapstructure:"model"`
	Description  string `mapstructure:"description"`
}

// decodeAgentArgs pulls the dispatch fields out of a Task input. Fields of
// the wrong type are left empty.
func decodeAgentArgs(input map[string]any) agentArgs {
	var args agentArgs
	if input == nil {
		return args
	}
	_ = mapstructure.Decode(input, &args)
	return args
}

// decodeTodos returns the todos argument when it is a list. Items are not
// validated; a malformed item becomes a zero TodoItem so the list length is
// preserved.
func decodeTodos(input map[string]any) ([]TodoItem, bool) {
	raw, ok := input["todos"].([]any)
	if !ok {
		return nil, false
	}

	todos := make([]TodoItem, 0, len(raw))
	for _, item := range raw {
		var todo TodoItem
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &todo,
		})
		if err == nil {
			_ = dec.Decode(item)
		}
		todos = append(todos, todo)
	}
	return todos, true
}
