// Package render turns an assembled status.Context into statusline rows.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"github.com/suykerbuyk/heimdall/internal/config"
	"github.com/suykerbuyk/heimdall/internal/hook"
	"github.com/suykerbuyk/heimdall/internal/sanitize"
	"github.com/suykerbuyk/heimdall/internal/status"
	"github.com/suykerbuyk/heimdall/internal/transcript"
)

const (
	barWidth    = 10
	warnPercent = 95
	nbsp        = "\u00a0"
	ansiReset   = "\x1b[0m"
	ellipsis    = "…"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Options controls presentation.
type Options struct {
	// Profile selects escape sequences; termenv.Ascii disables color.
	Profile termenv.Profile
	// NBSP replaces spaces with U+00A0 so the host terminal cannot collapse them.
	NBSP bool
	// MaxWidth truncates each line to this many cells. Zero means unlimited.
	MaxWidth         int
	ShowMCPLine      bool
	DescriptionWidth int
}

// OptionsFromConfig maps the [display] config section.
func OptionsFromConfig(d config.DisplayConfig, profile termenv.Profile) Options {
	return Options{
		Profile:          profile,
		NBSP:             d.NBSP,
		MaxWidth:         d.MaxWidth,
		ShowMCPLine:      d.ShowMCPLine,
		DescriptionWidth: d.DescriptionWidth,
	}
}

// Renderer formats statusline rows. It holds no per-render state.
type Renderer struct {
	opts Options
	p    palette
}

func New(opts Options) *Renderer {
	return &Renderer{opts: opts, p: newPalette(opts.Profile)}
}

// Render writes every row of c to w, one per line.
func (r *Renderer) Render(w io.Writer, c *status.Context) error {
	var b strings.Builder
	for _, line := range r.Lines(c) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Lines returns the finished rows: workspace, session, then completed and
// running activity and running MCP tools when present, and finally todo
// progress with the reset timer.
func (r *Renderer) Lines(c *status.Context) []string {
	rows := []string{r.workspace(c), r.session(c)}
	for _, optional := range []string{r.completed(c), r.running(c), r.mcp(c)} {
		if optional != "" {
			rows = append(rows, optional)
		}
	}
	rows = append(rows, r.progress(c))

	for i, row := range rows {
		rows[i] = r.finish(row)
	}
	return rows
}

func (r *Renderer) finish(line string) string {
	if r.opts.MaxWidth > 0 {
		line = truncate.String(line, uint(r.opts.MaxWidth))
	}
	if r.opts.NBSP {
		line = strings.ReplaceAll(line, " ", nbsp)
	}
	if r.opts.Profile != termenv.Ascii {
		line += ansiReset
	}
	return line
}

func (r *Renderer) sep() string {
	return r.p.dim.Render("│")
}

// workspace: ~/project (main) S:2 M:1 │ ↑1↓0 │ v2.1.5 │ SUB:3 │ MCP:2 │ 🕐 22:30
func (r *Renderer) workspace(c *status.Context) string {
	in := c.Input
	parts := []string{r.p.blue.Render(config.CompressHomeDir(in.ProjectDir(), c.HomeDir))}

	if c.Git.IsRepo && c.Git.Branch != "" {
		parts = append(parts, r.p.green.Render("("+c.Git.Branch+")"))
	}
	if changes := gitChanges(c.Git.Staged, c.Git.Modified); changes != "" {
		parts = append(parts, r.p.yellow.Render(changes))
	}

	parts = append(parts, r.sep(), r.p.cyan.Render(syncStatus(c)))
	parts = append(parts, r.sep(), r.p.magenta.Render("v"+in.Version))

	if c.Git.Submodules > 0 {
		parts = append(parts, r.sep(), fmt.Sprintf("SUB:%d", c.Git.Submodules))
	}

	mcp := "--"
	if n := in.ConnectedMCPServers(); n > 0 {
		mcp = fmt.Sprint(n)
	}
	parts = append(parts, r.sep(), "MCP:"+mcp)
	parts = append(parts, r.sep(), "🕐 "+c.Now.In(location(c)).Format("15:04"))

	return strings.Join(parts, " ")
}

func gitChanges(staged, modified int) string {
	var parts []string
	if staged > 0 {
		parts = append(parts, fmt.Sprintf("S:%d", staged))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", modified))
	}
	return strings.Join(parts, " ")
}

func syncStatus(c *status.Context) string {
	g := c.Git
	switch {
	case !g.IsRepo || !g.HasUpstream:
		return "--"
	case g.Ahead == 0 && g.Behind == 0:
		return "✔"
	default:
		return fmt.Sprintf("↑%d↓%d", g.Ahead, g.Behind)
	}
}

// session: 🧠 Opus 4.5 │ $0.05 │ +96/-38 │ ██████░░░░ 58% │ ⏱ 1h 5m
func (r *Renderer) session(c *status.Context) string {
	in := c.Input
	model := in.ModelName()
	parts := []string{hook.ModelEmoji(model) + " " + r.p.cyan.Render(model)}

	parts = append(parts, r.sep(), r.p.green.Render(fmt.Sprintf("$%.2f", in.Cost.TotalCostUSD)))
	parts = append(parts, r.sep(),
		r.p.green.Render(fmt.Sprintf("+%d", in.Cost.TotalLinesAdded))+
			r.p.red.Render(fmt.Sprintf("/-%d", in.Cost.TotalLinesRemoved)))

	percent := in.ContextPercent()
	parts = append(parts, r.sep(), r.bar(percent)+" "+r.p.context(percent).Render(fmt.Sprintf("%d%%", percent)))
	if percent >= warnPercent {
		parts = append(parts, r.p.red.Render("⚠️"))
	}

	if d, ok := c.SessionDuration(); ok {
		parts = append(parts, r.sep(), r.p.dim.Render("⏱ "+status.FormatDuration(d)))
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) bar(percent int) string {
	filled := (min(max(percent, 0), 100)*barWidth + 50) / 100
	return r.p.context(percent).Render(strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled))
}

// completed: Edit×8 | Bash×5 | Read │ ✓ Explore×2
func (r *Renderer) completed(c *status.Context) string {
	var tools, agents []string

	for _, g := range countByName(c.Transcript.Tools, func(t transcript.ToolEntry) (string, bool) {
		return t.Name, t.Status == transcript.ToolCompleted
	}) {
		tools = append(tools, r.p.tool(g.name).Render(sanitize.Plain(g.name)+times(g.count)))
	}
	for _, g := range countByName(c.Transcript.Agents, func(a transcript.AgentEntry) (string, bool) {
		return a.Type, a.Status == transcript.AgentCompleted
	}) {
		agents = append(agents, r.p.green.Render("✓ "+sanitize.Plain(g.name)+times(g.count)))
	}

	var sections []string
	if len(tools) > 0 {
		sections = append(sections, strings.Join(tools, " | "))
	}
	if len(agents) > 0 {
		sections = append(sections, strings.Join(agents, " | "))
	}
	return strings.Join(sections, " "+r.sep()+" ")
}

// running: ⠋ Read(src/main.go) | ● Explore (find handlers) 1:05
func (r *Renderer) running(c *status.Context) string {
	spin := spinner(c.Now)
	var parts []string

	for _, t := range c.Transcript.Tools {
		if t.Status != transcript.ToolRunning {
			continue
		}
		label := sanitize.Plain(t.Name)
		if target := sanitize.Plain(t.Target); target != "" {
			label += "(" + target + ")"
		}
		parts = append(parts, r.p.yellow.Render(spin+" ")+r.p.tool(t.Name).Render(label))
	}

	for _, a := range c.Transcript.Agents {
		if a.Status != transcript.AgentRunning {
			continue
		}
		s := r.p.yellow.Render("● ") + r.p.magenta.Render(sanitize.Plain(a.Type))
		if desc := r.clip(sanitize.Display(a.Description)); desc != "" {
			s += r.p.yellow.Render(" (" + desc + ")")
		}
		if !a.StartTime.IsZero() {
			s += r.p.dim.Render(" " + formatElapsed(c.Now.Sub(a.StartTime)))
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " | ")
}

// mcp: 🔌 MCP ✓4 │ ⠋ github/search_issues
func (r *Renderer) mcp(c *status.Context) string {
	sum := c.Transcript
	if !r.opts.ShowMCPLine || len(sum.MCPRunning) == 0 {
		return ""
	}
	parts := []string{r.p.brightCyan.Render("🔌 MCP")}
	if sum.MCPCompleted > 0 {
		parts = append(parts, r.p.green.Render(fmt.Sprintf("✓%d", sum.MCPCompleted)))
	}

	spin := spinner(c.Now)
	running := make([]string, 0, len(sum.MCPRunning))
	for _, t := range sum.MCPRunning {
		name := sanitize.Plain(t.Server()) + "/" + sanitize.Plain(t.ShortName())
		running = append(running, r.p.yellow.Render(spin+" ")+r.p.cyan.Render(name))
	}
	parts = append(parts, r.sep(), strings.Join(running, " | "))
	return strings.Join(parts, " ")
}

// progress: ▸ [Implementing feature] (2/5) │ RESET at 14:00 (3h 30m left)
func (r *Renderer) progress(c *status.Context) string {
	var parts []string
	if todo := r.todos(c.Transcript.Todos); todo != "" {
		parts = append(parts, todo)
	}
	rs := c.Reset
	parts = append(parts, r.p.brightCyan.Render(
		fmt.Sprintf("RESET at %s (%dh %dm left)", rs.LocalTime(), rs.HoursLeft, rs.MinutesLeft)))
	return strings.Join(parts, " "+r.sep()+" ")
}

func (r *Renderer) todos(todos []transcript.TodoItem) string {
	if len(todos) == 0 {
		return ""
	}
	done := 0
	var active *transcript.TodoItem
	for i := range todos {
		switch todos[i].Status {
		case transcript.TodoCompleted:
			done++
		case transcript.TodoInProgress:
			if active == nil {
				active = &todos[i]
			}
		}
	}
	count := fmt.Sprintf("(%d/%d)", done, len(todos))

	if done == len(todos) {
		return r.p.green.Render("✓ All todos complete " + count)
	}
	if active != nil {
		return r.p.yellow.Render("▸ ["+r.clip(sanitize.Display(active.Content))+"]") + r.p.dim.Render(" "+count)
	}
	return ""
}

// clip shortens s to DescriptionWidth display cells.
func (r *Renderer) clip(s string) string {
	if r.opts.DescriptionWidth <= 0 || runewidth.StringWidth(s) <= r.opts.DescriptionWidth {
		return s
	}
	return runewidth.Truncate(s, r.opts.DescriptionWidth, ellipsis)
}

type nameCount struct {
	name  string
	count int
}

// countByName groups the entries keep accepts by name. Groups are ordered
// by count, largest first, with ties in order of first appearance.
func countByName[T any](entries []T, keep func(T) (string, bool)) []nameCount {
	var groups []nameCount
	index := map[string]int{}
	for _, e := range entries {
		name, ok := keep(e)
		if !ok {
			continue
		}
		if i, seen := index[name]; seen {
			groups[i].count++
			continue
		}
		index[name] = len(groups)
		groups = append(groups, nameCount{name: name, count: 1})
	}
	slices.SortStableFunc(groups, func(a, b nameCount) int { return b.count - a.count })
	return groups
}

func times(n int) string {
	if n > 1 {
		return fmt.Sprintf("×%d", n)
	}
	return ""
}

func spinner(now time.Time) string {
	n := int64(len(spinnerFrames))
	return spinnerFrames[((now.UnixMilli()/100)%n+n)%n]
}

// formatElapsed renders "42s" below a minute and "M:SS" above.
func formatElapsed(d time.Duration) string {
	secs := max(int(d/time.Second), 0)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func location(c *status.Context) *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}
