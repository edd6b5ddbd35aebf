package help

import (
	"fmt"
	"strings"
	"time"
)

const manual = "Heimdall Manual"

// manPage accumulates one roff page. Every text argument is escaped on the
// way in.
type manPage struct {
	b strings.Builder
}

func newManPage(name, date string) *manPage {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	m := &manPage{}
	fmt.Fprintf(&m.b, ".TH %s 1 %q %q %q\n", strings.ToUpper(name), date, "heimdall "+Version, manual)
	return m
}

func (m *manPage) section(title string) {
	m.b.WriteString(".SH " + title + "\n")
}

func (m *manPage) subsection(title string) {
	m.b.WriteString(".SS " + escapeRoff(title) + "\n")
}

func (m *manPage) raw(s string) {
	m.b.WriteString(s + "\n")
}

// text writes prose; blank lines become paragraph breaks.
func (m *manPage) text(s string) {
	blank := false
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if !blank {
				m.raw(".PP")
			}
			blank = true
			continue
		}
		blank = false
		m.raw(escapeRoff(line))
	}
}

// item writes a tagged paragraph with a bold term.
func (m *manPage) item(term, desc string) {
	m.raw(".TP")
	m.raw(".B " + quoteArg(escapeRoff(term)))
	m.raw(escapeRoff(desc))
}

// verbatim writes lines without filling.
func (m *manPage) verbatim(lines ...string) {
	m.raw(".nf")
	for _, l := range lines {
		m.raw(escapeRoff(l))
	}
	m.raw(".fi")
}

func (m *manPage) seeAlso(refs []string) {
	if len(refs) == 0 {
		return
	}
	m.section("SEE ALSO")
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = formatManRef(ref)
	}
	m.raw(strings.Join(out, ",\n"))
}

func (m *manPage) files(files []File) {
	if len(files) == 0 {
		return
	}
	m.section("FILES")
	for _, f := range files {
		m.item(f.Path, f.Desc)
	}
}

// config documents every key, one subsection per TOML table.
func (m *manPage) config(keys []ConfigKey) {
	m.section("CONFIGURATION")
	m.text("Keys of config.toml with their defaults. A missing file or key uses the default.")
	table := ""
	for _, k := range keys {
		t, name, ok := strings.Cut(k.Key, ".")
		if !ok {
			t, name = "", k.Key
		}
		if t != table {
			m.subsection("[" + t + "]")
			table = t
		}
		m.item(name+" = "+k.Default, k.Desc)
	}
}

func (m *manPage) String() string {
	return m.b.String()
}

// FormatRoff renders a subcommand as a roff-formatted man page (.1).
// If date is empty, today's date is used (pass a fixed date for reproducible builds).
func FormatRoff(c Command, date string) string {
	m := newManPage(c.ManName(), date)

	m.section("NAME")
	m.raw(c.ManName() + ` \- ` + escapeRoff(c.Synopsis))
	m.section("SYNOPSIS")
	m.raw(".B " + escapeRoff(c.Usage))

	if c.Description != "" {
		m.section("DESCRIPTION")
		m.text(c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		m.section("OPTIONS")
		for _, a := range c.Args {
			desc := a.Desc
			if a.Optional {
				desc += " (optional)"
			}
			m.item(a.Name, desc)
		}
		for _, f := range c.Flags {
			m.item(f.Name, f.Desc)
		}
	}

	if c.ListConfig {
		m.config(ConfigKeys)
	}
	m.files(c.Files)

	if len(c.Examples) > 0 {
		m.section("EXAMPLES")
		m.verbatim(c.Examples...)
	}
	m.seeAlso(c.SeeAlso)
	return m.String()
}

// FormatRoffTopLevel renders heimdall.1: what the statusline shows, the
// subcommands, every config key and the files and variables it reads.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	m := newManPage("heimdall", date)

	m.section("NAME")
	m.raw(`heimdall \- ` + escapeRoff(top.Synopsis))

	m.section("SYNOPSIS")
	m.raw(".B heimdall")
	m.raw(`.RB [ \-\-debug ]`)
	m.raw(".br")
	m.raw(".B heimdall")
	m.raw(".I command")
	m.raw(".RI [ options ]")

	m.section("DESCRIPTION")
	m.text(top.Description)

	m.section("STATUSLINE")
	m.text("Rows are printed in this order. Optional rows are left out when empty.")
	for _, r := range Rows {
		name := r.Name
		if r.Optional {
			name += " (optional)"
		}
		m.item(name, r.Desc)
		m.raw(".RS")
		m.verbatim(r.Sample)
		m.raw(".RE")
	}

	m.section("COMMANDS")
	for _, s := range subs {
		m.item(s.tableUsage(), s.Brief)
	}

	if len(top.Flags) > 0 {
		m.section("OPTIONS")
		for _, f := range top.Flags {
			m.item(f.Name, f.Desc)
		}
	}

	m.config(ConfigKeys)
	m.files([]File{FileConfig, FileSettings, FileBackup})

	m.section("ENVIRONMENT")
	for _, e := range Environment {
		m.item(e.Name, e.Desc)
	}

	m.section("EXIT STATUS")
	m.text("0 when the statusline was printed. 1 when stdin is empty, a terminal or not valid JSON, or when a subcommand fails.")

	if len(top.Examples) > 0 {
		m.section("EXAMPLES")
		m.verbatim(top.Examples...)
	}

	refs := make([]string, len(subs))
	for i, s := range subs {
		refs[i] = s.ManName() + "(1)"
	}
	m.seeAlso(refs)
	return m.String()
}

var roffReplacer = strings.NewReplacer(`\`, `\\`, "-", `\-`)

// escapeRoff escapes backslashes and hyphens, and protects lines that begin
// with a control character (. or ').
func escapeRoff(s string) string {
	lines := strings.Split(roffReplacer.Replace(s), "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, ".") || strings.HasPrefix(l, "'") {
			lines[i] = `\&` + l
		}
	}
	return strings.Join(lines, "\n")
}

// quoteArg wraps a macro argument containing spaces in double quotes.
func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\(dq`) + `"`
}

// formatManRef turns "heimdall-check(1)" into ".BR heimdall\-check (1)".
func formatManRef(ref string) string {
	name, section, ok := strings.Cut(ref, "(")
	if !ok {
		return ".B " + escapeRoff(ref)
	}
	return fmt.Sprintf(".BR %s (%s", escapeRoff(name), section)
}
