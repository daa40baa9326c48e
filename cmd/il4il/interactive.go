package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/il4il/il4il-go/il4il"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseModel struct {
	err      error
	browser  *il4il.Browser
	filename string
	views    []viewInfo
	filter   textinput.Model
	selected int
	state    modelState
}

type viewInfo struct {
	name    string
	count   int
	entries func(filter string) []string
}

type modelState int

const (
	stateSelectView modelState = iota
	stateShowEntries
)

func newBrowseModel(filename string) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	return &browseModel{
		filename: filename,
		filter:   ti,
		state:    stateSelectView,
	}
}

type loadedMsg struct {
	err     error
	browser *il4il.Browser
	views   []viewInfo
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *browseModel) loadModule() tea.Msg {
	mod, err := il4il.ReadModuleFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	browser, err := mod.Validate()
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{browser: browser, views: buildViews(browser)}
}

func buildViews(b *il4il.Browser) []viewInfo {
	metadata := func(filter string) []string {
		var out []string
		for i := 0; i < b.MetadataCount(); i++ {
			entry, err := b.MetadataAt(i)
			if err != nil {
				continue
			}
			var line string
			if name, err := entry.AsName(); err == nil {
				line = fmt.Sprintf(".name %s", nameStyle.Render(fmt.Sprintf("%q", name.String())))
			} else {
				line = fmt.Sprintf("metadata kind %d", entry.Kind())
			}
			if matches(line, filter) {
				out = append(out, line)
			}
		}
		return out
	}

	symbols := func(filter string) []string {
		var out []string
		for _, a := range b.Symbols() {
			for _, sym := range a.Symbols {
				line := fmt.Sprintf("%s %s %s = %d",
					a.SymbolKind, a.TargetKind,
					nameStyle.Render(fmt.Sprintf("%q", sym.Name.String())), sym.Target)
				if matches(sym.Name.String(), filter) {
					out = append(out, line)
				}
			}
		}
		return out
	}

	types := func(filter string) []string {
		var out []string
		for i, t := range b.Types() {
			line := fmt.Sprintf("type %d = %s", i, typeStyle.Render(t.String()))
			if matches(t.String(), filter) {
				out = append(out, line)
			}
		}
		return out
	}

	signatures := func(filter string) []string {
		var out []string
		for i, sig := range b.Signatures() {
			line := fmt.Sprintf("signature %d = (%s) -> (%s)",
				i, typeList(sig.Params), typeList(sig.Results))
			if matches(line, filter) {
				out = append(out, line)
			}
		}
		return out
	}

	entry := func(filter string) []string {
		if fn, ok := b.EntryPoint(); ok {
			return []string{fmt.Sprintf("function %d", fn)}
		}
		return nil
	}

	imports := func(filter string) []string {
		var out []string
		for _, n := range b.Imports() {
			if matches(n.Name.String(), filter) {
				out = append(out, nameStyle.Render(fmt.Sprintf("%q", n.Name.String())))
			}
		}
		return out
	}

	entryCount := 0
	if _, ok := b.EntryPoint(); ok {
		entryCount = 1
	}
	symbolCount := 0
	for _, a := range b.Symbols() {
		symbolCount += len(a.Symbols)
	}

	return []viewInfo{
		{name: "Metadata", count: b.MetadataCount(), entries: metadata},
		{name: "Symbols", count: symbolCount, entries: symbols},
		{name: "Types", count: len(b.Types()), entries: types},
		{name: "Signatures", count: len(b.Signatures()), entries: signatures},
		{name: "Entry point", count: entryCount, entries: entry},
		{name: "Imports", count: len(b.Imports()), entries: imports},
	}
}

func matches(s, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(s), strings.ToLower(filter))
}

func typeList(indices []uint32) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = typeStyle.Render(fmt.Sprintf("type %d", idx))
	}
	return strings.Join(parts, ", ")
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectView || !m.filter.Focused() {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectView && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectView && m.selected < len(m.views)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectView && len(m.views) > 0 {
				m.state = stateShowEntries
				m.filter.SetValue("")
			}

		case "/":
			if m.state == stateShowEntries && !m.filter.Focused() {
				m.filter.Focus()
				return m, nil
			}

		case "esc":
			switch {
			case m.state == stateShowEntries && m.filter.Focused():
				m.filter.Blur()
			case m.state == stateShowEntries:
				m.state = stateSelectView
				m.filter.SetValue("")
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.browser = msg.browser
		m.views = msg.views
	}

	if m.state == stateShowEntries && m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.browser == nil {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("IL4IL Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	if name, ok := m.browser.Name(); ok {
		b.WriteString("  ")
		b.WriteString(nameStyle.Render(name.String()))
	}
	major, minor := m.browser.FormatVersion()
	b.WriteString(helpStyle.Render(fmt.Sprintf("  (format %d.%d)", major, minor)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectView:
		for i, v := range m.views {
			line := fmt.Sprintf("%s (%d)", v.name, v.count)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateShowEntries:
		v := m.views[m.selected]
		b.WriteString(v.name)
		b.WriteString("\n\n")
		entries := v.entries(m.filter.Value())
		if len(entries) == 0 {
			b.WriteString(helpStyle.Render("  (none)"))
			b.WriteString("\n")
		}
		for _, e := range entries {
			b.WriteString("  ")
			b.WriteString(e)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.filter.Focused() {
			b.WriteString(m.filter.View())
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("esc done filtering"))
		} else {
			b.WriteString(helpStyle.Render("/ filter • esc back • q quit"))
		}
	}

	return b.String()
}

func runInteractive(filename string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newBrowseModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
