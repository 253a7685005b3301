package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andrewdelmar/funcad/pkg/docset"
	"github.com/andrewdelmar/funcad/pkg/eval"
	"github.com/andrewdelmar/funcad/pkg/fqpath"
	"github.com/andrewdelmar/funcad/pkg/manifest"
)

// entry names one evaluable function, qualified by the document it lives
// in.
type entry struct {
	doc  fqpath.FQPath
	name string
}

func (e entry) String() string { return fmt.Sprintf("%s.%s", e.doc, e.name) }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	resultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// model is an interactive browser over a loaded document set: arrow keys
// move the selection, Enter evaluates the selected function. It reuses one
// eval.EvalCache across every evaluation in the session, trading the
// specification's "EvalCache lives for a single call" lifecycle for memo
// reuse across browsing (documented as a deliberate relaxation, not an
// oversight).
type model struct {
	all     []entry
	visible []entry
	filter  textinput.Model
	cache   *eval.EvalCache
	idx     int
	result  string
	isErr   bool
}

func newModel(docs *docset.DocSet, cache *eval.EvalCache, entries []entry) model {
	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Focus()
	return model{all: entries, visible: entries, filter: ti, cache: cache}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m *model) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	if q == "" {
		m.visible = m.all
	} else {
		matched := make([]entry, 0, len(m.all))
		for _, e := range m.all {
			if strings.Contains(strings.ToLower(e.String()), q) {
				matched = append(matched, e)
			}
		}
		m.visible = matched
	}
	if m.idx >= len(m.visible) {
		m.idx = len(m.visible) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+k":
			if m.idx > 0 {
				m.idx--
				m.result = ""
			}
			return m, nil
		case "down", "ctrl+j":
			if m.idx < len(m.visible)-1 {
				m.idx++
				m.result = ""
			}
			return m, nil
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			sel := m.visible[m.idx]
			val, err := m.cache.EvalFunctionByName(sel.doc, sel.name)
			if err != nil {
				m.isErr = true
				m.result = err.Error()
			} else {
				m.isErr = false
				m.result = val.String()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m model) View() string {
	var b string
	b += titleStyle.Render("FuncCAD browser") + "\n\n"
	b += m.filter.View() + "\n\n"

	for i, e := range m.visible {
		line := "  " + e.String()
		if i == m.idx {
			line = selectedStyle.Render("> " + e.String())
		}
		b += line + "\n"
	}
	if len(m.visible) == 0 {
		b += helpStyle.Render("  (no matches)") + "\n"
	}

	if m.result != "" {
		b += "\n"
		if m.isErr {
			b += errorStyle.Render(m.result) + "\n"
		} else {
			b += resultStyle.Render("= "+m.result) + "\n"
		}
	}

	b += "\n" + helpStyle.Render("↑/↓ select · enter evaluate · type to filter · esc quit")
	return b
}

func collectEntries(docs *docset.DocSet, entry fqpath.FQPath) []entry {
	// DocSet doesn't expose iteration over every path it holds (only
	// lookup by path), so the browser walks from the entry document and
	// its own transitive imports instead of the whole set.
	var out []entry
	seen := map[string]bool{}
	var visit func(path fqpath.FQPath)
	visit = func(path fqpath.FQPath) {
		if seen[path.Key()] {
			return
		}
		seen[path.Key()] = true
		doc, ok := docs.Get(path)
		if !ok {
			return
		}
		names := make([]string, 0, len(doc.Funcs))
		for name := range doc.Funcs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, entry{doc: path, name: name})
		}
		for _, imp := range doc.Imports {
			if next, err := path.ImportPath(imp.File); err == nil {
				visit(next)
			}
		}
	}
	visit(entry)
	return out
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: funcad-browse <entry.fc>")
		os.Exit(1)
	}

	docs, err := docset.ParseAllFiles(os.Args[1])
	if err != nil {
		fmt.Printf("ERROR: unable to load program: %s\n", err)
		os.Exit(1)
	}

	root, entryPath, ok := fqpath.FromEntryFile(os.Args[1])
	if !ok {
		fmt.Println("ERROR: entry point is not a file")
		os.Exit(1)
	}

	man, err := manifest.Load(root)
	if err != nil {
		fmt.Printf("ERROR: unable to load funcad.yaml: %s\n", err)
		os.Exit(1)
	}

	cache := eval.New(docs, man.EffectiveTolerance())
	entries := collectEntries(docs, entryPath)

	if _, err := tea.NewProgram(newModel(docs, cache, entries)).Run(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}
