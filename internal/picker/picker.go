// Package picker is a small TUI for choosing one link from search results.
package picker

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/search"
	"github.com/MASHINC1/LinkMan/internal/tui/layout"
)

var textConfig = layout.DefaultConfig().Text

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Action is what the user chose to do with the selected link.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionCopy
)

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	url string
	err error
}

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results []search.SearchResult
	query   string
	cursor  int
	action  Action
	status  string
	width   int
	height  int

	keys    KeyMap
	copyURL func(string) error
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
		keys:    DefaultKeyMap(),
		copyURL: clipboard.WriteAll,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case copiedMsg:
		if msg.err != nil {
			p.status = "Copy failed: " + msg.err.Error()
			return p, nil
		}
		p.action = ActionCopy
		return p, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.action = ActionNone
			return p, tea.Quit

		case key.Matches(msg, p.keys.Select):
			if len(p.results) == 0 {
				return p, nil
			}
			p.action = ActionOpen
			return p, tea.Quit

		case key.Matches(msg, p.keys.Yank):
			link, ok := p.current()
			if !ok {
				return p, nil
			}
			copyURL := p.copyURL
			return p, func() tea.Msg {
				return copiedMsg{url: link.URL, err: copyURL(link.URL)}
			}

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}
	}

	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	start, end := layout.VisibleRange(p.cursor, len(p.results), maxVisibleResults(p.height))
	textWidth := p.width - indentWidth
	for i := start; i < end; i++ {
		link := p.results[i].Link
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		category := "[" + link.Category + "]"
		name := layout.Truncate(link.Name, textWidth-len([]rune(category))-1, textConfig)
		fmt.Fprintf(&b, "%s%s %s\n", cursor, style.Render(name), categoryStyle.Render(category))
		fmt.Fprintf(&b, "   %s\n", urlStyle.Render(layout.Truncate(link.URL, textWidth, textConfig)))
	}

	b.WriteString("\n")
	if p.status != "" {
		b.WriteString(p.status + "\n")
	}
	b.WriteString(helpStyle.Render(p.keys.help()))

	return b.String()
}

func (p Picker) current() (model.Link, bool) {
	if p.cursor < 0 || p.cursor >= len(p.results) {
		return model.Link{}, false
	}
	return p.results[p.cursor].Link, true
}

// Selected returns the chosen link and action. ok is false when the user
// cancelled.
func (p Picker) Selected() (link model.Link, action Action, ok bool) {
	if p.action == ActionNone {
		return model.Link{}, ActionNone, false
	}
	link, ok = p.current()
	return link, p.action, ok
}

// Cancelled returns true if the user quit without choosing.
func (p Picker) Cancelled() bool {
	return p.action == ActionNone
}
