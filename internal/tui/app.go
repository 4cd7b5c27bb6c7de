// Package tui is an interactive two-pane browser for groups and their links.
// Cut and paste reorder links and groups through the session.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/tui/layout"
)

// Session is the set of store operations the browser drives.
// *session.Session implements it.
type Session interface {
	Snapshot() *model.Store
	AddLink(params model.NewLinkParams) (model.Link, error)
	DeleteLink(id string) (bool, error)
	MoveLink(id, targetGroup, beforeID string) (bool, error)
	MoveGroup(dragged, target string, insertAfter bool) (bool, error)
	MoveGroupToEnd(dragged string) (bool, error)
	RenameGroup(oldName, newName string) (bool, error)
	DeleteGroup(group string) (int, error)
	AddCategory(category string) (string, error)
}

// App is the bubbletea model for the browser.
type App struct {
	sess         Session
	keys         KeyMap
	styles       Styles
	layoutConfig layout.Config

	mode  Mode
	focus Pane
	modal ModalState

	// Snapshot-derived view state.
	store       *model.Store
	groups      []string
	links       []model.Link // links of the selected group
	groupCursor int
	linkCursor  int

	// cut holds the link or group waiting to be pasted.
	cut model.DragContext

	messageText string
	messageType MessageType

	// For gg command
	lastKeyWasG bool

	width  int
	height int

	openURL func(string) error
	copyURL func(string) error
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Session      Session
	Keys         *KeyMap        // optional, uses default if nil
	Styles       *Styles        // optional, uses default if nil
	LayoutConfig *layout.Config // optional, uses default if nil
	OpenURL      func(string) error
	CopyURL      func(string) error // optional, uses the system clipboard if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}
	copyURL := params.CopyURL
	if copyURL == nil {
		copyURL = clipboard.WriteAll
	}
	openURL := params.OpenURL
	if openURL == nil {
		openURL = func(string) error { return nil }
	}

	app := App{
		sess:         params.Session,
		keys:         keys,
		styles:       styles,
		layoutConfig: cfg,
		modal:        NewModalState(cfg.Input),
		width:        80,
		height:       24,
		openURL:      openURL,
		copyURL:      copyURL,
	}
	app.refresh()
	return app
}

// WithDimensions returns a copy of the App sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// refresh reloads the snapshot and clamps the cursors.
func (a *App) refresh() {
	a.store = a.sess.Snapshot()
	a.groups = model.ReconcileGroupOrder(a.store.GroupOrder, model.GroupNamesFromState(a.store.Categories, a.store.Links))
	a.groupCursor = clamp(a.groupCursor, len(a.groups))
	a.refreshLinks()
}

func (a *App) refreshLinks() {
	a.links = nil
	if group, ok := a.selectedGroup(); ok {
		a.links = a.store.GetLinksInGroup(group)
	}
	a.linkCursor = clamp(a.linkCursor, len(a.links))
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (a App) selectedGroup() (string, bool) {
	if a.groupCursor < 0 || a.groupCursor >= len(a.groups) {
		return "", false
	}
	return a.groups[a.groupCursor], true
}

func (a App) selectedLink() (model.Link, bool) {
	if a.linkCursor < 0 || a.linkCursor >= len(a.links) {
		return model.Link{}, false
	}
	return a.links[a.linkCursor], true
}

// selectGroup moves the group cursor onto group if it is listed.
func (a *App) selectGroup(group string) {
	for i, g := range a.groups {
		if g == group {
			a.groupCursor = i
			a.refreshLinks()
			return
		}
	}
}

// selectLink moves the link cursor onto the link with id if it is listed.
func (a *App) selectLink(id string) {
	for i, l := range a.links {
		if l.ID == id {
			a.linkCursor = i
			return
		}
	}
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

// Groups returns the groups in display order.
func (a App) Groups() []string { return a.groups }

// Links returns the links of the selected group.
func (a App) Links() []model.Link { return a.links }

// GroupCursor returns the selected group index.
func (a App) GroupCursor() int { return a.groupCursor }

// LinkCursor returns the selected link index.
func (a App) LinkCursor() int { return a.linkCursor }

// Focus returns the focused pane.
func (a App) Focus() Pane { return a.focus }

// Mode returns the current input mode.
func (a App) Mode() Mode { return a.mode }

// Cut returns the pending cut, if any.
func (a App) Cut() model.DragContext { return a.cut }

// Message returns the status message.
func (a App) Message() string { return a.messageText }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeAddLink:
			return a.updateAddLink(msg)
		case ModeAddGroup, ModeRenameGroup:
			return a.updateNameInput(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		}
		return a.updateNormal(msg)
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.setCursor(0)
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		a.setCursor(a.cursor() + 1)

	case key.Matches(msg, a.keys.Up):
		a.setCursor(a.cursor() - 1)

	case key.Matches(msg, a.keys.Bottom):
		a.setCursor(a.listLen() - 1)

	case key.Matches(msg, a.keys.Left):
		a.focus = PaneGroups

	case key.Matches(msg, a.keys.Right):
		if len(a.links) > 0 {
			a.focus = PaneLinks
		}

	case key.Matches(msg, a.keys.Cancel):
		if a.cut.Active() {
			a.cut.End()
			a.setMessage(MessageInfo, "Cut cancelled")
		}

	case key.Matches(msg, a.keys.Open):
		if link, ok := a.selectedLink(); ok && a.focus == PaneLinks {
			if err := a.openURL(link.URL); err != nil {
				a.setMessage(MessageError, "Open failed: "+err.Error())
			}
		} else if a.focus == PaneGroups && len(a.links) > 0 {
			a.focus = PaneLinks
		}

	case key.Matches(msg, a.keys.YankURL):
		if link, ok := a.selectedLink(); ok && a.focus == PaneLinks {
			if err := a.copyURL(link.URL); err != nil {
				a.setMessage(MessageError, "Copy failed: "+err.Error())
			} else {
				a.setMessage(MessageSuccess, "Copied "+link.URL)
			}
		}

	case key.Matches(msg, a.keys.Cut):
		a.cutSelected()

	case key.Matches(msg, a.keys.PasteAfter):
		a.paste(true)

	case key.Matches(msg, a.keys.PasteBefore):
		a.paste(false)

	case key.Matches(msg, a.keys.Delete):
		a.startDelete()

	case key.Matches(msg, a.keys.AddLink):
		cmd := a.startAddLink()
		return a, cmd

	case key.Matches(msg, a.keys.AddGroup):
		cmd := a.startNameInput(ModeAddGroup, "")
		return a, cmd

	case key.Matches(msg, a.keys.Rename):
		if group, ok := a.selectedGroup(); ok {
			cmd := a.startNameInput(ModeRenameGroup, group)
			return a, cmd
		}
	}

	return a, nil
}

func (a App) cursor() int {
	if a.focus == PaneLinks {
		return a.linkCursor
	}
	return a.groupCursor
}

func (a App) listLen() int {
	if a.focus == PaneLinks {
		return len(a.links)
	}
	return len(a.groups)
}

func (a *App) setCursor(c int) {
	c = clamp(c, a.listLen())
	if a.focus == PaneLinks {
		a.linkCursor = c
		return
	}
	if c != a.groupCursor {
		a.groupCursor = c
		a.linkCursor = 0
		a.refreshLinks()
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
