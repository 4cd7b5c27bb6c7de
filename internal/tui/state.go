package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/MASHINC1/LinkMan/internal/tui/layout"
)

// Mode is the browser's input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddLink
	ModeAddGroup
	ModeRenameGroup
	ModeConfirmDelete
)

// Pane identifies the focused pane.
type Pane int

const (
	PaneGroups Pane = iota
	PaneLinks
)

// MessageType determines how the status message is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// ModalState holds the inputs of the add and rename modals.
type ModalState struct {
	URLInput      textinput.Model
	CategoryInput textinput.Model
	NameInput     textinput.Model // group name for add group and rename

	// Add link modal: 0 = URL, 1 = category.
	Field int

	// Target of a pending delete or rename.
	TargetGroup  string
	TargetLinkID string
}

// NewModalState creates a ModalState with initialized inputs.
func NewModalState(cfg layout.InputConfig) ModalState {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://..."
	urlInput.CharLimit = cfg.URLCharLimit
	urlInput.Width = cfg.Width

	categoryInput := textinput.New()
	categoryInput.Placeholder = "Group / Section"
	categoryInput.CharLimit = cfg.NameCharLimit
	categoryInput.Width = cfg.Width

	nameInput := textinput.New()
	nameInput.Placeholder = "Name"
	nameInput.CharLimit = cfg.NameCharLimit
	nameInput.Width = cfg.Width

	return ModalState{
		URLInput:      urlInput,
		CategoryInput: categoryInput,
		NameInput:     nameInput,
	}
}

// Reset clears all modal inputs for a new modal session.
func (m *ModalState) Reset() {
	m.URLInput.Reset()
	m.URLInput.Blur()
	m.CategoryInput.Reset()
	m.CategoryInput.Blur()
	m.NameInput.Reset()
	m.NameInput.Blur()
	m.Field = 0
	m.TargetGroup = ""
	m.TargetLinkID = ""
}

// focusField focuses the add-link input at index field.
func (m *ModalState) focusField(field int) {
	m.Field = field
	if field == 0 {
		m.CategoryInput.Blur()
		m.URLInput.Focus()
		return
	}
	m.URLInput.Blur()
	m.CategoryInput.Focus()
}
