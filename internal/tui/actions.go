package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MASHINC1/LinkMan/internal/model"
)

// cutSelected puts the selected link or group into the cut buffer.
func (a *App) cutSelected() {
	if a.focus == PaneLinks {
		if link, ok := a.selectedLink(); ok {
			a.cut.StartLink(link.ID)
			a.setMessage(MessageInfo, fmt.Sprintf("Cut %q, p/P to paste", link.Name))
		}
		return
	}
	if group, ok := a.selectedGroup(); ok {
		a.cut.StartGroup(group)
		a.setMessage(MessageInfo, fmt.Sprintf("Cut group %q, p/P to paste", group))
	}
}

// paste moves the cut item next to the selection.
func (a *App) paste(after bool) {
	switch {
	case a.cut.LinkID != "":
		a.pasteLink(after)
	case a.cut.Group != "":
		a.pasteGroup(after)
	default:
		a.setMessage(MessageInfo, "Nothing to paste")
	}
}

// pasteLink moves the cut link into the selected group. In the links pane it
// lands before or after the selected link; in the groups pane, or when the
// group is empty, it goes after the group's last link.
func (a *App) pasteLink(after bool) {
	group, ok := a.selectedGroup()
	if !ok {
		a.setMessage(MessageError, "No group to paste into")
		return
	}

	beforeID := ""
	if link, ok := a.selectedLink(); ok && a.focus == PaneLinks {
		switch {
		case !after:
			beforeID = link.ID
		case a.linkCursor+1 < len(a.links):
			beforeID = a.links[a.linkCursor+1].ID
		}
	}

	id := a.cut.LinkID
	moved, err := a.sess.MoveLink(id, group, beforeID)
	if err != nil {
		a.setMessage(MessageError, "Move failed: "+err.Error())
		return
	}
	a.cut.End()
	a.refresh()
	if !moved {
		a.setMessage(MessageInfo, "Nothing moved")
		return
	}
	a.selectGroup(group)
	a.selectLink(id)
	a.focus = PaneLinks
	a.setMessage(MessageSuccess, "Moved link to "+group)
}

// pasteGroup moves the cut group before or after the selected group.
func (a *App) pasteGroup(after bool) {
	target, ok := a.selectedGroup()
	if !ok {
		return
	}
	dragged := a.cut.Group

	var moved bool
	var err error
	if after && a.groupCursor == len(a.groups)-1 {
		moved, err = a.sess.MoveGroupToEnd(dragged)
	} else {
		moved, err = a.sess.MoveGroup(dragged, target, after)
	}
	if err != nil {
		a.setMessage(MessageError, "Move failed: "+err.Error())
		return
	}
	a.cut.End()
	a.refresh()
	if !moved {
		a.setMessage(MessageInfo, "Nothing moved")
		return
	}
	a.selectGroup(dragged)
	a.focus = PaneGroups
	a.setMessage(MessageSuccess, "Moved group "+dragged)
}

// dropStaleCut clears the cut buffer when its item no longer exists.
func (a *App) dropStaleCut() {
	switch {
	case a.cut.LinkID != "" && a.store.GetLinkByID(a.cut.LinkID) == nil:
		a.cut.End()
	case a.cut.Group != "" && !slices.Contains(a.groups, a.cut.Group):
		a.cut.End()
	}
}

func (a *App) startDelete() {
	a.modal.Reset()
	if a.focus == PaneLinks {
		link, ok := a.selectedLink()
		if !ok {
			return
		}
		a.modal.TargetLinkID = link.ID
	} else {
		group, ok := a.selectedGroup()
		if !ok {
			return
		}
		a.modal.TargetGroup = group
	}
	a.mode = ModeConfirmDelete
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.modal.Reset()

	case key.Matches(msg, a.keys.Confirm):
		a.mode = ModeNormal
		a.confirmDelete()
		a.modal.Reset()
	}
	return a, nil
}

func (a *App) confirmDelete() {
	if id := a.modal.TargetLinkID; id != "" {
		if _, err := a.sess.DeleteLink(id); err != nil {
			a.setMessage(MessageError, "Delete failed: "+err.Error())
			return
		}
		a.refresh()
		a.dropStaleCut()
		if len(a.links) == 0 {
			a.focus = PaneGroups
		}
		a.setMessage(MessageSuccess, "Deleted link")
		return
	}

	group := a.modal.TargetGroup
	removed, err := a.sess.DeleteGroup(group)
	if err != nil {
		a.setMessage(MessageError, "Delete failed: "+err.Error())
		return
	}
	a.refresh()
	a.dropStaleCut()
	a.focus = PaneGroups
	a.setMessage(MessageSuccess, fmt.Sprintf("Deleted group %s (%d links)", group, removed))
}

func (a *App) startAddLink() tea.Cmd {
	a.modal.Reset()
	if group, ok := a.selectedGroup(); ok {
		a.modal.CategoryInput.SetValue(group)
	}
	a.modal.focusField(0)
	a.mode = ModeAddLink
	return textinput.Blink
}

func (a App) updateAddLink(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.modal.Reset()
		return a, nil

	case key.Matches(msg, a.keys.NextField):
		a.modal.focusField(1 - a.modal.Field)
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		link, err := a.sess.AddLink(model.NewLinkParams{
			URL:      a.modal.URLInput.Value(),
			Category: a.modal.CategoryInput.Value(),
		})
		if err != nil {
			a.setMessage(MessageError, err.Error())
			return a, nil
		}
		a.mode = ModeNormal
		a.modal.Reset()
		a.refresh()
		a.selectGroup(model.GroupOf(link.Category))
		a.selectLink(link.ID)
		a.focus = PaneLinks
		a.setMessage(MessageSuccess, "Added "+link.Name)
		return a, nil
	}

	var cmd tea.Cmd
	if a.modal.Field == 0 {
		a.modal.URLInput, cmd = a.modal.URLInput.Update(msg)
	} else {
		a.modal.CategoryInput, cmd = a.modal.CategoryInput.Update(msg)
	}
	return a, cmd
}

func (a *App) startNameInput(mode Mode, initial string) tea.Cmd {
	a.modal.Reset()
	a.modal.TargetGroup = initial
	a.modal.NameInput.SetValue(initial)
	a.modal.NameInput.Focus()
	a.mode = mode
	return textinput.Blink
}

func (a App) updateNameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.modal.Reset()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		name := strings.TrimSpace(a.modal.NameInput.Value())
		if name == "" {
			a.setMessage(MessageError, "Name is required")
			return a, nil
		}
		if a.mode == ModeAddGroup {
			a.addGroup(name)
		} else {
			a.renameGroup(a.modal.TargetGroup, name)
		}
		a.mode = ModeNormal
		a.modal.Reset()
		return a, nil
	}

	var cmd tea.Cmd
	a.modal.NameInput, cmd = a.modal.NameInput.Update(msg)
	return a, cmd
}

func (a *App) addGroup(name string) {
	category, err := a.sess.AddCategory(name)
	if err != nil {
		a.setMessage(MessageError, "Add failed: "+err.Error())
		return
	}
	group := model.GroupOf(category)
	a.refresh()
	a.selectGroup(group)
	a.focus = PaneGroups
	a.setMessage(MessageSuccess, "Added group "+group)
}

func (a *App) renameGroup(oldName, newName string) {
	renamed, err := a.sess.RenameGroup(oldName, newName)
	if err != nil {
		a.setMessage(MessageError, "Rename failed: "+err.Error())
		return
	}
	if !renamed {
		a.setMessage(MessageInfo, "Nothing renamed")
		return
	}
	if a.cut.Group == oldName {
		a.cut.StartGroup(newName)
	}
	a.refresh()
	a.selectGroup(newName)
	a.setMessage(MessageSuccess, "Renamed to "+newName)
}
