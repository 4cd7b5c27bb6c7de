package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/tui/layout"
)

// renderView creates the two-pane view, or the active modal.
func (a App) renderView() string {
	if a.mode != ModeNormal {
		return a.renderModal()
	}

	paneHeight := layout.PaneHeight(a.height, a.layoutConfig.Pane)
	groupsWidth, linksWidth := layout.PaneWidths(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderGroupsPane(groupsWidth, paneHeight),
		a.renderLinksPane(linksWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderTitle(), columns, a.renderHelpBar()),
	)

	// Place keeps the output at exactly the terminal size.
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderTitle() string {
	title := a.styles.Title.Render("linkman")
	if a.cut.Active() {
		title += "  " + a.styles.ItemCut.Render("cut: "+a.cutLabel())
	}
	return title
}

// cutLabel names the item in the cut buffer.
func (a App) cutLabel() string {
	if a.cut.Group != "" {
		return a.cut.Group
	}
	if link := a.store.GetLinkByID(a.cut.LinkID); link != nil {
		return link.Name
	}
	return a.cut.LinkID
}

func (a App) renderGroupsPane(width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Groups") + "\n\n")

	if len(a.groups) == 0 {
		content.WriteString(a.styles.Empty.Render("(no groups, A to add)"))
		return a.paneStyle(PaneGroups).Width(width).Height(height).Render(content.String())
	}

	visible := height - 2
	itemWidth := layout.ItemWidth(width, a.layoutConfig.Pane)
	offset := layout.ViewportOffset(a.groupCursor, len(a.groups), visible)

	for i := offset; i < len(a.groups) && i < offset+visible; i++ {
		group := a.groups[i]
		suffix := fmt.Sprintf(" (%d)", a.countLinks(group))
		line := layout.TruncateWithPrefixSuffix(group, itemWidth, "", suffix, a.layoutConfig.Text)
		content.WriteString(a.renderItem(line, itemWidth, i == a.groupCursor, a.focus == PaneGroups, a.cut.Group == group) + "\n")
	}

	return a.paneStyle(PaneGroups).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func (a App) renderLinksPane(width, height int) string {
	var content strings.Builder
	group, _ := a.selectedGroup()
	content.WriteString(a.styles.Title.Render(group) + "\n\n")

	if len(a.links) == 0 {
		content.WriteString(a.styles.Empty.Render("(no links, a to add)"))
		return a.paneStyle(PaneLinks).Width(width).Height(height).Render(content.String())
	}

	visible := height - 2
	itemWidth := layout.ItemWidth(width, a.layoutConfig.Pane)
	offset := layout.ViewportOffset(a.linkCursor, len(a.links), visible)

	for i := offset; i < len(a.links) && i < offset+visible; i++ {
		link := a.links[i]
		suffix := ""
		if section := link.Section(); section != model.DefaultSection {
			suffix = " [" + section + "]"
		}
		line := layout.TruncateWithPrefixSuffix(link.Name, itemWidth, "", suffix, a.layoutConfig.Text)
		content.WriteString(a.renderItem(line, itemWidth, i == a.linkCursor, a.focus == PaneLinks, a.cut.LinkID == link.ID) + "\n")
	}

	if link, ok := a.selectedLink(); ok && a.focus == PaneLinks {
		content.WriteString("\n" + a.styles.URL.Render(layout.Truncate(link.URL, itemWidth, a.layoutConfig.Text)))
	}

	return a.paneStyle(PaneLinks).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func (a App) paneStyle(p Pane) lipgloss.Style {
	if a.focus == p {
		return a.styles.PaneActive
	}
	return a.styles.Pane
}

func (a App) renderItem(line string, width int, selected, focused, cut bool) string {
	switch {
	case selected && focused:
		// Pad so the highlight spans the pane.
		for lipgloss.Width(line) < width {
			line += " "
		}
		return a.styles.ItemSelected.Render(line)
	case cut:
		return a.styles.ItemCut.Render(line)
	}
	return a.styles.Item.Render(line)
}

func (a App) countLinks(group string) int {
	n := 0
	for _, l := range a.store.Links {
		if l.Group() == group {
			n++
		}
	}
	return n
}

// renderModal renders the current modal dialog.
func (a App) renderModal() string {
	var title, content strings.Builder

	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(layout.ModalWidth(a.width, a.layoutConfig.Modal))

	switch a.mode {
	case ModeAddLink:
		title.WriteString("Add Link\n\n")
		content.WriteString("URL:\n")
		content.WriteString(a.modal.URLInput.View())
		content.WriteString("\n\n")
		content.WriteString("Category:\n")
		content.WriteString(a.modal.CategoryInput.View())

	case ModeAddGroup:
		title.WriteString("Add Group\n\n")
		content.WriteString("Name:\n")
		content.WriteString(a.modal.NameInput.View())

	case ModeRenameGroup:
		title.WriteString("Rename Group\n\n")
		content.WriteString("Name:\n")
		content.WriteString(a.modal.NameInput.View())

	case ModeConfirmDelete:
		if link := a.store.GetLinkByID(a.modal.TargetLinkID); link != nil {
			title.WriteString("Delete Link?\n\n")
			content.WriteString("\"" + link.Name + "\"\n\n")
		} else {
			title.WriteString("Delete Group?\n\n")
			content.WriteString(fmt.Sprintf("%q and its %d links\n\n", a.modal.TargetGroup, a.countLinks(a.modal.TargetGroup)))
		}
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))
	}

	modalContent := a.styles.Title.Render(title.String()) + content.String()

	modal := lipgloss.Place(
		a.width,
		a.height-3, // help bar
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(modalContent),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

// renderHelpBar renders the message line above the contextual hints.
func (a App) renderHelpBar() string {
	message := ""
	if a.messageText != "" {
		message = a.renderMessage()
	}
	return lipgloss.JoinVertical(lipgloss.Left, message, a.styles.Help.Render(a.renderHints(a.contextualHints())))
}

func (a App) renderMessage() string {
	switch a.messageType {
	case MessageSuccess:
		return a.styles.Success.Render(a.messageText)
	case MessageError:
		return a.styles.Error.Render(a.messageText)
	default:
		return a.styles.Info.Render(a.messageText)
	}
}
