package layout

// PaneHeight computes the content height for panes. Returns at least
// MinHeight.
func PaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// PaneWidths splits the terminal width between the groups and links panes.
func PaneWidths(terminalWidth int, cfg PaneConfig) (groups, links int) {
	available := terminalWidth - cfg.WidthOffset
	groups = available * cfg.GroupsWidthPercent / 100
	if groups < cfg.MinGroupsWidth {
		groups = cfg.MinGroupsWidth
	}
	links = available - groups
	if links < cfg.MinLinksWidth {
		links = cfg.MinLinksWidth
	}
	return groups, links
}

// ItemWidth computes the width available for item content.
func ItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// ViewportOffset calculates the scroll offset needed to keep the selected
// item visible, keeping the selection roughly centered.
func ViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}
	return offset
}

// VisibleRange returns the window [start, end) of a list of total items that
// keeps cursor on screen when at most maxVisible items fit. Unlike
// ViewportOffset the window only scrolls once the cursor leaves it.
func VisibleRange(cursor, total, maxVisible int) (start, end int) {
	if total <= maxVisible {
		return 0, total
	}
	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}
	end = start + maxVisible
	if end > total {
		end = total
	}
	return start, end
}

// ModalWidth computes a modal's width as a percentage of the terminal,
// clamped to the configured bounds and the terminal itself.
func ModalWidth(terminalWidth int, cfg ModalConfig) int {
	width := terminalWidth * cfg.WidthPercent / 100
	if width < cfg.MinWidth {
		width = cfg.MinWidth
	}
	if width > cfg.MaxWidth {
		width = cfg.MaxWidth
	}
	if width > terminalWidth-4 {
		width = terminalWidth - 4
	}
	return width
}
