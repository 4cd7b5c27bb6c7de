package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // e.g. "j/k", "Enter"
	Desc string // e.g. "move", "open"
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Edit   []Hint
	Action []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints for the bottom bar: "j/k:move h:groups l:links"
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	if len(all) == 0 {
		return ""
	}
	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the hints for the current mode and pane.
func (a App) contextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return a.normalModeHints()
	case ModeAddLink:
		return HintSet{
			Nav:    []Hint{{Key: "Tab", Desc: "next"}},
			Action: []Hint{{Key: "Enter", Desc: "save"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeAddGroup, ModeRenameGroup:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "save"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	default:
		// Delete confirmation shows its hints inside the modal.
		return HintSet{}
	}
}

func (a App) normalModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/l", Desc: "pane"},
		},
		Edit: []Hint{
			{Key: "a", Desc: "add"},
			{Key: "x", Desc: "cut"},
			{Key: "d", Desc: "del"},
		},
		System: []Hint{
			{Key: "q", Desc: "quit"},
		},
	}

	if a.focus == PaneLinks {
		hints.Action = []Hint{
			{Key: "Enter", Desc: "open"},
			{Key: "y", Desc: "yank"},
		}
	} else {
		hints.Edit = append(hints.Edit,
			Hint{Key: "A", Desc: "group"},
			Hint{Key: "r", Desc: "rename"},
		)
	}

	if a.cut.Active() {
		hints.Edit = append(hints.Edit, Hint{Key: "p/P", Desc: "paste"})
		hints.System = append([]Hint{{Key: "Esc", Desc: "uncut"}}, hints.System...)
	}
	return hints
}
