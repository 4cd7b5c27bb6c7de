package layout

// Config holds layout-related configuration values.
type Config struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + title (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int
	MinHeight       int

	// WidthOffset is subtracted before splitting the width between the
	// groups and links panes (borders and app padding).
	WidthOffset int

	// GroupsWidthPercent is the groups pane's share of the split width.
	GroupsWidthPercent int
	MinGroupsWidth     int
	MinLinksWidth      int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	WidthPercent int
	MinWidth     int
	MaxWidth     int
}

// InputConfig holds text input limits.
type InputConfig struct {
	NameCharLimit int
	URLCharLimit  int
	Width         int
}

// TextConfig holds text rendering configuration.
type TextConfig struct {
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		Pane: PaneConfig{
			HeightReduction:    7,
			MinHeight:          5,
			WidthOffset:        8,
			GroupsWidthPercent: 35,
			MinGroupsWidth:     16,
			MinLinksWidth:      24,
			ContentPadding:     4,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     40,
			MaxWidth:     80,
		},
		Input: InputConfig{
			NameCharLimit: 200,
			URLCharLimit:  2000,
			Width:         40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
