package picker

const (
	// Each result renders as a name line and a URL line.
	linesPerResult = 2
	// Header, its blank line, the trailing blank line and the help line.
	chromeLines = 4
	// Cursor and URL indent.
	indentWidth = 3
)

// maxVisibleResults returns how many results fit in height terminal rows.
func maxVisibleResults(height int) int {
	n := (height - chromeLines) / linesPerResult
	if n < 1 {
		return 1
	}
	return n
}
