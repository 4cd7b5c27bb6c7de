package layout

import (
	"regexp"
	"unicode/utf8"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Truncate shortens text to at most maxWidth runes, ending in the configured
// ellipsis when cut.
func Truncate(text string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth])
	}
	runes := []rune(text)
	return string(runes[:maxWidth-len(ellipsis)]) + cfg.Ellipsis
}

// TruncateWithPrefixSuffix truncates text while keeping prefix and suffix.
// Example: TruncateWithPrefixSuffix("Development", 12, "* ", "/", cfg) -> "* Develo.../"
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}

	combined := prefix + text + suffix
	if utf8.RuneCountInString(combined) <= maxWidth {
		return combined
	}

	overhead := utf8.RuneCountInString(prefix) + utf8.RuneCountInString(suffix) + utf8.RuneCountInString(cfg.Ellipsis)
	if overhead >= maxWidth {
		return Truncate(combined, maxWidth, cfg)
	}

	runes := []rune(text)
	return prefix + string(runes[:maxWidth-overhead]) + cfg.Ellipsis + suffix
}
