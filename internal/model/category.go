package model

import "strings"

const (
	// DefaultGroup is used when a category has no group part.
	DefaultGroup = "Sonstiges"
	// DefaultSection is the implicit section of a group. It is never written
	// into a category string.
	DefaultSection = "Allgemein"

	categorySeparator = "/"
	sectionJoiner     = " / "
)

// Category is the decoded form of a category string.
type Category struct {
	Group   string `json:"group"`
	Section string `json:"section"`
}

// String encodes the category back to its string form.
func (c Category) String() string {
	return EncodeCategory(c.Group, c.Section)
}

// DecodeCategory splits "Group / Section" into its parts.
// Empty input yields the default group and section.
func DecodeCategory(category string) Category {
	category = strings.TrimSpace(category)
	if category == "" {
		return Category{Group: DefaultGroup, Section: DefaultSection}
	}

	var parts []string
	for _, p := range strings.Split(category, categorySeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	switch len(parts) {
	case 0:
		return Category{Group: DefaultGroup, Section: DefaultSection}
	case 1:
		return Category{Group: parts[0], Section: DefaultSection}
	default:
		return Category{Group: parts[0], Section: strings.Join(parts[1:], sectionJoiner)}
	}
}

// EncodeCategory builds a category string. The section is omitted when it is
// the default section.
func EncodeCategory(group, section string) string {
	group = strings.TrimSpace(group)
	section = strings.TrimSpace(section)
	if group == "" {
		group = DefaultGroup
	}
	if section == "" || strings.EqualFold(section, DefaultSection) {
		return group
	}
	return group + sectionJoiner + section
}

// GroupOf returns the group part of a category string.
func GroupOf(category string) string {
	return DecodeCategory(category).Group
}

// CanonicalCategory re-encodes a category string so equal categories compare
// equal, e.g. "Work/Allgemein" and " Work " both become "Work".
func CanonicalCategory(category string) string {
	return DecodeCategory(category).String()
}
