package model

import (
	"fmt"
	"strings"

	"github.com/MASHINC1/LinkMan/internal/apperr"
	"github.com/MASHINC1/LinkMan/internal/weburl"
)

// Store holds the categories, the links and the user's group order.
// It is the persisted snapshot.
type Store struct {
	Categories []string `json:"categories"`
	Links      []Link   `json:"links"`
	GroupOrder []string `json:"groupOrder"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Categories: []string{},
		Links:      []Link{},
		GroupOrder: []string{},
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	return &Store{
		Categories: append([]string{}, s.Categories...),
		Links:      append([]Link{}, s.Links...),
		GroupOrder: append([]string{}, s.GroupOrder...),
	}
}

// GetLinkByID finds a link by ID, returns nil if not found.
func (s *Store) GetLinkByID(id string) *Link {
	if i := s.linkIndex(id); i >= 0 {
		return &s.Links[i]
	}
	return nil
}

func (s *Store) linkIndex(id string) int {
	for i := range s.Links {
		if s.Links[i].ID == id {
			return i
		}
	}
	return -1
}

// GetLinksInGroup returns the links of a group in storage order.
func (s *Store) GetLinksInGroup(group string) []Link {
	var result []Link
	for _, l := range s.Links {
		if l.Group() == group {
			result = append(result, l)
		}
	}
	return result
}

// GetSections returns the sections of a group in first-seen order,
// categories first, then links.
func (s *Store) GetSections(group string) []string {
	seen := make(map[string]bool)
	var sections []string
	add := func(category string) {
		c := DecodeCategory(category)
		if c.Group == group && !seen[c.Section] {
			seen[c.Section] = true
			sections = append(sections, c.Section)
		}
	}
	for _, c := range s.Categories {
		add(c)
	}
	for _, l := range s.Links {
		add(l.Category)
	}
	return sections
}

// HasCategory reports whether category is in the categories list.
func (s *Store) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// AddCategory registers a category if it is unknown and returns its
// canonical form.
func (s *Store) AddCategory(category string) string {
	category = CanonicalCategory(category)
	if !s.HasCategory(category) {
		s.Categories = append(s.Categories, category)
	}
	return category
}

// AddLink creates a link and inserts it at the head of the list.
func (s *Store) AddLink(params NewLinkParams) (Link, error) {
	link, ok := NewLink(params)
	if !ok {
		return Link{}, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, params.URL)
	}

	link.Category = s.AddCategory(link.Category)
	s.Links = append([]Link{link}, s.Links...)
	s.SyncGroupOrder()
	return link, nil
}

// DeleteLink removes a link. Unknown IDs are ignored; the result reports
// whether a link was removed.
func (s *Store) DeleteLink(id string) bool {
	i := s.linkIndex(id)
	if i < 0 {
		return false
	}
	s.Links = append(s.Links[:i], s.Links[i+1:]...)
	s.SyncGroupOrder()
	return true
}

// UpdateLink merges the non-nil fields of update into the link.
func (s *Store) UpdateLink(id string, update LinkUpdate) (Link, error) {
	link := s.GetLinkByID(id)
	if link == nil {
		return Link{}, fmt.Errorf("link %s: %w", id, apperr.ErrNotFound)
	}

	next := *link
	if update.URL != nil {
		u, ok := weburl.Normalize(*update.URL)
		if !ok {
			return Link{}, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, *update.URL)
		}
		next.URL = u
	}
	if update.Name != nil {
		next.Name = strings.TrimSpace(*update.Name)
		if next.Name == "" {
			next.Name = weburl.DisplayName(next.URL)
		}
	}
	if update.Image != nil {
		next.Image = strings.TrimSpace(*update.Image)
	}
	if update.Icon != nil {
		next.Icon = strings.TrimSpace(*update.Icon)
	}
	if update.Category != nil {
		next.Category = s.AddCategory(*update.Category)
	}

	*link = next
	s.SyncGroupOrder()
	return next, nil
}

// DeleteGroup removes every link and category of the group, and the group
// itself. Returns the number of links removed.
func (s *Store) DeleteGroup(group string) int {
	s.SyncGroupOrder()

	removed := 0
	links := s.Links[:0]
	for _, l := range s.Links {
		if l.Group() == group {
			removed++
			continue
		}
		links = append(links, l)
	}
	s.Links = links

	categories := s.Categories[:0]
	for _, c := range s.Categories {
		if GroupOf(c) != group {
			categories = append(categories, c)
		}
	}
	s.Categories = categories

	order := s.GroupOrder[:0]
	for _, g := range s.GroupOrder {
		if g != group {
			order = append(order, g)
		}
	}
	s.GroupOrder = order

	s.SyncGroupOrder()
	return removed
}

// RenameGroup moves every link and category of oldName to newName, keeping
// sections and the group's position in the order.
func (s *Store) RenameGroup(oldName, newName string) bool {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" || oldName == newName {
		return false
	}

	s.SyncGroupOrder()

	for i := range s.Links {
		c := DecodeCategory(s.Links[i].Category)
		if c.Group == oldName {
			s.Links[i].Category = EncodeCategory(newName, c.Section)
		}
	}
	for i, category := range s.Categories {
		c := DecodeCategory(category)
		if c.Group == oldName {
			s.Categories[i] = EncodeCategory(newName, c.Section)
		}
	}
	for i, g := range s.GroupOrder {
		if g == oldName {
			s.GroupOrder[i] = newName
		}
	}

	s.Categories = dedupeStrings(s.Categories)
	s.GroupOrder = dedupeStrings(s.GroupOrder)
	s.Links = dedupeLinks(s.Links)
	s.SyncGroupOrder()
	return true
}

// Repair restores the store invariants after loading a snapshot: links
// without a URL are dropped, missing IDs are generated, unknown categories
// fall back to the first known one, and the group order is reconciled.
func (s *Store) Repair() {
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.GroupOrder == nil {
		s.GroupOrder = []string{}
	}
	s.Categories = dedupeStrings(s.Categories)

	links := make([]Link, 0, len(s.Links))
	for _, l := range s.Links {
		if strings.TrimSpace(l.URL) == "" {
			continue
		}
		if l.ID == "" {
			l.ID = GenerateUUID()
		}
		if !s.HasCategory(l.Category) {
			if len(s.Categories) > 0 {
				l.Category = s.Categories[0]
			} else {
				l.Category = s.AddCategory(l.Category)
			}
		}
		links = append(links, l)
	}
	s.Links = dedupeLinks(links)
	s.SyncGroupOrder()
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

func dedupeLinks(links []Link) []Link {
	seen := make(map[string]bool, len(links))
	result := make([]Link, 0, len(links))
	for _, l := range links {
		if !seen[l.ID] {
			seen[l.ID] = true
			result = append(result, l)
		}
	}
	return result
}
