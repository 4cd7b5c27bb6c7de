package model

import "strings"

// maxCategoryLength caps imported category strings, in runes.
const maxCategoryLength = 80

// ImportBatch is a bulk import payload: groups of sections of links.
type ImportBatch struct {
	Groups []ImportGroup `json:"groups"`
}

// ImportGroup is one group of an ImportBatch.
type ImportGroup struct {
	Key      string          `json:"key"`
	Sections []ImportSection `json:"sections"`
}

// ImportSection is one section of an ImportGroup.
type ImportSection struct {
	Title string       `json:"title"`
	Links []ImportLink `json:"links"`
}

// ImportLink is a single imported URL. Title is optional.
type ImportLink struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// ImportResult counts what an import did.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// LinkCount returns the number of leaf links in the batch.
func (b ImportBatch) LinkCount() int {
	n := 0
	for _, g := range b.Groups {
		for _, sec := range g.Sections {
			n += len(sec.Links)
		}
	}
	return n
}

// ImportBatch adds the batch's links to the store. Links with an invalid URL,
// or whose URL and name match an existing link (case-insensitive), are
// skipped. New links go to the head of the list in batch order.
func (s *Store) ImportBatch(batch ImportBatch) ImportResult {
	var result ImportResult

	seen := make(map[string]bool, len(s.Links)+batch.LinkCount())
	for _, l := range s.Links {
		seen[dedupeKey(l.URL, l.Name)] = true
	}

	var created []Link
	for _, g := range batch.Groups {
		for _, sec := range g.Sections {
			category := truncateRunes(EncodeCategory(g.Key, sec.Title), maxCategoryLength)

			for _, il := range sec.Links {
				link, ok := NewLink(NewLinkParams{
					URL:      il.URL,
					Name:     il.Title,
					Category: category,
				})
				if !ok {
					result.Skipped++
					continue
				}

				key := dedupeKey(link.URL, link.Name)
				if seen[key] {
					result.Skipped++
					continue
				}
				seen[key] = true

				link.Category = s.AddCategory(link.Category)
				created = append(created, link)
				result.Created++
			}
		}
	}

	if len(created) > 0 {
		s.Links = append(created, s.Links...)
	}
	s.SyncGroupOrder()
	return result
}

func dedupeKey(url, name string) string {
	return strings.ToLower(url) + "\x00" + strings.ToLower(name)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
