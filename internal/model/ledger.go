package model

// GroupNamesFromState returns every group implied by the categories list and
// the links, in first-seen order: categories first, then links.
func GroupNamesFromState(categories []string, links []Link) []string {
	seen := make(map[string]bool)
	var groups []string

	add := func(category string) {
		g := GroupOf(category)
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	for _, c := range categories {
		add(c)
	}
	for _, l := range links {
		add(l.Category)
	}
	return groups
}

// ReconcileGroupOrder drops groups from current that are no longer known and
// appends newly known groups at the end, in the order of known.
// Applying it twice gives the same result as applying it once.
func ReconcileGroupOrder(current, known []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, g := range known {
		knownSet[g] = true
	}

	result := make([]string, 0, len(known))
	placed := make(map[string]bool, len(known))
	for _, g := range current {
		if knownSet[g] && !placed[g] {
			placed[g] = true
			result = append(result, g)
		}
	}
	for _, g := range known {
		if !placed[g] {
			placed[g] = true
			result = append(result, g)
		}
	}
	return result
}

// SyncGroupOrder reconciles the store's group order with its current data.
func (s *Store) SyncGroupOrder() {
	s.GroupOrder = ReconcileGroupOrder(s.GroupOrder, GroupNamesFromState(s.Categories, s.Links))
}

// GroupIndex returns the position of group in the reconciled order, or -1.
func (s *Store) GroupIndex(group string) int {
	for i, g := range s.GroupOrder {
		if g == group {
			return i
		}
	}
	return -1
}
