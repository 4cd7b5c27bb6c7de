package model

import (
	"math"
	"slices"
)

// DragContext tracks the item being dragged, or cut in the browser, until it
// is dropped.
// It holds either a link ID or a group name, never both.
type DragContext struct {
	LinkID string
	Group  string
}

// StartLink begins dragging a link.
func (d *DragContext) StartLink(id string) {
	d.LinkID = id
	d.Group = ""
}

// StartGroup begins dragging a group.
func (d *DragContext) StartGroup(group string) {
	d.Group = group
	d.LinkID = ""
}

// End clears the drag context.
func (d *DragContext) End() {
	*d = DragContext{}
}

// Active reports whether something is being dragged.
func (d DragContext) Active() bool {
	return d.LinkID != "" || d.Group != ""
}

// FindInsertIndexForGroup returns the index just after the last link of group
// in the flat list, or the list length if the group has no links.
func (s *Store) FindInsertIndexForGroup(group string) int {
	for i := len(s.Links) - 1; i >= 0; i-- {
		if s.Links[i].Group() == group {
			return i + 1
		}
	}
	return len(s.Links)
}

// MoveLink moves a link into targetGroup, keeping its section. The link is
// placed before beforeID when that link exists, otherwise after the last link
// of the target group. Returns false if nothing was moved.
func (s *Store) MoveLink(linkID, targetGroup, beforeID string) bool {
	if linkID == beforeID {
		return false
	}
	from := s.linkIndex(linkID)
	if from < 0 {
		return false
	}

	link := s.Links[from]
	s.Links = append(s.Links[:from], s.Links[from+1:]...)

	link.Category = s.AddCategory(EncodeCategory(targetGroup, link.Section()))

	to := -1
	if beforeID != "" {
		to = s.linkIndex(beforeID)
	}
	if to < 0 {
		to = s.FindInsertIndexForGroup(link.Group())
	}

	s.Links = append(s.Links, Link{})
	copy(s.Links[to+1:], s.Links[to:])
	s.Links[to] = link

	s.SyncGroupOrder()
	return true
}

// MoveGroup places dragged before target, or after it when insertAfter is
// set. Returns whether the group order changed.
func (s *Store) MoveGroup(dragged, target string, insertAfter bool) bool {
	if dragged == "" || target == "" || dragged == target {
		return false
	}

	s.SyncGroupOrder()
	if s.GroupIndex(dragged) < 0 || s.GroupIndex(target) < 0 {
		return false
	}

	before := slices.Clone(s.GroupOrder)
	order := removeString(s.GroupOrder, dragged)

	at := slices.Index(order, target)
	if insertAfter {
		at++
	}
	order = slices.Insert(order, at, dragged)

	s.GroupOrder = order
	return !slices.Equal(before, order)
}

// MoveGroupToEnd moves dragged to the end of the group order.
func (s *Store) MoveGroupToEnd(dragged string) bool {
	s.SyncGroupOrder()

	i := s.GroupIndex(dragged)
	if i < 0 || i == len(s.GroupOrder)-1 {
		return false
	}
	s.GroupOrder = append(removeString(s.GroupOrder, dragged), dragged)
	return true
}

// Point is a pointer position.
type Point struct {
	X, Y float64
}

// Rect is the bounding box of a drop target.
type Rect struct {
	Left, Top, Width, Height float64
}

// InsertAfter decides on which side of a drop target the pointer is.
// The axis where the pointer is further from the center, relative to the
// target's size, decides; a tie goes to the horizontal axis.
func InsertAfter(p Point, r Rect) bool {
	dx := axisOffset(p.X, r.Left, r.Width)
	dy := axisOffset(p.Y, r.Top, r.Height)
	if math.Abs(dx) >= math.Abs(dy) {
		return dx > 0
	}
	return dy > 0
}

// axisOffset is the pointer offset from the center in half-extents.
func axisOffset(pos, start, size float64) float64 {
	if size <= 0 {
		return 0
	}
	half := size / 2
	return (pos - (start + half)) / half
}

func removeString(values []string, v string) []string {
	result := make([]string, 0, len(values))
	for _, x := range values {
		if x != v {
			result = append(result, x)
		}
	}
	return result
}
