package model_test

import (
	"slices"
	"testing"

	"github.com/MASHINC1/LinkMan/internal/model"
)

func TestGroupNamesFromState(t *testing.T) {
	categories := []string{"Work / Tools", "Play", "Work"}
	links := []model.Link{
		{ID: "l1", Category: "News / Tech"},
		{ID: "l2", Category: "Play / Games"},
		{ID: "l3", Category: ""},
	}

	got := model.GroupNamesFromState(categories, links)
	want := []string{"Work", "Play", "News", "Sonstiges"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReconcileGroupOrder(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		known   []string
		want    []string
	}{
		{
			name:    "empty current takes known order",
			current: nil,
			known:   []string{"Work", "Play"},
			want:    []string{"Work", "Play"},
		},
		{
			name:    "keeps user order",
			current: []string{"Play", "Work"},
			known:   []string{"Work", "Play"},
			want:    []string{"Play", "Work"},
		},
		{
			name:    "drops stale groups",
			current: []string{"Old", "Play", "Work"},
			known:   []string{"Work", "Play"},
			want:    []string{"Play", "Work"},
		},
		{
			name:    "appends new groups at the end",
			current: []string{"Play", "Work"},
			known:   []string{"News", "Work", "Play", "Misc"},
			want:    []string{"Play", "Work", "News", "Misc"},
		},
		{
			name:    "removes duplicates",
			current: []string{"Work", "Work", "Play"},
			known:   []string{"Work", "Play"},
			want:    []string{"Work", "Play"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ReconcileGroupOrder(tt.current, tt.known)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}

			again := model.ReconcileGroupOrder(got, tt.known)
			if !slices.Equal(again, got) {
				t.Errorf("not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestStore_SyncGroupOrder_SeedsFromCategories(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work"},
		Links:      []model.Link{},
		GroupOrder: []string{},
	}

	store.Repair()

	if !slices.Equal(store.GroupOrder, []string{"Work"}) {
		t.Errorf("expected [Work], got %v", store.GroupOrder)
	}
}
