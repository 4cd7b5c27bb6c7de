package model_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/MASHINC1/LinkMan/internal/apperr"
	"github.com/MASHINC1/LinkMan/internal/model"
)

func stringPtr(s string) *string { return &s }

func linkIDs(links []model.Link) []string {
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}

func TestStore_AddLink_NormalizesURL(t *testing.T) {
	store := model.NewStore()

	link, err := store.AddLink(model.NewLinkParams{URL: "example.com", Category: "Work"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if link.URL != "https://example.com/" {
		t.Errorf("expected url %q, got %q", "https://example.com/", link.URL)
	}
	if link.Name != "Example" {
		t.Errorf("expected name derived from host, got %q", link.Name)
	}
	if link.ID == "" {
		t.Error("expected generated id")
	}
	if link.Icon == "" {
		t.Error("expected icon to be set")
	}
	if !store.HasCategory("Work") {
		t.Error("expected category to be registered")
	}
	if !slices.Equal(store.GroupOrder, []string{"Work"}) {
		t.Errorf("expected group order [Work], got %v", store.GroupOrder)
	}
}

func TestStore_AddLink_InsertsAtHead(t *testing.T) {
	store := model.NewStore()

	first, _ := store.AddLink(model.NewLinkParams{URL: "https://one.com", Category: "Work"})
	second, _ := store.AddLink(model.NewLinkParams{URL: "https://two.com", Category: "Play"})

	if got := linkIDs(store.Links); !slices.Equal(got, []string{second.ID, first.ID}) {
		t.Errorf("expected most recent first, got %v", got)
	}
}

func TestStore_AddLink_InvalidURL(t *testing.T) {
	store := model.NewStore()

	_, err := store.AddLink(model.NewLinkParams{URL: "   "})
	if !errors.Is(err, apperr.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if len(store.Links) != 0 {
		t.Errorf("expected no links, got %d", len(store.Links))
	}
}

func TestStore_DeleteLink(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work"},
		Links: []model.Link{
			{ID: "l1", URL: "https://one.com/", Category: "Work"},
			{ID: "l2", URL: "https://two.com/", Category: "Work"},
		},
	}

	if !store.DeleteLink("l1") {
		t.Error("expected l1 to be removed")
	}
	if store.DeleteLink("unknown") {
		t.Error("unknown id should be a no-op")
	}
	if got := linkIDs(store.Links); !slices.Equal(got, []string{"l2"}) {
		t.Errorf("expected [l2], got %v", got)
	}
}

func TestStore_UpdateLink(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work"},
		Links: []model.Link{
			{ID: "l1", URL: "https://one.com/", Name: "One", Category: "Work"},
		},
	}

	updated, err := store.UpdateLink("l1", model.LinkUpdate{
		Name:     stringPtr("Uno"),
		Category: stringPtr("Play / Games"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != "l1" {
		t.Errorf("id changed to %q", updated.ID)
	}
	if updated.Name != "Uno" || updated.URL != "https://one.com/" {
		t.Errorf("unexpected link after update: %+v", updated)
	}
	if !store.HasCategory("Play / Games") {
		t.Error("expected new category to be registered")
	}
	if store.Links[0].Category != "Play / Games" {
		t.Errorf("expected stored category to change, got %q", store.Links[0].Category)
	}

	_, err = store.UpdateLink("missing", model.LinkUpdate{Name: stringPtr("x")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = store.UpdateLink("l1", model.LinkUpdate{URL: stringPtr("")})
	if !errors.Is(err, apperr.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
	if store.Links[0].Name != "Uno" {
		t.Error("failed update must not change the link")
	}
}

func TestStore_DeleteGroup(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work", "Work / Tools", "Play"},
		Links: []model.Link{
			{ID: "l1", URL: "https://one.com/", Category: "Work"},
			{ID: "l2", URL: "https://two.com/", Category: "Play"},
			{ID: "l3", URL: "https://three.com/", Category: "Work / Tools"},
			{ID: "l4", URL: "https://four.com/", Category: "News"},
		},
		GroupOrder: []string{"Play", "Work", "News"},
	}

	removed := store.DeleteGroup("Work")

	if removed != 2 {
		t.Errorf("expected 2 links removed, got %d", removed)
	}
	if got := linkIDs(store.Links); !slices.Equal(got, []string{"l2", "l4"}) {
		t.Errorf("expected [l2 l4], got %v", got)
	}
	if !slices.Equal(store.Categories, []string{"Play"}) {
		t.Errorf("expected categories [Play], got %v", store.Categories)
	}
	if !slices.Equal(store.GroupOrder, []string{"Play", "News"}) {
		t.Errorf("expected order [Play News], got %v", store.GroupOrder)
	}
}

func TestStore_RenameGroup(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work", "Work / Tools", "Play"},
		Links: []model.Link{
			{ID: "l1", URL: "https://one.com/", Category: "Work"},
			{ID: "l2", URL: "https://two.com/", Category: "Work / Tools"},
			{ID: "l3", URL: "https://three.com/", Category: "Play"},
		},
		GroupOrder: []string{"Play", "Work"},
	}

	if !store.RenameGroup("Work", "Job") {
		t.Fatal("expected rename to apply")
	}

	if store.Links[0].Category != "Job" || store.Links[1].Category != "Job / Tools" {
		t.Errorf("link categories not rewritten: %q, %q", store.Links[0].Category, store.Links[1].Category)
	}
	if !slices.Equal(store.Categories, []string{"Job", "Job / Tools", "Play"}) {
		t.Errorf("unexpected categories %v", store.Categories)
	}
	if !slices.Equal(store.GroupOrder, []string{"Play", "Job"}) {
		t.Errorf("expected position preserved, got %v", store.GroupOrder)
	}
}

func TestStore_RenameGroup_MergesIntoExisting(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work", "Play", "Play / Games"},
		Links: []model.Link{
			{ID: "l1", URL: "https://one.com/", Category: "Work"},
			{ID: "l2", URL: "https://two.com/", Category: "Play / Games"},
		},
		GroupOrder: []string{"Work", "Play"},
	}

	store.RenameGroup("Play", "Work")

	if !slices.Equal(store.Categories, []string{"Work", "Work / Games"}) {
		t.Errorf("expected deduplicated categories, got %v", store.Categories)
	}
	if !slices.Equal(store.GroupOrder, []string{"Work"}) {
		t.Errorf("expected single group, got %v", store.GroupOrder)
	}
	if len(store.Links) != 2 {
		t.Errorf("expected links kept, got %d", len(store.Links))
	}
}

func TestStore_RenameGroup_NoOps(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work"},
		Links:      []model.Link{},
		GroupOrder: []string{"Work"},
	}

	tests := []struct{ oldName, newName string }{
		{"", "Job"},
		{"Work", ""},
		{"Work", "Work"},
		{"Work", "  "},
	}
	for _, tt := range tests {
		if store.RenameGroup(tt.oldName, tt.newName) {
			t.Errorf("RenameGroup(%q, %q) should be a no-op", tt.oldName, tt.newName)
		}
	}
	if !slices.Equal(store.Categories, []string{"Work"}) {
		t.Errorf("categories changed: %v", store.Categories)
	}
}

func TestStore_Repair(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work", "Play", "Work"},
		Links: []model.Link{
			{ID: "", URL: "https://one.com/", Category: "Play"},
			{ID: "l2", URL: "", Category: "Work"},
			{ID: "l3", URL: "https://three.com/", Category: "Unknown"},
		},
		GroupOrder: []string{"Gone", "Play"},
	}

	store.Repair()

	if len(store.Links) != 2 {
		t.Fatalf("expected link without url dropped, got %d links", len(store.Links))
	}
	if store.Links[0].ID == "" {
		t.Error("expected missing id to be generated")
	}
	if store.Links[1].Category != "Work" {
		t.Errorf("expected unknown category to fall back to first, got %q", store.Links[1].Category)
	}
	if !slices.Equal(store.Categories, []string{"Work", "Play"}) {
		t.Errorf("expected deduplicated categories, got %v", store.Categories)
	}
	if !slices.Equal(store.GroupOrder, []string{"Play", "Work"}) {
		t.Errorf("expected reconciled order [Play Work], got %v", store.GroupOrder)
	}
}

func TestStore_GetSections(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work / Tools", "Work"},
		Links: []model.Link{
			{ID: "l1", Category: "Work / Docs"},
			{ID: "l2", Category: "Play"},
		},
	}

	got := store.GetSections("Work")
	want := []string{"Tools", "Allgemein", "Docs"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
