package model_test

import (
	"strings"
	"testing"

	"github.com/MASHINC1/LinkMan/internal/model"
)

func newsBatch() model.ImportBatch {
	return model.ImportBatch{
		Groups: []model.ImportGroup{
			{
				Key: "News",
				Sections: []model.ImportSection{
					{Title: "Tech", Links: []model.ImportLink{{URL: "site.com"}}},
				},
			},
		},
	}
}

func TestStore_ImportBatch(t *testing.T) {
	store := model.NewStore()

	result := store.ImportBatch(newsBatch())

	if result.Created != 1 || result.Skipped != 0 {
		t.Fatalf("expected created=1 skipped=0, got %+v", result)
	}
	if len(store.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(store.Links))
	}
	link := store.Links[0]
	if link.Category != "News / Tech" {
		t.Errorf("expected category %q, got %q", "News / Tech", link.Category)
	}
	if link.URL != "https://site.com/" {
		t.Errorf("expected normalized url, got %q", link.URL)
	}
	if link.Name != "Site" {
		t.Errorf("expected name from host, got %q", link.Name)
	}
	if !store.HasCategory("News / Tech") {
		t.Error("expected category registered")
	}

	again := store.ImportBatch(newsBatch())
	if again.Created != 0 || again.Skipped != 1 {
		t.Errorf("expected created=0 skipped=1 on re-import, got %+v", again)
	}
	if len(store.Links) != 1 {
		t.Errorf("expected still 1 link, got %d", len(store.Links))
	}
}

func TestStore_ImportBatch_SkipsInvalidAndDuplicates(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Work"},
		Links: []model.Link{
			{ID: "existing", URL: "https://example.com/", Name: "Example", Category: "Work"},
		},
	}

	batch := model.ImportBatch{
		Groups: []model.ImportGroup{
			{
				Key: "Work",
				Sections: []model.ImportSection{
					{
						Title: "Allgemein",
						Links: []model.ImportLink{
							{URL: "HTTPS://EXAMPLE.COM/", Title: "example"},
							{URL: ""},
							{URL: "https://go.dev", Title: "Go"},
							{URL: "https://go.dev", Title: "go"},
							{URL: "https://pkg.go.dev", Title: "Packages"},
						},
					},
				},
			},
		},
	}

	result := store.ImportBatch(batch)

	if result.Created != 2 || result.Skipped != 3 {
		t.Errorf("expected created=2 skipped=3, got %+v", result)
	}
	if got := linkIDs(store.Links)[2]; got != "existing" {
		t.Errorf("expected imported block before existing links, got %v", linkIDs(store.Links))
	}
	if store.Links[0].Name != "Go" || store.Links[1].Name != "Packages" {
		t.Errorf("expected batch order preserved, got %q, %q", store.Links[0].Name, store.Links[1].Name)
	}
	if store.Links[0].Category != "Work" {
		t.Errorf("expected default section omitted, got %q", store.Links[0].Category)
	}
}

func TestStore_ImportBatch_TruncatesCategory(t *testing.T) {
	store := model.NewStore()
	long := strings.Repeat("x", 100)

	store.ImportBatch(model.ImportBatch{
		Groups: []model.ImportGroup{
			{Key: "G", Sections: []model.ImportSection{
				{Title: long, Links: []model.ImportLink{{URL: "https://a.com"}}},
			}},
		},
	})

	if n := len([]rune(store.Links[0].Category)); n != 80 {
		t.Errorf("expected category of 80 runes, got %d", n)
	}
}
