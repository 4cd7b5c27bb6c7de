package exporter

import (
	"strings"
	"testing"

	"gotest.tools/v3/golden"

	"github.com/MASHINC1/LinkMan/internal/importer"
	"github.com/MASHINC1/LinkMan/internal/model"
)

func sampleStore() *model.Store {
	return &model.Store{
		Categories: []string{"Work", "Work / Docs", "Play"},
		Links: []model.Link{
			{ID: "l1", URL: "https://go.dev/", Name: "Go", Category: "Work / Docs"},
			{ID: "l2", URL: "https://example.com/?a=1&b=2", Name: "Example & Co", Category: "Work", Icon: "https://icons.example/e.png"},
			{ID: "l3", URL: "https://games.example/", Name: "Games", Category: "Play"},
		},
		GroupOrder: []string{"Play", "Work"},
	}
}

func TestExportHTML_Golden(t *testing.T) {
	golden.Assert(t, ExportHTML(sampleStore()), "export.golden")
}

func TestExportHTML_EmptyStore(t *testing.T) {
	html := ExportHTML(model.NewStore())

	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if strings.Contains(html, "<H3>") {
		t.Error("expected no folders")
	}
}

func TestExportHTML_EmptyGroupKept(t *testing.T) {
	store := &model.Store{Categories: []string{"Later"}}

	html := ExportHTML(store)

	if !strings.Contains(html, "<DT><H3>Later</H3>") {
		t.Error("expected folder for group without links")
	}
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	store := &model.Store{
		Categories: []string{"Misc"},
		Links: []model.Link{{
			ID:       "l1",
			Name:     "Test <script>alert('xss')</script>",
			URL:      "https://example.com/?foo=bar&baz=qux",
			Category: "Misc",
		}},
	}

	html := ExportHTML(store)

	if strings.Contains(html, "<script>") {
		t.Error("script tag should be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
	if !strings.Contains(html, "foo=bar&amp;baz") {
		t.Error("expected escaped ampersand in URL")
	}
}

func TestExportHTML_RoundTripsThroughImporter(t *testing.T) {
	batch, err := importer.ParseHTMLBookmarks(strings.NewReader(ExportHTML(sampleStore())))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	store := model.NewStore()
	res := store.ImportBatch(batch)
	if res.Created != 3 || res.Skipped != 0 {
		t.Fatalf("expected 3 created, got %+v", res)
	}

	categories := map[string]string{}
	for _, l := range store.Links {
		categories[l.Name] = l.Category
	}
	want := map[string]string{"Go": "Work / Docs", "Example & Co": "Work", "Games": "Play"}
	for name, category := range want {
		if categories[name] != category {
			t.Errorf("%s: expected %q, got %q", name, category, categories[name])
		}
	}
}
