package importer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/MASHINC1/LinkMan/internal/apperr"
	"github.com/MASHINC1/LinkMan/internal/importer"
)

func TestParseBatch_Valid(t *testing.T) {
	input := `{"groups":[{"key":"News","sections":[{"title":"Tech","links":[{"url":"site.com"},{"url":"b.com","title":"B"}]}]}]}`

	batch, err := importer.ParseBatch(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.LinkCount() != 2 {
		t.Errorf("expected 2 links, got %d", batch.LinkCount())
	}
	if batch.Groups[0].Sections[0].Links[1].Title != "B" {
		t.Errorf("expected title B, got %+v", batch.Groups[0].Sections[0].Links[1])
	}
}

func TestParseBatch_EmptyListsAreValid(t *testing.T) {
	for _, input := range []string{
		`{"groups":[]}`,
		`{"groups":[{"key":"News","sections":[]}]}`,
		`{"groups":[{"key":"","sections":[{"title":"","links":[]}]}],"version":2}`,
	} {
		batch, err := importer.ParseBatch(strings.NewReader(input))
		if err != nil {
			t.Errorf("ParseBatch(%s): unexpected error: %v", input, err)
			continue
		}
		if batch.LinkCount() != 0 {
			t.Errorf("ParseBatch(%s): expected no links, got %d", input, batch.LinkCount())
		}
	}
}

func TestParseBatch_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{groups:`},
		{"wrong type", `{"groups":"News"}`},
		{"no groups", `{}`},
		{"group without sections", `{"groups":[{"key":"News"}]}`},
		{"section without links", `{"groups":[{"key":"News","sections":[{"title":"Tech"}]}]}`},
		{"trailing data", `{"groups":[{"key":"a","sections":[{"links":[]}]}]} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.ParseBatch(strings.NewReader(tt.input))
			if !errors.Is(err, apperr.ErrMalformedImport) {
				t.Errorf("expected ErrMalformedImport, got %v", err)
			}
		})
	}
}

func TestParseBatch_InvalidURLIsNotMalformed(t *testing.T) {
	input := `{"groups":[{"key":"News","sections":[{"title":"","links":[{"url":"http://"}]}]}]}`

	if _, err := importer.ParseBatch(strings.NewReader(input)); err != nil {
		t.Errorf("invalid urls are skipped at import time, got %v", err)
	}
}
