package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/MASHINC1/LinkMan/internal/apperr"
	"github.com/MASHINC1/LinkMan/internal/model"
)

// MaxBatchLinks caps the number of links in a single import.
const MaxBatchLinks = 10000

// ParseBatch decodes and validates a JSON import batch. Any problem with the
// payload shape is reported as apperr.ErrMalformedImport; invalid URLs are
// not, they are skipped during the import itself. Empty groups and sections
// lists are valid and import nothing. Unknown fields are ignored.
func ParseBatch(r io.Reader) (model.ImportBatch, error) {
	var batch model.ImportBatch
	dec := json.NewDecoder(r)
	if err := dec.Decode(&batch); err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperr.ErrMalformedImport, err)
	}
	if dec.More() {
		return model.ImportBatch{}, fmt.Errorf("%w: trailing data after batch", apperr.ErrMalformedImport)
	}
	if err := ValidateBatch(batch); err != nil {
		return model.ImportBatch{}, err
	}
	return batch, nil
}

// ValidateBatch checks the shape of an already decoded batch.
func ValidateBatch(batch model.ImportBatch) error {
	err := validation.ValidateStruct(&batch,
		validation.Field(&batch.Groups, validation.NotNil, validation.Each(validation.By(validateGroup))),
	)
	if err == nil && batch.LinkCount() > MaxBatchLinks {
		err = fmt.Errorf("batch has %d links, limit is %d", batch.LinkCount(), MaxBatchLinks)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrMalformedImport, err)
	}
	return nil
}

func validateGroup(v any) error {
	g, ok := v.(model.ImportGroup)
	if !ok {
		return errors.New("must be a group")
	}
	return validation.ValidateStruct(&g,
		validation.Field(&g.Key, validation.Length(0, 200)),
		validation.Field(&g.Sections, validation.NotNil, validation.Each(validation.By(validateSection))),
	)
}

func validateSection(v any) error {
	s, ok := v.(model.ImportSection)
	if !ok {
		return errors.New("must be a section")
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Length(0, 200)),
		validation.Field(&s.Links, validation.NotNil),
	)
}
