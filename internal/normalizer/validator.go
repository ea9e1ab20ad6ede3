package normalizer

import (
	"errors"

	"github.com/tidwall/gjson"

	"productprep/internal/models"
)

// Validation errors. These describe a broken record source, never a data
// quality problem inside a well-formed record.
var (
	ErrEmptyRecord = errors.New("empty record")
	ErrInvalidJSON = errors.New("record is not valid JSON")
	ErrNotAnObject = errors.New("record is not a JSON object")
)

// Validator checks the structural shape of raw records.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate reports whether raw is a well-formed JSON object. Missing, null or
// mistyped fields are accepted.
func (v *Validator) Validate(raw models.RawRecord) error {
	data := raw.Bytes()
	if len(data) == 0 {
		return ErrEmptyRecord
	}

	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}

	if !raw.IsObject() {
		return ErrNotAnObject
	}

	return nil
}
