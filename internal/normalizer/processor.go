// Package normalizer turns raw product records into normalized, tokenized
// records.
package normalizer

import (
	"fmt"

	"productprep/internal/models"
	"productprep/internal/tokenizer"
)

// Processor validates and transforms raw records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a processor that tokenizes with tok. A nil tok selects
// the default tokenizer.
func NewProcessor(tok *tokenizer.Tokenizer) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(tok),
	}
}

// Process transforms one raw record. An error is returned only when the
// record is not a JSON object.
func (p *Processor) Process(raw models.RawRecord) (models.NormalizedRecord, error) {
	if err := p.validator.Validate(raw); err != nil {
		return models.NormalizedRecord{}, fmt.Errorf("validation failed: %w", err)
	}

	return p.transformer.Transform(raw), nil
}
