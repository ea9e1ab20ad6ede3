package normalizer

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"productprep/internal/models"
	"productprep/internal/tokenizer"
)

// Raw field names read from product records.
const (
	fieldPID            = "pid"
	fieldTitle          = "title"
	fieldDescription    = "description"
	fieldBrand          = "brand"
	fieldCategory       = "category"
	fieldSubCategory    = "sub_category"
	fieldSeller         = "seller"
	fieldOutOfStock     = "out_of_stock"
	fieldSellingPrice   = "selling_price"
	fieldActualPrice    = "actual_price"
	fieldDiscount       = "discount"
	fieldAverageRating  = "average_rating"
	fieldProductDetails = "product_details"
	fieldURL            = "url"
)

// emptyDetails stands in for a missing product_details value.
var emptyDetails = json.RawMessage(`{}`)

// Transformer maps raw product records to normalized records.
type Transformer struct {
	tokenizer *tokenizer.Tokenizer
}

// NewTransformer creates a transformer using tok for every free-text field.
// A nil tok selects the default tokenizer.
func NewTransformer(tok *tokenizer.Tokenizer) *Transformer {
	if tok == nil {
		tok = tokenizer.Default()
	}

	return &Transformer{tokenizer: tok}
}

// Transform converts one raw record. It never fails: fields that are missing
// or malformed fall back to empty values, "unknown", or nil numerics.
func (t *Transformer) Transform(raw models.RawRecord) models.NormalizedRecord {
	title := raw.Get(fieldTitle)
	desc := raw.Get(fieldDescription)
	details := raw.Get(fieldProductDetails)
	discount := raw.Get(fieldDiscount)

	return models.NormalizedRecord{
		PID:               text(raw.Get(fieldPID)),
		TitleRaw:          text(title),
		DescriptionRaw:    text(desc),
		ProductDetailsRaw: verbatim(details),
		DiscountRaw:       optText(discount),
		URL:               text(raw.Get(fieldURL)),

		Brand:       Brand(raw.Get(fieldBrand)),
		Category:    Facet(raw.Get(fieldCategory)),
		SubCategory: Facet(raw.Get(fieldSubCategory)),
		Seller:      Facet(raw.Get(fieldSeller)),

		TitleTokens:   t.terms(title),
		DescTokens:    t.terms(desc),
		DetailsTokens: ResolveDetails(details).Tokens(t.tokenizer),

		OutOfStock:    Truthy(raw.Get(fieldOutOfStock)),
		SellingPrice:  Number(raw.Get(fieldSellingPrice)),
		ActualPrice:   Number(raw.Get(fieldActualPrice)),
		DiscountFrac:  DiscountFraction(discount),
		AverageRating: Rating(raw.Get(fieldAverageRating)),
	}
}

// terms tokenizes string values; any other value yields no tokens.
func (t *Transformer) terms(v gjson.Result) []string {
	if v.Type != gjson.String {
		return []string{}
	}

	return t.tokenizer.BuildTerms(v.Str)
}

// text returns string values as-is and other present values as JSON text.
func text(v gjson.Result) string {
	if isNull(v) {
		return ""
	}

	if v.Type == gjson.String {
		return v.Str
	}

	return v.Raw
}

func optText(v gjson.Result) *string {
	if isNull(v) {
		return nil
	}

	s := text(v)

	return &s
}

func verbatim(v gjson.Result) json.RawMessage {
	if !v.Exists() {
		return emptyDetails
	}

	return json.RawMessage(v.Raw)
}
