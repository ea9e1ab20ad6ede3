package models

import (
	"encoding/json"
	"strings"
)

// Column names in output order.
const (
	ColPID               = "pid"
	ColTitleRaw          = "title_raw"
	ColDescriptionRaw    = "description_raw"
	ColProductDetailsRaw = "product_details_raw"
	ColDiscountRaw       = "discount_raw"
	ColURL               = "url"
	ColBrand             = "brand"
	ColCategory          = "category"
	ColSubCategory       = "sub_category"
	ColSeller            = "seller"
	ColTitleTokens       = "title_tokens"
	ColDescTokens        = "desc_tokens"
	ColDetailsTokens     = "details_tokens"
	ColOutOfStock        = "out_of_stock"
	ColSellingPrice      = "selling_price"
	ColActualPrice       = "actual_price"
	ColDiscountFrac      = "discount_frac"
	ColAverageRating     = "average_rating"
)

// Columns lists every NormalizedRecord attribute in table order.
var Columns = []string{
	ColPID,
	ColTitleRaw,
	ColDescriptionRaw,
	ColProductDetailsRaw,
	ColDiscountRaw,
	ColURL,
	ColBrand,
	ColCategory,
	ColSubCategory,
	ColSeller,
	ColTitleTokens,
	ColDescTokens,
	ColDetailsTokens,
	ColOutOfStock,
	ColSellingPrice,
	ColActualPrice,
	ColDiscountFrac,
	ColAverageRating,
}

// NormalizedRecord is the cleaned, retrieval-ready form of one RawRecord.
// Nil numeric pointers mark values that were missing or could not be parsed.
type NormalizedRecord struct {
	PID               string          `json:"pid"`
	TitleRaw          string          `json:"title_raw"`
	DescriptionRaw    string          `json:"description_raw"`
	ProductDetailsRaw json.RawMessage `json:"product_details_raw"`
	DiscountRaw       *string         `json:"discount_raw"`
	URL               string          `json:"url"`

	Brand       string `json:"brand"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Seller      string `json:"seller"`

	TitleTokens   []string `json:"title_tokens"`
	DescTokens    []string `json:"desc_tokens"`
	DetailsTokens []string `json:"details_tokens"`

	OutOfStock    bool     `json:"out_of_stock"`
	SellingPrice  *float64 `json:"selling_price"`
	ActualPrice   *float64 `json:"actual_price"`
	DiscountFrac  *float64 `json:"discount_frac"`
	AverageRating *float64 `json:"average_rating"`
}

// Values returns the record's cells in Columns order. Token sequences are
// returned as []string and absent numerics as nil.
func (r *NormalizedRecord) Values() []any {
	return []any{
		r.PID,
		r.TitleRaw,
		r.DescriptionRaw,
		string(r.ProductDetailsRaw),
		optString(r.DiscountRaw),
		r.URL,
		r.Brand,
		r.Category,
		r.SubCategory,
		r.Seller,
		r.TitleTokens,
		r.DescTokens,
		r.DetailsTokens,
		r.OutOfStock,
		optFloat(r.SellingPrice),
		optFloat(r.ActualPrice),
		optFloat(r.DiscountFrac),
		optFloat(r.AverageRating),
	}
}

// Tokens returns the token sequence stored in the named token column.
func (r *NormalizedRecord) Tokens(column string) []string {
	switch column {
	case ColTitleTokens:
		return r.TitleTokens
	case ColDescTokens:
		return r.DescTokens
	case ColDetailsTokens:
		return r.DetailsTokens
	default:
		return nil
	}
}

// JoinTokens renders a token sequence as a single space separated cell.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

func optString(s *string) any {
	if s == nil {
		return nil
	}

	return *s
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}

	return *f
}

// Table is the in-memory tabular result handed to a sink.
// Records[i] corresponds to the i-th raw record read from the source.
type Table struct {
	Columns []string
	Records []NormalizedRecord
}

// NewTable creates an empty table with the standard columns.
func NewTable(capacity int) *Table {
	return &Table{
		Columns: Columns,
		Records: make([]NormalizedRecord, 0, capacity),
	}
}

// Append adds a record to the end of the table.
func (t *Table) Append(rec NormalizedRecord) {
	t.Records = append(t.Records, rec)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}
