package normalizer

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productprep/internal/models"
	"productprep/internal/tokenizer"
)

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer(nil)
	if tr == nil {
		t.Fatal("NewTransformer returned nil")
	}
}

func TestTransformer_Transform(t *testing.T) {
	tr := NewTransformer(tokenizer.New())

	raw := models.NewRawRecord([]byte(`{
		"pid": "P1",
		"title": "Men's Red T-Shirt!!",
		"brand": "",
		"selling_price": "1,299",
		"discount": "20% off",
		"average_rating": "bad"
	}`))

	rec := tr.Transform(raw)

	assert.Equal(t, "P1", rec.PID)
	assert.Equal(t, UnknownBrand, rec.Brand)
	require.NotNil(t, rec.SellingPrice)
	assert.InDelta(t, 1299.0, *rec.SellingPrice, 1e-9)
	require.NotNil(t, rec.DiscountFrac)
	assert.InDelta(t, 0.2, *rec.DiscountFrac, 1e-9)
	assert.Nil(t, rec.AverageRating)
	assert.Nil(t, rec.ActualPrice)
	assert.Equal(t, []string{"men", "red", "shirt"}, rec.TitleTokens)

	assert.Equal(t, "Men's Red T-Shirt!!", rec.TitleRaw)
	require.NotNil(t, rec.DiscountRaw)
	assert.Equal(t, "20% off", *rec.DiscountRaw)
	assert.JSONEq(t, `{}`, string(rec.ProductDetailsRaw))
	assert.False(t, rec.OutOfStock)
	assert.Empty(t, rec.Category)
	assert.Empty(t, rec.URL)
	assert.NotNil(t, rec.DescTokens)
	assert.NotNil(t, rec.DetailsTokens)
}

func TestTransformer_Transform_FullRecord(t *testing.T) {
	tok := tokenizer.New()
	tr := NewTransformer(tok)

	raw := models.NewRawRecord([]byte(`{
		"pid": "TKPFCZ9EA7H5FYZH",
		"title": "Solid Women Multicolor Track Pants",
		"description": "Yorker trackpants made from 100% rich combed cotton",
		"brand": "York",
		"category": "Clothing and Accessories",
		"sub_category": "Bottomwear",
		"seller": "Shyam Enterprises",
		"out_of_stock": false,
		"selling_price": "921",
		"actual_price": "2,999",
		"discount": "69% off",
		"average_rating": "3.9",
		"product_details": [{"Style Code": "1005COMBO2"}, {"Closure": "Elastic"}],
		"url": "https://www.flipkart.com/p/itmd2c76aadce459"
	}`))

	rec := tr.Transform(raw)

	assert.Equal(t, "TKPFCZ9EA7H5FYZH", rec.PID)
	assert.Equal(t, "york", rec.Brand)
	assert.Equal(t, "clothing and accessories", rec.Category)
	assert.Equal(t, "bottomwear", rec.SubCategory)
	assert.Equal(t, "shyam enterprises", rec.Seller)
	assert.Equal(t, tok.BuildTerms("Solid Women Multicolor Track Pants"), rec.TitleTokens)
	assert.Equal(t, tok.BuildTerms("Yorker trackpants made from 100% rich combed cotton"), rec.DescTokens)
	assert.Equal(t, concatTerms(tok, "Style Code", "1005COMBO2", "Closure", "Elastic"), rec.DetailsTokens)
	assert.JSONEq(t, `[{"Style Code": "1005COMBO2"}, {"Closure": "Elastic"}]`, string(rec.ProductDetailsRaw))
	assert.Equal(t, "https://www.flipkart.com/p/itmd2c76aadce459", rec.URL)
	assert.False(t, rec.OutOfStock)

	require.NotNil(t, rec.ActualPrice)
	assert.InDelta(t, 2999.0, *rec.ActualPrice, 1e-9)
	require.NotNil(t, rec.DiscountFrac)
	assert.InDelta(t, 0.69, *rec.DiscountFrac, 1e-9)
	require.NotNil(t, rec.AverageRating)
	assert.InDelta(t, 3.9, *rec.AverageRating, 1e-9)
}

func TestTransformer_Transform_MistypedFields(t *testing.T) {
	tr := NewTransformer(nil)

	raw := models.NewRawRecord([]byte(`{
		"pid": 1001,
		"title": ["not", "a", "string"],
		"description": null,
		"brand": {"name": "H&M"},
		"category": 7,
		"out_of_stock": "yes",
		"selling_price": {"amount": "499"},
		"discount": 15,
		"product_details": "Material: Cotton"
	}`))

	rec := tr.Transform(raw)

	assert.Equal(t, "1001", rec.PID)
	assert.Empty(t, rec.TitleTokens)
	assert.Empty(t, rec.DescTokens)
	assert.Empty(t, rec.DetailsTokens)
	assert.Equal(t, `["not", "a", "string"]`, rec.TitleRaw)
	assert.Empty(t, rec.DescriptionRaw)
	assert.Equal(t, UnknownBrand, rec.Brand)
	assert.Empty(t, rec.Category)
	assert.True(t, rec.OutOfStock)
	require.NotNil(t, rec.SellingPrice)
	assert.InDelta(t, 499.0, *rec.SellingPrice, 1e-9)
	require.NotNil(t, rec.DiscountRaw)
	assert.Equal(t, "15", *rec.DiscountRaw)
	assert.Equal(t, `"Material: Cotton"`, string(rec.ProductDetailsRaw))
}

func TestTransformer_Transform_EmptyObject(t *testing.T) {
	rec := NewTransformer(nil).Transform(models.NewRawRecord([]byte(`{}`)))

	assert.Empty(t, rec.PID)
	assert.Equal(t, UnknownBrand, rec.Brand)
	assert.Nil(t, rec.DiscountRaw)
	assert.Nil(t, rec.SellingPrice)
	assert.Nil(t, rec.ActualPrice)
	assert.Nil(t, rec.DiscountFrac)
	assert.Nil(t, rec.AverageRating)
	assert.False(t, rec.OutOfStock)
}

func TestNormalizedRecord_JSONHasEveryColumn(t *testing.T) {
	rec := NewTransformer(nil).Transform(models.NewRawRecord([]byte(`{"pid": "P9"}`)))

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	want := append([]string(nil), models.Columns...)
	sort.Strings(keys)
	sort.Strings(want)
	assert.Equal(t, want, keys)

	assert.JSONEq(t, `[]`, string(fields[models.ColTitleTokens]))
	assert.JSONEq(t, `null`, string(fields[models.ColSellingPrice]))
}

func TestTransformer_Transform_RandomRecords(t *testing.T) {
	faker := gofakeit.New(7)
	tr := NewTransformer(nil)

	for i := 0; i < 100; i++ {
		doc := map[string]any{
			"pid":            faker.UUID(),
			"title":          faker.Sentence(6),
			"description":    faker.Paragraph(1, 3, 12, " "),
			"brand":          faker.Company(),
			"category":       faker.Word(),
			"selling_price":  faker.Numerify("#,###"),
			"discount":       faker.Numerify("##% off"),
			"average_rating": faker.Float64Range(1, 5),
			"out_of_stock":   faker.Bool(),
			"product_details": []map[string]any{
				{faker.Word(): faker.Word()},
				{faker.Word(): faker.Sentence(3)},
			},
		}

		data, err := json.Marshal(doc)
		require.NoError(t, err)

		raw := models.NewRawRecord(data)
		first := tr.Transform(raw)
		second := tr.Transform(raw)

		assert.Equal(t, first, second)
		assert.Equal(t, doc["pid"], first.PID)
		assert.Equal(t, doc["out_of_stock"], first.OutOfStock)
		assert.NotNil(t, first.SellingPrice)
		require.NotNil(t, first.DiscountFrac)
		assert.GreaterOrEqual(t, *first.DiscountFrac, 0.0)
		assert.LessOrEqual(t, *first.DiscountFrac, 1.0)
		assert.NotNil(t, first.AverageRating)
		assert.NotEmpty(t, first.Brand)
	}
}
