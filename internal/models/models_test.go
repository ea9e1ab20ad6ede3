package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRecord_Get(t *testing.T) {
	raw := NewRawRecord([]byte(`{"pid": "P1", "brand": "York", "brand": "Aero", "a.b": 1}`))

	assert.True(t, raw.IsObject())
	assert.Equal(t, "P1", raw.Get("pid").Str)
	assert.Equal(t, "Aero", raw.Get("brand").Str)
	assert.False(t, raw.Get("missing").Exists())
	assert.Equal(t, "1", raw.Get("a.b").Raw)
	assert.Equal(t, []string{"pid", "brand", "brand", "a.b"}, raw.Keys())
}

func TestRawRecord_NotAnObject(t *testing.T) {
	for _, input := range []string{`[1, 2]`, `"pid"`, `null`, ``} {
		raw := NewRawRecord([]byte(input))

		assert.False(t, raw.IsObject(), input)
		assert.False(t, raw.Get("pid").Exists(), input)
		assert.Empty(t, raw.Keys(), input)
	}
}

func TestRawRecord_MarshalJSON(t *testing.T) {
	src := `{"pid":"P1","product_details":[{"Fabric":"Cotton"}]}`

	data, err := json.Marshal(NewRawRecord([]byte(src)))
	require.NoError(t, err)
	assert.Equal(t, src, string(data))

	data, err = json.Marshal(RawRecord{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestNormalizedRecord_Values(t *testing.T) {
	price := 499.0
	discount := "20% off"

	rec := NormalizedRecord{
		PID:               "P1",
		ProductDetailsRaw: json.RawMessage(`{}`),
		DiscountRaw:       &discount,
		Brand:             "york",
		TitleTokens:       []string{"red", "shirt"},
		SellingPrice:      &price,
	}

	values := rec.Values()
	require.Len(t, values, len(Columns))

	byColumn := make(map[string]any, len(Columns))
	for i, col := range Columns {
		byColumn[col] = values[i]
	}

	assert.Equal(t, "P1", byColumn[ColPID])
	assert.Equal(t, "{}", byColumn[ColProductDetailsRaw])
	assert.Equal(t, "20% off", byColumn[ColDiscountRaw])
	assert.Equal(t, []string{"red", "shirt"}, byColumn[ColTitleTokens])
	assert.Equal(t, 499.0, byColumn[ColSellingPrice])
	assert.Nil(t, byColumn[ColActualPrice])
	assert.Equal(t, false, byColumn[ColOutOfStock])
}

func TestNormalizedRecord_Tokens(t *testing.T) {
	rec := NormalizedRecord{
		TitleTokens:   []string{"shirt"},
		DescTokens:    []string{"cotton"},
		DetailsTokens: []string{"fit", "slim"},
	}

	assert.Equal(t, []string{"shirt"}, rec.Tokens(ColTitleTokens))
	assert.Equal(t, []string{"cotton"}, rec.Tokens(ColDescTokens))
	assert.Equal(t, []string{"fit", "slim"}, rec.Tokens(ColDetailsTokens))
	assert.Nil(t, rec.Tokens(ColBrand))
	assert.Equal(t, "fit slim", JoinTokens(rec.DetailsTokens))
}

func TestTable(t *testing.T) {
	table := NewTable(2)

	assert.Equal(t, Columns, table.Columns)
	assert.Equal(t, 0, table.Len())

	table.Append(NormalizedRecord{PID: "P1"})
	table.Append(NormalizedRecord{PID: "P2"})

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "P2", table.Records[1].PID)
}
