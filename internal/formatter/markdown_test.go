package formatter

import (
	"strings"
	"testing"
)

func TestFormatMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "Basic table formatting",
			input: `
| Header 1 | Header 2 |
| --- | --- |
| val 1 | val 2 |
`,
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name: "Fix excessive dashes",
			input: `
| Col A | Col B |
| ---------------------- | ---------------------------------- |
| A | B |
`,
			expected: `
| Col A | Col B |
| ----- | ----- |
| A     | B     |
`,
		},
		{
			name: "Trim spaces in cells",
			input: `
|   Col A   |   Col B   |
| --- | --- |
|   val A   |   val B   |
`,
			expected: `
| Col A | Col B |
| ----- | ----- |
| val A | val B |
`,
		},
		{
			name: "Mixed content",
			input: `
# Title

| H1 | H2 |
| -- | -- |
| v1 | v2 |

Text after table.
`,
			expected: `
# Title

| H1  | H2  |
| --- | --- |
| v1  | v2  |

Text after table.
`,
		},
		{
			name: "Mixed CJK and ASCII",
			input: `
| Brand | Title |
| --- | --- |
| ユニクロ | エアリズム Tシャツ |
| nike | Dri-FIT |
`,
			// Katakana is double width: "ユニクロ" is 8 columns and
			// "エアリズム Tシャツ" is 18.
			expected: `
| Brand    | Title              |
| -------- | ------------------ |
| ユニクロ | エアリズム Tシャツ |
| nike     | Dri-FIT            |
`,
		},
		{
			name: "Escaped pipe stays in its cell",
			input: `
| Seller | Rating |
| --- | --- |
| a\|b | 4.1 |
`,
			expected: `
| Seller | Rating |
| ------ | ------ |
| a\|b   | 4.1    |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatMarkdown(strings.TrimSpace(tt.input))
			if err != nil {
				t.Errorf("FormatMarkdown() error = %v", err)

				return
			}

			if strings.TrimSpace(got) != strings.TrimSpace(tt.expected) {
				t.Errorf("FormatMarkdown() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	got := RenderTable(
		[]string{"brand", "count"},
		[][]string{
			{"h&m", "3"},
			{"a|b", "12"},
		},
	)

	want := `| brand | count |
| ----- | ----- |
| h&m   | 3     |
| a\|b  | 12    |
`

	if got != want {
		t.Errorf("RenderTable() = \n%v\nwant \n%v", got, want)
	}
}

func TestRenderTable_CollapsesWhitespace(t *testing.T) {
	got := RenderTable([]string{"title"}, [][]string{{"red\n  shirt"}})

	if !strings.Contains(got, "| red shirt |") {
		t.Errorf("RenderTable() = \n%v", got)
	}
}

func TestRenderTableWidth_Truncates(t *testing.T) {
	got := RenderTableWidth([]string{"title"}, [][]string{{"abcdefghij"}}, 5)

	if strings.Contains(got, "abcdefghij") {
		t.Errorf("cell not truncated: \n%v", got)
	}

	if !strings.Contains(got, "abcd") {
		t.Errorf("truncated cell lost its prefix: \n%v", got)
	}

	if full := RenderTableWidth([]string{"title"}, [][]string{{"abcdefghij"}}, 0); !strings.Contains(full, "abcdefghij") {
		t.Errorf("zero width should disable truncation: \n%v", full)
	}
}
