// Package formatter provides markdown formatting utilities.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMaxCellWidth bounds the display width of a rendered cell.
const DefaultMaxCellWidth = 60

// FormatMarkdown takes a raw markdown string and formats it,
// specifically focusing on fixing table formatting issues.
func FormatMarkdown(content string) (string, error) {
	lines := strings.Split(content, "\n")

	var formattedLines []string

	var tableBuffer []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmedLine := strings.TrimSpace(line)

		// Simple heuristic: starts and ends with |
		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableBuffer = append(tableBuffer, line)

			continue
		}

		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		formattedLines = append(formattedLines, line)
	}

	if len(tableBuffer) > 0 {
		formattedLines = append(formattedLines, processTable(tableBuffer)...)
	}

	return strings.Join(formattedLines, "\n"), nil
}

// RenderTable builds an aligned markdown table. Cells wider than
// DefaultMaxCellWidth are truncated with an ellipsis, and pipes inside cells
// are escaped.
func RenderTable(header []string, rows [][]string) string {
	return RenderTableWidth(header, rows, DefaultMaxCellWidth)
}

// RenderTableWidth is RenderTable with an explicit cell width limit. A limit
// of zero or less disables truncation.
func RenderTableWidth(header []string, rows [][]string, maxWidth int) string {
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, tableRow(header, maxWidth))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}

	lines = append(lines, tableRow(sep, 0))

	for _, row := range rows {
		lines = append(lines, tableRow(row, maxWidth))
	}

	return strings.Join(processTable(lines), "\n") + "\n"
}

func tableRow(cells []string, maxWidth int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(cleanCell(cell, maxWidth))
		sb.WriteString(" |")
	}

	return sb.String()
}

func cleanCell(cell string, maxWidth int) string {
	cell = strings.Join(strings.Fields(cell), " ")

	if maxWidth > 0 && runewidth.StringWidth(cell) > maxWidth {
		cell = runewidth.Truncate(cell, maxWidth, "…")
	}

	return strings.ReplaceAll(cell, "|", `\|`)
}

// splitRow splits a table line on unescaped pipes.
func splitRow(row string) []string {
	var (
		parts []string
		sb    strings.Builder
	)

	for i := 0; i < len(row); i++ {
		switch {
		case row[i] == '\\' && i+1 < len(row) && row[i+1] == '|':
			sb.WriteString(`\|`)
			i++
		case row[i] == '|':
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(row[i])
		}
	}

	return append(parts, sb.String())
}

func processTable(rows []string) []string {
	// A table needs at least a header and a separator.
	if len(rows) < 2 {
		return rows
	}

	// 1. Parse all cells
	var table [][]string

	for _, row := range rows {
		parts := splitRow(row)

		if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
			parts = parts[1:]
		}

		if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
			parts = parts[:len(parts)-1]
		}

		var cells []string
		for _, p := range parts {
			cells = append(cells, strings.TrimSpace(p))
		}

		table = append(table, cells)
	}

	// 2. Validate table structure
	if len(table) == 0 {
		return rows
	}

	colCount := len(table[0])
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	separatorRowIdx := -1

	if len(table) > 1 {
		isSep := true
		for _, cell := range table[1] {
			trim := strings.TrimSpace(cell)
			trim = strings.ReplaceAll(trim, "-", "")
			trim = strings.ReplaceAll(trim, ":", "")
			trim = strings.ReplaceAll(trim, " ", "")

			if trim != "" {
				isSep = false
				break
			}
		}

		if isSep {
			separatorRowIdx = 1
		}
	}

	// 3. Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	// 4. Reconstruct lines
	var result []string

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		isSeparator := (i == separatorRowIdx)

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			content := ""
			if j < len(row) {
				content = row[j]
			}

			if isSeparator {
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			} else {
				sb.WriteString(content)

				padding := colWidths[j] - runewidth.StringWidth(content)
				if padding > 0 {
					sb.WriteString(strings.Repeat(" ", padding))
				}
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}
