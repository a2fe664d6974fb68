package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"companyexport/internal/models"
	"companyexport/pkg/utils"
)

// PreviewColumns are the columns shown by a console preview.
var PreviewColumns = []string{
	models.FieldCompanyName,
	models.FieldVATCode,
	models.FieldAtecoCode,
	models.FieldProvince,
	models.FieldTown,
	models.FieldEmployees,
	models.FieldTurnover,
}

// MaxPreviewCellWidth caps preview cells in display columns.
const MaxPreviewCellWidth = 32

// CellText renders a cell value as text. Nil is empty.
func CellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

// PreviewTable returns the first n rows restricted to PreviewColumns, as
// single-line cells no wider than MaxPreviewCellWidth.
func PreviewTable(rows []models.FlatRow, n int) ([]string, [][]string) {
	helper := utils.NewStringHelper()

	n = min(max(n, 0), len(rows))
	cells := make([][]string, 0, n)

	for _, row := range rows[:n] {
		line := make([]string, len(PreviewColumns))
		for i, col := range PreviewColumns {
			text := helper.NormalizeWhitespace(CellText(row[col]))
			line[i] = helper.TruncateString(text, MaxPreviewCellWidth)
		}

		cells = append(cells, line)
	}

	return PreviewColumns, cells
}

// FormatTable renders headers and rows as an aligned pipe table. Missing
// cells are blank and every column is at least three columns wide.
func FormatTable(headers []string, rows [][]string) string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	if colCount == 0 {
		return ""
	}

	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = 3
	}

	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	measure(headers)

	for _, row := range rows {
		measure(row)
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(content, widths[j]))
			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(headers)

	sb.WriteString("|")

	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}
