// Package formatter renders flattened company rows as a workbook and as plain-text tables.
package formatter

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"companyexport/internal/models"
)

// Workbook layout.
const (
	SheetCompanies     = "Companies"
	SheetSummary       = "Summary"
	GeneratedAtLabel   = "Generated at"
	GeneratedAtLayout  = "2006-01-02 15:04:05 UTC"
	MaxColumnWidth     = 60
	SummaryColumnWidth = 30
)

// ErrWorkbookWrite is returned when the workbook cannot be built or serialized.
var ErrWorkbookWrite = errors.New("failed to write workbook")

// Writer renders workbooks.
type Writer struct {
	clock func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for the generation timestamp.
func WithClock(clock func() time.Time) Option {
	return func(w *Writer) {
		w.clock = clock
	}
}

// NewWriter creates a workbook writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{clock: time.Now}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RenderWorkbook renders rows and meta with the default writer.
func RenderWorkbook(rows []models.FlatRow, meta models.ExportMetadata) ([]byte, error) {
	return NewWriter().Render(rows, meta)
}

// Render builds a workbook with a Summary sheet first and a Companies sheet
// holding one row per record, and returns its serialized bytes.
func (w *Writer) Render(rows []models.FlatRow, meta models.ExportMetadata) (_ []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWorkbookWrite, closeErr)
		}
	}()

	first := f.GetSheetName(0)
	if err := f.SetSheetName(first, SheetSummary); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkbookWrite, err)
	}

	if _, err := f.NewSheet(SheetCompanies); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkbookWrite, err)
	}

	if err := w.writeSummary(f, meta); err != nil {
		return nil, fmt.Errorf("%w: summary sheet: %w", ErrWorkbookWrite, err)
	}

	if err := writeCompanies(f, rows); err != nil {
		return nil, fmt.Errorf("%w: companies sheet: %w", ErrWorkbookWrite, err)
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkbookWrite, err)
	}

	return buf.Bytes(), nil
}

func (w *Writer) writeSummary(f *excelize.File, meta models.ExportMetadata) error {
	generated := w.clock().UTC().Format(GeneratedAtLayout)
	if err := f.SetSheetRow(SheetSummary, "A1", &[]any{GeneratedAtLabel, generated}); err != nil {
		return err
	}

	for i, entry := range meta.Entries() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(SheetSummary, cell, &[]any{entry.Label, entry.Value}); err != nil {
			return err
		}
	}

	return f.SetColWidth(SheetSummary, "A", "B", SummaryColumnWidth)
}

func writeCompanies(f *excelize.File, rows []models.FlatRow) error {
	headers := models.Headers

	if err := f.SetSheetRow(SheetCompanies, "A1", &headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetCompanies, "A1", lastHeader, style); err != nil {
		return err
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}

	for r, row := range rows {
		for c, h := range headers {
			v := row[h]
			if v == nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}

			if err := f.SetCellValue(SheetCompanies, cell, v); err != nil {
				return err
			}

			widths[c] = max(widths[c], runewidth.StringWidth(CellText(v)))
		}
	}

	for c, h := range headers {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}

		if err := f.SetColWidth(SheetCompanies, col, col, float64(ColumnWidth(h, widths[c]))); err != nil {
			return err
		}
	}

	return f.SetPanes(SheetCompanies, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// ColumnWidth returns the sheet width of a column given its header and the
// display width of its longest cell.
func ColumnWidth(header string, longest int) int {
	return min(max(runewidth.StringWidth(header)+2, longest+2), MaxColumnWidth)
}
