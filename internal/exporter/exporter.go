// Package exporter runs one export: fetch, flatten, render.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"companyexport/internal/formatter"
	"companyexport/internal/logger"
	"companyexport/internal/models"
	"companyexport/internal/normalizer"
	"companyexport/pkg/metadata"
)

// Export errors.
var (
	ErrOutputWrite  = errors.New("failed to write output")
	ErrMissingToken = errors.New("an API token is required (flag or OPENAPI_TOKEN)")
)

// DefaultSource labels the data source in the summary sheet.
const DefaultSource = "Openapi /IT-search"

// Fetcher returns the raw records matching a filter.
type Fetcher interface {
	Fetch(ctx context.Context, filter normalizer.SearchFilter, progress func(total int)) ([]models.RawRecord, error)
}

// Request describes one export.
type Request struct {
	Source  string
	Filter  normalizer.SearchFilter
	Sandbox bool
}

// Result is the outcome of a successful export. When Empty is set nothing
// matched and no workbook was rendered.
type Result struct {
	Metadata models.ExportMetadata
	Checksum string
	Records  []models.RawRecord
	Rows     []models.FlatRow
	Workbook []byte
	Filter   normalizer.SearchFilter
	Duration time.Duration
	Empty    bool
}

// Exporter ties a fetcher to the flattener and the workbook writer.
type Exporter struct {
	fetcher Fetcher
	writer  *formatter.Writer
	log     *logger.Logger
}

// New creates an exporter. opts configure the workbook writer.
func New(fetcher Fetcher, log *logger.Logger, opts ...formatter.Option) *Exporter {
	if log == nil {
		log = logger.Discard()
	}

	return &Exporter{
		fetcher: fetcher,
		writer:  formatter.NewWriter(opts...),
		log:     log,
	}
}

// Run performs req. Filter errors are returned before any request is made.
func (e *Exporter) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	filter, err := req.Filter.Normalize()
	if err != nil {
		return nil, err
	}

	log := e.log.With("ateco_code", filter.ClassificationCode, "province", filter.RegionCode)

	log.Info("Phase 1: Fetching records", "limit", filter.PerRequestLimit, "max_results", filter.MaxResults, "sandbox", req.Sandbox)

	records, err := e.fetcher.Fetch(ctx, filter, func(total int) {
		log.Info("Fetched records", "total", total)
	})
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		log.Info("No companies matched")

		return &Result{Filter: filter, Empty: true, Duration: time.Since(start)}, nil
	}

	log.Info("Phase 2: Flattening records", "count", len(records))

	rows := normalizer.BuildRows(records)
	meta := BuildMetadata(len(rows), filter, req)

	log.Info("Phase 3: Rendering workbook")

	workbook, err := e.writer.Render(rows, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	result := &Result{
		Metadata: meta,
		Checksum: metadata.CalculateHash(workbook),
		Records:  records,
		Rows:     rows,
		Workbook: workbook,
		Filter:   filter,
		Duration: time.Since(start),
	}

	log.Info("Export ready", "rows", len(rows), "bytes", len(workbook), "duration", result.Duration)

	return result, nil
}

// BuildMetadata returns the summary entries of an export, in sheet order.
func BuildMetadata(total int, filter normalizer.SearchFilter, req Request) models.ExportMetadata {
	source := req.Source
	if source == "" {
		source = DefaultSource
	}

	return models.NewExportMetadata(
		models.MetadataEntry{Label: models.MetaTotalRecords, Value: total},
		models.MetadataEntry{Label: models.MetaAtecoCode, Value: filter.ClassificationCode},
		models.MetadataEntry{Label: models.MetaProvince, Value: filter.RegionCode},
		models.MetadataEntry{Label: models.MetaSource, Value: source},
		models.MetadataEntry{Label: models.MetaSandbox, Value: req.Sandbox},
	)
}

// DefaultFileName names the workbook of a service export.
func DefaultFileName(region, code string) string {
	return fmt.Sprintf("openapi_companies_%s_%s.xlsx", region, code)
}
