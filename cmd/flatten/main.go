// Package main provides the flatten command that renders a raw record dump as a workbook offline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"companyexport/internal/exporter"
	"companyexport/internal/formatter"
	"companyexport/internal/normalizer"
)

// Exit codes, aligned with the exporter command.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitOutputError = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flatten", flag.ContinueOnError)
	fs.SetOutput(stderr)

	inputPath := fs.String("input", "", "Path to a raw JSON dump written with --raw-output")
	outputPath := fs.String("output", "", "Path to output XLSX file")
	atecoCode := fs.String("ateco", "", "ATECO code recorded in the summary sheet")
	province := fs.String("province", "", "Province recorded in the summary sheet")
	sandbox := fs.Bool("sandbox", false, "Record the export as coming from the sandbox")
	preview := fs.Int("preview", 0, "Print the first N rows as a table")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if *inputPath == "" || *outputPath == "" {
		fmt.Fprintln(stderr, "Usage: flatten -input <raw.json> -output <companies.xlsx>")
		fs.PrintDefaults()

		return exitUsage
	}

	records, err := exporter.ReadRawRecords(*inputPath)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "📂 Reading: %s (%d records)\n", *inputPath, len(records))

	rows := normalizer.BuildRows(records)

	coverage := normalizer.Coverage(rows)
	fmt.Fprintf(stdout, "📊 Coverage: company_name %d/%d, vat_code %d/%d, email %d/%d\n",
		coverage["company_name"], len(rows),
		coverage["vat_code"], len(rows),
		coverage["email"], len(rows))

	filter := normalizer.SearchFilter{
		ClassificationCode: *atecoCode,
		RegionCode:         strings.ToUpper(strings.TrimSpace(*province)),
	}
	meta := exporter.BuildMetadata(len(rows), filter, exporter.Request{Sandbox: *sandbox})

	workbook, err := formatter.RenderWorkbook(rows, meta)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitFailure
	}

	if err := exporter.WriteFile(*outputPath, workbook); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitOutputError
	}

	if *preview > 0 {
		headers, cells := formatter.PreviewTable(rows, *preview)
		fmt.Fprint(stdout, formatter.FormatTable(headers, cells))
	}

	fmt.Fprintf(stdout, "✅ Saved %d rows to %s\n", len(rows), *outputPath)

	return exitOK
}
