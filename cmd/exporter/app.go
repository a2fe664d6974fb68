package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"companyexport/internal/config"
	"companyexport/internal/crawler"
	"companyexport/internal/exporter"
	"companyexport/internal/formatter"
	"companyexport/internal/logger"
	"companyexport/internal/normalizer"
	"companyexport/pkg/metadata"
)

// Exit codes.
const (
	exitOK          = 0
	exitTokenError  = 1
	exitAPIError    = 2
	exitOutputError = 3
)

// tokenEnv names the environment variable holding the API token.
const tokenEnv = "OPENAPI_TOKEN"

// exitError carries the process exit code of a failed run.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

type app struct {
	viper  *viper.Viper
	stdout io.Writer
	stderr io.Writer
	envs   []string
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{viper: viper.New(), stdout: stdout, stderr: stderr, envs: []string{".env"}}
	cmd := a.command()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	// Usage errors.
	return exitAPIError
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "exporter <ateco-code> <province>",
		Short:         "Export companies filtered by ATECO code and province to XLSX",
		Long:          "Export companies from the Openapi /IT-search endpoint, filtered by ATECO code and two-letter province, to an XLSX workbook.",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.export(cmd, args[0], args[1])
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringP("output", "o", config.DefaultOutput, "output file path")
	flags.StringP("token", "t", "", "API token (default $"+tokenEnv+")")
	flags.IntP("limit", "l", 100, "records per request (1-1000)")
	flags.IntP("max-results", "m", 500, "maximum records to export (1-1000)")
	flags.BoolP("sandbox", "s", false, "use the sandbox environment")
	flags.StringP("config", "c", "", "path to a YAML configuration file")
	flags.String("raw-output", "", "also write the raw API records as JSON to this path")
	flags.Int("preview", 0, "print the first N rows as a table")
	flags.Bool("checksum", false, "write a "+metadata.SidecarExt+" file next to the output")
	flags.CountP("verbose", "v", "issue INFO (-v), DEBUG (-vv)")

	if err := cmd.MarkFlagFilename("config", "yaml", "yml"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as filename: %v", err))
	}

	if err := a.viper.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}

	if err := a.viper.BindEnv("token", tokenEnv); err != nil {
		panic(fmt.Sprintf("failed to bind %s: %v", tokenEnv, err))
	}

	return cmd
}

func (a *app) export(cmd *cobra.Command, atecoCode, province string) error {
	// A missing .env file is not an error.
	_ = godotenv.Load(a.envs...)

	cfg, err := config.LoadConfig(a.viper.GetString("config"))
	if err != nil {
		return &exitError{err: err, code: exitAPIError}
	}

	a.viper.SetDefault("output", cfg.Export.Output)
	a.viper.SetDefault("limit", cfg.Export.Limit)
	a.viper.SetDefault("max-results", cfg.Export.MaxResults)

	level := cfg.Logging.Level
	if cmd.Flags().Changed("verbose") {
		level = logger.LevelFromVerbosity(a.viper.GetInt("verbose"))
	}

	log := logger.New(logger.Options{Output: a.stderr, Level: level, Format: cfg.Logging.Format})

	token := strings.TrimSpace(a.viper.GetString("token"))
	if token == "" {
		return &exitError{err: exporter.ErrMissingToken, code: exitTokenError}
	}

	sandbox := a.viper.GetBool("sandbox")
	client := crawler.NewClient(crawler.Config{
		BaseURL:         cfg.API.BaseURLFor(sandbox),
		Token:           token,
		UserAgent:       cfg.API.UserAgent,
		Timeout:         cfg.API.GetTimeout(),
		RequestInterval: cfg.API.GetRequestInterval(),
	}, log)

	req := exporter.Request{
		Filter: normalizer.SearchFilter{
			ClassificationCode: atecoCode,
			RegionCode:         province,
			PerRequestLimit:    a.viper.GetInt("limit"),
			MaxResults:         a.viper.GetInt("max-results"),
		},
		Sandbox: sandbox,
		Source:  cfg.Export.SourceLabel,
	}

	result, err := exporter.New(client, log).Run(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, exporter.ErrOutputWrite) {
			return &exitError{err: err, code: exitOutputError}
		}

		return &exitError{err: fmt.Errorf("API call failed: %w", err), code: exitAPIError}
	}

	if result.Empty {
		fmt.Fprintln(a.stdout, "No companies found for the given criteria.")
		return nil
	}

	return a.writeOutputs(result)
}

func (a *app) writeOutputs(result *exporter.Result) error {
	output, err := exporter.ExpandPath(a.viper.GetString("output"))
	if err != nil {
		return &exitError{err: err, code: exitOutputError}
	}

	if err := exporter.WriteFile(output, result.Workbook); err != nil {
		return &exitError{err: err, code: exitOutputError}
	}

	if a.viper.GetBool("checksum") {
		sidecar := metadata.Sign(filepath.Base(output), result.Workbook)
		if err := exporter.WriteFile(output+metadata.SidecarExt, []byte(sidecar.String())); err != nil {
			return &exitError{err: err, code: exitOutputError}
		}
	}

	if raw := a.viper.GetString("raw-output"); raw != "" {
		rawPath, err := exporter.ExpandPath(raw)
		if err != nil {
			return &exitError{err: err, code: exitOutputError}
		}

		if err := exporter.WriteRawRecords(rawPath, result.Records); err != nil {
			return &exitError{err: err, code: exitOutputError}
		}
	}

	if n := a.viper.GetInt("preview"); n > 0 {
		headers, cells := formatter.PreviewTable(result.Rows, n)
		fmt.Fprint(a.stdout, formatter.FormatTable(headers, cells))
	}

	fmt.Fprintf(a.stdout, "Export completed: %s (%d records)\n", output, len(result.Rows))

	return nil
}
