package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glhrmbg/ctdose/internal/aggregate"
	"github.com/glhrmbg/ctdose/internal/config"
	"github.com/glhrmbg/ctdose/internal/database"
	"github.com/glhrmbg/ctdose/internal/dicomio"
	"github.com/glhrmbg/ctdose/internal/log"
	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/pipeline"
	"github.com/glhrmbg/ctdose/internal/record"
	"github.com/glhrmbg/ctdose/internal/report"
	"github.com/glhrmbg/ctdose/internal/walker"
)

// defaultExcelFile is where the workbook lands when no --output is given.
const defaultExcelFile = "dose-report.xlsx"

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file-or-directory>...",
		Short: "Extract dose records from DICOM structured reports",
		Long: `Extract reads CT dose structured reports and consolidates patient
demographics and per-acquisition dose measurements into one table row per
irradiation event.

Directories are walked recursively; files without the DICM magic and
DICOM files that are not dose reports are skipped silently. Extraction
results are journaled to the history database unless --no-history is set.

Examples:
  # Extract a directory of reports into the default spreadsheet
  ctdose extract ./reports

  # Choose the spreadsheet path
  ctdose extract ./reports -o study-doses.xlsx

  # JSON on stdout for tool integration
  ctdose extract --json ./reports

  # Markdown summary for quick review
  ctdose extract --markdown dose1.dcm dose2.dcm

  # Strict mode: drop documents without any dose payload
  ctdose extract --strict ./reports

  # Use a custom configuration file
  ctdose extract -c myconfig.yaml ./reports`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	// Extraction behavior flags
	cmd.Flags().BoolP("strict", "s", false,
		"Discard documents without a dose payload instead of keeping demographics-only rows")
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Maximum report tree depth before a document is rejected as malformed")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of documents processed concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ctdose in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not journal extraction results to the history database")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with PHI masking
	logger := log.NewPrivacyLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExtract(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Strict, err = cmd.Flags().GetBool("strict")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.FileConfig.Apply(cfg, cmd.Flags().Changed)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// History journaling defaults to on, using the XDG data directory.
	if !noHistory && !cfg.SaveToDB {
		cfg.SaveToDB = true
	}
	if noHistory {
		cfg.SaveToDB = false
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	// Positional arguments are the input files and directories.
	cfg.Inputs = args

	return cfg, nil
}

// runExtract executes the extraction.
func runExtract(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	paths, err := collectInputs(cfg.Inputs)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no candidate DICOM files found under %s", strings.Join(cfg.Inputs, ", "))
	}

	logger.Info("starting extraction",
		"files", len(paths),
		"concurrency", cfg.Concurrency,
		"strict", cfg.Strict,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if journaling is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newExtractionPipeline(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	results, err := bp.ProcessBatch(ctx, paths)
	if err != nil {
		return err
	}

	records := make([]*model.ConsolidatedRecord, 0, len(results))
	failed := 0
	for _, ex := range results {
		if ex == nil {
			continue
		}
		if ex.Err != nil {
			failed++
			continue
		}
		if ex.Record != nil {
			records = append(records, ex.Record)
		}
	}

	fmt.Printf("Processed %d files: %d records extracted, %d skipped, %d failed\n",
		len(results), len(records), len(results)-len(records)-failed, failed)

	if db != nil {
		for _, rec := range records {
			if _, err := db.InsertExtraction(ctx, rec); err != nil {
				logger.Error("failed to journal extraction", "path", rec.SourceFile, "error", err)
			}
		}
	}

	return outputRecords(cfg, records)
}

// newExtractionPipeline assembles the per-document pipeline.
func newExtractionPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewDecodeStep(dicomio.NewDecoder(dicomio.WithLogger(logger)), logger),
		pipeline.NewDoseStep(
			walker.New(walker.WithMaxDepth(cfg.MaxDepth)),
			aggregate.New(aggregate.WithLogger(logger)),
			logger,
		),
		pipeline.NewBuildStep(record.New(
			record.WithStrict(cfg.Strict),
			record.WithLogger(logger),
		)),
	)
	return p
}

// collectInputs expands the input arguments into candidate file paths.
// Directories are walked recursively; explicit files are taken as-is so a
// user can force a file the discovery heuristics would skip.
func collectInputs(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("cannot read input %s: %w", input, err)
		}
		if info.IsDir() {
			found, err := dicomio.Discover(input)
			if err != nil {
				return nil, fmt.Errorf("failed to scan directory %s: %w", input, err)
			}
			paths = append(paths, found...)
			continue
		}
		paths = append(paths, input)
	}
	return paths, nil
}

// outputRecords writes the extracted records in the configured format.
// Excel is the default; --json and --markdown switch the format and write
// to stdout unless --output is set.
func outputRecords(cfg *config.Config, records []*model.ConsolidatedRecord) error {
	switch {
	case cfg.JSONReport:
		return writeRecords(cfg.OutputFile, records, func(w io.Writer) (report.Writer, error) {
			return report.NewJSONWriter(w, report.WithPrettyPrint()), nil
		})
	case cfg.MarkdownReport:
		return writeRecords(cfg.OutputFile, records, func(w io.Writer) (report.Writer, error) {
			return report.NewMarkdownWriter(w), nil
		})
	default:
		out := cfg.OutputFile
		if out == "" {
			out = defaultExcelFile
		}
		if err := writeRecords(out, records, func(w io.Writer) (report.Writer, error) {
			return report.NewExcelWriter(w)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	}
}

// writeRecords streams records through a report writer, targeting a file
// when path is non-empty and stdout otherwise.
func writeRecords(path string, records []*model.ConsolidatedRecord, newWriter func(io.Writer) (report.Writer, error)) error {
	var out io.Writer = os.Stdout
	if path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := newWriter(out)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if _, err := w.Flush(); err != nil {
		return fmt.Errorf("failed to finalize report: %w", err)
	}
	return nil
}
