// Package run holds the CLI actions that drive a linking run and the
// commands that inspect past runs.
package run

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"cfrlink/internal/ecfr"
	"cfrlink/internal/pipeline"
	"cfrlink/models"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/db"
	"cfrlink/pkg/fetcher"
)

// TitleAction links every unreserved part of one CFR title.
func TitleAction(c *cli.Context) error {
	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: Exactly one CFR title number required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  cfrlink title 40")
		os.Exit(1)
	}

	titleNo := c.Args().First()
	return runPipeline(c, fmt.Sprintf("title %s", titleNo), ecfr.TitleSelector(titleNo))
}

// PartAction links a single CFR part.
func PartAction(c *cli.Context) error {
	if c.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: CFR title and part numbers required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  cfrlink part 40 60")
		os.Exit(1)
	}

	titleNo := c.Args().Get(0)
	partNo := c.Args().Get(1)
	return runPipeline(c, fmt.Sprintf("part %s %s", titleNo, partNo), ecfr.PartSelector(titleNo, partNo))
}

func runPipeline(c *cli.Context, selector string, sel ecfr.Selector) error {
	logger := newLogger(c)

	config, err := loadConfig(c)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}

	if err := ecfr.ValidateTitle(sel.Title); err != nil {
		logger.Error("invalid selector", "selector", selector, "error", err)
		os.Exit(2)
	}

	layout := datadir.NewLayout(config.DataDir, config.ECFRDate)
	if err := layout.EnsureStructureDir(); err != nil {
		logger.Error("failed to prepare data directory", "error", err)
		os.Exit(2)
	}

	ledger, err := db.Open(layout.DBPath())
	if err != nil {
		logger.Error("failed to open run ledger", "error", err)
		os.Exit(2)
	}
	defer ledger.Close()

	f := fetcher.NewFetcher()

	parts, err := ecfr.ExpandParts(c.Context, logger, f, layout, config.ECFRDate, sel)
	if err != nil {
		logger.Error("failed to expand selector", "selector", selector, "error", err)
		os.Exit(2)
	}
	logger.Info("selector expanded", "selector", selector, "parts", len(parts))

	p := &pipeline.Pipeline{
		Logger:  logger,
		Fetcher: f,
		Layout:  layout,
		Ledger:  ledger,
		Config:  config,
	}
	outcome, err := p.Run(c.Context, selector, parts)
	if err != nil {
		logger.Error("run failed", "selector", selector, "error", err)
		os.Exit(2)
	}

	fmt.Printf("\nProcessed %d parts: %d documents attributed, %d skipped\n",
		outcome.Parts, outcome.DocsAttributed, outcome.DocsSkipped)
	fmt.Printf("Results: %s, %s\n", outcome.DocTablePath, outcome.CoveragePath)

	return nil
}

// RunsAction lists recent runs from the ledger.
func RunsAction(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	layout := datadir.NewLayout(config.DataDir, config.ECFRDate)
	if _, err := os.Stat(layout.DBPath()); os.IsNotExist(err) {
		fmt.Println("No runs found")
		return nil
	}

	ledger, err := db.Open(layout.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer ledger.Close()

	runs, err := ledger.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-36s %-20s %-14s %-6s %-11s %-8s %-8s\n",
		"Run ID", "Started", "Selector", "Parts", "Attributed", "Fetched", "Skipped")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-14s %-6d %-11d %-8d %-8d\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Selector,
			r.PartCount,
			r.AttributedCount,
			r.FetchedCount,
			r.SkippedCount,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))

	return nil
}

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(c *cli.Context) (*models.Config, error) {
	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("data-dir") {
		config.DataDir = c.String("data-dir")
	}
	return config, nil
}
