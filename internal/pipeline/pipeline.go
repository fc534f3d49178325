// Package pipeline drives a full run: expand citations and search results
// for every Part, match them, fetch the attributed rule bodies, and write
// the two result tables.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"cfrlink/internal/ecfr"
	"cfrlink/internal/fedreg"
	"cfrlink/internal/match"
	"cfrlink/internal/report"
	"cfrlink/models"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/db"
	"cfrlink/pkg/fetcher"
)

type Pipeline struct {
	Logger  *slog.Logger
	Fetcher *fetcher.Fetcher
	Layout  *datadir.Layout
	Ledger  *db.DB
	Config  *models.Config
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID          string
	Parts          int
	DocsAttributed int
	DocsSkipped    int
	DocTablePath   string
	CoveragePath   string
}

// Run processes the given Parts in order and writes both result tables under
// the data directory. Each Part runs its citation extraction and rule search
// concurrently; the two tasks write disjoint cache entries, so every cache
// key still has a single writer.
func (p *Pipeline) Run(ctx context.Context, selector string, parts []models.CfrPart) (*Outcome, error) {
	abbrevs, err := fedreg.LoadAgencyAbbrevs(ctx, p.Fetcher, p.Layout)
	if err != nil {
		return nil, err
	}

	var runID string
	if p.Ledger != nil {
		runID, err = p.Ledger.CreateRun(selector)
		if err != nil {
			p.Logger.Warn("failed to create run", "error", err)
			runID = ""
		}
	}

	acc := match.NewAccumulator()
	coverages := make([]*models.PartCoverage, 0, len(parts))

	for _, part := range parts {
		fmt.Printf("[*] Processing %s\n", part)

		if err := p.Layout.EnsurePartDir(part); err != nil {
			return nil, err
		}

		var (
			citations map[models.Citation]models.DivisionSet
			search    *models.SearchResults
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			citations, err = ecfr.CitationsForPart(gctx, p.Fetcher, p.Layout, p.Config.ECFRDate, part)
			return err
		})
		g.Go(func() error {
			var err error
			search, err = fedreg.SearchRules(gctx, p.Logger, p.Fetcher, p.Layout, part, p.Config.MinPublicationDate, abbrevs)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		cov, err := acc.Part(part, citations, search)
		if err != nil {
			return nil, err
		}
		coverages = append(coverages, cov)
	}

	docFetcher := fedreg.NewDocFetcher(p.Logger, p.Fetcher, p.Layout, p.Ledger,
		time.Duration(p.Config.FetchIntervalMS)*time.Millisecond)
	skipped, err := docFetcher.FetchAll(ctx, runID, acc)
	if err != nil {
		return nil, err
	}

	docRows, err := report.DocumentRows(acc, skipped)
	if err != nil {
		return nil, err
	}
	covRows, err := report.CoverageRows(coverages, skipped)
	if err != nil {
		return nil, err
	}

	if err := report.WriteCSV(p.Layout.DocTablePath(), report.DocumentHeader, docRows); err != nil {
		return nil, err
	}
	if err := report.WriteCSV(p.Layout.CoveragePath(), report.CoverageHeader, covRows); err != nil {
		return nil, err
	}

	if p.Ledger != nil && runID != "" {
		err := p.Ledger.FinishRun(runID, len(parts), len(acc), len(acc)-len(skipped), len(skipped))
		if err != nil {
			p.Logger.Warn("failed to finish run", "error", err)
		}
	}

	return &Outcome{
		RunID:          runID,
		Parts:          len(parts),
		DocsAttributed: len(acc),
		DocsSkipped:    len(skipped),
		DocTablePath:   p.Layout.DocTablePath(),
		CoveragePath:   p.Layout.CoveragePath(),
	}, nil
}
