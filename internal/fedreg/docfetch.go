package fedreg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"cfrlink/models"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/db"
	"cfrlink/pkg/fetcher"
	"cfrlink/pkg/ruletext"
)

// ErrRateLimited means FederalRegister.gov returned 429 even though starts
// were throttled. The limiter interval is assumed sufficient, so this aborts
// the run instead of retrying.
var ErrRateLimited = errors.New("rate limited while throttled")

// DocFetcher downloads the HTML bodies of attributed rule documents into the
// per-document cache and records the outcomes in the run ledger.
type DocFetcher struct {
	logger   *slog.Logger
	fetcher  *fetcher.Fetcher
	layout   *datadir.Layout
	ledger   *db.DB
	interval time.Duration
}

// NewDocFetcher returns a DocFetcher that leaves at least interval between
// download starts. A nil ledger disables event recording.
func NewDocFetcher(logger *slog.Logger, f *fetcher.Fetcher, layout *datadir.Layout, ledger *db.DB, interval time.Duration) *DocFetcher {
	return &DocFetcher{
		logger:   logger,
		fetcher:  f,
		layout:   layout,
		ledger:   ledger,
		interval: interval,
	}
}

// FetchAll downloads every attributed document body not already on disk.
// The limiter gates only the start of each download, so transfers overlap.
// Failures that name a document (bad status, wrong content type, no body
// URL) are collected and returned as a docno to reason map; everything else
// aborts the whole batch.
func (d *DocFetcher) FetchAll(ctx context.Context, runID string, docs map[models.DocumentNumber]*models.AttributedDoc) (map[models.DocumentNumber]string, error) {
	docnos := make([]models.DocumentNumber, 0, len(docs))
	for docno := range docs {
		docnos = append(docnos, docno)
	}
	sort.Slice(docnos, func(i, j int) bool { return docnos[i] < docnos[j] })

	limiter := rate.NewLimiter(rate.Every(d.interval), 1)
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	skipped := make(map[models.DocumentNumber]string)

	var loopErr error
	for i, docno := range docnos {
		fmt.Printf("[*] Fetching FR documents... %d/%d: %s\n", i+1, len(docnos), docno)

		if err := limiter.Wait(ctx); err != nil {
			loopErr = err
			break
		}

		docno := docno // capture per iteration; closures outlive the loop under go1.21 semantics
		entry := docs[docno]
		g.Go(func() error {
			reason, err := d.fetchOne(ctx, runID, docno, &entry.Doc)
			if err != nil {
				return err
			}
			if reason != "" {
				mu.Lock()
				skipped[docno] = reason
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if loopErr != nil {
		return nil, loopErr
	}

	skippedNos := make([]models.DocumentNumber, 0, len(skipped))
	for docno := range skipped {
		skippedNos = append(skippedNos, docno)
	}
	sort.Slice(skippedNos, func(i, j int) bool { return skippedNos[i] < skippedNos[j] })
	for _, docno := range skippedNos {
		fmt.Printf("ERR: %s %s\n", skipped[docno], docno)
	}
	fmt.Printf("[*] %d FR docs skipped\n", len(skipped))

	return skipped, nil
}

// fetchOne brings one document's cache directory up to date. It returns a
// reason string when the body could not be fetched for a per-document cause.
func (d *DocFetcher) fetchOne(ctx context.Context, runID string, docno models.DocumentNumber, doc *models.Document) (string, error) {
	if err := d.layout.EnsureDocDir(docno); err != nil {
		return "", err
	}

	status := "cached"
	htmlPath := d.layout.DocHTMLPath(docno)
	f, err := os.OpenFile(htmlPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err == nil {
		body, reason, derr := d.downloadBody(ctx, doc)
		if derr != nil || reason != "" {
			f.Close()
			// Remove the empty file so a rerun retries the download
			os.Remove(htmlPath)
			if derr != nil {
				return "", derr
			}
			d.recordEvent(runID, docno, "skipped", reason)
			return reason, nil
		}

		if _, err := f.Write(body); err != nil {
			f.Close()
			os.Remove(htmlPath)
			return "", fmt.Errorf("failed to write body for %s: %w", docno, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(htmlPath)
			return "", fmt.Errorf("failed to write body for %s: %w", docno, err)
		}

		status = "fetched"
		d.recordDocument(docno, doc, body)
	} else if !os.IsExist(err) {
		return "", fmt.Errorf("failed to create body file for %s: %w", docno, err)
	}

	if err := d.writeDetails(docno, doc); err != nil {
		return "", err
	}

	d.recordEvent(runID, docno, status, "")
	return "", nil
}

// downloadBody fetches the document's published HTML. The reason return
// names a per-document skip; the error return aborts the batch.
func (d *DocFetcher) downloadBody(ctx context.Context, doc *models.Document) ([]byte, string, error) {
	if doc.BodyHTMLURL == nil {
		return nil, "no body HTML URL", nil
	}

	resp, err := d.fetcher.Do(ctx, *doc.BodyHTMLURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, "", fmt.Errorf("%w: %s", ErrRateLimited, doc.DocumentNumber)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Sprintf("bad HTML: %s, status %d", *doc.BodyHTMLURL, resp.StatusCode), nil
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "text/html" {
		return nil, fmt.Sprintf("unexpected content type %q", contentType), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body for %s: %w", doc.DocumentNumber, err)
	}
	return body, "", nil
}

// writeDetails serializes the document metadata next to its body. An
// existing file is left alone.
func (d *DocFetcher) writeDetails(docno models.DocumentNumber, doc *models.Document) error {
	path := d.layout.DocDetailsPath(docno)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create details file for %s: %w", docno, err)
	}

	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write details for %s: %w", docno, err)
	}
	return f.Close()
}

// recordDocument stores body statistics in the ledger. Ledger trouble is
// logged, never fatal.
func (d *DocFetcher) recordDocument(docno models.DocumentNumber, doc *models.Document, body []byte) {
	if d.ledger == nil {
		return
	}

	var title, citation, pubDate string
	if doc.Title != nil {
		title = *doc.Title
	}
	if doc.Citation != nil {
		citation = *doc.Citation
	}
	if doc.PublicationDate != nil {
		pubDate = *doc.PublicationDate
	}

	var wordCount, paragraphCount int
	summary, err := ruletext.Extract(*doc.BodyHTMLURL, string(body))
	if err != nil {
		d.logger.Warn("failed to summarize rule body", "document", docno, "error", err)
	} else {
		wordCount = summary.WordCount
		paragraphCount = summary.ParagraphCount
		if title == "" {
			title = summary.Title
		}
	}

	if err := d.ledger.UpsertDocument(string(docno), title, citation, pubDate, int64(len(body)), wordCount, paragraphCount); err != nil {
		d.logger.Warn("failed to record document", "document", docno, "error", err)
	}
}

func (d *DocFetcher) recordEvent(runID string, docno models.DocumentNumber, status, reason string) {
	if d.ledger == nil || runID == "" {
		return
	}
	if err := d.ledger.RecordFetchEvent(runID, string(docno), status, reason); err != nil {
		d.logger.Warn("failed to record fetch event", "document", docno, "error", err)
	}
}
