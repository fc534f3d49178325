package fedreg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cfrlink/models"
	"cfrlink/pkg/cache"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/fetcher"
)

var searchEndpoint = "https://www.federalregister.gov/api/v1/documents.json"

// searchFields is the projection requested from the documents search. Order
// matters only for URL stability across runs.
var searchFields = []string{
	"abstract",
	"agencies",
	"agency_names",
	"body_html_url",
	"cfr_references",
	"citation",
	"document_number",
	"end_page",
	"publication_date",
	"significant",
	"start_page",
	"title",
}

// searchURL builds the initial documents search query for one Part: final
// rules only, published on or after minDate, 1,000 results per page.
func searchURL(part models.CfrPart, minDate string) string {
	var b strings.Builder
	b.WriteString(searchEndpoint)
	b.WriteString("?per_page=1000&order=newest")
	fmt.Fprintf(&b, "&conditions[cfr][title]=%s", part.Title)
	fmt.Fprintf(&b, "&conditions[cfr][part]=%s", part.NumericPart())
	fmt.Fprintf(&b, "&conditions[publication_date][gte]=%s", minDate)
	b.WriteString("&conditions[type][]=RULE")
	for _, field := range searchFields {
		fmt.Fprintf(&b, "&fields[]=%s", field)
	}
	return b.String()
}

// SearchRules returns every final rule FederalRegister.gov marks as affecting
// the Part. The first search pages through the full result set, enriches each
// document's agency lists, and caches the merged envelope; later runs load
// the cache and skip both steps. Either way the result count invariant is
// checked before use.
func SearchRules(ctx context.Context, logger *slog.Logger, f *fetcher.Fetcher, layout *datadir.Layout, part models.CfrPart, minDate string, abbrevs map[string]string) (*models.SearchResults, error) {
	path := layout.RuleSearchPath(part)

	var search *models.SearchResults
	if _, err := os.Stat(path); err == nil {
		logger.Info("loading cached rule search", "part", part.String())
		search, err = cache.ReadJSON[*models.SearchResults](path)
		if err != nil {
			return nil, fmt.Errorf("rule search for %s: %w", part, err)
		}
	} else {
		search, err = fetchAllPages(ctx, logger, f, part, minDate)
		if err != nil {
			return nil, err
		}
		enrichAgencies(search, abbrevs)
		if err := cache.WriteJSON(path, search); err != nil {
			return nil, fmt.Errorf("rule search for %s: %w", part, err)
		}
	}

	if err := search.VerifyCount(); err != nil {
		return nil, fmt.Errorf("rule search for %s: %w", part, err)
	}
	return search, nil
}

// fetchAllPages issues the initial search and follows next-page links until
// none remain, merging the result lists in page order.
func fetchAllPages(ctx context.Context, logger *slog.Logger, f *fetcher.Fetcher, part models.CfrPart, minDate string) (*models.SearchResults, error) {
	logger.Info("searching rules", "part", part.String())

	// TODO: window queries by publication date to get past the 10,000 cap.
	search, err := fetchPage(ctx, f, searchURL(part, minDate))
	if err != nil {
		return nil, fmt.Errorf("rule search for %s: %w", part, err)
	}

	nextPageURL := search.NextPageURL
	for nextPageURL != nil {
		page, err := fetchPage(ctx, f, *nextPageURL)
		if err != nil {
			return nil, fmt.Errorf("rule search for %s: %w", part, err)
		}
		nextPageURL = page.NextPageURL
		search.Merge(page)
	}

	return search, nil
}

func fetchPage(ctx context.Context, f *fetcher.Fetcher, url string) (*models.SearchResults, error) {
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var page models.SearchResults
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("unexpected response from %s: %w", url, err)
	}
	return &page, nil
}

// enrichAgencies rewrites each document's agency lists: names with no known
// abbreviation are dropped, the rest gain an index-aligned abbreviation.
// Some results carry agency names missing from the agencies endpoint
// entirely, like much of 40 CFR Part 799.
func enrichAgencies(search *models.SearchResults, abbrevs map[string]string) {
	for i := range search.Results {
		doc := &search.Results[i]
		names := make([]string, 0, len(doc.AgencyNames))
		shorthands := make([]string, 0, len(doc.AgencyNames))
		for _, name := range doc.AgencyNames {
			abbrev, ok := abbrevs[name]
			if !ok {
				continue
			}
			names = append(names, name)
			shorthands = append(shorthands, abbrev)
		}
		doc.AgencyNames = names
		doc.AgencyAbbrevs = shorthands
	}
}
