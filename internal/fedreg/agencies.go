// Package fedreg talks to FederalRegister.gov: the documents search API for
// final rules affecting a Part, the agencies endpoint for abbreviations, and
// the published HTML bodies of attributed rules.
package fedreg

import (
	"context"
	"fmt"

	"cfrlink/pkg/cache"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/fetcher"
)

var agenciesURL = "https://www.federalregister.gov/api/v1/agencies"

// Agency holds the only fields of the agencies endpoint the pipeline needs.
type Agency struct {
	Name      string  `json:"name"`
	ShortName *string `json:"short_name"`
}

// LoadAgencyAbbrevs returns the full-name to abbreviation table used to
// enrich search results. Agencies without a short name are left out; an
// empty short name still counts.
func LoadAgencyAbbrevs(ctx context.Context, f *fetcher.Fetcher, layout *datadir.Layout) (map[string]string, error) {
	agencies, err := cache.LoadOrFetchJSON[[]Agency](ctx, f, layout.AgenciesPath(), agenciesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load agency list: %w", err)
	}

	abbrevs := make(map[string]string, len(agencies))
	for _, agency := range agencies {
		if agency.ShortName == nil {
			continue
		}
		abbrevs[agency.Name] = *agency.ShortName
	}
	return abbrevs, nil
}
