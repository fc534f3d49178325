package models

import (
	"errors"
	"fmt"
)

// SearchResultCap is the hard ceiling FederalRegister.gov enforces on any
// search: 10 pages of 1,000 results.
const SearchResultCap = 10000

// ErrResultCount means a merged search envelope does not hold the number of
// documents it reports.
var ErrResultCount = errors.New("search result count mismatch")

// SearchResults is the FederalRegister.gov documents search envelope. After
// pagination, Results holds every page's results appended in page order
// while Count, Description, TotalPages, and NextPageURL keep the first
// page's values.
type SearchResults struct {
	Count       int        `json:"count"`
	Description string     `json:"description"`
	TotalPages  *int       `json:"total_pages"`
	NextPageURL *string    `json:"next_page_url"`
	Results     []Document `json:"results"`
}

// Merge appends the other page's results.
func (s *SearchResults) Merge(other *SearchResults) {
	s.Results = append(s.Results, other.Results...)
}

// VerifyCount checks the merged result set against the reported count. A
// search never returns more than SearchResultCap documents regardless of
// how many it matched.
func (s *SearchResults) VerifyCount() error {
	n := len(s.Results)
	if s.Count <= SearchResultCap {
		if n != s.Count {
			return fmt.Errorf("%w: reported %d documents but returned %d", ErrResultCount, s.Count, n)
		}
		return nil
	}
	if n != SearchResultCap {
		return fmt.Errorf("%w: reported %d documents but returned %d instead of the %d cap",
			ErrResultCount, s.Count, n, SearchResultCap)
	}
	return nil
}
