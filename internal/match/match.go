// Package match attributes the FR citations found in CFR markup to the rule
// documents whose page spans contain them.
package match

import (
	"cfrlink/models"
)

// Accumulator collects attributed documents across every processed Part,
// keyed by document number. A document attributed from several Parts keeps
// one entry whose division set is the union of all of them.
type Accumulator map[models.DocumentNumber]*models.AttributedDoc

func NewAccumulator() Accumulator {
	return make(Accumulator)
}

// Part matches one Part's citations against its search results and returns
// the Part's coverage. Every citation is checked against every result: a
// citation can attribute several documents, and a document several
// citations. Citations come back sorted; DocsAffecting keeps the search's
// page order.
func (acc Accumulator) Part(part models.CfrPart, citations map[models.Citation]models.DivisionSet, search *models.SearchResults) (*models.PartCoverage, error) {
	cov := &models.PartCoverage{
		Part:                  part,
		Citations:             make([]models.Citation, 0, len(citations)),
		DocsAffecting:         make([]models.DocumentNumber, 0, len(search.Results)),
		DocsAttributed:        make(models.DocumentNumberSet),
		CitationsUnattributed: make(models.CitationSet),
	}

	for i := range search.Results {
		cov.DocsAffecting = append(cov.DocsAffecting, search.Results[i].DocumentNumber)
	}

	for cita, divs := range citations {
		cov.Citations = append(cov.Citations, cita)

		attributed := false
		for i := range search.Results {
			doc := &search.Results[i]
			ok, err := doc.Contains(cita)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}

			entry, exists := acc[doc.DocumentNumber]
			if !exists {
				entry = &models.AttributedDoc{
					Divisions: make(models.DivisionSet),
					Doc:       *doc,
				}
				acc[doc.DocumentNumber] = entry
			}
			entry.Divisions.Union(divs)

			cov.DocsAttributed.Add(doc.DocumentNumber)
			attributed = true
		}

		if !attributed {
			cov.CitationsUnattributed.Add(cita)
		}
	}

	models.SortCitations(cov.Citations)
	return cov, nil
}
