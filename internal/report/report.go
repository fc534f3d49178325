// Package report renders the two result tables: the per-document table and
// the per-part coverage table. Collection-valued cells are serialized as
// JSON strings inside the CSV, with their members sorted so reruns produce
// identical files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"cfrlink/models"
)

var DocumentHeader = []string{
	"fr-docno",
	"cfr-divs-referenced-in",
	"fr-doc-citation",
	"fr-doc-agencies",
	"fr-doc-agencies-shorthand",
	"fr-doc-title",
	"fr-doc-abstract",
	"fr-doc-publication-date",
	"fr-doc-cfr-parts-affected",
}

var CoverageHeader = []string{
	"cfr-title",
	"cfr-part",
	"fr-citations",
	"fr-docs-affecting",
	"fr-docs-attributed",
	"fr-cita-unattributed",
	"fr-docs-unfetched",
}

// DocumentRows builds one row per attributed document, ordered by document
// number. Documents skipped during body fetch are left out; the coverage
// table still accounts for them.
func DocumentRows(docs map[models.DocumentNumber]*models.AttributedDoc, skipped map[models.DocumentNumber]string) ([][]string, error) {
	docnos := make([]models.DocumentNumber, 0, len(docs))
	for docno := range docs {
		if _, ok := skipped[docno]; ok {
			continue
		}
		docnos = append(docnos, docno)
	}
	sort.Slice(docnos, func(i, j int) bool { return docnos[i] < docnos[j] })

	rows := make([][]string, 0, len(docnos))
	for _, docno := range docnos {
		entry := docs[docno]

		divisions, err := jsonCell(entry.Divisions.Sorted())
		if err != nil {
			return nil, err
		}
		agencies, err := jsonCell(entry.Doc.AgencyNames)
		if err != nil {
			return nil, err
		}
		shorthand, err := jsonCell(entry.Doc.AgencyAbbrevs)
		if err != nil {
			return nil, err
		}
		refs, err := jsonCell(entry.Doc.CfrReferences)
		if err != nil {
			return nil, err
		}

		rows = append(rows, []string{
			string(docno),
			divisions,
			stringOrEmpty(entry.Doc.Citation),
			agencies,
			shorthand,
			stringOrEmpty(entry.Doc.Title),
			stringOrEmpty(entry.Doc.Abstract),
			stringOrEmpty(entry.Doc.PublicationDate),
			refs,
		})
	}

	return rows, nil
}

// CoverageRows builds one row per processed Part, in processing order. The
// unfetched cell holds the attributed documents that were skipped during
// body fetch.
func CoverageRows(coverages []*models.PartCoverage, skipped map[models.DocumentNumber]string) ([][]string, error) {
	rows := make([][]string, 0, len(coverages))
	for _, cov := range coverages {
		citas, err := jsonCell(cov.Citations)
		if err != nil {
			return nil, err
		}
		affecting, err := jsonCell(cov.DocsAffecting)
		if err != nil {
			return nil, err
		}
		attributed, err := jsonCell(cov.DocsAttributed.Sorted())
		if err != nil {
			return nil, err
		}
		unattributed, err := jsonCell(cov.CitationsUnattributed.Sorted())
		if err != nil {
			return nil, err
		}

		unfetchedSet := make(models.DocumentNumberSet)
		for docno := range cov.DocsAttributed {
			if _, ok := skipped[docno]; ok {
				unfetchedSet.Add(docno)
			}
		}
		unfetched, err := jsonCell(unfetchedSet.Sorted())
		if err != nil {
			return nil, err
		}

		rows = append(rows, []string{
			cov.Part.Title,
			cov.Part.Part,
			citas,
			affecting,
			attributed,
			unattributed,
			unfetched,
		})
	}

	return rows, nil
}

// WriteCSV writes a header and rows to path, replacing any existing file.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func jsonCell(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize cell: %w", err)
	}
	return string(b), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
