package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInconsistentDocument means a search result's declared citation does not
// parse or disagrees with its own page span. The upstream data cannot be
// trusted, so matching stops.
var ErrInconsistentDocument = errors.New("inconsistent document metadata")

// DocumentNumber is a FederalRegister.gov document number, e.g. "2024-02637".
type DocumentNumber string

// DocumentNumberSet is a set of document numbers.
type DocumentNumberSet map[DocumentNumber]struct{}

func (s DocumentNumberSet) Add(d DocumentNumber) {
	s[d] = struct{}{}
}

func (s DocumentNumberSet) Has(d DocumentNumber) bool {
	_, ok := s[d]
	return ok
}

// Sorted returns the members in lexical order.
func (s DocumentNumberSet) Sorted() []DocumentNumber {
	docnos := make([]DocumentNumber, 0, len(s))
	for d := range s {
		docnos = append(docnos, d)
	}
	sort.Slice(docnos, func(i, j int) bool { return docnos[i] < docnos[j] })
	return docnos
}

// CfrReference is one CFR (Title, Part) pairing a rule document declares it
// affects.
type CfrReference struct {
	Chapter     *int    `json:"chapter" toml:"chapter,omitempty"`
	CitationURL *string `json:"citation_url" toml:"citation_url,omitempty"`
	Part        *int    `json:"part" toml:"part,omitempty"`
	Title       int     `json:"title" toml:"title"`
}

// Document is the FederalRegister.gov search projection of a final rule.
//
// AgencyAbbrevs is not part of the search response: it is filled in from the
// agencies endpoint right after the initial fetch and is index-aligned with
// AgencyNames. An empty string means the agency has no short form. Cached
// search results already carry the field.
type Document struct {
	Abstract        *string        `json:"abstract" toml:"abstract,omitempty"`
	AgencyNames     []string       `json:"agency_names" toml:"agency_names"`
	AgencyAbbrevs   []string       `json:"agency_abbrvs" toml:"agency_abbrvs"`
	BodyHTMLURL     *string        `json:"body_html_url" toml:"body_html_url,omitempty"`
	CfrReferences   []CfrReference `json:"cfr_references" toml:"cfr_references"`
	Citation        *string        `json:"citation" toml:"citation,omitempty"`
	DocumentNumber  DocumentNumber `json:"document_number" toml:"document_number"`
	EndPage         int            `json:"end_page" toml:"end_page"`
	PublicationDate *string        `json:"publication_date" toml:"publication_date,omitempty"`
	Significant     *bool          `json:"significant" toml:"significant,omitempty"`
	StartPage       int            `json:"start_page" toml:"start_page"`
	Title           *string        `json:"title" toml:"title,omitempty"`
}

// Contains reports whether cita falls inside this document's published page
// span: same edition, and start_page <= page <= end_page. Documents without
// a citation contain nothing; rare, but real, e.g. FR rule 94-27103.
//
// A declared citation that does not parse, or whose page disagrees with the
// document's start page, means the upstream data is inconsistent and the run
// cannot be trusted.
func (d *Document) Contains(cita Citation) (bool, error) {
	if d.Citation == nil {
		return false, nil
	}
	own, err := ParseCitation(*d.Citation)
	if err != nil {
		return false, fmt.Errorf("%w: document %s: %v", ErrInconsistentDocument, d.DocumentNumber, err)
	}
	if own.Page != d.StartPage {
		return false, fmt.Errorf("%w: document %s: citation %q does not open on start page %d",
			ErrInconsistentDocument, d.DocumentNumber, *d.Citation, d.StartPage)
	}
	return own.Edition == cita.Edition && own.Page <= cita.Page && cita.Page <= d.EndPage, nil
}
