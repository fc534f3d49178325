package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Citation is a Federal Register citation: an edition (volume) and a page,
// written "89 FR 12345" in CFR markup and rule metadata.
type Citation struct {
	Edition int `json:"edition"`
	Page    int `json:"page"`
}

// ParseCitation parses the canonical "<edition> FR <page>" form. String and
// ParseCitation round-trip.
func ParseCitation(s string) (Citation, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 || fields[1] != "FR" {
		return Citation{}, fmt.Errorf("malformed FR citation %q", s)
	}
	edition, err := strconv.Atoi(fields[0])
	if err != nil {
		return Citation{}, fmt.Errorf("malformed FR citation %q: %w", s, err)
	}
	page, err := strconv.Atoi(fields[2])
	if err != nil {
		return Citation{}, fmt.Errorf("malformed FR citation %q: %w", s, err)
	}
	return Citation{Edition: edition, Page: page}, nil
}

func (c Citation) String() string {
	return fmt.Sprintf("%d FR %d", c.Edition, c.Page)
}

// SortCitations orders citations by edition, then page.
func SortCitations(citas []Citation) {
	sort.Slice(citas, func(i, j int) bool {
		if citas[i].Edition != citas[j].Edition {
			return citas[i].Edition < citas[j].Edition
		}
		return citas[i].Page < citas[j].Page
	})
}

// CitationSet is a set of Citations keyed by value.
type CitationSet map[Citation]struct{}

func (s CitationSet) Add(c Citation) {
	s[c] = struct{}{}
}

// Sorted returns the members ordered by edition, then page.
func (s CitationSet) Sorted() []Citation {
	citas := make([]Citation, 0, len(s))
	for c := range s {
		citas = append(citas, c)
	}
	SortCitations(citas)
	return citas
}
