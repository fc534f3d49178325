package models

import (
	"fmt"
	"regexp"
	"sort"
)

// CfrPart identifies a single Part of the CFR, e.g. Title 40 Part 50. Part
// identifiers are strings because some Parts carry letter suffixes, like
// 15 CFR Part 4a.
type CfrPart struct {
	Title string
	Part  string
}

func (p CfrPart) String() string {
	return fmt.Sprintf("%s CFR Part %s", p.Title, p.Part)
}

var nonDigit = regexp.MustCompile(`\D`)

// NumericPart returns the Part identifier with every non-digit stripped.
// FederalRegister.gov indexes lettered Parts (15 CFR 4a) under the bare
// numeric Part (15 CFR 4).
func (p CfrPart) NumericPart() string {
	return nonDigit.ReplaceAllString(p.Part, "")
}

// Division describes one division of the eCFR markup (a section, subpart,
// appendix, ...) that cites a Federal Register rule. The JSON tags are the
// interchange format of the output tables and must not change.
type Division struct {
	Name      string `json:"name"`
	Type      string `json:"ty"`
	WordCount int    `json:"word_count"`
}

// DivisionSet is a set of Divisions keyed by value.
type DivisionSet map[Division]struct{}

func (s DivisionSet) Add(d Division) {
	s[d] = struct{}{}
}

// Union adds every member of other.
func (s DivisionSet) Union(other DivisionSet) {
	for d := range other {
		s[d] = struct{}{}
	}
}

// Sorted returns the members ordered by type then name.
func (s DivisionSet) Sorted() []Division {
	divs := make([]Division, 0, len(s))
	for d := range s {
		divs = append(divs, d)
	}
	sort.Slice(divs, func(i, j int) bool {
		if divs[i].Type != divs[j].Type {
			return divs[i].Type < divs[j].Type
		}
		return divs[i].Name < divs[j].Name
	})
	return divs
}
