package match

import (
	"strings"
	"testing"

	"cfrlink/models"
)

func strptr(s string) *string {
	return &s
}

func ruleDoc(docno models.DocumentNumber, citation string, startPage, endPage int) models.Document {
	return models.Document{
		DocumentNumber: docno,
		Citation:       strptr(citation),
		StartPage:      startPage,
		EndPage:        endPage,
	}
}

func divSet(divs ...models.Division) models.DivisionSet {
	s := make(models.DivisionSet)
	for _, d := range divs {
		s.Add(d)
	}
	return s
}

var (
	divA = models.Division{Name: "§ 50.1", Type: "SECTION"}
	divB = models.Division{Name: "§ 50.2", Type: "SECTION"}
	divC = models.Division{Name: "Appendix A to Part 51", Type: "APPENDIX"}
)

func TestPart(t *testing.T) {
	acc := NewAccumulator()

	citations := map[models.Citation]models.DivisionSet{
		{Edition: 89, Page: 100}:  divSet(divA),
		{Edition: 89, Page: 9999}: divSet(divB),
	}
	search := &models.SearchResults{
		Count: 2,
		Results: []models.Document{
			ruleDoc("2024-00050", "89 FR 50", 50, 200),
			ruleDoc("2024-09000", "89 FR 9000", 9000, 9500),
		},
	}

	part := models.CfrPart{Title: "40", Part: "50"}
	cov, err := acc.Part(part, citations, search)
	if err != nil {
		t.Fatalf("Part() error = %v", err)
	}

	if cov.Part != part {
		t.Errorf("cov.Part = %v, want %v", cov.Part, part)
	}

	wantCitas := []models.Citation{{Edition: 89, Page: 100}, {Edition: 89, Page: 9999}}
	if len(cov.Citations) != 2 || cov.Citations[0] != wantCitas[0] || cov.Citations[1] != wantCitas[1] {
		t.Errorf("Citations = %v, want %v sorted", cov.Citations, wantCitas)
	}

	wantAffecting := []models.DocumentNumber{"2024-00050", "2024-09000"}
	for i, want := range wantAffecting {
		if cov.DocsAffecting[i] != want {
			t.Errorf("DocsAffecting[%d] = %s, want %s", i, cov.DocsAffecting[i], want)
		}
	}

	if !cov.DocsAttributed.Has("2024-00050") {
		t.Error("2024-00050 not attributed")
	}
	if cov.DocsAttributed.Has("2024-09000") {
		t.Error("2024-09000 attributed, but no citation falls in its span")
	}

	unattributed := cov.CitationsUnattributed.Sorted()
	if len(unattributed) != 1 || unattributed[0] != (models.Citation{Edition: 89, Page: 9999}) {
		t.Errorf("CitationsUnattributed = %v, want [89 FR 9999]", unattributed)
	}

	entry, ok := acc["2024-00050"]
	if !ok {
		t.Fatal("accumulator has no entry for 2024-00050")
	}
	divs := entry.Divisions.Sorted()
	if len(divs) != 1 || divs[0] != divA {
		t.Errorf("accumulated divisions = %v, want [%v]", divs, divA)
	}
}

func TestPart_UnionsDivisionsAcrossParts(t *testing.T) {
	acc := NewAccumulator()
	search := &models.SearchResults{
		Count:   1,
		Results: []models.Document{ruleDoc("2024-00050", "89 FR 50", 50, 200)},
	}

	first := map[models.Citation]models.DivisionSet{
		{Edition: 89, Page: 100}: divSet(divA),
	}
	if _, err := acc.Part(models.CfrPart{Title: "40", Part: "50"}, first, search); err != nil {
		t.Fatalf("Part() error = %v", err)
	}

	second := map[models.Citation]models.DivisionSet{
		{Edition: 89, Page: 60}: divSet(divC),
	}
	if _, err := acc.Part(models.CfrPart{Title: "40", Part: "51"}, second, search); err != nil {
		t.Fatalf("Part() error = %v", err)
	}

	if len(acc) != 1 {
		t.Fatalf("accumulator holds %d documents, want 1", len(acc))
	}
	divs := acc["2024-00050"].Divisions.Sorted()
	if len(divs) != 2 {
		t.Fatalf("accumulated divisions = %v, want union of both parts", divs)
	}
}

func TestPart_CitationMatchesSeveralDocuments(t *testing.T) {
	acc := NewAccumulator()

	citations := map[models.Citation]models.DivisionSet{
		{Edition: 89, Page: 100}: divSet(divA),
	}
	search := &models.SearchResults{
		Count: 2,
		Results: []models.Document{
			ruleDoc("2024-00050", "89 FR 50", 50, 200),
			ruleDoc("2024-00090", "89 FR 90", 90, 120),
		},
	}

	cov, err := acc.Part(models.CfrPart{Title: "40", Part: "50"}, citations, search)
	if err != nil {
		t.Fatalf("Part() error = %v", err)
	}

	if len(cov.DocsAttributed) != 2 {
		t.Errorf("DocsAttributed = %v, want both documents", cov.DocsAttributed.Sorted())
	}
	if len(acc) != 2 {
		t.Errorf("accumulator holds %d documents, want 2", len(acc))
	}
}

func TestPart_DocumentWithoutCitationNeverMatches(t *testing.T) {
	acc := NewAccumulator()

	citations := map[models.Citation]models.DivisionSet{
		{Edition: 59, Page: 100}: divSet(divA),
	}
	search := &models.SearchResults{
		Count: 1,
		Results: []models.Document{
			{DocumentNumber: "94-27103", StartPage: 100, EndPage: 150},
		},
	}

	cov, err := acc.Part(models.CfrPart{Title: "40", Part: "50"}, citations, search)
	if err != nil {
		t.Fatalf("Part() error = %v", err)
	}

	if len(cov.DocsAttributed) != 0 {
		t.Error("citation attributed to a document that has no citation of its own")
	}
	if len(cov.CitationsUnattributed) != 1 {
		t.Error("citation not recorded as unattributed")
	}
}

func TestPart_InconsistentDocumentIsFatal(t *testing.T) {
	acc := NewAccumulator()

	citations := map[models.Citation]models.DivisionSet{
		{Edition: 89, Page: 100}: divSet(divA),
	}
	search := &models.SearchResults{
		Count: 1,
		Results: []models.Document{
			// Declared citation page disagrees with start_page
			ruleDoc("2024-00050", "89 FR 999", 111, 200),
		},
	}

	_, err := acc.Part(models.CfrPart{Title: "40", Part: "50"}, citations, search)
	if err == nil {
		t.Fatal("Part() with inconsistent document should return error")
	}
	if !strings.Contains(err.Error(), "start page") {
		t.Errorf("error = %v, want start page mismatch", err)
	}
}

func TestPart_NoCitations(t *testing.T) {
	acc := NewAccumulator()
	search := &models.SearchResults{
		Count:   1,
		Results: []models.Document{ruleDoc("2024-00050", "89 FR 50", 50, 200)},
	}

	cov, err := acc.Part(models.CfrPart{Title: "40", Part: "50"}, nil, search)
	if err != nil {
		t.Fatalf("Part() error = %v", err)
	}

	if len(cov.Citations) != 0 || len(cov.DocsAttributed) != 0 || len(cov.CitationsUnattributed) != 0 {
		t.Error("empty citation map should yield empty attribution")
	}
	if len(cov.DocsAffecting) != 1 {
		t.Errorf("DocsAffecting = %v, want the search result regardless", cov.DocsAffecting)
	}
	if len(acc) != 0 {
		t.Errorf("accumulator holds %d documents, want 0", len(acc))
	}
}
