package models

// PartCoverage aggregates, for one CFR Part, how well the Federal Register
// citations in its markup could be attributed to rule documents.
type PartCoverage struct {
	Part CfrPart

	// Citations holds every FR citation found in the Part's markup.
	Citations []Citation

	// DocsAffecting holds every search hit for the Part, in page order.
	DocsAffecting []DocumentNumber

	// DocsAttributed holds the documents at least one citation matched.
	DocsAttributed DocumentNumberSet

	// CitationsUnattributed holds the citations no document matched.
	CitationsUnattributed CitationSet
}

// AttributedDoc carries a matched rule document with the union of every
// division whose citations attributed it, accumulated across all processed
// Parts.
type AttributedDoc struct {
	Divisions DivisionSet
	Doc       Document
}
