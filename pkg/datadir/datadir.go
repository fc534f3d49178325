// Package datadir lays out the cache tree under the data directory:
//
//	{data}/agencies.json
//	{data}/cfr-{date}/structure/title-{no}.json
//	{data}/cfr-{date}/title-{t}/part-{p}/part.xml
//	{data}/cfr-{date}/title-{t}/part-{p}/rules.json
//	{data}/fr_docs/{docno}/rule.html
//	{data}/fr_docs/{docno}/details.toml
//	{data}/fr_doc_data.csv
//	{data}/cfr_coverage.csv
//	{data}/cfrlink.db
package datadir

import (
	"fmt"
	"os"
	"path/filepath"

	"cfrlink/models"
)

const (
	DBName           = "cfrlink.db"
	DocTableName     = "fr_doc_data.csv"
	CoverageName     = "cfr_coverage.csv"
	docsDirName      = "fr_docs"
	structureDirName = "structure"
)

// Layout resolves every cache path beneath one data directory for one eCFR
// snapshot date.
type Layout struct {
	base     string
	ecfrDate string
}

func NewLayout(base, ecfrDate string) *Layout {
	return &Layout{base: base, ecfrDate: ecfrDate}
}

// Base returns the data directory root.
func (l *Layout) Base() string {
	return l.base
}

func (l *Layout) cfrDir() string {
	return filepath.Join(l.base, fmt.Sprintf("cfr-%s", l.ecfrDate))
}

func (l *Layout) AgenciesPath() string {
	return filepath.Join(l.base, "agencies.json")
}

func (l *Layout) StructureDir() string {
	return filepath.Join(l.cfrDir(), structureDirName)
}

func (l *Layout) StructurePath(titleNo string) string {
	return filepath.Join(l.StructureDir(), fmt.Sprintf("title-%s.json", titleNo))
}

func (l *Layout) PartDir(part models.CfrPart) string {
	return filepath.Join(l.cfrDir(),
		fmt.Sprintf("title-%s", part.Title),
		fmt.Sprintf("part-%s", part.Part))
}

func (l *Layout) PartXMLPath(part models.CfrPart) string {
	return filepath.Join(l.PartDir(part), "part.xml")
}

func (l *Layout) RuleSearchPath(part models.CfrPart) string {
	return filepath.Join(l.PartDir(part), "rules.json")
}

func (l *Layout) DocDir(docno models.DocumentNumber) string {
	return filepath.Join(l.base, docsDirName, string(docno))
}

func (l *Layout) DocHTMLPath(docno models.DocumentNumber) string {
	return filepath.Join(l.DocDir(docno), "rule.html")
}

func (l *Layout) DocDetailsPath(docno models.DocumentNumber) string {
	return filepath.Join(l.DocDir(docno), "details.toml")
}

func (l *Layout) DocTablePath() string {
	return filepath.Join(l.base, DocTableName)
}

func (l *Layout) CoveragePath() string {
	return filepath.Join(l.base, CoverageName)
}

func (l *Layout) DBPath() string {
	return filepath.Join(l.base, DBName)
}

// EnsureStructureDir creates the structure cache directory, and with it the
// data directory itself.
func (l *Layout) EnsureStructureDir() error {
	if err := os.MkdirAll(l.StructureDir(), 0755); err != nil {
		return fmt.Errorf("failed to create structure directory: %w", err)
	}
	return nil
}

// EnsurePartDir creates the cache directory for one Part.
func (l *Layout) EnsurePartDir(part models.CfrPart) error {
	if err := os.MkdirAll(l.PartDir(part), 0755); err != nil {
		return fmt.Errorf("failed to create part directory: %w", err)
	}
	return nil
}

// EnsureDocDir creates the artifact directory for one FR document.
func (l *Layout) EnsureDocDir(docno models.DocumentNumber) error {
	if err := os.MkdirAll(l.DocDir(docno), 0750); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}
	return nil
}
