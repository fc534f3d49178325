// Package ruletext distills downloaded Federal Register rule bodies into the
// text statistics the run ledger records.
package ruletext

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Summary holds the readable-content statistics for one rule body.
type Summary struct {
	Title          string
	Excerpt        string
	WordCount      int
	ParagraphCount int
}

// Extract runs readability over a rule body and summarizes the main article
// content it finds.
func Extract(rawURL, html string) (*Summary, error) {
	// Parse the URL to pass to the readability parser
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	// Let go-readability find the main content
	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return nil, err
	}

	// Count paragraphs in the clean HTML content provided by readability
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, err
	}

	paragraphs := 0
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" {
			paragraphs++
		}
	})

	return &Summary{
		Title:          strings.TrimSpace(article.Title),
		Excerpt:        strings.TrimSpace(article.Excerpt),
		WordCount:      len(strings.Fields(article.TextContent)),
		ParagraphCount: paragraphs,
	}, nil
}
