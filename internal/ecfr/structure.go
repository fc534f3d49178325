// Package ecfr reads the eCFR versioner API: title structure trees for
// expanding selectors into Parts, and full-text XML for collecting the FR
// citations printed under each division.
package ecfr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"cfrlink/models"
	"cfrlink/pkg/cache"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/fetcher"
)

var apiBase = "https://www.ecfr.gov/api/versioner/v1"

// ErrInvalidTitle rejects selectors naming a title outside the CFR, or
// title 35, which the CFR keeps fully reserved.
var ErrInvalidTitle = errors.New("invalid CFR title")

// structureNode mirrors one division in the eCFR structure JSON. The full
// field set is kept so cached trees round-trip losslessly.
type structureNode struct {
	Identifier       *string         `json:"identifier"`
	Label            string          `json:"label"`
	LabelLevel       string          `json:"label_level"`
	LabelDescription string          `json:"label_description"`
	Reserved         bool            `json:"reserved"`
	Type             string          `json:"type"`
	Volumes          []string        `json:"volumes"`
	ReceivedOn       *string         `json:"received_on"`
	DescendantRange  *string         `json:"descendant_range"`
	Children         []structureNode `json:"children"`
}

// Selector names one division within a title's structure tree.
type Selector struct {
	Title string
	Type  string
	ID    string
}

func TitleSelector(no string) Selector {
	return Selector{Title: no, Type: "title", ID: no}
}

func PartSelector(title, part string) Selector {
	return Selector{Title: title, Type: "part", ID: part}
}

// ValidateTitle rejects title numbers outside the CFR.
func ValidateTitle(no string) error {
	n, err := strconv.Atoi(no)
	if err != nil || n < 1 || n > 50 {
		return fmt.Errorf("%w: %q: titles run 1 through 50", ErrInvalidTitle, no)
	}
	if n == 35 {
		return fmt.Errorf("%w: title 35 is fully reserved", ErrInvalidTitle)
	}
	return nil
}

// ExpandParts resolves a selector against the title's structure tree and
// returns the unreserved Parts beneath it, in document order.
func ExpandParts(ctx context.Context, logger *slog.Logger, f *fetcher.Fetcher, layout *datadir.Layout, ecfrDate string, sel Selector) ([]models.CfrPart, error) {
	url := fmt.Sprintf("%s/structure/%s/title-%s.json", apiBase, ecfrDate, sel.Title)
	root, err := cache.LoadOrFetchJSON[structureNode](ctx, f, layout.StructurePath(sel.Title), url)
	if err != nil {
		return nil, fmt.Errorf("failed to load title %s structure: %w", sel.Title, err)
	}

	div := findDivision(logger, &root, sel)
	if div == nil {
		return nil, fmt.Errorf("%s %s not found in title %s structure", sel.Type, sel.ID, sel.Title)
	}

	parts := collectParts(div, sel.Title)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s %s contains no unreserved parts", sel.Type, sel.ID)
	}

	return parts, nil
}

// findDivision searches the tree breadth-first for the selected division.
func findDivision(logger *slog.Logger, root *structureNode, sel Selector) *structureNode {
	queue := []*structureNode{root}
	for len(queue) > 0 {
		div := queue[0]
		queue = queue[1:]

		if div.Type == sel.Type && div.Identifier != nil && *div.Identifier == sel.ID {
			return div
		}
		if div.Identifier == nil {
			logger.Debug("structure division without identifier", "label", div.Label, "type", div.Type)
		}
		for i := range div.Children {
			queue = append(queue, &div.Children[i])
		}
	}
	return nil
}

// collectParts walks the selected division depth-first and gathers the
// unreserved parts beneath it. Parts are not descended into.
func collectParts(div *structureNode, title string) []models.CfrPart {
	var parts []models.CfrPart
	stack := []*structureNode{div}
	for len(stack) > 0 {
		div := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if div.Type == "part" && !div.Reserved {
			if div.Identifier != nil {
				parts = append(parts, models.CfrPart{Title: title, Part: *div.Identifier})
			}
			continue
		}
		// Push children reversed so parts come off the stack in document order
		for i := len(div.Children) - 1; i >= 0; i-- {
			stack = append(stack, &div.Children[i])
		}
	}
	return parts
}
