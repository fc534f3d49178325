package ecfr

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"cfrlink/models"
	"cfrlink/pkg/cache"
	"cfrlink/pkg/datadir"
	"cfrlink/pkg/fetcher"
)

// ErrUnsupportedMarkup means a CITA element sat under markup the classifier
// has no rule for. Runs stop rather than misattribute the citation.
var ErrUnsupportedMarkup = errors.New("unsupported markup around citation")

var citationPattern = regexp.MustCompile(`[0-9]+ FR [0-9]+`)

// openTag records the name and division attributes of an open element.
type openTag struct {
	name    string
	n       string
	hasN    bool
	divType string
	hasType bool
}

func (t openTag) isDiv() bool {
	return strings.HasPrefix(t.name, "DIV")
}

func (t openTag) isExtract() bool {
	return strings.HasPrefix(t.name, "EXTRACT")
}

func newOpenTag(e xml.StartElement) openTag {
	tag := openTag{name: e.Name.Local}
	for _, attr := range e.Attr {
		switch attr.Name.Local {
		case "N":
			tag.n = attr.Value
			tag.hasN = true
		case "TYPE":
			tag.divType = attr.Value
			tag.hasType = true
		}
	}
	return tag
}

// CitationsForPart loads the part's full-text XML, from cache or from the
// versioner API, and maps every FR citation printed in it to the divisions
// whose source notes cite it.
func CitationsForPart(ctx context.Context, f *fetcher.Fetcher, layout *datadir.Layout, ecfrDate string, part models.CfrPart) (map[models.Citation]models.DivisionSet, error) {
	url := fmt.Sprintf("%s/full/%s/title-%s.xml?part=%s", apiBase, ecfrDate, part.Title, part.Part)
	markup, err := cache.LoadOrFetchText(ctx, f, layout.PartXMLPath(part), url)
	if err != nil {
		return nil, fmt.Errorf("failed to load markup for %s: %w", part, err)
	}
	return ExtractCitations(strings.NewReader(markup), part)
}

// ExtractCitations scans part markup for FR citations inside CITA elements
// and classifies each against the division that contains it.
func ExtractCitations(r io.Reader, part models.CfrPart) (map[models.Citation]models.DivisionSet, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	// eCFR markup uses HTML entities the strict parser rejects
	decoder.Entity = xml.HTMLEntity

	found := make(map[models.Citation]models.DivisionSet)
	var stack []openTag

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse markup for %s: %w", part, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, newOpenTag(t))
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 || stack[len(stack)-1].name != "CITA" {
				continue
			}
			for _, match := range citationPattern.FindAllString(string(t), -1) {
				cita, err := models.ParseCitation(match)
				if err != nil {
					return nil, err
				}
				div, err := classify(stack, part)
				if err != nil {
					return nil, err
				}
				if _, ok := found[cita]; !ok {
					found[cita] = make(models.DivisionSet)
				}
				found[cita].Add(div)
			}
		}
	}

	return found, nil
}

// classify names the division a CITA element belongs to. Source notes sit
// directly under their DIV, except inside appendix EXTRACT blocks where the
// owning DIV is one level further up or absent entirely.
func classify(stack []openTag, part models.CfrPart) (models.Division, error) {
	if len(stack) < 2 {
		return models.Division{}, fmt.Errorf("%w: CITA with no enclosing division in %s", ErrUnsupportedMarkup, part)
	}

	parent := stack[len(stack)-2]
	switch {
	case parent.isDiv():
		return divisionOf(parent, part)
	case parent.isExtract():
		if len(stack) >= 3 {
			if grandparent := stack[len(stack)-3]; grandparent.isDiv() {
				return divisionOf(grandparent, part)
			}
		}
		// TODO: name bare-extract appendices from the sibling HD1 heading
		// instead of the Appendix X placeholder.
		return models.Division{
			Name: fmt.Sprintf("%s Appendix X", part),
			Type: "EXTRACT",
		}, nil
	default:
		return models.Division{}, fmt.Errorf("%w: CITA under %s in %s", ErrUnsupportedMarkup, parent.name, part)
	}
}

func divisionOf(tag openTag, part models.CfrPart) (models.Division, error) {
	if !tag.hasN || !tag.hasType {
		return models.Division{}, fmt.Errorf("%w: %s missing N or TYPE attributes in %s", ErrUnsupportedMarkup, tag.name, part)
	}
	// TODO: fill in word counts for cited divisions.
	return models.Division{Name: tag.n, Type: tag.divType}, nil
}
