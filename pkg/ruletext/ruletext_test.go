package ruletext

import (
	"strings"
	"testing"
)

const ruleBody = `<!DOCTYPE html>
<html>
<head><title>Revisions to Standards of Performance</title></head>
<body>
<article>
<h1>Revisions to Standards of Performance</h1>
<p>The Environmental Protection Agency is finalizing amendments to the standards of performance for new stationary sources.</p>
<p>These amendments revise the monitoring requirements and clarify the applicability provisions for affected facilities.</p>
<p>   </p>
<p>The final rule is effective thirty days after publication.</p>
</article>
</body>
</html>`

func TestExtract(t *testing.T) {
	summary, err := Extract("https://www.federalregister.gov/documents/full_text/html/2024/01/15/2024-01234.html", ruleBody)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !strings.Contains(summary.Title, "Standards of Performance") {
		t.Errorf("Title = %q, want it to mention Standards of Performance", summary.Title)
	}
	if summary.WordCount == 0 {
		t.Error("WordCount = 0, want non-zero")
	}
	// The whitespace-only paragraph must not count
	if summary.ParagraphCount != 3 {
		t.Errorf("ParagraphCount = %d, want 3", summary.ParagraphCount)
	}
}

func TestExtract_BadURL(t *testing.T) {
	_, err := Extract("://not-a-url", ruleBody)
	if err == nil {
		t.Error("Extract() with invalid URL should return error")
	}
}
