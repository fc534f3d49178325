package models

import (
	"testing"
)

func TestParseCitation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Citation
		wantErr bool
	}{
		{
			name:  "plain citation",
			input: "89 FR 12345",
			want:  Citation{Edition: 89, Page: 12345},
		},
		{
			name:  "early edition",
			input: "59 FR 5",
			want:  Citation{Edition: 59, Page: 5},
		},
		{
			name:    "missing FR keyword",
			input:   "89 CFR 12345",
			wantErr: true,
		},
		{
			name:    "trailing tokens",
			input:   "89 FR 12345 extra",
			wantErr: true,
		},
		{
			name:    "non-numeric edition",
			input:   "x FR 12345",
			wantErr: true,
		},
		{
			name:    "non-numeric page",
			input:   "89 FR page",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCitation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCitation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseCitation(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCitationStringRoundTrip(t *testing.T) {
	citas := []Citation{
		{Edition: 89, Page: 12345},
		{Edition: 59, Page: 1},
		{Edition: 100, Page: 99999},
	}
	for _, c := range citas {
		parsed, err := ParseCitation(c.String())
		if err != nil {
			t.Fatalf("ParseCitation(%q) failed: %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("round trip of %v gave %v", c, parsed)
		}
	}
}

func TestCitationSetSorted(t *testing.T) {
	set := make(CitationSet)
	set.Add(Citation{Edition: 90, Page: 10})
	set.Add(Citation{Edition: 89, Page: 500})
	set.Add(Citation{Edition: 89, Page: 20})
	set.Add(Citation{Edition: 89, Page: 20}) // duplicate

	got := set.Sorted()
	want := []Citation{
		{Edition: 89, Page: 20},
		{Edition: 89, Page: 500},
		{Edition: 90, Page: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("Sorted() returned %d citations, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
