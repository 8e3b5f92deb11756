package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/garnizeh/oppboard/pkg/market"
	"github.com/garnizeh/oppboard/pkg/models"
)

func init() {
	color.NoColor = true
}

func TestRenderCards(t *testing.T) {
	loc := "Remote"
	deadline := time.Date(2030, 3, 1, 9, 30, 0, 0, time.Local)
	items := []models.Opportunity{
		{ID: "a", Title: "STEP", Organization: "Google", Type: models.TypeInternship, Location: &loc, Deadline: &deadline, Description: "First years", IsActive: true},
		{ID: "b", Title: "Grant", Organization: "Gates", Type: models.TypeScholarship, Description: "Tuition", IsActive: false},
	}

	var buf bytes.Buffer
	if err := renderCards(&buf, items, func(id string) bool { return id == "a" }); err != nil {
		t.Fatalf("renderCards: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[INTERNSHIP] STEP ★ saved",
		"Google · Remote",
		"id: a",
		"Deadline: Mar 1, 2030 09:30",
		"[SCHOLARSHIP] Grant [inactive]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Stipend:") || strings.Contains(out, "Apply:") {
		t.Errorf("absent optional fields must not render:\n%s", out)
	}
}

func TestRenderCards_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := renderCards(&buf, nil, nil); err != nil {
		t.Fatalf("renderCards: %v", err)
	}
	if !strings.Contains(buf.String(), "No opportunities found.") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestParseTypes(t *testing.T) {
	set, err := parseTypes([]string{"Internship", " program ", "internship"})
	if err != nil {
		t.Fatalf("parseTypes: %v", err)
	}
	if got := set.Slice(); len(got) != 2 || got[0] != models.TypeInternship || got[1] != models.TypeProgram {
		t.Fatalf("unexpected set: %v", got)
	}

	if _, err := parseTypes([]string{"job"}); !errors.Is(err, market.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDescribeError(t *testing.T) {
	err := &market.OpError{Op: market.OpSave, ID: "x", Err: errors.New("boom")}
	if got := describeError(err); got != "Failed to save opportunity: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}
