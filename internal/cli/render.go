package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/fatih/color"

	"github.com/garnizeh/oppboard/pkg/market"
	"github.com/garnizeh/oppboard/pkg/models"
)

// card is the view of one listing handed to the template.
type card struct {
	models.Opportunity
	Saved bool
}

const cardsTemplate = `{{range .}}{{badge .Type}} {{bold .Title}}{{if .Saved}} {{star}}{{end}}{{if not .IsActive}} {{dim "[inactive]"}}{{end}}
  {{.Organization}}{{with .Location}} · {{.}}{{end}}
  {{dim "id:"}} {{.ID}}
{{- with .Deadline}}
  Deadline: {{deadline .}}{{end}}
{{- with .Stipend}}
  Stipend: {{.}}{{end}}
{{- with .Eligibility}}
  Eligibility: {{.}}{{end}}
  {{.Description}}
{{- with .ApplyLink}}
  Apply: {{.}}{{end}}

{{else}}{{dim "No opportunities found."}}
{{end}}`

var cardsTmpl = template.Must(template.New("cards").Funcs(template.FuncMap{
	"badge":    typeBadge,
	"bold":     func(s string) string { return color.New(color.Bold).Sprint(s) },
	"dim":      func(s string) string { return color.New(color.FgHiBlack).Sprint(s) },
	"star":     func() string { return color.New(color.FgYellow).Sprint("★ saved") },
	"deadline": func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") },
}).Parse(cardsTemplate))

// renderCards writes one card per listing. isSaved may be nil.
func renderCards(w io.Writer, items []models.Opportunity, isSaved func(string) bool) error {
	cards := make([]card, 0, len(items))
	for _, o := range items {
		c := card{Opportunity: o}
		if isSaved != nil {
			c.Saved = isSaved(o.ID)
		}
		cards = append(cards, c)
	}
	return cardsTmpl.Execute(w, cards)
}

func typeBadge(t models.OpportunityType) string {
	label := "[" + strings.ToUpper(t.Label()) + "]"
	switch t {
	case models.TypeInternship:
		return color.New(color.FgHiBlue).Sprint(label)
	case models.TypeCompetition:
		return color.New(color.FgHiMagenta).Sprint(label)
	case models.TypeScholarship:
		return color.New(color.FgHiGreen).Sprint(label)
	case models.TypeProgram:
		return color.New(color.FgYellow).Sprint(label)
	}
	return color.New(color.FgWhite).Sprint(label)
}

// parseTypes turns --type values into a filter set.
func parseTypes(values []string) (market.TypeSet, error) {
	set := market.NewTypeSet()
	for _, v := range values {
		t := models.OpportunityType(strings.ToLower(strings.TrimSpace(v)))
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown type %q", market.ErrValidation, v)
		}
		if !set.Has(t) {
			set.Toggle(t)
		}
	}
	return set, nil
}
