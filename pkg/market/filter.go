package market

import (
	"strings"

	"github.com/garnizeh/oppboard/pkg/models"
)

// TypeSet is a set of selected opportunity types. The zero value is an empty
// set and selects every type.
type TypeSet map[models.OpportunityType]struct{}

func NewTypeSet(types ...models.OpportunityType) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

func (s TypeSet) Has(t models.OpportunityType) bool {
	_, ok := s[t]
	return ok
}

// Toggle adds t when absent and removes it when present.
func (s *TypeSet) Toggle(t models.OpportunityType) {
	if *s == nil {
		*s = TypeSet{}
	}
	if s.Has(t) {
		delete(*s, t)
		return
	}
	(*s)[t] = struct{}{}
}

func (s *TypeSet) Clear() {
	*s = nil
}

// Slice returns the selected types in display order.
func (s TypeSet) Slice() []models.OpportunityType {
	out := make([]models.OpportunityType, 0, len(s))
	for _, t := range models.OpportunityTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Filter returns the items whose title, organization or description contains
// query (case-insensitive) and whose type is in types. An empty query or an
// empty set does not restrict. Input order is preserved, and with neither
// restriction items is returned as is.
func Filter(items []models.Opportunity, query string, types TypeSet) []models.Opportunity {
	if query == "" && len(types) == 0 {
		return items
	}

	q := strings.ToLower(query)
	out := make([]models.Opportunity, 0, len(items))
	for _, o := range items {
		if matchesText(o, q) && matchesType(o, types) {
			out = append(out, o)
		}
	}
	return out
}

func matchesText(o models.Opportunity, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.Title), q) ||
		strings.Contains(strings.ToLower(o.Organization), q) ||
		strings.Contains(strings.ToLower(o.Description), q)
}

func matchesType(o models.Opportunity, types TypeSet) bool {
	return len(types) == 0 || types.Has(o.Type)
}

// Filters is the search box plus type chips of a browse view.
type Filters struct {
	Query string
	Types TypeSet
}

// Active reports whether any restriction is set.
func (f Filters) Active() bool {
	return f.Query != "" || len(f.Types) > 0
}

func (f *Filters) Clear() {
	f.Query = ""
	f.Types.Clear()
}

func (f Filters) Apply(items []models.Opportunity) []models.Opportunity {
	return Filter(items, f.Query, f.Types)
}
