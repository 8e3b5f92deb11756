package market

import "github.com/garnizeh/oppboard/pkg/models"

// Listings is a session's local copy of the opportunity list.
type Listings struct {
	items []models.Opportunity
}

func NewListings(items []models.Opportunity) Listings {
	return Listings{items: items}
}

func (l *Listings) Items() []models.Opportunity { return l.items }

func (l *Listings) Len() int { return len(l.items) }

func (l *Listings) Find(id string) (models.Opportunity, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return models.Opportunity{}, false
}

// Prepend puts a newly created record at the head of the list.
func (l *Listings) Prepend(o models.Opportunity) {
	items := make([]models.Opportunity, 0, len(l.items)+1)
	items = append(items, o)
	l.items = append(items, l.items...)
}

// Replace swaps the record with o's id in place. It reports false when the id
// is not in the list.
func (l *Listings) Replace(o models.Opportunity) bool {
	i := l.index(o.ID)
	if i < 0 {
		return false
	}
	l.items[i] = o
	return true
}

func (l *Listings) SetActive(id string, active bool) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items[i].IsActive = active
	return true
}

func (l *Listings) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

func (l *Listings) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
