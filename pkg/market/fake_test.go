package market_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/oppboard/pkg/models"
)

var errRemote = errors.New("remote unavailable")

// fakeStore is an in-memory market.Store that counts calls and can be told to
// fail individual operations.
type fakeStore struct {
	mu       sync.Mutex
	provider int64
	opps     []models.Opportunity
	saved    map[string]bool
	next     int
	calls    map[string]int
	fail     map[string]error
}

func newFakeStore(opps ...models.Opportunity) *fakeStore {
	return &fakeStore{
		provider: 7,
		opps:     opps,
		saved:    map[string]bool{},
		calls:    map[string]int{},
		fail:     map[string]error{},
	}
}

func (f *fakeStore) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeStore) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	var out []models.Opportunity
	for _, o := range f.opps {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListMyOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	if err := f.enter("list_mine"); err != nil {
		return nil, err
	}
	var out []models.Opportunity
	for _, o := range f.opps {
		if o.ProviderID == f.provider {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOpportunity(ctx context.Context, in models.OpportunityInput) (models.Opportunity, error) {
	if err := f.enter("create"); err != nil {
		return models.Opportunity{}, err
	}
	f.next++
	o := models.Opportunity{ID: fmt.Sprintf("new-%d", f.next), IsActive: true, ProviderID: f.provider, CreatedAt: time.Now()}
	in.Apply(&o)
	f.opps = append([]models.Opportunity{o}, f.opps...)
	return o, nil
}

func (f *fakeStore) UpdateOpportunity(ctx context.Context, id string, in models.OpportunityInput) (models.Opportunity, error) {
	if err := f.enter("update"); err != nil {
		return models.Opportunity{}, err
	}
	for i := range f.opps {
		if f.opps[i].ID == id {
			in.Apply(&f.opps[i])
			return f.opps[i], nil
		}
	}
	return models.Opportunity{}, errors.New("not found")
}

func (f *fakeStore) SetOpportunityActive(ctx context.Context, id string, active bool) error {
	if err := f.enter("toggle"); err != nil {
		return err
	}
	for i := range f.opps {
		if f.opps[i].ID == id {
			f.opps[i].IsActive = active
		}
	}
	return nil
}

func (f *fakeStore) DeleteOpportunity(ctx context.Context, id string) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	for i := range f.opps {
		if f.opps[i].ID == id {
			f.opps = append(f.opps[:i], f.opps[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) SaveOpportunity(ctx context.Context, id string) error {
	if err := f.enter("save"); err != nil {
		return err
	}
	f.mu.Lock()
	f.saved[id] = true
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) UnsaveOpportunity(ctx context.Context, id string) error {
	if err := f.enter("unsave"); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.saved, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) ListSavedIDs(ctx context.Context) ([]string, error) {
	if err := f.enter("list_saved"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.saved))
	for id := range f.saved {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
