package console

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/models"
)

// SongLister fetches one page of the review table.
type SongLister interface {
	ListSongs(ctx context.Context, query url.Values) (*models.ListResult[models.Submission], error)
}

// ListView is the review table: a filter form, a pager and the current page of
// rows. Fetched pages are cached by query string until a submission changes.
type ListView struct {
	client SongLister

	mu          sync.Mutex
	form        *FilterForm
	pager       Pager
	rows        []models.Submission
	cache       map[string]*models.ListResult[models.Submission]
	generation  uint64
	unsubscribe func()
}

func NewListView(client SongLister, bus *events.Bus, limit int) *ListView {
	v := &ListView{
		client: client,
		form:   NewFilterForm(AdminFields),
		pager:  Pager{Page: 1, Limit: limit},
		cache:  make(map[string]*models.ListResult[models.Submission]),
	}
	if bus != nil {
		v.unsubscribe = bus.Subscribe(func(events.Event) { v.Invalidate() })
	}
	return v
}

// Close detaches the view from the event bus.
func (v *ListView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}

// Invalidate drops every cached page so the next Load refetches.
func (v *ListView) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cache = make(map[string]*models.ListResult[models.Submission])
	v.generation++
}

// SetFilter changes one filter and returns to the first page.
func (v *ListView) SetFilter(key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.form.Set(key, value); err != nil {
		return err
	}
	v.pager.Page = 1
	return nil
}

func (v *ListView) ClearFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Reset()
	v.pager.Page = 1
}

func (v *ListView) Filter(key string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.Get(key)
}

func (v *ListView) GoTo(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.GoTo(page)
}

func (v *ListView) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.Next()
}

func (v *ListView) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.Prev()
}

func (v *ListView) Pager() Pager {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pager
}

func (v *ListView) Rows() []models.Submission {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Submission(nil), v.rows...)
}

func (v *ListView) query() url.Values {
	q := v.form.Query()
	q.Set("page", strconv.Itoa(v.pager.Page))
	q.Set("limit", strconv.Itoa(v.pager.Limit))
	return q
}

// QueryString mirrors the filters and position so the view can be restored.
func (v *ListView) QueryString() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query().Encode()
}

// Restore sets filters and position from a query string produced by QueryString.
func (v *ListView) Restore(raw string) error {
	q, err := url.ParseQuery(raw)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	form := NewFilterForm(v.form.Fields())
	if err := form.Load(q); err != nil {
		return err
	}
	v.form = form
	v.pager.Page = 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		v.pager.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		v.pager.Limit = n
	}
	return nil
}

// Load shows the page for the current filters, fetching it unless cached. On
// failure the rows and pager are left as they were. A page fetched while the
// cache was invalidated is shown but not cached.
func (v *ListView) Load(ctx context.Context) error {
	v.mu.Lock()
	q := v.query()
	key := q.Encode()
	cached := v.cache[key]
	generation := v.generation
	v.mu.Unlock()

	result := cached
	if result == nil {
		var err error
		result, err = v.client.ListSongs(ctx, q)
		if err != nil {
			return err
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if cached == nil && generation == v.generation {
		v.cache[key] = result
	}
	v.rows = result.Data
	v.pager.Count = result.Metadata.Count
	return nil
}
