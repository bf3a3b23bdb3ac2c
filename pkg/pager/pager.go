// Package pager implements the generic load-more pagination state used by
// every list surface: feeds, search results, followers, bookmarks.
//
// A Pager owns one growing item slice plus the page cursor. Refresh always
// restarts from page 1 and replaces the items; LoadMore appends the next page
// and is a no-op while a fetch is in flight or the server reported no further
// page. Whether more data exists is derived strictly from the pagination
// envelope's next marker.
//
// A Pager is safe for concurrent use. Fetches are not cancelled when a newer
// operation starts; the slower response simply applies its update when it
// lands.
package pager

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// FetchFunc loads one page of results for the given filter. page is 1-based.
type FetchFunc[T, F any] func(ctx context.Context, filter F, page int) (*models.Page[T], error)

// Pager is the paginated collection state for item type T under filter
// type F.
type Pager[T, F any] struct {
	fetch FetchFunc[T, F]

	mu        sync.Mutex
	filter    F
	filterKey string
	enabled   bool

	items   []T
	page    int
	hasMore bool
	loading bool
	err     error
}

// New creates a Pager over fetch with the initial filter. When enabled is
// false nothing is fetched until SetEnabled(ctx, true).
func New[T, F any](fetch FetchFunc[T, F], filter F, enabled bool) *Pager[T, F] {
	return &Pager[T, F]{
		fetch:     fetch,
		filter:    filter,
		filterKey: filterKey(filter),
		enabled:   enabled,
		page:      1,
		hasMore:   true,
	}
}

// Refresh resets to page 1 and replaces the items with a fresh first page.
func (p *Pager[T, F]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if !p.enabled {
		p.mu.Unlock()
		return nil
	}
	filter := p.filter
	p.loading = true
	p.err = nil
	p.mu.Unlock()

	result, err := p.fetch(ctx, filter, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.err = err
		return err
	}
	p.items = result.Results
	p.page = 1
	p.hasMore = result.HasMore()
	return nil
}

// LoadMore fetches the next page and appends it. It is a no-op while a fetch
// is in flight or once the server reported no further page.
func (p *Pager[T, F]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if !p.enabled || p.loading || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	filter := p.filter
	page := p.page + 1
	p.loading = true
	p.err = nil
	p.mu.Unlock()

	result, err := p.fetch(ctx, filter, page)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.err = err
		return err
	}
	p.items = append(p.items, result.Results...)
	p.page = page
	p.hasMore = result.HasMore()
	return nil
}

// SetFilter installs a new filter. When its serialized value differs from
// the current one, the collection refetches from page 1; an equivalent
// filter changes nothing.
func (p *Pager[T, F]) SetFilter(ctx context.Context, filter F) error {
	p.mu.Lock()
	key := filterKey(filter)
	if key == p.filterKey {
		p.mu.Unlock()
		return nil
	}
	p.filter = filter
	p.filterKey = key
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// SetEnabled toggles fetching. Enabling an idle pager performs the initial
// load; disabling just stops future fetches.
func (p *Pager[T, F]) SetEnabled(ctx context.Context, enabled bool) error {
	p.mu.Lock()
	wasEnabled := p.enabled
	p.enabled = enabled
	p.mu.Unlock()
	if enabled && !wasEnabled {
		return p.Refresh(ctx)
	}
	return nil
}

// Items returns the accumulated results. The returned slice is shared;
// callers must not modify it.
func (p *Pager[T, F]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

// Page returns the 1-based index of the last fetched page.
func (p *Pager[T, F]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// HasMore reports whether the server indicated a further page.
func (p *Pager[T, F]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// IsLoading reports whether a fetch is in flight.
func (p *Pager[T, F]) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the error recorded by the most recent fetch, or nil. A failed
// fetch never disturbs the previously loaded items.
func (p *Pager[T, F]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// filterKey serializes a filter for change detection. Filters are plain data
// structs; an unmarshalable filter degenerates to always-refetch.
func filterKey(filter any) string {
	b, err := json.Marshal(filter)
	if err != nil {
		return ""
	}
	return string(b)
}
