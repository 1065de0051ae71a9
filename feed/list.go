package feed

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load was issued while it ran.
var ErrSuperseded = errors.New("load superseded by a newer request")

// List is the client-side state of one paginated list: the held page, the
// active query and the status of the last load.
type List[T Keyed] struct {
	syncer    *Synchronizer[T]
	path      string
	debouncer *Debouncer
	opts      options

	mu         sync.Mutex
	page       Page[T]
	query      url.Values
	generation uint64
	loaded     bool
	err        error

	searchDone chan error // result channel of the scheduled search, until it starts
}

// NewList creates an unloaded list of the resource at path.
func NewList[T Keyed](getter Getter, path string, query url.Values, opts ...Option) *List[T] {
	o := newOptions(opts)
	return &List[T]{
		syncer:    &Synchronizer[T]{getter: getter, opts: o},
		path:      path,
		debouncer: NewDebouncer(o.clock, o.debounceDelay),
		opts:      o,
		query:     cloneValues(query),
	}
}

// Reload fetches page one with query and replaces the held state. A nil query
// keeps the active one. If another Reload or Search starts before this one
// returns, its result is dropped and ErrSuperseded returned.
func (l *List[T]) Reload(ctx context.Context, query url.Values) error {
	l.mu.Lock()
	if query != nil {
		l.query = cloneValues(query)
	}
	l.generation++
	gen := l.generation
	q := cloneValues(l.query)
	l.mu.Unlock()

	page, err := l.syncer.FetchFirst(ctx, l.path, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		l.opts.log.Debug().Str("feed", l.opts.name).Uint64("generation", gen).Msg("discarding superseded load")
		return ErrSuperseded
	}
	l.err = err
	if err != nil {
		return err
	}
	l.page = page
	l.loaded = true
	return nil
}

// Search sets the search term and schedules a reload once edits have paused
// for the debounce delay. Only the last of a burst of edits reaches the server.
// The returned channel receives exactly one value: the reload's result, or
// ErrSuperseded if a later Search or Close replaced it before it ran.
func (l *List[T]) Search(ctx context.Context, term string) <-chan error {
	done := make(chan error, 1)

	l.mu.Lock()
	q := cloneValues(l.query)
	if term == "" {
		q.Del("search")
	} else {
		q.Set("search", term)
	}
	l.query = q
	// Any load still running belongs to an older term.
	l.generation++
	l.dropPendingSearch()
	l.searchDone = done
	l.mu.Unlock()

	l.debouncer.Trigger(func() {
		l.mu.Lock()
		current := l.searchDone == done
		if current {
			l.searchDone = nil
		}
		l.mu.Unlock()
		if current {
			done <- l.Reload(ctx, nil)
		}
	})
	return done
}

// dropPendingSearch resolves the scheduled search, if any, with ErrSuperseded.
// l.mu must be held.
func (l *List[T]) dropPendingSearch() {
	if l.searchDone != nil {
		l.searchDone <- ErrSuperseded
		l.searchDone = nil
	}
}

// LoadMore fetches the next page and merges it into the held state. The result
// is dropped if the list was reloaded meanwhile.
func (l *List[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if !l.page.HasMore() {
		l.mu.Unlock()
		return nil
	}
	cursor := *l.page.Next
	gen := l.generation
	l.mu.Unlock()

	fetched, err := l.syncer.fetchNext(ctx, cursor)
	if errors.Is(err, ErrLoadInFlight) {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation || !l.page.HasMore() || *l.page.Next != cursor {
		return ErrSuperseded
	}
	l.err = err
	if err != nil {
		return err
	}
	l.page = Merge(l.page, fetched)
	return nil
}

// Prepend puts item at the head of the list, as after creating it. An item
// already held under the same key is moved, not counted twice.
func (l *List[T]) Prepend(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]T, 0, len(l.page.Items)+1)
	items = append(items, item)
	replaced := false
	for _, existing := range l.page.Items {
		if existing.Key() == item.Key() {
			replaced = true
			continue
		}
		items = append(items, existing)
	}
	l.page.Items = items
	if !replaced {
		l.page.Count++
	}
}

// Update replaces the item with key by fn's result. It reports whether the
// item was held.
func (l *List[T]) Update(key int, fn func(T) T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.page.Items {
		if item.Key() == key {
			items := make([]T, len(l.page.Items))
			copy(items, l.page.Items)
			items[i] = fn(item)
			l.page.Items = items
			return true
		}
	}
	return false
}

// Remove drops the item with key. It reports whether the item was held.
func (l *List[T]) Remove(key int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.page.Items {
		if item.Key() == key {
			items := make([]T, 0, len(l.page.Items)-1)
			items = append(items, l.page.Items[:i]...)
			items = append(items, l.page.Items[i+1:]...)
			l.page.Items = items
			if l.page.Count > 0 {
				l.page.Count--
			}
			return true
		}
	}
	return false
}

// Snapshot is a copy of the list state.
type Snapshot[T Keyed] struct {
	Page   Page[T]
	Query  url.Values
	Loaded bool
	Err    error
}

func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	page := l.page
	page.Items = append([]T(nil), l.page.Items...)
	return Snapshot[T]{
		Page:   page,
		Query:  cloneValues(l.query),
		Loaded: l.loaded,
		Err:    l.err,
	}
}

// Close cancels a pending debounced search. Its channel receives ErrSuperseded.
func (l *List[T]) Close() {
	l.debouncer.Cancel()

	l.mu.Lock()
	l.dropPendingSearch()
	l.mu.Unlock()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
