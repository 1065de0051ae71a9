package feed

import (
	"context"
	"net/url"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrLoadInFlight is returned when LoadMore is called while an earlier call on
// the same Synchronizer has not finished. The call is ignored.
var ErrLoadInFlight = errors.New("load already in progress")

// Getter fetches a path or absolute URL and decodes the JSON body into out.
// *api.Client implements it.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Synchronizer fetches pages of one list.
type Synchronizer[T Keyed] struct {
	getter   Getter
	opts     options
	inFlight atomic.Bool
}

func NewSynchronizer[T Keyed](getter Getter, opts ...Option) *Synchronizer[T] {
	return &Synchronizer[T]{
		getter: getter,
		opts:   newOptions(opts),
	}
}

// FetchFirst fetches page one of path with the given filter and search params.
func (s *Synchronizer[T]) FetchFirst(ctx context.Context, path string, query url.Values) (Page[T], error) {
	var page Page[T]
	err := s.getter.Get(ctx, path, query, &page)
	s.opts.metrics.Page("first", err)
	if err != nil {
		s.opts.log.Warn().Err(err).Str("feed", s.opts.name).Msg("initial load failed")
		return Page[T]{}, errors.Wrapf(err, "[%s] initial load", s.opts.name)
	}
	return page, nil
}

// LoadMore fetches the page after current and merges it in. With no cursor it
// returns current untouched and makes no request. On failure current is
// returned unchanged alongside the error.
func (s *Synchronizer[T]) LoadMore(ctx context.Context, current Page[T]) (Page[T], error) {
	if !current.HasMore() {
		return current, nil
	}
	fetched, err := s.fetchNext(ctx, *current.Next)
	if err != nil {
		return current, err
	}
	return Merge(current, fetched), nil
}

// fetchNext fetches the page at cursor, refusing to overlap another fetch.
func (s *Synchronizer[T]) fetchNext(ctx context.Context, cursor string) (Page[T], error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Page[T]{}, ErrLoadInFlight
	}
	defer s.inFlight.Store(false)

	var fetched Page[T]
	err := s.getter.Get(ctx, cursor, nil, &fetched)
	s.opts.metrics.Page("next", err)
	if err != nil {
		s.opts.log.Warn().Err(err).Str("feed", s.opts.name).Str("cursor", cursor).Msg("load more failed")
		return Page[T]{}, errors.Wrapf(err, "[%s] load more", s.opts.name)
	}
	return fetched, nil
}

// Loading reports whether a LoadMore fetch is in flight.
func (s *Synchronizer[T]) Loading() bool {
	return s.inFlight.Load()
}
