package commands

import (
	"context"
	"strconv"

	"github.com/jrsteele09/go-social-client/feed"
	"github.com/pkg/errors"
)

// loadPages reloads l and then follows the cursor until pages pages are held
// or the list is exhausted.
func loadPages[T feed.Keyed](ctx context.Context, l *feed.List[T], pages int) (feed.Page[T], error) {
	if err := l.Reload(ctx, nil); err != nil {
		return feed.Page[T]{}, err
	}
	for i := 1; i < pages; i++ {
		if !l.Snapshot().Page.HasMore() {
			break
		}
		if err := l.LoadMore(ctx); err != nil {
			return l.Snapshot().Page, err
		}
	}
	return l.Snapshot().Page, nil
}

// held returns the item with id from l after a mutation helper updated it.
func held[T feed.Keyed](l *feed.List[T], id int) T {
	for _, item := range l.Snapshot().Page.Items {
		if item.Key() == id {
			return item
		}
	}
	var zero T
	return zero
}

func idArg(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}

func pagesFooter[T feed.Keyed](p feed.Page[T]) {
	if p.HasMore() {
		app.out.message("\nshowing %d of %d, use --pages to load more", len(p.Items), p.Count)
		return
	}
	app.out.message("\n%d total", p.Count)
}
