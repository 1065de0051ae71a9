package feed_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-client/feed"
)

type item struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

func (i item) Key() int { return i.ID }

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func page(next string, keys ...int) feed.Page[item] {
	p := feed.Page[item]{Count: len(keys)}
	if next != "" {
		p.Next = &next
	}
	for _, k := range keys {
		p.Items = append(p.Items, item{ID: k, Text: fmt.Sprintf("item %d", k)})
	}
	return p
}

type call struct {
	path  string
	query url.Values
}

// fakeGetter serves canned pages keyed by path (or cursor) plus encoded query.
type fakeGetter struct {
	mu     sync.Mutex
	pages  map[string]feed.Page[item]
	errs   map[string]error
	gates  map[string]chan struct{}
	calls  []call
	called chan string
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{
		pages:  map[string]feed.Page[item]{},
		errs:   map[string]error{},
		gates:  map[string]chan struct{}{},
		called: make(chan string, 16),
	}
}

func key(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func (f *fakeGetter) serve(k string, p feed.Page[item]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[k] = p
}

func (f *fakeGetter) fail(k string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[k] = err
}

// block makes requests for k wait until the returned func is called.
func (f *fakeGetter) block(k string) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[k] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *fakeGetter) Get(ctx context.Context, path string, query url.Values, out any) error {
	k := key(path, query)
	f.mu.Lock()
	f.calls = append(f.calls, call{path: path, query: query})
	gate := f.gates[k]
	p, ok := f.pages[k]
	err := f.errs[k]
	f.mu.Unlock()

	select {
	case f.called <- k:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no page for %s", k)
	}
	raw, merr := json.Marshal(p)
	if merr != nil {
		return merr
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeGetter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGetter) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// manualClock fires scheduled callbacks when Advance moves past their deadline.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) feed.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// Advance moves time forward by d and runs due callbacks in deadline order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

func (c *manualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
