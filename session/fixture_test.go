package session_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-client/api"
	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/jrsteele09/go-social-client/server"
	"github.com/jrsteele09/go-social-client/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	alicePassword = "wonderland42"
	bobPassword   = "builder4you"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// countingTransport counts the requests that reach the wire, per path, and
// can hold requests for a path back before sending them.
type countingTransport struct {
	mu     sync.Mutex
	counts map[string]int
	delays map[string]time.Duration
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.counts[req.URL.Path]++
	delay := c.delays[req.URL.Path]
	c.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
	return http.DefaultTransport.RoundTrip(req)
}

// slow delays every request for path by d. Zero removes the delay.
func (c *countingTransport) slow(path string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays[path] = d
}

func (c *countingTransport) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}

type testFixture struct {
	clock     *testClock
	sandbox   *server.Server
	baseURL   string
	transport *countingTransport
	client    *api.Client
	store     *session.Store
	manager   *session.Manager
}

// setupTestFixture starts a sandbox seeded with alice and bob and a client
// with no hooks installed.
func setupTestFixture(t *testing.T, opts ...session.ManagerOption) *testFixture {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	sandbox, err := server.New(config.New(), server.WithNowFunc(clock.Now), server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	_, err = sandbox.Seed(
		server.SeedUser{Username: "alice", Password: alicePassword},
		server.SeedUser{Username: "bob", Password: bobPassword},
	)
	require.NoError(t, err)

	ts := httptest.NewServer(sandbox)
	t.Cleanup(ts.Close)

	f := &testFixture{
		clock:     clock,
		sandbox:   sandbox,
		baseURL:   ts.URL,
		transport: &countingTransport{counts: map[string]int{}, delays: map[string]time.Duration{}},
	}
	f.client, f.store, f.manager = f.newClient(t, nil, opts...)
	return f
}

// newClient builds another client against the same sandbox. A non-nil jar is
// shared, as when a second process reads the same cookie file.
func (f *testFixture) newClient(t *testing.T, jar http.CookieJar, opts ...session.ManagerOption) (*api.Client, *session.Store, *session.Manager) {
	t.Helper()

	clientOpts := []api.Option{
		api.WithHTTPClient(&http.Client{Transport: f.transport, Timeout: 5 * time.Second}),
		api.WithLogger(zerolog.Nop()),
	}
	if jar != nil {
		clientOpts = append(clientOpts, api.WithJar(jar))
	}
	client, err := api.New(f.baseURL, clientOpts...)
	require.NoError(t, err)

	store := session.NewStore(session.WithStoreLogger(zerolog.Nop()))
	managerOpts := append([]session.ManagerOption{
		session.WithNowFunc(f.clock.Now),
		session.WithLogger(zerolog.Nop()),
	}, opts...)
	manager, err := session.NewManager(client, store, managerOpts...)
	require.NoError(t, err)
	return client, store, manager
}
