package session

import (
	"net/http"
	"sync"

	"github.com/jrsteele09/go-social-client/api"
	"github.com/jrsteele09/go-social-client/internal/metrics"
)

// Binding keeps the refresh hooks installed on a client for one owner. The
// hooks are re-created whenever the signed-in identity changes so they always
// clear the right session. Close removes them.
type Binding struct {
	client  *api.Client
	manager *Manager
	metrics *metrics.Client

	mu          sync.Mutex
	identity    int
	release     []func()
	unsubscribe func()
	closed      bool
}

// Bind installs the refresh hooks for manager's session on client.
func Bind(client *api.Client, manager *Manager) *Binding {
	b := &Binding{
		client:  client,
		manager: manager,
		metrics: manager.metrics,
	}

	current, _ := manager.store.Current()
	b.mu.Lock()
	b.install(current.UserID)
	b.mu.Unlock()

	b.unsubscribe = manager.store.Subscribe(func(prev, next *Session) {
		var id int
		if next != nil {
			id = next.UserID
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed || id == b.identity {
			return
		}
		b.install(id)
	})
	return b
}

// install must be called with b.mu held.
func (b *Binding) install(userID int) {
	for _, release := range b.release {
		release()
	}

	view := b.manager.store
	clear := b.manager.clearerFor(userID)
	resend := func(req *http.Request) (*http.Response, error) {
		b.metrics.Retry()
		return b.client.Resend(req)
	}

	b.identity = userID
	b.release = []func(){
		b.client.UseRequestHook(RefreshBeforeRequest(view, b.manager, clear)),
		b.client.UseResponseHook(RetryOnUnauthorized(view, b.manager, clear, resend)),
	}
}

// Identity is the user ID the current hooks were built for (0 when anonymous).
func (b *Binding) Identity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.identity
}

// Close removes the hooks and stops following the session. It is safe to call twice.
func (b *Binding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, release := range b.release {
		release()
	}
	b.release = nil
	b.mu.Unlock()

	b.unsubscribe()
}
