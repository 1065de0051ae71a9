package token

import (
	"sync"
	"time"
)

// Denylist holds access credentials logged out before they expired. An entry
// is only needed until the credential would have expired on its own.
type Denylist interface {
	Deny(jti string, until time.Time)
	Denied(jti string) bool
	// Prune drops entries that expired before now and reports how many remain
	Prune(now time.Time) int
}

type memoryDenylist struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func NewMemoryDenylist() Denylist {
	return &memoryDenylist{until: make(map[string]time.Time)}
}

func (d *memoryDenylist) Deny(jti string, until time.Time) {
	if jti == "" {
		return
	}
	d.mu.Lock()
	d.until[jti] = until
	d.mu.Unlock()
}

func (d *memoryDenylist) Denied(jti string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.until[jti]
	return ok
}

func (d *memoryDenylist) Prune(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	for jti, until := range d.until {
		if now.After(until) {
			delete(d.until, jti)
		}
	}
	return len(d.until)
}
