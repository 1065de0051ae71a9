package server

import "sync"

// faults holds armed failures, keyed by request path
type faults struct {
	mu           sync.Mutex
	unauthorized map[string]int
}

func newFaults() *faults {
	return &faults{unauthorized: make(map[string]int)}
}

// take consumes one armed failure for path, if any
func (f *faults) take(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.unauthorized[path]
	if n <= 0 {
		return false
	}
	if n == 1 {
		delete(f.unauthorized, path)
	} else {
		f.unauthorized[path] = n - 1
	}
	return true
}

// InjectUnauthorized makes the next n requests for path answer 401 without
// reaching their handler. n <= 0 disarms the path.
func (s *Server) InjectUnauthorized(path string, n int) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()

	if n <= 0 {
		delete(s.faults.unauthorized, path)
		return
	}
	s.faults.unauthorized[path] = n
}

// PendingFaults reports how many injected 401s remain for path
func (s *Server) PendingFaults(path string) int {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	return s.faults.unauthorized[path]
}
