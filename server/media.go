package server

import (
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// mediaStore keeps uploaded images in memory
type mediaStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func newMediaStore() *mediaStore {
	return &mediaStore{files: make(map[string][]byte)}
}

// save stores data and returns the absolute URL it is served from
func (m *mediaStore) save(r *http.Request, u upload) string {
	name := uuid.New().String() + path.Ext(u.filename)

	m.mu.Lock()
	m.files[name] = u.data
	m.mu.Unlock()

	link := url.URL{Scheme: getScheme(r), Host: r.Host, Path: RouteMediaPrefix + name}
	return link.String()
}

func (m *mediaStore) get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}

func (s *Server) MediaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := s.media.get(mux.Vars(r)["name"])
		if !ok {
			writeJSONError(w, "Not found.", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(data))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(data)
	}
}

// imageFrom stores the "image" upload of f, if there is one
func (s *Server) imageFrom(r *http.Request, f form) string {
	u, ok := f.files["image"]
	if !ok || len(u.data) == 0 {
		return ""
	}
	return s.media.save(r, u)
}
