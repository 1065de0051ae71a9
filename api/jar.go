package api

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// NewJar returns an in-memory cookie jar using the public suffix list.
func NewJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// FileJar is a cookie jar that can be saved to and restored from a file,
// so a CLI keeps its credential between invocations.
type FileJar struct {
	jar  *cookiejar.Jar
	path string

	mu      sync.Mutex
	entries map[string]storedCookie
	nowFunc func() time.Time
}

type storedCookie struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

var _ http.CookieJar = (*FileJar)(nil)

// OpenFileJar loads the cookies saved at path. A missing file yields an empty jar.
func OpenFileJar(path string) (*FileJar, error) {
	jar, err := NewJar()
	if err != nil {
		return nil, errors.Wrap(err, "[OpenFileJar] new jar")
	}
	fj := &FileJar{
		jar:     jar,
		path:    path,
		entries: make(map[string]storedCookie),
		nowFunc: time.Now,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fj, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[OpenFileJar] read %s", path)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, errors.Wrapf(err, "[OpenFileJar] parse %s", path)
	}

	now := fj.nowFunc()
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		u, err := url.Parse(sc.URL)
		if err != nil {
			continue
		}
		fj.jar.SetCookies(u, []*http.Cookie{{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Domain:   sc.Domain,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		}})
		fj.entries[entryKey(u, sc.Name)] = sc
	}
	return fj, nil
}

func entryKey(u *url.URL, name string) string {
	return u.Scheme + "://" + u.Host + "|" + name
}

func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.nowFunc()
	origin := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
	for _, c := range cookies {
		key := entryKey(u, c.Name)

		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && expires.Before(now)) {
			delete(j.entries, key)
			continue
		}

		j.entries[key] = storedCookie{
			URL:      origin.String(),
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
}

func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// Save writes the live cookies to the jar's file with owner-only permissions.
func (j *FileJar) Save() error {
	j.mu.Lock()
	stored := make([]storedCookie, 0, len(j.entries))
	for _, sc := range j.entries {
		stored = append(stored, sc)
	}
	j.mu.Unlock()

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileJar.Save] marshal")
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileJar.Save] create dir")
	}
	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "[FileJar.Save] write %s", j.path)
	}
	return nil
}
