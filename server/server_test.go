package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/jrsteele09/go-social-client/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const alicePassword = "wonderland42"

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

type testFixture struct {
	clock   *testClock
	sandbox *server.Server
	ts      *httptest.Server
	aliceID int
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	sandbox, err := server.New(config.New(), server.WithNowFunc(clock.Now), server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	ids, err := sandbox.Seed(server.SeedUser{Username: "alice", Password: alicePassword})
	require.NoError(t, err)

	ts := httptest.NewServer(sandbox)
	t.Cleanup(ts.Close)
	return &testFixture{clock: clock, sandbox: sandbox, ts: ts, aliceID: ids[0]}
}

// browser is a cookie-carrying HTTP client, like the app in a browser tab.
type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func (f *testFixture) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: f.ts.URL, http: &http.Client{Jar: jar}}
}

type reply struct {
	status int
	header http.Header
	body   map[string]any
	raw    []byte
}

func (b *browser) do(method, path string, body any, headers ...string) reply {
	b.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(data)
	}
	target := path
	if !strings.HasPrefix(path, "http") {
		target = b.base + path
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	r := reply{status: resp.StatusCode, header: resp.Header, raw: raw}
	_ = json.Unmarshal(raw, &r.body)
	return r
}

func (b *browser) login(username, password string) reply {
	b.t.Helper()
	return b.do(http.MethodPost, server.RouteLogin, map[string]string{"username": username, "password": password})
}

func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.base)
	for _, c := range b.http.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (b *browser) setCookie(name, value string) {
	u, _ := url.Parse(b.base)
	b.http.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t)
	r := f.browser(t).do(http.MethodGet, server.RouteHealth, nil)
	require.Equal(t, http.StatusOK, r.status)
	require.Equal(t, "ok", r.body["detail"])
}

func TestLoginSetsHttpOnlyCookies(t *testing.T) {
	f := setupTestFixture(t)
	b := f.browser(t)

	r := b.login("alice", alicePassword)
	require.Equal(t, http.StatusOK, r.status)
	require.Equal(t, "", r.body["access"], "credentials travel only in cookies")
	user := r.body["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.EqualValues(t, f.aliceID, user["pk"])
	require.EqualValues(t, f.aliceID, user["profile_id"])

	var sawAccess, sawRefresh bool
	for _, c := range (&http.Response{Header: r.header}).Cookies() {
		require.True(t, c.HttpOnly, c.Name)
		switch c.Name {
		case "my-app-auth":
			sawAccess = true
			require.Equal(t, 300, c.MaxAge)
		case "my-refresh-token":
			sawRefresh = true
			require.Equal(t, 86400, c.MaxAge)
		}
	}
	require.True(t, sawAccess)
	require.True(t, sawRefresh)

	me := b.do(http.MethodGet, server.RouteUser, nil)
	require.Equal(t, http.StatusOK, me.status)
	require.Equal(t, "alice", me.body["username"])
}

func TestAccessCredential(t *testing.T) {
	t.Run("anonymous requests to private routes", func(t *testing.T) {
		f := setupTestFixture(t)
		r := f.browser(t).do(http.MethodGet, server.RouteUser, nil)
		require.Equal(t, http.StatusUnauthorized, r.status)
		require.Equal(t, "Authentication credentials were not provided.", r.body["detail"])
	})

	t.Run("anonymous requests to public routes", func(t *testing.T) {
		f := setupTestFixture(t)
		r := f.browser(t).do(http.MethodGet, server.RoutePosts, nil)
		require.Equal(t, http.StatusOK, r.status)
	})

	t.Run("a bad cookie is rejected even on public routes", func(t *testing.T) {
		f := setupTestFixture(t)
		b := f.browser(t)
		b.setCookie("my-app-auth", "garbage")

		r := b.do(http.MethodGet, server.RoutePosts, nil)
		require.Equal(t, http.StatusUnauthorized, r.status)
		require.Equal(t, "Given token not valid for any token type", r.body["detail"])
	})

	t.Run("expired access is rejected", func(t *testing.T) {
		f := setupTestFixture(t)
		b := f.browser(t)
		b.login("alice", alicePassword)
		f.clock.Advance(6 * time.Minute)

		r := b.do(http.MethodGet, server.RouteUser, nil)
		require.Equal(t, http.StatusUnauthorized, r.status)
	})
}

func TestTokenRefresh(t *testing.T) {
	t.Run("without a cookie", func(t *testing.T) {
		f := setupTestFixture(t)
		r := f.browser(t).do(http.MethodPost, server.RouteTokenRefresh, nil)
		require.Equal(t, http.StatusUnauthorized, r.status)
		require.Equal(t, "token_not_valid", r.body["code"])
	})

	t.Run("rotates both credentials", func(t *testing.T) {
		f := setupTestFixture(t)
		b := f.browser(t)
		b.login("alice", alicePassword)
		oldAccess, oldRefresh := b.cookie("my-app-auth"), b.cookie("my-refresh-token")
		f.clock.Advance(10 * time.Minute)

		r := b.do(http.MethodPost, server.RouteTokenRefresh, nil)
		require.Equal(t, http.StatusOK, r.status)
		require.NotEqual(t, oldAccess, b.cookie("my-app-auth"))
		require.NotEqual(t, oldRefresh, b.cookie("my-refresh-token"))

		me := b.do(http.MethodGet, server.RouteUser, nil)
		require.Equal(t, http.StatusOK, me.status)

		// A rotated refresh credential is single use.
		replay := f.browser(t)
		replay.setCookie("my-refresh-token", oldRefresh)
		r = replay.do(http.MethodPost, server.RouteTokenRefresh, nil)
		require.Equal(t, http.StatusUnauthorized, r.status)
	})

	t.Run("expired refresh clears the cookies", func(t *testing.T) {
		f := setupTestFixture(t)
		b := f.browser(t)
		b.login("alice", alicePassword)
		f.clock.Advance(25 * time.Hour)

		r := b.do(http.MethodPost, server.RouteTokenRefresh, nil)
		require.Equal(t, http.StatusUnauthorized, r.status)
		require.Empty(t, b.cookie("my-refresh-token"))
	})
}

func TestLogoutRevokesCredentials(t *testing.T) {
	f := setupTestFixture(t)
	b := f.browser(t)
	b.login("alice", alicePassword)
	access, refresh := b.cookie("my-app-auth"), b.cookie("my-refresh-token")

	r := b.do(http.MethodPost, server.RouteLogout, nil)
	require.Equal(t, http.StatusOK, r.status)
	require.Equal(t, "Successfully logged out.", r.body["detail"])
	require.Empty(t, b.cookie("my-app-auth"))

	stolen := f.browser(t)
	stolen.setCookie("my-app-auth", access)
	require.Equal(t, http.StatusUnauthorized, stolen.do(http.MethodGet, server.RouteUser, nil).status)

	stolen = f.browser(t)
	stolen.setCookie("my-refresh-token", refresh)
	require.Equal(t, http.StatusUnauthorized, stolen.do(http.MethodPost, server.RouteTokenRefresh, nil).status)

	anonymous := f.browser(t).do(http.MethodPost, server.RouteLogout, nil)
	require.Equal(t, http.StatusOK, anonymous.status)
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]string
		fields []string
	}{
		{name: "blank", body: map[string]string{}, fields: []string{"username", "password1", "password2"}},
		{name: "taken", body: map[string]string{"username": "alice", "password1": "lewiscarroll7", "password2": "lewiscarroll7"}, fields: []string{"username"}},
		{name: "mismatch", body: map[string]string{"username": "carol", "password1": "lewiscarroll7", "password2": "lewiscarroll8"}, fields: []string{"non_field_errors"}},
		{name: "numeric", body: map[string]string{"username": "carol", "password1": "12345678", "password2": "12345678"}, fields: []string{"password1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			r := f.browser(t).do(http.MethodPost, server.RouteRegistration, tt.body)
			require.Equal(t, http.StatusBadRequest, r.status)
			for _, field := range tt.fields {
				require.Contains(t, r.body, field)
			}
			require.Len(t, r.body, len(tt.fields))
		})
	}

	t.Run("success creates a profile and no session", func(t *testing.T) {
		f := setupTestFixture(t)
		b := f.browser(t)
		r := b.do(http.MethodPost, server.RouteRegistration, map[string]string{"username": "carol", "password1": "lewiscarroll7", "password2": "lewiscarroll7"})
		require.Equal(t, http.StatusCreated, r.status)
		require.Empty(t, b.cookie("my-app-auth"))

		id := int(r.body["user"].(map[string]any)["pk"].(float64))
		profile, err := f.sandbox.Content().GetProfile(id)
		require.NoError(t, err)
		require.Equal(t, "carol", profile.Owner)
	})
}

func TestPaginationLinks(t *testing.T) {
	f := setupTestFixture(t)
	for i := 0; i < 23; i++ {
		f.sandbox.Content().CreatePost(f.aliceID, "cats and more cats", "", "")
	}
	b := f.browser(t)

	first := b.do(http.MethodGet, server.RoutePosts+"?search=cats", nil)
	require.Equal(t, http.StatusOK, first.status)
	require.EqualValues(t, 23, first.body["count"])
	require.Nil(t, first.body["previous"])
	require.Len(t, first.body["results"], 10)

	next, ok := first.body["next"].(string)
	require.True(t, ok)
	u, err := url.Parse(next)
	require.NoError(t, err)
	require.True(t, u.IsAbs())
	require.Equal(t, "cats", u.Query().Get("search"))
	require.Equal(t, "2", u.Query().Get("page"))

	second := b.do(http.MethodGet, next, nil)
	require.Len(t, second.body["results"], 10)
	third := b.do(http.MethodGet, second.body["next"].(string), nil)
	require.Len(t, third.body["results"], 3)
	require.Nil(t, third.body["next"])

	prev, err := url.Parse(second.body["previous"].(string))
	require.NoError(t, err)
	require.False(t, prev.Query().Has("page"), "page one has no page param")

	require.Equal(t, http.StatusNotFound, b.do(http.MethodGet, server.RoutePosts+"?page=9", nil).status)

	empty := b.do(http.MethodGet, server.RoutePosts+"?search=dogs", nil)
	require.Equal(t, http.StatusOK, empty.status)
	require.Equal(t, `[]`, string(mustJSON(t, empty.body["results"])))
}

func TestInjectUnauthorized(t *testing.T) {
	f := setupTestFixture(t)
	b := f.browser(t)

	f.sandbox.InjectUnauthorized(server.RoutePosts, 2)
	require.Equal(t, 2, f.sandbox.PendingFaults(server.RoutePosts))

	require.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, server.RoutePosts, nil).status)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, server.RouteProfiles, nil).status, "other paths are unaffected")
	require.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, server.RoutePosts, nil).status)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, server.RoutePosts, nil).status)
	require.Zero(t, f.sandbox.PendingFaults(server.RoutePosts))

	f.sandbox.InjectUnauthorized(server.RoutePosts, 3)
	f.sandbox.InjectUnauthorized(server.RoutePosts, 0)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, server.RoutePosts, nil).status)
}

func TestOwnershipRules(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.sandbox.Seed(server.SeedUser{Username: "bob", Password: "builder4you"})
	require.NoError(t, err)
	alice, bob := f.browser(t), f.browser(t)
	alice.login("alice", alicePassword)
	bob.login("bob", "builder4you")

	created := alice.do(http.MethodPost, server.RoutePosts, map[string]string{"title": "hi"})
	require.Equal(t, http.StatusCreated, created.status)
	postPath := server.RoutePosts + jsonID(created) + "/"

	require.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, postPath, nil).status)
	require.Equal(t, http.StatusUnauthorized, f.browser(t).do(http.MethodPost, server.RoutePosts, map[string]string{"title": "x"}).status)

	like := bob.do(http.MethodPost, server.RouteLikes, map[string]any{"post": created.body["id"]})
	require.Equal(t, http.StatusCreated, like.status)
	dup := bob.do(http.MethodPost, server.RouteLikes, map[string]any{"post": created.body["id"]})
	require.Equal(t, http.StatusBadRequest, dup.status)

	self := alice.do(http.MethodPost, server.RouteFollowers, map[string]any{"followed": f.aliceID})
	require.Equal(t, http.StatusBadRequest, self.status)

	bookmark := bob.do(http.MethodPost, server.RouteBookmarks, map[string]any{"post": created.body["id"]})
	require.Equal(t, http.StatusCreated, bookmark.status)
	bookmarkPath := server.RouteBookmarks + jsonID(bookmark) + "/"
	require.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, bookmarkPath, nil).status)
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, bookmarkPath, nil).status)

	require.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, postPath, nil).status)
	require.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, bookmarkPath, nil).status, "deleting a post drops its bookmarks")
}

func TestCorsPreflight(t *testing.T) {
	f := setupTestFixture(t)
	b := f.browser(t)

	r := b.do(http.MethodOptions, server.RoutePosts, nil, "Origin", "http://localhost:3000", "Access-Control-Request-Method", "POST")
	require.Equal(t, http.StatusOK, r.status)
	require.Equal(t, "http://localhost:3000", r.header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", r.header.Get("Access-Control-Allow-Credentials"))

	r = b.do(http.MethodOptions, server.RoutePosts, nil, "Origin", "http://evil.example", "Access-Control-Request-Method", "POST")
	require.Equal(t, http.StatusOK, r.status)
	require.Empty(t, r.header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsCountRoutes(t *testing.T) {
	f := setupTestFixture(t)
	b := f.browser(t)
	b.do(http.MethodGet, server.RoutePosts, nil)
	b.do(http.MethodGet, server.RoutePosts+"12345/", nil)

	r := b.do(http.MethodGet, server.RouteMetrics, nil)
	require.Equal(t, http.StatusOK, r.status)
	text := string(r.raw)
	require.Contains(t, text, `social_sandbox_request_total{code="200",route="/posts/"} 1`)
	require.Contains(t, text, `social_sandbox_request_total{code="404",route="/posts/{id:[0-9]+}/"} 1`)
}

func jsonID(r reply) string {
	return strconv.Itoa(int(r.body["id"].(float64)))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestOrdering(t *testing.T) {
	f := setupTestFixture(t)
	ids, err := f.sandbox.Seed(server.SeedUser{Username: "bob", Password: "builder4you"}, server.SeedUser{Username: "carol", Password: "lewiscarroll7"})
	require.NoError(t, err)

	store := f.sandbox.Content()
	quiet := store.CreatePost(f.aliceID, "quiet", "", "")
	f.clock.Advance(time.Minute)
	popular := store.CreatePost(f.aliceID, "popular", "", "")
	f.clock.Advance(time.Minute)
	store.CreatePost(f.aliceID, "newest", "", "")
	for _, id := range ids {
		_, err := store.CreateLike(id, popular.ID)
		require.NoError(t, err)
	}
	_, err = store.CreateLike(ids[0], quiet.ID)
	require.NoError(t, err)

	titles := func(r reply) []string {
		var out []string
		for _, item := range r.body["results"].([]any) {
			out = append(out, item.(map[string]any)["title"].(string))
		}
		return out
	}
	b := f.browser(t)

	require.Equal(t, []string{"newest", "popular", "quiet"}, titles(b.do(http.MethodGet, server.RoutePosts, nil)))
	require.Equal(t, []string{"popular", "quiet", "newest"}, titles(b.do(http.MethodGet, server.RoutePosts+"?ordering=-likes_count", nil)))
	require.Equal(t, []string{"newest", "quiet", "popular"}, titles(b.do(http.MethodGet, server.RoutePosts+"?ordering=likes_count", nil)))
	require.Equal(t, []string{"newest", "popular", "quiet"}, titles(b.do(http.MethodGet, server.RoutePosts+"?ordering=bogus", nil)))
}
