package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-social-client/token"
)

const (
	// accessCookieName carries the short-lived access credential
	accessCookieName = "my-app-auth"
	// refreshCookieName carries the refresh credential
	refreshCookieName = "my-refresh-token"
)

func (s *Server) setAuthCookies(w http.ResponseWriter, r *http.Request, pair token.Pair) {
	s.setCookie(w, r, accessCookieName, pair.Access, pair.AccessExpiry)
	s.setCookie(w, r, refreshCookieName, pair.Refresh, pair.RefreshExpiry)
}

func (s *Server) setCookie(w http.ResponseWriter, r *http.Request, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		MaxAge:   int(expires.Sub(s.now()).Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
