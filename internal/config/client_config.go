package config

import (
	"strings"
	"time"
)

type Client struct {
	v *values
}

var _ ClientConfig = Client{}

// GetBaseURL returns the API root without a trailing slash (e.g. "https://api.example.com")
func (c Client) GetBaseURL() string {
	return strings.TrimRight(c.v.Client.BaseURL, "/")
}

func (c Client) GetTimeout() time.Duration {
	return c.v.Client.Timeout
}

// GetRefreshInterval is how long a successful credential refresh stays fresh.
// Zero refreshes before every request.
func (c Client) GetRefreshInterval() time.Duration {
	if c.v.Client.RefreshInterval < 0 {
		return 0
	}
	return c.v.Client.RefreshInterval
}

func (c Client) GetDebounceDelay() time.Duration {
	return c.v.Client.DebounceDelay
}

// GetRequestsPerSecond returns the outgoing request budget; zero means unlimited.
func (c Client) GetRequestsPerSecond() float64 {
	return c.v.Client.RequestsPerSecond
}

func (c Client) GetCookieFile() string {
	return c.v.Client.CookieFile
}

func (c Client) GetPageLimit() int {
	if c.v.Client.PageLimit < 1 {
		return 1
	}
	return c.v.Client.PageLimit
}

type Endpoints struct {
	v *values
}

var _ EndpointConfig = Endpoints{}

func (e Endpoints) GetUserPath() string {
	return e.v.Endpoints.User
}

func (e Endpoints) GetLoginPath() string {
	return e.v.Endpoints.Login
}

func (e Endpoints) GetLogoutPath() string {
	return e.v.Endpoints.Logout
}

func (e Endpoints) GetRegistrationPath() string {
	return e.v.Endpoints.Registration
}

func (e Endpoints) GetRefreshPath() string {
	return e.v.Endpoints.Refresh
}
