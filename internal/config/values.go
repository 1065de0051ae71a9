package config

import "time"

// values mirrors the configuration file layout.
type values struct {
	AppName string `koanf:"app_name"`
	Env     string `koanf:"env"`

	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`

	Client struct {
		BaseURL           string        `koanf:"base_url"`
		Timeout           time.Duration `koanf:"timeout"`
		RefreshInterval   time.Duration `koanf:"refresh_interval"`
		DebounceDelay     time.Duration `koanf:"debounce_delay"`
		RequestsPerSecond float64       `koanf:"requests_per_second"`
		CookieFile        string        `koanf:"cookie_file"`
		PageLimit         int           `koanf:"page_limit"`
	} `koanf:"client"`

	Endpoints struct {
		User         string `koanf:"user"`
		Login        string `koanf:"login"`
		Logout       string `koanf:"logout"`
		Registration string `koanf:"registration"`
		Refresh      string `koanf:"refresh"`
	} `koanf:"endpoints"`

	Sandbox struct {
		Port               string        `koanf:"port"`
		SigningSecret      string        `koanf:"signing_secret"`
		AccessTokenExpiry  time.Duration `koanf:"access_token_expiry"`
		RefreshTokenExpiry time.Duration `koanf:"refresh_token_expiry"`
		RefreshTokenLength int           `koanf:"refresh_token_length"`
		PageSize           int           `koanf:"page_size"`
		AllowedOrigins     []string      `koanf:"allowed_origins"`
	} `koanf:"sandbox"`
}

func defaultValues() values {
	var v values
	v.AppName = "Social Client"
	v.Env = "DEV"
	v.Log.Level = "info"
	v.Log.Format = "console"

	v.Client.BaseURL = "http://localhost:8080"
	v.Client.Timeout = 30 * time.Second
	v.Client.DebounceDelay = 1000 * time.Millisecond
	v.Client.PageLimit = 1

	v.Endpoints.User = "/dj-rest-auth/user/"
	v.Endpoints.Login = "/dj-rest-auth/login/"
	v.Endpoints.Logout = "/dj-rest-auth/logout/"
	v.Endpoints.Registration = "/dj-rest-auth/registration/"
	v.Endpoints.Refresh = "/dj-rest-auth/token/refresh/"

	v.Sandbox.Port = "8080"
	v.Sandbox.SigningSecret = "sandbox-signing-secret"
	v.Sandbox.AccessTokenExpiry = 5 * time.Minute
	v.Sandbox.RefreshTokenExpiry = 24 * time.Hour
	v.Sandbox.RefreshTokenLength = 32
	v.Sandbox.PageSize = 10
	v.Sandbox.AllowedOrigins = []string{"http://localhost:3000"}
	return v
}

// asMap renders the defaults in the nested shape koanf merges.
func (v values) asMap() map[string]any {
	return map[string]any{
		"app_name": v.AppName,
		"env":      v.Env,
		"log": map[string]any{
			"level":  v.Log.Level,
			"format": v.Log.Format,
		},
		"client": map[string]any{
			"base_url":            v.Client.BaseURL,
			"timeout":             v.Client.Timeout.String(),
			"refresh_interval":    v.Client.RefreshInterval.String(),
			"debounce_delay":      v.Client.DebounceDelay.String(),
			"requests_per_second": v.Client.RequestsPerSecond,
			"cookie_file":         v.Client.CookieFile,
			"page_limit":          v.Client.PageLimit,
		},
		"endpoints": map[string]any{
			"user":         v.Endpoints.User,
			"login":        v.Endpoints.Login,
			"logout":       v.Endpoints.Logout,
			"registration": v.Endpoints.Registration,
			"refresh":      v.Endpoints.Refresh,
		},
		"sandbox": map[string]any{
			"port":                 v.Sandbox.Port,
			"signing_secret":       v.Sandbox.SigningSecret,
			"access_token_expiry":  v.Sandbox.AccessTokenExpiry.String(),
			"refresh_token_expiry": v.Sandbox.RefreshTokenExpiry.String(),
			"refresh_token_length": v.Sandbox.RefreshTokenLength,
			"page_size":            v.Sandbox.PageSize,
			"allowed_origins":      v.Sandbox.AllowedOrigins,
		},
	}
}
