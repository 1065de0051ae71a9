package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	EndpointConfig
	SandboxConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

type ClientConfig interface {
	GetBaseURL() string
	GetTimeout() time.Duration
	GetRefreshInterval() time.Duration
	GetDebounceDelay() time.Duration
	GetRequestsPerSecond() float64
	GetCookieFile() string
	GetPageLimit() int
}

type EndpointConfig interface {
	GetUserPath() string
	GetLoginPath() string
	GetLogoutPath() string
	GetRegistrationPath() string
	GetRefreshPath() string
}

type SandboxConfig interface {
	GetPort() string
	GetSigningSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetPageSize() int
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Client
	Endpoints
	Sandbox
	Cors
}

// New returns the built-in defaults overlaid with SOCIAL_* environment variables.
func New() Config {
	cfg, err := Load("")
	if err != nil {
		return defaultConfig()
	}
	return cfg
}

func defaultConfig() mainConfig {
	v := defaultValues()
	return mainConfig{
		EnvVars:   EnvVars{v: &v},
		Client:    Client{v: &v},
		Endpoints: Endpoints{v: &v},
		Sandbox:   Sandbox{v: &v},
		Cors:      Cors{v: &v},
	}
}
