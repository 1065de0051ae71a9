package config

import (
	"fmt"
	"time"
)

type Sandbox struct {
	v *values
}

var _ SandboxConfig = Sandbox{}

func (s Sandbox) GetPort() string {
	port := s.v.Sandbox.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (s Sandbox) GetSigningSecret() string {
	return s.v.Sandbox.SigningSecret
}

func (s Sandbox) GetAccessTokenExpiry() time.Duration {
	return s.v.Sandbox.AccessTokenExpiry
}

func (s Sandbox) GetRefreshTokenExpiry() time.Duration {
	return s.v.Sandbox.RefreshTokenExpiry
}

func (s Sandbox) GetRefreshTokenLength() int {
	return s.v.Sandbox.RefreshTokenLength // bytes, hex encoded on the wire
}

func (s Sandbox) GetPageSize() int {
	if s.v.Sandbox.PageSize < 1 {
		return 10
	}
	return s.v.Sandbox.PageSize
}
