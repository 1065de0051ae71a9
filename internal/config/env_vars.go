package config

import (
	"os"
	"strings"
)

type EnvVars struct {
	v *values
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.AppName
}

func (e EnvVars) GetEnv() string {
	if e.v.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.v.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.v.Log.Level
}

func (e EnvVars) GetLogFormat() string {
	return e.v.Log.Format
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
