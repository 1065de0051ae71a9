package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix for environment overrides.
// Nested keys are separated by a double underscore:
// SOCIAL_CLIENT__BASE_URL -> client.base_url
const EnvPrefix = "SOCIAL_"

// Load builds a Config from defaults, an optional YAML file and the environment,
// in increasing order of priority.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults := defaultValues()
	if err := k.Load(mapProvider(defaults.asMap()), nil); err != nil {
		return nil, errors.Wrap(err, "[config.Load] defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "[config.Load] file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "[config.Load] env")
	}

	var v values
	if err := k.Unmarshal("", &v); err != nil {
		return nil, errors.Wrap(err, "[config.Load] unmarshal")
	}

	return mainConfig{
		EnvVars:   EnvVars{v: &v},
		Client:    Client{v: &v},
		Endpoints: Endpoints{v: &v},
		Sandbox:   Sandbox{v: &v},
		Cors:      Cors{v: &v},
	}, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// mapProvider is a koanf provider over an in-memory nested map.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("mapProvider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
