package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
)

// DefaultConfigPath is loaded when present. Kong expands the leading ~.
const DefaultConfigPath = "~/.config/jivetrim/config.toml"

// TOMLLoader is a kong.ConfigurationLoader for TOML files. Top-level keys are
// matched against flag names, with underscores accepted in place of dashes:
//
//	algorithm    = "peak"
//	threshold_db = -60
//	padding      = 64
//	trim_end     = false
func TOMLLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Normalise keys so either spelling resolves
	normalised := make(map[string]any, len(values))
	for k, v := range values {
		normalised[strings.ReplaceAll(k, "_", "-")] = v
	}

	return kong.ResolverFunc(func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := normalised[flag.Name]
		if !ok {
			return nil, nil
		}

		switch v.(type) {
		case map[string]any, []any, []map[string]any:
			return nil, fmt.Errorf("config key %q: expected a scalar value", flag.Name)
		}
		// Kong's mappers parse strings for every scalar flag type
		return fmt.Sprint(v), nil
	}), nil
}
