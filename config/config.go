// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads snapdex settings from a YAML file and the
// environment. Environment variables use the SNAPDEX_ prefix and
// override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/poiesic/snapdex/core"
)

// Config holds the runtime settings.
type Config struct {
	// DataDir is the directory holding the catalog and the search index.
	DataDir string `mapstructure:"data_dir"`

	// DefaultLimit caps search results when a query does not set one.
	DefaultLimit int `mapstructure:"default_limit"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultDataDir returns the per-user data directory.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".snapdex"
	}
	return filepath.Join(base, "snapdex")
}

// Load reads configuration from the given file. An empty path falls
// back to snapdex.yaml in the default data directory; a missing file is
// not an error and yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("default_limit", core.DefaultSearchLimit)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SNAPDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("snapdex")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist; the default location
		// may be absent, in which case defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DefaultLimit < 1 {
		cfg.DefaultLimit = core.DefaultSearchLimit
	}
	return cfg, nil
}
