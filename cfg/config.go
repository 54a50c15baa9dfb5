// Copyright 2024 Google Inc. All Rights Reserved.
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

package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the top-level configuration for a process hosting one or more
// cache scopes.
type Config struct {
	AppName string `yaml:"app-name" mapstructure:"app-name"`

	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

type LoggingConfig struct {
	Severity LogSeverity `yaml:"severity" mapstructure:"severity"`

	Format string `yaml:"format" mapstructure:"format"`

	FilePath string `yaml:"file-path" mapstructure:"file-path"`

	LogRotate LogRotateLoggingConfig `yaml:"log-rotate" mapstructure:"log-rotate"`
}

type LogRotateLoggingConfig struct {
	MaxFileSizeMb int `yaml:"max-file-size-mb" mapstructure:"max-file-size-mb"`

	BackupFileCount int `yaml:"backup-file-count" mapstructure:"backup-file-count"`

	Compress bool `yaml:"compress" mapstructure:"compress"`
}

// CommonCacheSettings holds the cache attributes that exist at both the
// global and the per-scope level. Pointer fields mean "inherit the parent
// level's value"; see Resolve in config_util.go.
type CommonCacheSettings struct {
	Enabled *bool `yaml:"enabled,omitempty" mapstructure:"enabled"`

	MemoryEnabled *bool `yaml:"memory-enabled,omitempty" mapstructure:"memory-enabled"`

	DiskEnabled *bool `yaml:"disk-enabled,omitempty" mapstructure:"disk-enabled"`

	Regenerate *bool `yaml:"regenerate,omitempty" mapstructure:"regenerate"`

	DebugMessages *bool `yaml:"debug-messages,omitempty" mapstructure:"debug-messages"`

	MaxSizeGb *float64 `yaml:"max-size-gb,omitempty" mapstructure:"max-size-gb"`

	PermanentCacheLoc *string `yaml:"permanent-cache-loc,omitempty" mapstructure:"permanent-cache-loc"`

	TemporaryCacheLoc *string `yaml:"temporary-cache-loc,omitempty" mapstructure:"temporary-cache-loc"`

	EnableEviction *bool `yaml:"enable-eviction,omitempty" mapstructure:"enable-eviction"`
}

// GlobalCacheConfig is the process-wide default. force-permanent and
// force-temporary are global-only per SPEC_FULL.md section 4.6.
type GlobalCacheConfig struct {
	CommonCacheSettings `yaml:",inline" mapstructure:",squash"`

	ForcePermanent bool `yaml:"force-permanent" mapstructure:"force-permanent"`

	ForceTemporary bool `yaml:"force-temporary" mapstructure:"force-temporary"`
}

// ScopeCacheConfig holds per-scope overrides. is-permanent is local-only per
// SPEC_FULL.md section 4.6.
type ScopeCacheConfig struct {
	CommonCacheSettings `yaml:",inline" mapstructure:",squash"`

	IsPermanent bool `yaml:"is-permanent" mapstructure:"is-permanent"`
}

// CacheConfig groups the global defaults with named per-scope overrides.
type CacheConfig struct {
	Global GlobalCacheConfig `yaml:"global" mapstructure:"global"`

	Scopes map[string]ScopeCacheConfig `yaml:"scopes" mapstructure:"scopes"`
}

// BindFlags wires the command-line surface of a cache host process to viper
// keys, following the teacher's pflag+viper pattern.
func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.StringP("app-name", "", "", "The application name reported in logs and the version manifest.")
	if err = viper.BindPFlag("app-name", flagSet.Lookup("app-name")); err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", INFO, "Logging severity: TRACE, DEBUG, INFO, WARNING, ERROR, OFF.")
	if err = viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "Logging output format: text or json.")
	if err = viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "Path to a log file. Empty means stderr.")
	if err = viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	flagSet.Float64P("cache-max-size-gb", "", DefaultMaxSizeGB, "Default in-memory residency budget, in GiB.")
	if err = viper.BindPFlag("cache.global.max-size-gb", flagSet.Lookup("cache-max-size-gb")); err != nil {
		return err
	}

	flagSet.BoolP("cache-force-permanent", "", false, "Force all scopes to use the permanent cache root.")
	if err = viper.BindPFlag("cache.global.force-permanent", flagSet.Lookup("cache-force-permanent")); err != nil {
		return err
	}

	flagSet.BoolP("cache-force-temporary", "", false, "Force all scopes to use the temporary cache root.")
	if err = viper.BindPFlag("cache.global.force-temporary", flagSet.Lookup("cache-force-temporary")); err != nil {
		return err
	}

	return nil
}
