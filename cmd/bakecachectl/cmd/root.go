// Copyright 2025 Google LLC
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

// Package cmd wires bakecachectl's cobra command tree to cfg's pflag/viper
// configuration surface, following the teacher's cmd/root.go pattern.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/internal/logger"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error
	unmarshalErr  error

	// Config is the fully-parsed configuration shared by every subcommand.
	Config cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "bakecachectl",
	Short: "Administrative CLI for the shared compute cache",
	Long: `bakecachectl inspects and manages the on-disk state of a shared
compute cache outside of the render processes that populate it: reporting
per-scope disk usage, clearing scopes, and benchmarking producer
throughput under a rate limit.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		if configFileErr != nil {
			return configFileErr
		}
		if unmarshalErr != nil {
			return unmarshalErr
		}
		if err := cfg.Rationalize(&Config); err != nil {
			return fmt.Errorf("rationalize config: %w", err)
		}
		if err := cfg.ValidateConfig(&Config); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		if err := logger.InitLogFile(Config.Logging); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	},
}

// Execute runs the command tree, printing any error to stderr and exiting
// non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
	applyUnboundDefaults()
}

// applyUnboundDefaults seeds viper keys BindFlags doesn't cover (log
// rotation, the memory/disk/eviction toggles) so that a bare invocation
// with no config file still rationalizes and validates cleanly.
func applyUnboundDefaults() {
	defaultLogging := cfg.GetDefaultLoggingConfig()
	viper.SetDefault("logging.log-rotate.max-file-size-mb", defaultLogging.LogRotate.MaxFileSizeMb)
	viper.SetDefault("logging.log-rotate.backup-file-count", defaultLogging.LogRotate.BackupFileCount)
	viper.SetDefault("logging.log-rotate.compress", defaultLogging.LogRotate.Compress)

	defaultGlobal := cfg.GetDefaultGlobalCacheConfig()
	viper.SetDefault("cache.global.memory-enabled", *defaultGlobal.MemoryEnabled)
	viper.SetDefault("cache.global.disk-enabled", *defaultGlobal.DiskEnabled)
	viper.SetDefault("cache.global.enable-eviction", *defaultGlobal.EnableEviction)
	viper.SetDefault("cache.global.enabled", *defaultGlobal.Enabled)
}

func initConfig() {
	if cfgFile == "" {
		unmarshalErr = viper.Unmarshal(&Config)
		return
	}
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		configFileErr = fmt.Errorf("read config file %s: %w", cfgFile, err)
		return
	}
	unmarshalErr = viper.Unmarshal(&Config)
}
