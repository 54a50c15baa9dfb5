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

import "fmt"

const (
	MaxSizeGbNegativeValueError = "max-size-gb cannot be negative"
	EmptyScopeNameError         = "scope names cannot be empty"
	LogRotateMaxFileSizeError   = "max-file-size-mb should be at least 1"
	LogRotateBackupCountError   = "backup-file-count should be 0 (retain all) or a positive value"
)

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf(LogRotateMaxFileSizeError)
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf(LogRotateBackupCountError)
	}
	return nil
}

func isValidCommonCacheSettings(c *CommonCacheSettings) error {
	if c.MaxSizeGb != nil && *c.MaxSizeGb < 0 {
		return fmt.Errorf(MaxSizeGbNegativeValueError)
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is structurally
// invalid. It does not resolve cross-field precedence; see Rationalize.
func ValidateConfig(config *Config) error {
	if err := isValidLogRotateConfig(&config.Logging.LogRotate); err != nil {
		return fmt.Errorf("error parsing log-rotate config: %w", err)
	}

	if err := isValidCommonCacheSettings(&config.Cache.Global.CommonCacheSettings); err != nil {
		return fmt.Errorf("error parsing cache.global config: %w", err)
	}

	for name, scope := range config.Cache.Scopes {
		if name == "" {
			return fmt.Errorf(EmptyScopeNameError)
		}
		if err := isValidCommonCacheSettings(&scope.CommonCacheSettings); err != nil {
			return fmt.Errorf("error parsing cache.scopes[%s] config: %w", name, err)
		}
	}

	return nil
}
