// Copyright 2024 Google LLC
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			LogRotate: LogRotateLoggingConfig{MaxFileSizeMb: 512, BackupFileCount: 10},
		},
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	require.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfigRejectsBadLogRotate(t *testing.T) {
	c := validConfig()
	c.Logging.LogRotate.MaxFileSizeMb = 0

	err := ValidateConfig(c)

	require.Error(t, err)
	assert.ErrorContains(t, err, LogRotateMaxFileSizeError)
}

func TestValidateConfigRejectsNegativeMaxSizeGb(t *testing.T) {
	c := validConfig()
	negative := -1.0
	c.Cache.Global.MaxSizeGb = &negative

	err := ValidateConfig(c)

	require.Error(t, err)
	assert.ErrorContains(t, err, MaxSizeGbNegativeValueError)
}

func TestValidateConfigRejectsEmptyScopeName(t *testing.T) {
	c := validConfig()
	c.Cache.Scopes = map[string]ScopeCacheConfig{"": {}}

	err := ValidateConfig(c)

	require.Error(t, err)
	assert.ErrorContains(t, err, EmptyScopeNameError)
}
