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
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsRegistersExpectedFlags(t *testing.T) {
	viper.Reset()
	flagSet := pflag.NewFlagSet("bakecache", pflag.ContinueOnError)

	err := BindFlags(flagSet)

	require.NoError(t, err)
	for _, name := range []string{
		"app-name", "log-severity", "log-format", "log-file",
		"cache-max-size-gb", "cache-force-permanent", "cache-force-temporary",
	} {
		assert.NotNil(t, flagSet.Lookup(name), "expected flag %s to be registered", name)
	}
}

func TestBindFlagsAppliesDefaults(t *testing.T) {
	viper.Reset()
	flagSet := pflag.NewFlagSet("bakecache", pflag.ContinueOnError)

	require.NoError(t, BindFlags(flagSet))
	require.NoError(t, flagSet.Parse(nil))

	assert.Equal(t, INFO, viper.GetString("logging.severity"))
	assert.Equal(t, DefaultMaxSizeGB, viper.GetFloat64("cache.global.max-size-gb"))
	assert.False(t, viper.GetBool("cache.global.force-permanent"))
}
