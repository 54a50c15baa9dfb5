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

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bakecache/bakecache/cfg"
)

func TestEnvironmentIsStableForSameValues(t *testing.T) {
	t.Setenv("BAKECACHE_RENDERER_VERSION", "24.3")
	t.Setenv("BAKECACHE_USD_VERSION", "23.11")

	vars := []string{"BAKECACHE_RENDERER_VERSION", "BAKECACHE_USD_VERSION"}
	a := Environment(vars)
	b := Environment(vars)
	assert.Equal(t, a, b)
}

func TestEnvironmentChangesWithValue(t *testing.T) {
	vars := []string{"BAKECACHE_RENDERER_VERSION"}

	t.Setenv("BAKECACHE_RENDERER_VERSION", "24.3")
	a := Environment(vars)

	t.Setenv("BAKECACHE_RENDERER_VERSION", "24.4")
	b := Environment(vars)

	assert.NotEqual(t, a, b)
}

func TestEnvironmentSkipsEmptyVars(t *testing.T) {
	t.Setenv("BAKECACHE_RENDERER_VERSION", "")
	t.Setenv("BAKECACHE_UNSET_VAR_FOR_TEST", "")

	vars := []string{"BAKECACHE_RENDERER_VERSION", "BAKECACHE_UNSET_VAR_FOR_TEST"}
	assert.Equal(t, Environment(nil), Environment(vars))
}

func TestResolvedVersionVarsDefaultsWhenUnset(t *testing.T) {
	t.Setenv(cfg.EnvVersionVarsList, "")
	assert.Equal(t, cfg.DefaultEnvVersionVars, ResolvedVersionVars())
}

func TestResolvedVersionVarsParsesCommaList(t *testing.T) {
	t.Setenv(cfg.EnvVersionVarsList, "FOO_VERSION, BAR_VERSION ,BAZ_VERSION")
	assert.Equal(t, []string{"FOO_VERSION", "BAR_VERSION", "BAZ_VERSION"}, ResolvedVersionVars())
}

func TestKeyAndStringHashesAgree(t *testing.T) {
	assert.Equal(t, Key([]byte("hello")), String("hello"))
}

func TestKeyHashIsDeterministic(t *testing.T) {
	assert.Equal(t, Key([]byte("same")), Key([]byte("same")))
	assert.NotEqual(t, Key([]byte("a")), Key([]byte("b")))
}
