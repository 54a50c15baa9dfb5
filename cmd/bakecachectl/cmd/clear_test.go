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

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakecache/bakecache/cfg"
)

func TestClearRequiresAtLeastOneTarget(t *testing.T) {
	clearMemory, clearDiskContents, clearDiskScopeDir, clearDiskTopDir = false, false, false, false
	clearCmd.SetArgs([]string{"some-scope"})

	err := clearCmd.RunE(clearCmd, []string{"some-scope"})

	assert.Error(t, err)
}

func TestAdminInstanceResolvesScopeUnderTempDir(t *testing.T) {
	Config = cfg.Config{}
	Config.Cache.Global.TemporaryCacheLoc = ptr(t.TempDir())

	inst := adminInstance("some-scope")

	require.NotEmpty(t, inst.DiskScopePath())
}

func ptr(s string) *string { return &s }
