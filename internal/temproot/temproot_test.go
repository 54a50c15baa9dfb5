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

package temproot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/internal/pathops"
)

// reset clears the process-wide singleton between test cases; production
// code never calls this, Resolve is meant to run once per process.
func reset() {
	once = sync.Once{}
	resolved = Root{}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{cfg.EnvParentRoot, cfg.EnvTempDir, cfg.EnvPipelineTmpDir} {
		t.Setenv(name, "")
	}
}

func TestResolveAdoptsParentHintAsNonOwner(t *testing.T) {
	reset()
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(cfg.EnvParentRoot, dir)

	root := Resolve()
	assert.Equal(t, dir, root.Path)
	assert.False(t, root.IsOwner)
}

func TestResolveRecreatesAndTakesOwnershipOfMissingParentHint(t *testing.T) {
	reset()
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "already-torn-down")
	t.Setenv(cfg.EnvParentRoot, missing)

	root := Resolve()
	assert.Equal(t, missing, root.Path)
	assert.True(t, root.IsOwner, "an orphaned parent hint must be recreated and owned, not silently trusted")
	assert.True(t, pathops.Exists(root.Path))
}

func TestResolveCreatesAndOwnsFromTempDirEnv(t *testing.T) {
	reset()
	clearEnv(t)
	base := t.TempDir()
	t.Setenv(cfg.EnvTempDir, base)

	root := Resolve()
	assert.True(t, root.IsOwner)
	assert.Equal(t, filepath.Join(base, cfg.DefaultCacheSubdirName), root.Path)
	assert.True(t, pathops.Exists(root.Path))
	assert.Equal(t, root.Path, os.Getenv(cfg.EnvParentRoot), "owner must export the parent-hint var")
}

func TestResolveTakesFirstOfColonSeparatedList(t *testing.T) {
	reset()
	clearEnv(t)
	base := t.TempDir()
	t.Setenv(cfg.EnvPipelineTmpDir, base+":/some/other/path")

	root := Resolve()
	assert.Equal(t, filepath.Join(base, cfg.DefaultCacheSubdirName), root.Path)
}

func TestResolveTempDirEnvTakesPriorityOverPipelineEnv(t *testing.T) {
	reset()
	clearEnv(t)
	preferred := t.TempDir()
	other := t.TempDir()
	t.Setenv(cfg.EnvTempDir, preferred)
	t.Setenv(cfg.EnvPipelineTmpDir, other)

	root := Resolve()
	assert.Equal(t, filepath.Join(preferred, cfg.DefaultCacheSubdirName), root.Path)
}

func TestResolveIsNonOwnerWhenDirectoryAlreadyExists(t *testing.T) {
	reset()
	clearEnv(t)
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, cfg.DefaultCacheSubdirName), 0o755))
	t.Setenv(cfg.EnvTempDir, base)

	root := Resolve()
	assert.False(t, root.IsOwner)
}

func TestResolveCachesAcrossCalls(t *testing.T) {
	reset()
	clearEnv(t)
	t.Setenv(cfg.EnvTempDir, t.TempDir())

	first := Resolve()
	t.Setenv(cfg.EnvTempDir, t.TempDir())
	second := Resolve()

	assert.Equal(t, first, second)
}

func TestTeardownRemovesOnlyWhenOwner(t *testing.T) {
	owner := Root{Path: t.TempDir(), IsOwner: true}
	require.NoError(t, owner.Teardown()(context.Background()))
	assert.False(t, pathops.Exists(owner.Path))

	nonOwnerDir := t.TempDir()
	nonOwner := Root{Path: nonOwnerDir, IsOwner: false}
	require.NoError(t, nonOwner.Teardown()(context.Background()))
	assert.True(t, pathops.Exists(nonOwnerDir))
}

func TestWriteManifestWritesSetVarsOnly(t *testing.T) {
	t.Setenv("BAKECACHE_RENDERER_VERSION", "24.3")
	t.Setenv("BAKECACHE_UNSET_FOR_MANIFEST_TEST", "")

	root := Root{Path: t.TempDir(), IsOwner: true}
	require.NoError(t, WriteManifest(root, []string{"BAKECACHE_RENDERER_VERSION", "BAKECACHE_UNSET_FOR_MANIFEST_TEST"}))

	data, err := os.ReadFile(filepath.Join(root.Path, "bakecache_versions.txt"))
	require.NoError(t, err)
	assert.Equal(t, "BAKECACHE_RENDERER_VERSION=24.3\n", string(data))
}

func TestWriteManifestIsNoOpIfAlreadyPresent(t *testing.T) {
	root := Root{Path: t.TempDir(), IsOwner: true}
	manifestPath := filepath.Join(root.Path, "bakecache_versions.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("original"), 0o644))

	require.NoError(t, WriteManifest(root, []string{"BAKECACHE_RENDERER_VERSION"}))

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}
