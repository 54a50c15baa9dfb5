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

// Package temproot resolves and owns the process-wide root directory the
// temporary (non-permanent) half of the cache lives under.
package temproot

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/common"
	"github.com/bakecache/bakecache/internal/logger"
	"github.com/bakecache/bakecache/internal/pathops"
)

// DefaultPath is used when none of the resolution environment variables are
// set.
const DefaultPath = "/usr/render_tmp/" + cfg.DefaultCacheSubdirName

// Root is a resolved temp-root directory and whether this process created
// (and therefore owns) it.
type Root struct {
	Path    string
	IsOwner bool
}

var (
	once     sync.Once
	resolved Root
)

// Resolve returns the process-wide temp root, computing it once per process
// the first time it's called. The resolution order is:
//  1. cfg.EnvParentRoot — inherited from a parent process; adopting this
//     marks the instance a non-owner.
//  2. cfg.EnvTempDir — preferred temp directory, first of a ':'-separated
//     list.
//  3. cfg.EnvPipelineTmpDir — pipeline-supplied temp directory, same
//     ':'-list convention.
//  4. DefaultPath.
//
// If the resolved path doesn't exist and this call creates it, the caller
// becomes the owner and the path is exported via cfg.EnvParentRoot so that
// child processes adopt the same root.
func Resolve() Root {
	once.Do(func() {
		resolved = resolveOnce()
	})
	return resolved
}

func resolveOnce() Root {
	if parent := os.Getenv(cfg.EnvParentRoot); parent != "" {
		if pathops.Exists(parent) {
			logger.Debugf("temproot: adopting parent-supplied root %s", parent)
			return Root{Path: parent, IsOwner: false}
		}
		// Orphan parent hint: the process that exported it has already torn
		// its root down. Recreate it and take ownership rather than treating
		// a missing directory as valid.
		logger.Warnf("temproot: parent-supplied root %s no longer exists, recreating", parent)
		return createAndOwn(parent)
	}

	path, fromEnv := firstOf(os.Getenv(cfg.EnvTempDir), os.Getenv(cfg.EnvPipelineTmpDir))
	if !fromEnv {
		path = DefaultPath
	}
	path = strings.TrimSuffix(path, "/") + "/" + cfg.DefaultCacheSubdirName

	if pathops.Exists(path) {
		return Root{Path: path, IsOwner: false}
	}

	return createAndOwn(path)
}

// createAndOwn creates path and, on success, exports it via
// cfg.EnvParentRoot so child processes adopt the same root.
func createAndOwn(path string) Root {
	if err := pathops.RecursiveMkdir(path); err != nil {
		logger.Warnf("temproot: failed to create %s: %v", path, err)
		return Root{Path: path, IsOwner: false}
	}

	if err := os.Setenv(cfg.EnvParentRoot, path); err != nil {
		logger.Warnf("temproot: failed to export %s: %v", cfg.EnvParentRoot, err)
	}
	return Root{Path: path, IsOwner: true}
}

// firstOf returns the first non-empty candidate, split on ':' and keeping
// only the first element, and whether any candidate was non-empty.
func firstOf(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		return strings.SplitN(c, ":", 2)[0], true
	}
	return "", false
}

// WriteManifest writes a human-readable, one-line-per-variable record of
// the environment fingerprint's inputs to bakecache_versions.txt inside
// root.Path. It is a no-op if the manifest already exists.
func WriteManifest(root Root, versionVars []string) error {
	manifestPath := strings.TrimSuffix(root.Path, "/") + "/bakecache_versions.txt"
	if pathops.Exists(manifestPath) {
		return nil
	}

	var sb strings.Builder
	for _, name := range versionVars {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s=%s\n", name, val)
	}
	return pathops.PublishAtomic(manifestPath, []byte(sb.String()))
}

// Teardown returns a shutdown function that removes the resolved root tree,
// but only if this process owns it. Non-owners return a no-op so that
// tearing down a short-lived child process never deletes a root a longer-
// lived parent or sibling is still using.
func (r Root) Teardown() common.ShutdownFn {
	return func(_ context.Context) error {
		if !r.IsOwner {
			return nil
		}
		return pathops.RecursiveRemove(r.Path)
	}
}
