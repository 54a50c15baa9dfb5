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

package cache

import (
	"os"

	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/internal/fingerprint"
	"github.com/bakecache/bakecache/internal/logger"
	"github.com/bakecache/bakecache/internal/pathops"
	"github.com/bakecache/bakecache/internal/temproot"
)

func mkdirAll(dir string) error {
	return pathops.RecursiveMkdir(dir)
}

// permDirFromEnv resolves the permanent-root hint when a scope asks for
// the permanent tier but names no explicit permanent_cache_loc.
func permDirFromEnv() string {
	if v := os.Getenv(cfg.EnvPermDir); v != "" {
		return v
	}
	return temproot.DefaultPath
}

// writeManifestNextToRoot writes the environment fingerprint's contributing
// variables as a human-readable manifest inside root, once per root.
func writeManifestNextToRoot(root string) error {
	return temproot.WriteManifest(temproot.Root{Path: root}, fingerprint.ResolvedVersionVars())
}

func logInitFailure(scope string, err error) {
	logger.Warnf("bakecache: %s: disk init failed, disk tier disabled for this instance: %v", scope, err)
}
