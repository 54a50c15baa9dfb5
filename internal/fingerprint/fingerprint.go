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

// Package fingerprint computes the 64-bit environment fingerprint that
// partitions cache entries on disk by installed software version, so two
// processes built against different library versions never share entries.
package fingerprint

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/bakecache/bakecache/cfg"
)

// ResolvedVersionVars returns the list of environment variable names whose
// values feed the environment fingerprint: the comma-separated list named
// by cfg.EnvVersionVarsList if set, otherwise cfg.DefaultEnvVersionVars.
func ResolvedVersionVars() []string {
	if raw := os.Getenv(cfg.EnvVersionVarsList); raw != "" {
		parts := strings.Split(raw, ",")
		vars := make([]string, 0, len(parts))
		for _, p := range parts {
			if name := strings.TrimSpace(p); name != "" {
				vars = append(vars, name)
			}
		}
		if len(vars) > 0 {
			return vars
		}
	}
	return cfg.DefaultEnvVersionVars
}

// Environment hashes the current values of the given environment variables
// (in the order given) into a single 64-bit fingerprint. Unset or empty
// variables are skipped, matching the source's getenv-and-skip-empty
// behaviour. The hash is stable across processes on the same machine as
// long as the variable values are unchanged, which is the property the
// on-disk partitioning scheme depends on.
func Environment(versionVars []string) uint64 {
	var sb strings.Builder
	for _, name := range versionVars {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		sb.WriteString(name)
		sb.WriteByte('-')
		sb.WriteString(val)
		sb.WriteByte('\n')
	}
	return xxhash.Sum64String(sb.String())
}

// Key hashes an arbitrary byte-serializable key into its 64-bit fingerprint.
// Callers that already have a domain-specific hash function for their key
// type should use that instead; this is the default for callers that don't.
func Key(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// String hashes a string key into its 64-bit fingerprint.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}
