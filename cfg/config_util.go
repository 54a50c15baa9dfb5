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

// ResolvedCacheConfig is the effective, fully-resolved configuration for one
// scope: every pointer field of CommonCacheSettings has been dereferenced,
// falling back to the global value and then to the package defaults.
type ResolvedCacheConfig struct {
	Enabled bool

	MemoryEnabled bool

	DiskEnabled bool

	Regenerate bool

	DebugMessages bool

	IsPermanent bool

	MaxSizeGb float64

	PermanentCacheLoc string

	TemporaryCacheLoc string

	EnableEviction bool
}

// firstBool returns the first non-nil value in the chain (scope before
// global), or def if none is set.
func firstBool(def bool, values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}

func firstFloat64(def float64, values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}

func firstString(def string, values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}

// Resolve computes the effective cache configuration for a scope: scope
// settings override global ones, per SPEC_FULL.md section 4.6's "local
// scope overrides global" rule. An unknown scope resolves to the global
// defaults alone.
func Resolve(c *Config, scope string) ResolvedCacheConfig {
	g := c.Cache.Global.CommonCacheSettings
	s, ok := c.Cache.Scopes[scope]
	if !ok {
		s = ScopeCacheConfig{}
	}

	return ResolvedCacheConfig{
		Enabled:           firstBool(DefaultEnabled, s.Enabled, g.Enabled),
		MemoryEnabled:     firstBool(DefaultMemoryEnabled, s.MemoryEnabled, g.MemoryEnabled),
		DiskEnabled:       firstBool(DefaultDiskEnabled, s.DiskEnabled, g.DiskEnabled),
		Regenerate:        firstBool(false, s.Regenerate, g.Regenerate),
		DebugMessages:     firstBool(false, s.DebugMessages, g.DebugMessages),
		IsPermanent:       resolveIsPermanent(c.Cache.Global, s, ok),
		MaxSizeGb:         firstFloat64(DefaultMaxSizeGB, s.MaxSizeGb, g.MaxSizeGb),
		PermanentCacheLoc: firstString("", s.PermanentCacheLoc, g.PermanentCacheLoc),
		TemporaryCacheLoc: firstString("", s.TemporaryCacheLoc, g.TemporaryCacheLoc),
		EnableEviction:    firstBool(DefaultEnableEviction, s.EnableEviction, g.EnableEviction),
	}
}

// resolveIsPermanent applies the global force-permanent/force-temporary
// override ahead of the per-scope setting. A scope absent from the config's
// Scopes map still must honor a global force flag (SPEC_FULL.md section 4.6)
// rather than silently defaulting to temporary; Rationalize's scope-map
// mutation only covers scopes declared up front, so the global flags are
// re-checked here for any scope, declared or not.
func resolveIsPermanent(g GlobalCacheConfig, s ScopeCacheConfig, declared bool) bool {
	if g.ForcePermanent {
		return true
	}
	if g.ForceTemporary {
		return false
	}
	return declared && s.IsPermanent
}

// MaxSizeBytes converts the configured GiB budget to a byte count.
func (r ResolvedCacheConfig) MaxSizeBytes() uint64 {
	if r.MaxSizeGb <= 0 {
		return 0
	}
	return uint64(r.MaxSizeGb * (1 << 30))
}
