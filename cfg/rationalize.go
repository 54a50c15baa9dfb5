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

// Rationalize updates config fields based on the values of other fields,
// after parsing and before any CacheInstance is built.
//
// force-permanent beats force-temporary (SPEC_FULL.md section 7,
// "Configuration inconsistency"): if both are set, every scope's
// is-permanent is pinned to true.
func Rationalize(c *Config) error {
	if c.Cache.Global.ForcePermanent {
		for name, scope := range c.Cache.Scopes {
			scope.IsPermanent = true
			c.Cache.Scopes[name] = scope
		}
	} else if c.Cache.Global.ForceTemporary {
		for name, scope := range c.Cache.Scopes {
			scope.IsPermanent = false
			c.Cache.Scopes[name] = scope
		}
	}

	if c.Cache.Global.DebugMessages != nil && *c.Cache.Global.DebugMessages {
		c.Logging.Severity = TraceLogSeverity
	}

	return nil
}
