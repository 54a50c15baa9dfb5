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
	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/internal/cache"
	"github.com/bakecache/bakecache/internal/fingerprint"
)

// adminInstance builds a throwaway cache.Instance bound to scope's resolved
// configuration, suitable only for Clear and the disk-layout queries this
// CLI needs — never for Get, since it carries no real producer. Building it
// through cache.New rather than duplicating disk-root resolution keeps
// bakecachectl's view of the layout identical to the render processes that
// actually populate it.
func adminInstance(scope string) *cache.Instance[string, struct{}, []byte] {
	inst := cache.New(cache.Config[string, struct{}, []byte]{
		Scope:    scope,
		Resolved: cfg.Resolve(&Config, scope),
		HashKey:  fingerprint.String,
		Produce: func(string, struct{}) []byte {
			panic("adminInstance: Produce must never be called from bakecachectl")
		},
		IsValid: func([]byte) bool { return true },
		SizeOf:  func(v []byte) uint64 { return uint64(len(v)) },
	})
	inst.EnsureInitialized()
	return inst
}
