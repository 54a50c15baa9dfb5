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
	"strconv"

	"github.com/bakecache/bakecache/internal/pathops"
)

// CacheToDisk eagerly produces and writes key's entry to disk if it is
// absent (or present but stale under regenerate), without ever populating
// the memory tier. Unlike Get, there is no persistent residency to
// single-flight against, so concurrent callers for the same key are
// deduplicated with golang.org/x/sync/singleflight: its forget-on-
// completion behaviour, unsuitable for Get's long-lived memory slots, is
// exactly right for this one-shot, no-residency path.
func (c *Instance[K, M, V]) CacheToDisk(key K, meta M) {
	c.ensureInit()
	if !c.diskEnabled.Load() || c.codec == nil {
		return
	}

	fp := c.hashKey(key)
	diskPath := c.entryPath(fp)
	c.evictStaleIfRegenerate(diskPath)

	if pathops.Exists(diskPath) {
		return
	}

	c.sfDisk.Do(strconv.FormatUint(fp, 10), func() (any, error) {
		if pathops.Exists(diskPath) {
			return nil, nil
		}
		e, valid := c.produceEntry(key, meta)
		if !valid {
			return nil, nil
		}
		c.writeEntry(diskPath, e)
		return nil, nil
	})
}
