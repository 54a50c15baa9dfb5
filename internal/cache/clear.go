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
	"container/list"

	"github.com/bakecache/bakecache/internal/logger"
	"github.com/bakecache/bakecache/internal/pathops"
)

// Clear drops the memory table and/or disk tree named by action. MEMORY
// and any DISK_* member may be combined; the DISK_* members are mutually
// preferential, so only the most specific one present is acted on: entry
// files, then the scope directory, then the whole top-level cache
// directory. Administrative toggles are not meant to race with Get.
func (c *Instance[K, M, V]) Clear(action ClearAction) {
	if action&Memory != 0 {
		c.mu.Lock()
		c.entries = make(map[uint64]*slot[V])
		c.lru = list.New()
		c.currentSize = 0
		c.mu.Unlock()
	}

	if c.diskScopePath == "" {
		return // disk tier was never initialized; nothing on disk to clear.
	}

	switch {
	case action&DiskContents != 0:
		if err := pathops.RecursiveRemove(c.diskScopePath); err != nil {
			logger.Warnf("bakecache: %s: clear disk contents failed: %v", c.scope, err)
		}
		if err := pathops.RecursiveMkdir(c.diskScopePath); err != nil {
			logger.Warnf("bakecache: %s: recreate scope dir failed: %v", c.scope, err)
		}
	case action&DiskScopeDir != 0:
		if err := pathops.RecursiveRemove(c.diskScopePath); err != nil {
			logger.Warnf("bakecache: %s: clear scope dir failed: %v", c.scope, err)
		}
	case action&DiskTopDir != 0:
		if err := pathops.RecursiveRemove(c.diskRootPath); err != nil {
			logger.Warnf("bakecache: %s: clear top dir failed: %v", c.scope, err)
		}
	}
}

// EnableMemory re-enables the in-memory tier.
func (c *Instance[K, M, V]) EnableMemory() { c.memEnabled.Store(true) }

// DisableMemory disables the in-memory tier; existing entries are left in
// place but Get stops populating or consulting the table.
func (c *Instance[K, M, V]) DisableMemory() { c.memEnabled.Store(false) }

// EnableDisk re-enables the disk tier.
func (c *Instance[K, M, V]) EnableDisk() { c.diskEnabled.Store(true) }

// DisableDisk disables the disk tier for subsequent Get and CacheToDisk
// calls.
func (c *Instance[K, M, V]) DisableDisk() { c.diskEnabled.Store(false) }

// InMemoryEntryCount returns the number of entries currently held in the
// memory tier, ready or in flight. Used by the registry's aggregate
// queries.
func (c *Instance[K, M, V]) InMemoryEntryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InMemoryBytes returns the accounted size of all resolved entries
// currently held in the memory tier.
func (c *Instance[K, M, V]) InMemoryBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentSize
}
