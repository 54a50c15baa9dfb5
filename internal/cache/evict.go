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

// evict is serialized by evictMu so only one evictor runs at a time; other
// callers of Get proceed without blocking on it. It runs an LRU pass
// targeting 75% of the configured budget, then (only if that wasn't
// enough) a random pass as a fallback for when too many tail entries are
// still in flight to be size-accounted.
func (c *Instance[K, M, V]) evict() {
	if !c.evictMu.TryLock() {
		return // another evictor is running; don't wait for it.
	}
	defer c.evictMu.Unlock()

	// maxBytes == 0 is a literal zero-byte cap, not "unbounded": per
	// SPEC_FULL.md section 8's boundary behaviour it disables memory
	// residency in practice, evicting on every insert.
	c.mu.Lock()
	stillOver := c.currentSize >= c.maxBytes
	c.mu.Unlock()
	if !stillOver {
		return // another evictor already brought this under budget.
	}

	target := uint64(float64(c.maxBytes) * 0.75)
	c.lruPass(target)

	c.mu.Lock()
	stillOver = c.currentSize >= c.maxBytes
	c.mu.Unlock()
	if stillOver {
		c.randomPass(target)
	}
}

// lruPass walks the LRU list from the tail (least-recently-used) toward
// the head exactly once, removing ready entries until size reaches target.
// Entries whose future is not yet resolved are skipped, not revisited: the
// pass is bounded regardless of how many in-flight entries it encounters.
func (c *Instance[K, M, V]) lruPass(target uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.lru.Back(); e != nil && c.currentSize > target; {
		prev := e.Prev()
		fp := e.Value.(uint64)

		if s, ok := c.entries[fp]; ok && s.future.isReady() {
			c.currentSize -= s.future.val.size
			delete(c.entries, fp)
			c.lru.Remove(e)
		}
		e = prev
	}
}

// randomPass makes one pass over the live entries map removing ready
// entries until size reaches target. Go's map iteration order is
// randomized per run, which gives this the same "uniform over the current
// table" property the source achieves with an explicit random index,
// without needing a separate RNG.
func (c *Instance[K, M, V]) randomPass(target uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for fp, s := range c.entries {
		if c.currentSize <= target {
			return
		}
		if !s.future.isReady() {
			continue
		}
		c.currentSize -= s.future.val.size
		delete(c.entries, fp)
		c.lru.Remove(s.elem)
	}
}
