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
	"time"

	"github.com/bakecache/bakecache/internal/logger"
	"github.com/bakecache/bakecache/internal/pathops"
)

// Get returns a value equivalent to Produce(key, meta). The producer runs
// at most once across all concurrent callers of the same key within this
// process. Get never returns a half-constructed value; if production
// fails, it returns the zero value of V and does not cache it.
func (c *Instance[K, M, V]) Get(key K, meta M) V {
	start := time.Now()
	defer func() { c.stats.UpdateGetValTimer(uint64(time.Since(start).Nanoseconds())) }()

	c.ensureInit()
	fp := c.hashKey(key)

	if !c.memEnabled.Load() {
		return c.resolve(key, meta, fp, nil).value
	}

	c.mu.Lock()
	if s, ok := c.entries[fp]; ok {
		c.lru.MoveToFront(s.elem)
		c.mu.Unlock()
		c.stats.MemoryHit()
		return s.future.get().value
	}

	c.stats.MemoryMiss()
	fut := newFuture[V]()
	s := &slot[V]{future: fut}
	s.elem = c.lru.PushFront(fp)
	c.entries[fp] = s
	c.mu.Unlock()

	return c.resolve(key, meta, fp, fut).value
}

// resolve runs the disk-probe-then-produce algorithm for a fingerprint this
// caller owns (fut != nil) or for a memory-disabled lookup (fut == nil, no
// single-flight state, no LRU residency).
func (c *Instance[K, M, V]) resolve(key K, meta M, fp uint64, fut *future[V]) entry[V] {
	var diskPath string
	if c.diskEnabled.Load() {
		diskPath = c.entryPath(fp)
		c.evictStaleIfRegenerate(diskPath)

		readStart := time.Now()
		data, ok := c.diskIO.Read(diskPath)
		if ok {
			c.stats.UpdateDiskReadPerf(uint64(len(data)), uint64(time.Since(readStart).Nanoseconds()))
			if e, ok := c.decodeEntry(data); ok {
				c.stats.DiskHit()
				c.publish(fp, fut, e)
				return e
			}
			c.stats.DiskMiss()
		} else {
			c.stats.DiskMiss()
		}
	}

	e, valid := c.produceEntry(key, meta)
	if !valid {
		c.publishInvalid(fp, fut)
		return entry[V]{}
	}

	c.publish(fp, fut, e)

	if c.diskEnabled.Load() {
		c.writeEntry(diskPath, e)
	}
	return e
}

// decodeEntry decodes raw disk bytes via the configured codec. A missing
// codec or a decode/validity failure is treated as a miss.
func (c *Instance[K, M, V]) decodeEntry(data []byte) (entry[V], bool) {
	if c.codec == nil {
		return entry[V]{}, false
	}
	v, err := c.codec.Decode(data)
	if err != nil {
		logger.Warnf("bakecache: %s: disk decode failed, falling through to producer: %v", c.scope, err)
		return entry[V]{}, false
	}
	if !c.isValid(v) {
		logger.Warnf("bakecache: %s: disk entry failed validity check, falling through to producer", c.scope)
		return entry[V]{}, false
	}
	return entry[V]{value: v, size: c.sizeOf(v)}, true
}

// evictStaleIfRegenerate removes the on-disk entry if regenerate is set and
// it was last modified before this process started.
func (c *Instance[K, M, V]) evictStaleIfRegenerate(diskPath string) {
	if !c.cfg.Regenerate {
		return
	}
	mtime, err := pathops.ModTimeNanos(diskPath)
	if err != nil {
		return // file doesn't exist; nothing to evict.
	}
	if mtime < pathops.ProcessStartTime().UnixNano() {
		os.Remove(diskPath)
	}
}

// produceEntry runs the producer, recovering from a panic the same way the
// source recovers from a thrown exception: the caller observes an invalid
// result and the failure is logged, but the panic never crosses Get's
// boundary.
func (c *Instance[K, M, V]) produceEntry(key K, meta M) (e entry[V], valid bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("bakecache: %s: producer panicked: %v", c.scope, r)
			valid = false
		}
	}()

	start := time.Now()
	v := c.produce(key, meta)
	elapsed := time.Since(start)

	if !c.isValid(v) {
		logger.Warnf("bakecache: %s: producer returned an invalid value", c.scope)
		return entry[V]{}, false
	}

	size := c.sizeOf(v)
	c.stats.UpdateValueCreationPerf(size, uint64(elapsed.Nanoseconds()))
	return entry[V]{value: v, size: size}, true
}

func (c *Instance[K, M, V]) writeEntry(diskPath string, e entry[V]) {
	if c.codec == nil {
		return
	}
	data, err := c.codec.Encode(e.value)
	if err != nil {
		logger.Warnf("bakecache: %s: disk encode failed: %v", c.scope, err)
		return
	}

	start := time.Now()
	if !c.diskIO.Write(data, diskPath) {
		logger.Warnf("bakecache: %s: disk write failed for %s", c.scope, diskPath)
		return
	}
	c.stats.UpdateDiskWritePerf(uint64(len(data)), uint64(time.Since(start).Nanoseconds()))
}

// publish resolves fut (if this caller owns one) and accounts its size
// against the memory budget, triggering eviction if the budget is now
// exceeded. A nil fut means the memory tier is disabled; there is no slot
// to resolve or account.
func (c *Instance[K, M, V]) publish(fp uint64, fut *future[V], e entry[V]) {
	if fut == nil {
		return
	}
	fut.set(e)

	c.mu.Lock()
	c.currentSize += e.size
	// maxBytes == 0 is a literal zero-byte cap (see evict.go), so this must
	// not special-case it as "no budget configured".
	over := c.currentSize >= c.maxBytes
	c.mu.Unlock()

	if over && c.cfg.EnableEviction {
		c.evict()
	}
}

// publishInvalid resolves fut to the zero-value sentinel and removes the
// optimistically-inserted slot, so the next caller retries production
// instead of being permanently stuck with a failed entry.
func (c *Instance[K, M, V]) publishInvalid(fp uint64, fut *future[V]) {
	if fut == nil {
		return
	}
	fut.set(entry[V]{})

	c.mu.Lock()
	if s, ok := c.entries[fp]; ok && s.future == fut {
		delete(c.entries, fp)
		c.lru.Remove(s.elem)
	}
	c.mu.Unlock()
}
