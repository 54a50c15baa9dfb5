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

// Package cache implements the shared compute cache's core engine: a
// single-flighted, two-tier (memory + disk) cache keyed by an
// application-supplied hash, generic over key, producer-metadata, and
// value types.
package cache

import (
	"container/list"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/internal/cacheaction"
	"github.com/bakecache/bakecache/internal/diskio"
	"github.com/bakecache/bakecache/internal/fingerprint"
	"github.com/bakecache/bakecache/internal/registry"
	"github.com/bakecache/bakecache/internal/stats"
	"github.com/bakecache/bakecache/internal/temproot"
)

// ClearAction is a bitset of cache::Clear targets. DISK_* members are
// mutually preferential: if more than one is set, only the most specific
// one set is acted on (contents, then scope dir, then top dir).
type ClearAction = cacheaction.ClearAction

const (
	Memory       = cacheaction.Memory
	DiskContents = cacheaction.DiskContents
	DiskScopeDir = cacheaction.DiskScopeDir
	DiskTopDir   = cacheaction.DiskTopDir
)

// Codec converts a value to and from its on-disk byte representation. An
// Instance with a nil Codec never stores values on disk or serves them from
// disk, regardless of the DiskEnabled setting.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Config is the full set of policy parameters one Instance is built from,
// mirroring the template parameters of the original C++ cache: a hash
// function over K, a producer, a validity predicate, and a size function,
// plus the injected I/O and observability dependencies.
type Config[K comparable, M any, V any] struct {
	// Scope names this instance within the registry and on disk.
	Scope string

	Resolved cfg.ResolvedCacheConfig

	// HashKey maps a lookup key to the 64-bit fingerprint used for the
	// in-memory table and the on-disk filename.
	HashKey func(K) uint64

	// Produce computes a value for a cache miss. It must be safe to call
	// from any goroutine; the cache guarantees at most one concurrent call
	// per key within this process.
	Produce func(K, M) V

	// IsValid reports whether a value produced or decoded from disk is
	// usable. A false result is treated as a producer/decode failure.
	IsValid func(V) bool

	// SizeOf reports a value's accounted size in bytes, for the in-memory
	// residency budget.
	SizeOf func(V) uint64

	// Codec serializes values for the disk tier. Leave nil to keep this
	// instance memory-only regardless of Resolved.DiskEnabled.
	Codec Codec[V]

	// DiskIO is the strategy used to read and write entry files. Defaults
	// to diskio.Buffered{} when nil and the disk tier is enabled.
	DiskIO diskio.Strategy

	// Stats collects hit/miss and throughput counters. Defaults to a fresh
	// stats.New() when nil.
	Stats *stats.Stats

	// EnvFingerprint overrides the environment fingerprint normally
	// computed from fingerprint.Environment. Tests use this to force
	// collisions or stability across runs; production code leaves it nil.
	EnvFingerprint *uint64

	// Registry, if non-nil, receives a weak registration for this
	// instance so that registry-wide broadcasts (Clear, EnableMemory,
	// ...) reach it. Leave nil for a standalone instance the registry
	// never learns about.
	Registry *registry.Registry
}

// entry is one resolved cache value plus its accounted size.
type entry[V any] struct {
	value V
	size  uint64
}

// slot is the in-memory table's unit of single-flight state: a future
// shared by every concurrent caller of the same fingerprint, and the LRU
// list node tracking its recency.
type slot[V any] struct {
	future *future[V]
	elem   *list.Element
}

// Instance is one scope's cache engine: an in-memory single-flighted table
// backed optionally by a two-level disk tree, with LRU eviction against a
// configured byte budget.
type Instance[K comparable, M any, V any] struct {
	scope   string
	cfg     cfg.ResolvedCacheConfig
	hashKey func(K) uint64
	produce func(K, M) V
	isValid func(V) bool
	sizeOf  func(V) uint64
	codec   Codec[V]
	diskIO  diskio.Strategy
	stats   *stats.Stats

	envFingerprintOverride *uint64
	envFingerprint         uint64
	maxBytes               uint64

	memEnabled  atomic.Bool
	diskEnabled atomic.Bool

	initOnce      sync.Once
	diskRootPath  string // <root>/<subdir>, manifest lives here
	diskScopePath string // <root>/<subdir>/<env_fingerprint>/<scope>

	mu      sync.Mutex
	entries map[uint64]*slot[V]
	lru     *list.List

	currentSize uint64 // guarded by mu

	evictMu sync.Mutex

	sfDisk singleflight.Group
}

// New constructs an Instance. It performs no I/O; disk-root resolution and
// directory creation happen lazily on the first Get or CacheToDisk call.
// cfg.EnvDisableMemory/cfg.EnvDisableDisk are process-wide emergency kill
// switches checked once here, independent of the resolved per-scope config.
func New[K comparable, M any, V any](c Config[K, M, V]) *Instance[K, M, V] {
	if c.DiskIO == nil {
		c.DiskIO = diskio.Buffered{}
	}
	if c.Stats == nil {
		c.Stats = stats.New()
	}

	inst := &Instance[K, M, V]{
		scope:                  c.Scope,
		cfg:                    c.Resolved,
		hashKey:                c.HashKey,
		produce:                c.Produce,
		isValid:                c.IsValid,
		sizeOf:                 c.SizeOf,
		codec:                  c.Codec,
		diskIO:                 c.DiskIO,
		stats:                  c.Stats,
		envFingerprintOverride: c.EnvFingerprint,
		maxBytes:               c.Resolved.MaxSizeBytes(),
		entries:                make(map[uint64]*slot[V]),
		lru:                    list.New(),
	}
	inst.memEnabled.Store(c.Resolved.Enabled && c.Resolved.MemoryEnabled && os.Getenv(cfg.EnvDisableMemory) != "1")
	inst.diskEnabled.Store(c.Resolved.Enabled && c.Resolved.DiskEnabled && os.Getenv(cfg.EnvDisableDisk) != "1")

	if c.Registry != nil {
		c.Registry.Register(inst.registryEntry())
	}
	return inst
}

// registryEntry builds the non-generic closure bundle the registry holds a
// weak pointer to. The closures capture inst, so the entry's lifetime
// tracks inst's: once the application drops its last strong reference to
// inst, nothing outside the registry's weak pointer keeps either alive.
func (c *Instance[K, M, V]) registryEntry() *registry.Entry {
	return &registry.Entry{
		Scope:              c.scope,
		Clear:              c.Clear,
		EnableMemory:       c.EnableMemory,
		DisableMemory:      c.DisableMemory,
		EnableDisk:         c.EnableDisk,
		DisableDisk:        c.DisableDisk,
		InMemoryEntryCount: c.InMemoryEntryCount,
		InMemoryBytes:      c.InMemoryBytes,
	}
}

// Scope returns the instance's scope name, used by the registry to key its
// broadcast map.
func (c *Instance[K, M, V]) Scope() string { return c.scope }

// entryPath returns the on-disk path for a key's fingerprint, valid only
// once the instance has been initialized.
func (c *Instance[K, M, V]) entryPath(fp uint64) string {
	return filepath.Join(c.diskScopePath, strconv.FormatUint(fp, 10))
}

// DiskScopePath returns the resolved on-disk directory for this instance's
// scope, or "" if the disk tier has never been initialized. Administrative
// tooling uses this to report or act on disk usage directly.
func (c *Instance[K, M, V]) DiskScopePath() string { return c.diskScopePath }

// DiskRootPath returns the resolved top-level cache directory this
// instance's scope lives under, or "" if the disk tier has never been
// initialized.
func (c *Instance[K, M, V]) DiskRootPath() string { return c.diskRootPath }

func (c *Instance[K, M, V]) resolvedEnvFingerprint() uint64 {
	if c.envFingerprintOverride != nil {
		return *c.envFingerprintOverride
	}
	return fingerprint.Environment(fingerprint.ResolvedVersionVars())
}

// EnsureInitialized forces the one-shot disk-root resolution Get and
// CacheToDisk trigger lazily. Administrative tooling that wants to act on
// an instance's disk tree (for example Clear) before ever issuing a Get
// calls this first.
func (c *Instance[K, M, V]) EnsureInitialized() { c.ensureInit() }

// ensureInit performs the one-shot disk-root resolution described in
// SPEC_FULL.md section 4.6: pick the root, append the fixed subdirectory,
// the environment fingerprint, and the scope, then create the tree and
// write the version manifest inside the root. Any failure permanently
// disables the disk tier for this instance's remaining lifetime; the
// memory tier is unaffected.
func (c *Instance[K, M, V]) ensureInit() {
	c.initOnce.Do(func() {
		c.envFingerprint = c.resolvedEnvFingerprint()
		if !c.diskEnabled.Load() {
			return
		}
		if err := c.initDisk(); err != nil {
			logInitFailure(c.scope, err)
			c.diskEnabled.Store(false)
		}
	})
}

func (c *Instance[K, M, V]) initDisk() error {
	root, err := c.diskRoot()
	if err != nil {
		return fmt.Errorf("resolve disk root: %w", err)
	}
	c.diskRootPath = root
	c.diskScopePath = filepath.Join(root, strconv.FormatUint(c.envFingerprint, 10), c.scope)

	if err := mkdirAll(c.diskScopePath); err != nil {
		return fmt.Errorf("create scope dir %s: %w", c.diskScopePath, err)
	}
	if err := writeManifestNextToRoot(root); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// diskRoot picks the permanent or temporary root per the resolved
// is_permanent setting, then appends the fixed cache subdirectory name.
func (c *Instance[K, M, V]) diskRoot() (string, error) {
	if c.cfg.IsPermanent {
		if c.cfg.PermanentCacheLoc != "" {
			if err := mkdirAll(c.cfg.PermanentCacheLoc); err != nil {
				return "", err
			}
			return filepath.Join(c.cfg.PermanentCacheLoc, cfg.DefaultCacheSubdirName), nil
		}
		return filepath.Join(permDirFromEnv(), cfg.DefaultCacheSubdirName), nil
	}
	if c.cfg.TemporaryCacheLoc != "" {
		if err := mkdirAll(c.cfg.TemporaryCacheLoc); err != nil {
			return "", err
		}
		return filepath.Join(c.cfg.TemporaryCacheLoc, cfg.DefaultCacheSubdirName), nil
	}
	return temproot.Resolve().Path, nil
}
