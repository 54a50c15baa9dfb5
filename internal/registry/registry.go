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

// Package registry is a process-wide, scope-keyed directory of cache
// instances. It owns no lifetimes: instances register a weak pointer and
// the registry silently drops it once the instance itself has been
// garbage collected, so registering never keeps an otherwise-unused cache
// alive.
package registry

import (
	"sync"
	"weak"

	"github.com/bakecache/bakecache/internal/cacheaction"
)

// Entry is the non-generic bundle of operations a cache.Instance exposes
// to the registry. Its fields are closures over the instance rather than
// an interface method set so that internal/registry never needs to import
// internal/cache: registry imports only cacheaction, and only cache imports
// registry, avoiding a cycle between the two.
type Entry struct {
	Scope string

	Clear              func(cacheaction.ClearAction)
	EnableMemory       func()
	DisableMemory      func()
	EnableDisk         func()
	DisableDisk        func()
	InMemoryEntryCount func() int
	InMemoryBytes      func() uint64
}

// Registry is a concurrency-safe scope -> []weak.Pointer[Entry] directory.
// The zero value is not usable; construct with New.
type Registry struct {
	mu      sync.Mutex
	byScope map[string][]weak.Pointer[Entry]
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byScope: make(map[string][]weak.Pointer[Entry])}
}

// Register adds e under e.Scope. Registering the same scope from multiple
// instances is allowed; broadcasts reach every one still alive.
func (r *Registry) Register(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byScope[e.Scope] = append(r.byScope[e.Scope], weak.Make(e))
}

// live resolves every still-alive entry for scope, or for every scope if
// scope is empty, opportunistically dropping dead weak pointers it finds
// along the way so the backing slices don't grow without bound.
func (r *Registry) live(scope string) []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Entry
	if scope != "" {
		r.byScope[scope] = compact(r.byScope[scope], &out)
		return out
	}
	for s, ptrs := range r.byScope {
		r.byScope[s] = compact(ptrs, &out)
	}
	return out
}

func compact(ptrs []weak.Pointer[Entry], out *[]*Entry) []weak.Pointer[Entry] {
	kept := ptrs[:0]
	for _, p := range ptrs {
		if e := p.Value(); e != nil {
			*out = append(*out, e)
			kept = append(kept, p)
		}
	}
	return kept
}

// Clear broadcasts action to every live entry in scope, or every scope if
// scope is empty.
func (r *Registry) Clear(action cacheaction.ClearAction, scope string) {
	for _, e := range r.live(scope) {
		e.Clear(action)
	}
}

func (r *Registry) EnableMemory(scope string) {
	for _, e := range r.live(scope) {
		e.EnableMemory()
	}
}

func (r *Registry) DisableMemory(scope string) {
	for _, e := range r.live(scope) {
		e.DisableMemory()
	}
}

func (r *Registry) EnableDisk(scope string) {
	for _, e := range r.live(scope) {
		e.EnableDisk()
	}
}

func (r *Registry) DisableDisk(scope string) {
	for _, e := range r.live(scope) {
		e.DisableDisk()
	}
}

// InMemoryEntryCount sums InMemoryEntryCount across every live entry in
// scope, or every scope if scope is empty.
func (r *Registry) InMemoryEntryCount(scope string) int {
	var total int
	for _, e := range r.live(scope) {
		total += e.InMemoryEntryCount()
	}
	return total
}

// InMemoryBytes sums InMemoryBytes across every live entry in scope, or
// every scope if scope is empty.
func (r *Registry) InMemoryBytes(scope string) uint64 {
	var total uint64
	for _, e := range r.live(scope) {
		total += e.InMemoryBytes()
	}
	return total
}

// Count returns the number of live entries across every scope.
func (r *Registry) Count() int {
	return len(r.live(""))
}

// RegisteredScopes returns the distinct scope names with at least one live
// entry.
func (r *Registry) RegisteredScopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var scopes []string
	for s, ptrs := range r.byScope {
		var out []*Entry
		r.byScope[s] = compact(ptrs, &out)
		if len(out) > 0 {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
