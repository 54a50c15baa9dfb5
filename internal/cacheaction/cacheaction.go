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

// Package cacheaction defines ClearAction, shared by internal/cache (which
// implements it) and internal/registry (which broadcasts it), so neither
// package has to import the other just to agree on the bit layout.
package cacheaction

// ClearAction is a bitset of cache-clearing targets. The DISK_* members
// are mutually preferential: contents, then scope dir, then top dir.
type ClearAction uint8

const (
	Memory ClearAction = 1 << iota
	DiskContents
	DiskScopeDir
	DiskTopDir
)
