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

// Package diskio provides the three interchangeable disk-access strategies
// the cache can be built with: buffered stdio, POSIX pread/pwrite, and
// POSIX O_DIRECT. All three share one Strategy interface and report
// failures by returning a zero value plus a logged reason, never by
// panicking.
package diskio

// Strategy reads and writes whole files as byte slices. Implementations
// must support files larger than 2 GiB by chunking internally.
type Strategy interface {
	// Read returns the full contents of path and true, or nil and false if
	// the file could not be read.
	Read(path string) ([]byte, bool)

	// Write publishes data to path atomically (temp file + link(2)) and
	// returns true on success.
	Write(data []byte, path string) bool
}

// ChunkSize is the largest single pread/pwrite this package issues, so that
// files larger than 2 GiB are still handled correctly on platforms whose
// read/write syscalls take a 32-bit length.
const ChunkSize = (1 << 31) - 1
