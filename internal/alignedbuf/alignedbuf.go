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

// Package alignedbuf allocates byte buffers aligned to a block boundary,
// as required by the O_DIRECT disk I/O strategy.
package alignedbuf

// Alignment is the block boundary, in bytes, buffers must be aligned to.
const Alignment = 512

// New allocates a buffer of at least size bytes whose first byte sits on an
// Alignment-byte boundary. The returned slice has length size; its
// underlying array is over-allocated to make room for the alignment shift.
func New(size int) []byte {
	if size == 0 {
		return nil
	}
	raw := make([]byte, size+Alignment-1)
	offset := 0
	if rem := addressOf(raw) % Alignment; rem != 0 {
		offset = Alignment - rem
	}
	return raw[offset : offset+size : offset+size]
}

// IsAligned reports whether buf's first byte sits on an Alignment-byte
// boundary.
func IsAligned(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	return addressOf(buf)%Alignment == 0
}
