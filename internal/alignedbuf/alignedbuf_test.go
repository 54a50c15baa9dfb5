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

package alignedbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsAlignedBuffer(t *testing.T) {
	for _, size := range []int{1, 511, 512, 513, 4096, 1 << 20} {
		buf := New(size)
		assert.Len(t, buf, size)
		assert.True(t, IsAligned(buf), "size %d not aligned", size)
	}
}

func TestNewZeroSize(t *testing.T) {
	assert.Nil(t, New(0))
}

func TestIsAlignedOnUnalignedSlice(t *testing.T) {
	buf := New(600)
	assert.False(t, IsAligned(buf[1:]))
}
