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

package diskio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	data := []byte("hello cache")

	require.True(t, (Buffered{}).Write(data, path))

	got, ok := (Buffered{}).Read(path)
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestBufferedReadMissingFile(t *testing.T) {
	_, ok := (Buffered{}).Read(filepath.Join(t.TempDir(), "absent"))
	assert.False(t, ok)
}

func TestBufferedWriteLostRaceTreatedAsSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.True(t, (Buffered{}).Write([]byte("winner"), path))

	ok := (Buffered{}).Write([]byte("loser"), path)
	assert.True(t, ok)

	got, _ := (Buffered{}).Read(path)
	assert.Equal(t, "winner", string(got))
}
