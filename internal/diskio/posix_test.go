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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosixWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	data := bytes.Repeat([]byte("posix"), 1000)

	require.True(t, (Posix{}).Write(data, path))

	got, ok := (Posix{}).Read(path)
	require.True(t, ok)
	assert.Equal(t, data, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not survive a successful publish")
}

func TestPosixReadMissingFile(t *testing.T) {
	_, ok := (Posix{}).Read(filepath.Join(t.TempDir(), "absent"))
	assert.False(t, ok)
}

func TestPosixWriteLostRaceTreatedAsSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte("winner"), 0o644))

	ok := (Posix{}).Write([]byte("loser"), path)
	assert.True(t, ok)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "winner", string(got))
}

func TestPosixWriteEmptyData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	require.True(t, (Posix{}).Write(nil, path))

	got, ok := (Posix{}).Read(path)
	require.True(t, ok)
	assert.Empty(t, got)
}
