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
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/bakecache/bakecache/internal/alignedbuf"
	"github.com/bakecache/bakecache/internal/logger"
)

// PosixDirect reads and writes with O_DIRECT, bypassing the page cache.
// O_DIRECT requires both the buffer and the transfer length to be aligned
// to the device's block size, so every transfer goes through an
// alignedbuf-backed staging buffer rounded up to alignedbuf.Alignment.
type PosixDirect struct{}

var _ Strategy = PosixDirect{}

func roundUp(n int) int {
	rem := n % alignedbuf.Alignment
	if rem == 0 {
		return n
	}
	return n + (alignedbuf.Alignment - rem)
}

func (PosixDirect) Read(path string) ([]byte, bool) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_DIRECT, 0)
	if err != nil {
		// O_DIRECT is not supported on every filesystem (tmpfs, for one);
		// fall back to buffered reads rather than failing the cache lookup.
		if data, ok := (Buffered{}).Read(path); ok {
			return data, true
		}
		logger.Warnf("diskio: posixdirect open of %s for read failed: %v", path, err)
		return nil, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Warnf("diskio: posixdirect stat of %s failed: %v", path, err)
		return nil, false
	}
	size := info.Size()
	staged := alignedbuf.New(roundUp(int(size)))

	// Stop at the file's size: after a short read at end of file the next
	// offset is no longer block-aligned, and O_DIRECT would reject it.
	var off int64
	for off < size {
		end := off + ChunkSize
		if end > int64(len(staged)) {
			end = int64(len(staged))
		}
		n, err := unix.Pread(int(f.Fd()), staged[off:end], off)
		if err != nil {
			logger.Warnf("diskio: posixdirect read of %s failed: %v", path, err)
			return nil, false
		}
		if n == 0 {
			break
		}
		off += int64(n)
	}
	return staged[:size], true
}

func (PosixDirect) Write(data []byte, path string) bool {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL|unix.O_DIRECT, 0o644)
	if err != nil {
		// Fall back to a buffered publish if the filesystem rejects O_DIRECT.
		return (Buffered{}).Write(data, path)
	}

	staged := alignedbuf.New(roundUp(len(data)))
	copy(staged, data)

	var off int64
	writeErr := false
	for off < int64(len(staged)) {
		end := off + ChunkSize
		if end > int64(len(staged)) {
			end = int64(len(staged))
		}
		n, err := unix.Pwrite(int(f.Fd()), staged[off:end], off)
		if err != nil {
			logger.Warnf("diskio: posixdirect write of %s failed: %v", tmp, err)
			writeErr = true
			break
		}
		off += int64(n)
	}
	if writeErr {
		f.Close()
		os.Remove(tmp)
		return false
	}

	if err := f.Truncate(int64(len(data))); err != nil {
		f.Close()
		os.Remove(tmp)
		logger.Warnf("diskio: posixdirect truncate of %s failed: %v", tmp, err)
		return false
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		logger.Warnf("diskio: posixdirect close of %s failed: %v", tmp, err)
		return false
	}

	linkErr := unix.Link(tmp, path)
	os.Remove(tmp)
	if linkErr != nil {
		if linkErr == unix.EEXIST {
			return true // lost the publish race; the winner's file stands.
		}
		logger.Warnf("diskio: posixdirect link of %s to %s failed: %v", tmp, path, linkErr)
		return false
	}
	return true
}
