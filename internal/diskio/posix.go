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

	"github.com/bakecache/bakecache/internal/logger"
)

// Posix reads and writes via pread/pwrite at explicit offsets, chunked at
// ChunkSize to support files over 2 GiB. Buffers need not be aligned.
type Posix struct{}

var _ Strategy = Posix{}

func (Posix) Read(path string) ([]byte, bool) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warnf("diskio: posix open of %s for read failed: %v", path, err)
		return nil, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Warnf("diskio: posix stat of %s failed: %v", path, err)
		return nil, false
	}

	buf := make([]byte, info.Size())
	if err := preadFull(f, buf); err != nil {
		logger.Warnf("diskio: posix read of %s failed: %v", path, err)
		return nil, false
	}
	return buf, true
}

// Write publishes data via a temp file linked into place; see
// pathops.PublishAtomic for why link(2) is used instead of rename(2).
func (Posix) Write(data []byte, path string) bool {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Warnf("diskio: posix create of %s failed: %v", tmp, err)
		return false
	}

	if err := pwriteFull(f, data); err != nil {
		f.Close()
		os.Remove(tmp)
		logger.Warnf("diskio: posix write of %s failed: %v", tmp, err)
		return false
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		logger.Warnf("diskio: posix sync of %s failed: %v", tmp, err)
		return false
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		logger.Warnf("diskio: posix close of %s failed: %v", tmp, err)
		return false
	}

	linkErr := unix.Link(tmp, path)
	os.Remove(tmp)
	if linkErr != nil {
		if linkErr == unix.EEXIST {
			return true // lost the publish race; the winner's file stands.
		}
		logger.Warnf("diskio: posix link of %s to %s failed: %v", tmp, path, linkErr)
		return false
	}
	return true
}

// preadFull issues chunked pread calls until buf is full or EOF.
func preadFull(f *os.File, buf []byte) error {
	var off int64
	for off < int64(len(buf)) {
		end := off + ChunkSize
		if end > int64(len(buf)) {
			end = int64(len(buf))
		}
		n, err := unix.Pread(int(f.Fd()), buf[off:end], off)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		off += int64(n)
	}
	return nil
}

// pwriteFull issues chunked pwrite calls until all of data is written.
func pwriteFull(f *os.File, data []byte) error {
	var off int64
	for off < int64(len(data)) {
		end := off + ChunkSize
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		n, err := unix.Pwrite(int(f.Fd()), data[off:end], off)
		if err != nil {
			return err
		}
		off += int64(n)
	}
	return nil
}
