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

// Package pathops provides the portable filesystem primitives the cache
// engine is built on: idempotent directory creation, leaves-first recursive
// removal, directory enumeration and size aggregation, nanosecond timestamp
// reads, and atomic file publication.
package pathops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// RecursiveMkdir creates dir and any missing parents. It is a no-op if dir
// already exists.
func RecursiveMkdir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// Exists reports whether path exists (file or directory).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// RecursiveRemove deletes the tree rooted at path, files before the
// directories that contain them, matching the source's leaves-first
// removal order.
func RecursiveRemove(path string) error {
	if !Exists(path) {
		return nil
	}

	var files, dirs []string
	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", path, err)
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove file %s: %w", f, err)
		}
	}

	// Deepest directories first so a parent is empty by the time it's removed.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, d := range dirs {
		if err := os.Remove(d); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove dir %s: %w", d, err)
		}
	}
	return nil
}

// ListDir returns the names of the direct children of dir.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// DirSize aggregates the on-disk size of a tree in bytes, counted in
// allocated blocks rather than apparent size, matching the source's
// getDirectorySize.
func DirSize(root string) (uint64, error) {
	var total uint64
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		var st unix.Stat_t
		if statErr := unix.Stat(p, &st); statErr != nil {
			return nil // file vanished mid-walk; skip it.
		}
		total += uint64(st.Blocks) * 512
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// AccessTimeNanos returns path's last-access time as nanoseconds since the
// Unix epoch.
func AccessTimeNanos(path string) (int64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return st.Atim.Sec*int64(time.Second) + st.Atim.Nsec, nil
}

// ModTimeNanos returns path's last-modification time as nanoseconds since
// the Unix epoch.
func ModTimeNanos(path string) (int64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return st.Mtim.Sec*int64(time.Second) + st.Mtim.Nsec, nil
}

// PublishAtomic writes data to path via a temp-name-then-link sequence:
// write to path+".<uuid>.tmp", flush, close, then hard-link it to path and
// unlink the temp name. Linking rather than renaming is deliberate: rename(2)
// atomically replaces an existing destination, which would let a late writer
// silently clobber whatever an earlier one already published, while link(2)
// fails with EEXIST in that case. When that happens the temp file is
// discarded and the call still reports success, matching the "first writer
// wins" contract of SPEC_FULL.md section 4.1.
func PublishAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file %s: %w", tmp, err)
	}

	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file %s: %w", tmp, err)
	}

	linkErr := unix.Link(tmp, path)
	os.Remove(tmp)
	if linkErr != nil {
		if linkErr == unix.EEXIST {
			// Another writer published first; treat as success.
			return nil
		}
		return fmt.Errorf("link %s to %s: %w", tmp, path, linkErr)
	}
	return nil
}

// ProcessStartTime is captured once, at package initialisation, and used as
// the "this process started at" reference for the regenerate staleness
// check (SPEC_FULL.md section 4.6). On Linux it is the modification time of
// /proc/self; elsewhere, or if that stat fails, it is the init-time clock
// reading.
var processStartTime = readProcessStartTime()

// ProcessStartTime returns the time this process was considered to have
// started, for comparison against on-disk entry modification times.
func ProcessStartTime() time.Time {
	return processStartTime
}
