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

//go:build linux

package pathops

import (
	"os"
	"time"
)

// readProcessStartTime mirrors the source's getTimeThisProcessStarted,
// which reads the modification time of a file the kernel stamps at process
// creation (/proc/<pid>/limits in the original). /proc/self's own mtime
// serves the same purpose here and needs no parsing of the stat format.
func readProcessStartTime() time.Time {
	info, err := os.Stat("/proc/self")
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}
