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

	"github.com/bakecache/bakecache/internal/logger"
	"github.com/bakecache/bakecache/internal/pathops"
)

// Buffered reads and writes files wholesale, the way ordinary stdio
// buffered I/O does, sized to the file.
type Buffered struct{}

var _ Strategy = Buffered{}

func (Buffered) Read(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("diskio: buffered read of %s failed: %v", path, err)
		return nil, false
	}
	return data, true
}

func (Buffered) Write(data []byte, path string) bool {
	if err := pathops.PublishAtomic(path, data); err != nil {
		logger.Warnf("diskio: buffered write of %s failed: %v", path, err)
		return false
	}
	return true
}
