// Copyright 2024 Google Inc. All Rights Reserved.
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

package cfg

const (
	// Logging-level constants.

	TRACE   string = "TRACE"
	DEBUG   string = "DEBUG"
	INFO    string = "INFO"
	WARNING string = "WARNING"
	ERROR   string = "ERROR"
	OFF     string = "OFF"
)

const (
	// Cache config defaults, see spec section 6 "Configuration attributes consumed".

	DefaultMaxSizeGB      float64 = 1000
	DefaultEnabled                = true
	DefaultMemoryEnabled          = true
	DefaultDiskEnabled            = true
	DefaultEnableEviction         = true
)

const (
	// Environment variables consumed by the cache, renamed from the source
	// product's internal names to a neutral, self-describing scheme. Fallback
	// order and semantics are unchanged; see SPEC_FULL.md section 6.

	EnvParentRoot      = "BAKECACHE_PARENT_ROOT"
	EnvTempDir         = "BAKECACHE_TEMP_DIR"
	EnvPipelineTmpDir  = "BAKECACHE_PIPELINE_TMPDIR"
	EnvPermDir         = "BAKECACHE_PERM_DIR"
	EnvDisableMemory   = "BAKECACHE_DISABLE_MEMORY"
	EnvDisableDisk     = "BAKECACHE_DISABLE_DISK"
	EnvVersionVarsList = "BAKECACHE_ENV_VERSION_VARS"
)

// DefaultEnvVersionVars is used to compute the environment fingerprint when
// EnvVersionVarsList is not set.
var DefaultEnvVersionVars = []string{
	"BAKECACHE_RENDERER_VERSION",
	"BAKECACHE_USD_VERSION",
	"BAKECACHE_SCENE_SCHEMA_VERSION",
}

// DefaultCacheSubdirName is the fixed subdirectory name appended to the
// resolved temp or permanent root before the environment fingerprint and
// scope name, per SPEC_FULL.md section 6's on-disk layout.
const DefaultCacheSubdirName = "bakecache"

// BlockAlignment is the block boundary (bytes) that direct-I/O buffers must
// be aligned to.
const BlockAlignment = 512
