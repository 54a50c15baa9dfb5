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

// Package stats tracks per-cache-instance hit/miss counters and I/O
// performance, and can serialize the historical counters to a fixed
// 40-byte binary form for cross-process persistence.
package stats

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

const (
	bytesToMB            = 1.0 / (1024.0 * 1024.0)
	nanosecondsToSeconds = 1.0 / 1e9
	defaultDiskPerfMBps  = 700.0

	// BinarySize is the fixed length of the serialized historical record.
	BinarySize = 40
)

// current holds counters reset by Reset and scoped to the running process.
type current struct {
	diskHits   atomic.Uint32
	memHits    atomic.Uint32
	diskMisses atomic.Uint32
	memMisses  atomic.Uint32

	readTime  uint64 // guarded by Stats.mu
	readSize  uint64 // guarded by Stats.mu
	writeTime uint64 // guarded by Stats.mu
	writeSize uint64 // guarded by Stats.mu

	valueCreationTime uint64 // guarded by Stats.mu
	valueCreationSize uint64 // guarded by Stats.mu

	timeInGet atomic.Uint64

	diskReadPerf      atomic.Uint32 // float32 bits
	diskWritePerf     atomic.Uint32 // float32 bits
	valueCreationPerf atomic.Uint32 // float32 bits
}

// history holds counters that persist across processes via MarshalBinary.
type history struct {
	readTime  uint64 // guarded by Stats.mu
	readSize  uint64 // guarded by Stats.mu
	writeTime uint64 // guarded by Stats.mu
	writeSize uint64 // guarded by Stats.mu

	diskReadPerf  atomic.Uint32 // float32 bits
	diskWritePerf atomic.Uint32 // float32 bits
}

// Stats is a per-CacheInstance record of hit/miss counters and derived
// throughput. The zero value is ready to use.
type Stats struct {
	mu      sync.Mutex
	current current
	history history
}

func float32Bits(f float32) uint32 { return math.Float32bits(f) }
func bitsFloat32(b uint32) float32 { return math.Float32frombits(b) }

// New returns a Stats with the default disk-performance estimate seeded in,
// matching the source's construction-time defaults.
func New() *Stats {
	s := &Stats{}
	s.current.diskReadPerf.Store(float32Bits(defaultDiskPerfMBps))
	s.current.diskWritePerf.Store(float32Bits(defaultDiskPerfMBps))
	s.history.diskReadPerf.Store(float32Bits(defaultDiskPerfMBps))
	s.history.diskWritePerf.Store(float32Bits(defaultDiskPerfMBps))
	return s
}

// Reset zeroes every current-run and historical counter.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.diskHits.Store(0)
	s.current.memHits.Store(0)
	s.current.diskMisses.Store(0)
	s.current.memMisses.Store(0)
	s.current.readTime = 0
	s.current.readSize = 0
	s.current.writeTime = 0
	s.current.writeSize = 0
	s.current.valueCreationTime = 0
	s.current.valueCreationSize = 0
	s.current.timeInGet.Store(0)
	s.current.diskReadPerf.Store(0)
	s.current.diskWritePerf.Store(0)
	s.current.valueCreationPerf.Store(0)

	s.history.readTime = 0
	s.history.readSize = 0
	s.history.writeTime = 0
	s.history.writeSize = 0
	s.history.diskReadPerf.Store(0)
	s.history.diskWritePerf.Store(0)
}

func (s *Stats) MemoryHit()  { s.current.memHits.Add(1) }
func (s *Stats) DiskHit()    { s.current.diskHits.Add(1) }
func (s *Stats) MemoryMiss() { s.current.memMisses.Add(1) }
func (s *Stats) DiskMiss()   { s.current.diskMisses.Add(1) }

// UpdateGetValTimer accumulates time spent inside Get calls.
func (s *Stats) UpdateGetValTimer(nanos uint64) {
	s.current.timeInGet.Add(nanos)
}

// UpdateValueCreationPerf records a producer run and returns the updated
// cumulative value-creation throughput in MB/s.
func (s *Stats) UpdateValueCreationPerf(sizeBytes, timeNanos uint64) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.valueCreationSize += sizeBytes
	sizeMB := float32(s.current.valueCreationSize) * bytesToMB

	s.current.valueCreationTime += timeNanos
	seconds := float32(s.current.valueCreationTime) * nanosecondsToSeconds

	perf := ratio(sizeMB, seconds)
	s.current.valueCreationPerf.Store(float32Bits(perf))
	return perf
}

func (s *Stats) ValueCreationPerf() float32 {
	return bitsFloat32(s.current.valueCreationPerf.Load())
}

// UpdateDiskReadPerf records a disk read of the given size and duration and
// returns the updated cumulative (historical) read throughput in MB/s.
func (s *Stats) UpdateDiskReadPerf(sizeBytes, timeNanos uint64) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.readSize += sizeBytes
	s.history.readSize += sizeBytes
	totalMB := float32(s.history.readSize) * bytesToMB

	s.current.readTime += timeNanos
	s.history.readTime += timeNanos
	totalSeconds := float32(s.history.readTime) * nanosecondsToSeconds

	perf := ratio(totalMB, totalSeconds)
	s.history.diskReadPerf.Store(float32Bits(perf))
	return perf
}

func (s *Stats) DiskReadPerf() float32 {
	return bitsFloat32(s.history.diskReadPerf.Load())
}

// UpdateDiskWritePerf records a disk write of the given size and duration
// and returns the updated cumulative (historical) write throughput in MB/s.
func (s *Stats) UpdateDiskWritePerf(sizeBytes, timeNanos uint64) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.writeSize += sizeBytes
	s.history.writeSize += sizeBytes
	totalMB := float32(s.history.writeSize) * bytesToMB

	s.current.writeTime += timeNanos
	s.history.writeTime += timeNanos
	totalSeconds := float32(s.history.writeTime) * nanosecondsToSeconds

	perf := ratio(totalMB, totalSeconds)
	s.history.diskWritePerf.Store(float32Bits(perf))
	return perf
}

func (s *Stats) DiskWritePerf() float32 {
	return bitsFloat32(s.history.diskWritePerf.Load())
}

func ratio(numerator, denominator float32) float32 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Snapshot is an immutable point-in-time copy of every counter, used for
// reporting and for the Prometheus collector.
type Snapshot struct {
	MemoryHits, DiskHits     uint32
	MemoryMisses, DiskMisses uint32

	CurrentReadTimeNanos, CurrentReadSizeBytes   uint64
	CurrentWriteTimeNanos, CurrentWriteSizeBytes uint64

	ValueCreationTimeNanos, ValueCreationSizeBytes uint64
	TimeInGetNanos                                 uint64
	ValueCreationPerfMBps                          float32

	HistoricalReadTimeNanos, HistoricalReadSizeBytes   uint64
	HistoricalWriteTimeNanos, HistoricalWriteSizeBytes uint64
	DiskReadPerfMBps, DiskWritePerfMBps                float32
}

// Snapshot takes a consistent copy of all counters under the stats lock.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		MemoryHits:   s.current.memHits.Load(),
		DiskHits:     s.current.diskHits.Load(),
		MemoryMisses: s.current.memMisses.Load(),
		DiskMisses:   s.current.diskMisses.Load(),

		CurrentReadTimeNanos:  s.current.readTime,
		CurrentReadSizeBytes:  s.current.readSize,
		CurrentWriteTimeNanos: s.current.writeTime,
		CurrentWriteSizeBytes: s.current.writeSize,

		ValueCreationTimeNanos:  s.current.valueCreationTime,
		ValueCreationSizeBytes:  s.current.valueCreationSize,
		TimeInGetNanos:          s.current.timeInGet.Load(),
		ValueCreationPerfMBps:   bitsFloat32(s.current.valueCreationPerf.Load()),

		HistoricalReadTimeNanos:  s.history.readTime,
		HistoricalReadSizeBytes:  s.history.readSize,
		HistoricalWriteTimeNanos: s.history.writeTime,
		HistoricalWriteSizeBytes: s.history.writeSize,
		DiskReadPerfMBps:         bitsFloat32(s.history.diskReadPerf.Load()),
		DiskWritePerfMBps:        bitsFloat32(s.history.diskWritePerf.Load()),
	}
}

// MarshalBinary produces the 40-byte little-endian historical record: four
// u64 totals (read time, read size, write time, write size) followed by two
// f32 rates (read MB/s, write MB/s).
func (s *Stats) MarshalBinary() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, BinarySize)
	binary.LittleEndian.PutUint64(buf[0:8], s.history.readTime)
	binary.LittleEndian.PutUint64(buf[8:16], s.history.readSize)
	binary.LittleEndian.PutUint64(buf[16:24], s.history.writeTime)
	binary.LittleEndian.PutUint64(buf[24:32], s.history.writeSize)
	binary.LittleEndian.PutUint32(buf[32:36], s.history.diskReadPerf.Load())
	binary.LittleEndian.PutUint32(buf[36:40], s.history.diskWritePerf.Load())
	return buf, nil
}

// UnmarshalBinary restores the historical counters from a 40-byte record
// produced by MarshalBinary. Current-run counters are untouched.
func (s *Stats) UnmarshalBinary(data []byte) error {
	if len(data) != BinarySize {
		return fmt.Errorf("stats: binary record must be %d bytes, got %d", BinarySize, len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.readTime = binary.LittleEndian.Uint64(data[0:8])
	s.history.readSize = binary.LittleEndian.Uint64(data[8:16])
	s.history.writeTime = binary.LittleEndian.Uint64(data[16:24])
	s.history.writeSize = binary.LittleEndian.Uint64(data[24:32])
	s.history.diskReadPerf.Store(binary.LittleEndian.Uint32(data[32:36]))
	s.history.diskWritePerf.Store(binary.LittleEndian.Uint32(data[36:40]))
	return nil
}
