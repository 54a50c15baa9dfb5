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

package stats

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	s := New()
	s.MemoryHit()
	s.MemoryHit()
	s.DiskHit()
	s.MemoryMiss()
	s.DiskMiss()
	s.DiskMiss()

	snap := s.Snapshot()
	assert.EqualValues(t, 2, snap.MemoryHits)
	assert.EqualValues(t, 1, snap.DiskHits)
	assert.EqualValues(t, 1, snap.MemoryMisses)
	assert.EqualValues(t, 2, snap.DiskMisses)
}

func TestDiskReadPerfIsCumulativeMBps(t *testing.T) {
	s := New()
	// 10 MB in 1 second == 10 MB/s.
	perf := s.UpdateDiskReadPerf(10*1024*1024, 1_000_000_000)
	assert.InDelta(t, 10.0, perf, 0.001)
	assert.InDelta(t, 10.0, s.DiskReadPerf(), 0.001)

	// Another 10 MB in 1 more second: 20 MB over 2 s == 10 MB/s still.
	perf = s.UpdateDiskReadPerf(10*1024*1024, 1_000_000_000)
	assert.InDelta(t, 10.0, perf, 0.001)
}

func TestDiskWritePerfZeroTimeIsZero(t *testing.T) {
	s := New()
	perf := s.UpdateDiskWritePerf(100, 0)
	assert.Zero(t, perf)
}

func TestMarshalUnmarshalBinaryRoundTrip(t *testing.T) {
	s := New()
	s.UpdateDiskReadPerf(50*1024*1024, 2_000_000_000)
	s.UpdateDiskWritePerf(30*1024*1024, 1_000_000_000)

	data, err := s.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, BinarySize)

	restored := New()
	require.NoError(t, restored.UnmarshalBinary(data))

	before := s.Snapshot()
	after := restored.Snapshot()
	assert.Equal(t, before.HistoricalReadTimeNanos, after.HistoricalReadTimeNanos)
	assert.Equal(t, before.HistoricalReadSizeBytes, after.HistoricalReadSizeBytes)
	assert.Equal(t, before.HistoricalWriteTimeNanos, after.HistoricalWriteTimeNanos)
	assert.Equal(t, before.HistoricalWriteSizeBytes, after.HistoricalWriteSizeBytes)
	assert.Equal(t, before.DiskReadPerfMBps, after.DiskReadPerfMBps)
	assert.Equal(t, before.DiskWritePerfMBps, after.DiskWritePerfMBps)
}

func TestUnmarshalBinaryRejectsWrongSize(t *testing.T) {
	s := New()
	err := s.UnmarshalBinary(make([]byte, 39))
	assert.Error(t, err)
}

func TestResetZeroesEverything(t *testing.T) {
	s := New()
	s.MemoryHit()
	s.UpdateDiskReadPerf(1024, 1_000_000_000)
	s.Reset()

	snap := s.Snapshot()
	assert.Zero(t, snap.MemoryHits)
	assert.Zero(t, snap.HistoricalReadSizeBytes)
	assert.Zero(t, snap.DiskReadPerfMBps)
}

func TestCountersConcurrentSafe(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MemoryHit()
			s.UpdateDiskReadPerf(1024, 1000)
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.EqualValues(t, 100, snap.MemoryHits)
	assert.EqualValues(t, 100*1024, snap.HistoricalReadSizeBytes)
}

func TestCollectorExportsMetrics(t *testing.T) {
	s := New()
	s.MemoryHit()
	s.DiskMiss()

	c := s.Collector("shading")
	metricChan := make(chan prometheus.Metric, 16)
	c.Collect(metricChan)
	close(metricChan)

	found := map[string]float64{}
	for m := range metricChan {
		var out dto.Metric
		require.NoError(t, m.Write(&out))
		desc := m.Desc().String()
		if out.Counter != nil {
			found[desc] = out.Counter.GetValue()
		} else if out.Gauge != nil {
			found[desc] = out.Gauge.GetValue()
		}
	}
	assert.Len(t, found, 10)
}
