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

import "github.com/prometheus/client_golang/prometheus"

// collector adapts a Stats to the Prometheus collector interface so a host
// process can expose the same counters a Snapshot reports over /metrics.
type collector struct {
	stats *Stats
	scope string

	memHits, diskHits     *prometheus.Desc
	memMisses, diskMisses *prometheus.Desc
	readBytes, writeBytes *prometheus.Desc
	readSeconds           *prometheus.Desc
	writeSeconds          *prometheus.Desc
	readPerf, writePerf   *prometheus.Desc
}

// Collector returns a prometheus.Collector exposing stats's counters,
// labelled with the given scope name.
func (s *Stats) Collector(scope string) prometheus.Collector {
	fq := func(name string) string { return "bakecache_" + name }
	return &collector{
		stats: s,
		scope: scope,

		memHits:    prometheus.NewDesc(fq("memory_hits_total"), "Memory-tier cache hits.", []string{"scope"}, nil),
		diskHits:   prometheus.NewDesc(fq("disk_hits_total"), "Disk-tier cache hits.", []string{"scope"}, nil),
		memMisses:  prometheus.NewDesc(fq("memory_misses_total"), "Memory-tier cache misses.", []string{"scope"}, nil),
		diskMisses: prometheus.NewDesc(fq("disk_misses_total"), "Disk-tier cache misses.", []string{"scope"}, nil),

		readBytes:  prometheus.NewDesc(fq("disk_read_bytes_total"), "Historical bytes read from disk.", []string{"scope"}, nil),
		writeBytes: prometheus.NewDesc(fq("disk_write_bytes_total"), "Historical bytes written to disk.", []string{"scope"}, nil),

		readSeconds:  prometheus.NewDesc(fq("disk_read_seconds_total"), "Historical seconds spent reading from disk.", []string{"scope"}, nil),
		writeSeconds: prometheus.NewDesc(fq("disk_write_seconds_total"), "Historical seconds spent writing to disk.", []string{"scope"}, nil),

		readPerf:  prometheus.NewDesc(fq("disk_read_mb_per_second"), "Historical average disk read throughput.", []string{"scope"}, nil),
		writePerf: prometheus.NewDesc(fq("disk_write_mb_per_second"), "Historical average disk write throughput.", []string{"scope"}, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memHits
	ch <- c.diskHits
	ch <- c.memMisses
	ch <- c.diskMisses
	ch <- c.readBytes
	ch <- c.writeBytes
	ch <- c.readSeconds
	ch <- c.writeSeconds
	ch <- c.readPerf
	ch <- c.writePerf
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.memHits, prometheus.CounterValue, float64(snap.MemoryHits), c.scope)
	ch <- prometheus.MustNewConstMetric(c.diskHits, prometheus.CounterValue, float64(snap.DiskHits), c.scope)
	ch <- prometheus.MustNewConstMetric(c.memMisses, prometheus.CounterValue, float64(snap.MemoryMisses), c.scope)
	ch <- prometheus.MustNewConstMetric(c.diskMisses, prometheus.CounterValue, float64(snap.DiskMisses), c.scope)

	ch <- prometheus.MustNewConstMetric(c.readBytes, prometheus.CounterValue, float64(snap.HistoricalReadSizeBytes), c.scope)
	ch <- prometheus.MustNewConstMetric(c.writeBytes, prometheus.CounterValue, float64(snap.HistoricalWriteSizeBytes), c.scope)

	ch <- prometheus.MustNewConstMetric(c.readSeconds, prometheus.CounterValue, float64(snap.HistoricalReadTimeNanos)*nanosecondsToSeconds, c.scope)
	ch <- prometheus.MustNewConstMetric(c.writeSeconds, prometheus.CounterValue, float64(snap.HistoricalWriteTimeNanos)*nanosecondsToSeconds, c.scope)

	ch <- prometheus.MustNewConstMetric(c.readPerf, prometheus.GaugeValue, float64(snap.DiskReadPerfMBps), c.scope)
	ch <- prometheus.MustNewConstMetric(c.writePerf, prometheus.GaugeValue, float64(snap.DiskWritePerfMBps), c.scope)
}
