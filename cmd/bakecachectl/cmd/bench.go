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

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/bakecache/bakecache/cfg"
	"github.com/bakecache/bakecache/internal/cache"
	"github.com/bakecache/bakecache/internal/diskio"
	"github.com/bakecache/bakecache/internal/fingerprint"
	"github.com/bakecache/bakecache/internal/stats"
)

var (
	benchScope      string
	benchKeys       int
	benchWorkers    int
	benchValueBytes int
	benchRatePerSec float64
)

// byteCodec is the identity codec over byte slices, used only by bench to
// exercise the disk tier without depending on an application-supplied
// serialization format.
type byteCodec struct{}

func (byteCodec) Encode(v []byte) ([]byte, error) { return v, nil }
func (byteCodec) Decode(b []byte) ([]byte, error) { return b, nil }

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Exercise a scope's producer path under a throughput limit",
	Long: `bench drives a synthetic producer through the same Get path a
render worker would use, throttled by --rate-per-sec, and reports the
resulting hit/miss and throughput counters. It never constrains the real
cache's Get, which does not throttle; the limiter only paces this
benchmark's own synthetic producer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limiter := rate.NewLimiter(rate.Limit(benchRatePerSec), 1)
		st := stats.New()

		inst := cache.New(cache.Config[string, struct{}, []byte]{
			Scope:    benchScope,
			Resolved: cfg.Resolve(&Config, benchScope),
			HashKey:  fingerprint.String,
			Produce: func(key string, _ struct{}) []byte {
				if err := limiter.Wait(context.Background()); err != nil {
					return nil
				}
				return make([]byte, benchValueBytes)
			},
			IsValid: func(v []byte) bool { return v != nil },
			SizeOf:  func(v []byte) uint64 { return uint64(len(v)) },
			Codec:   byteCodec{},
			DiskIO:  diskio.Buffered{},
			Stats:   st,
		})

		start := time.Now()
		var wg sync.WaitGroup
		jobs := make(chan int, benchKeys)
		for i := 0; i < benchKeys; i++ {
			jobs <- i
		}
		close(jobs)

		for w := 0; w < benchWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					inst.Get("bench-key-"+strconv.Itoa(i%benchKeys), struct{}{})
				}
			}()
		}
		wg.Wait()
		elapsed := time.Since(start)

		snap := st.Snapshot()
		fmt.Printf("elapsed: %s\n", elapsed)
		fmt.Printf("memory hits/misses: %d/%d\n", snap.MemoryHits, snap.MemoryMisses)
		fmt.Printf("disk hits/misses: %d/%d\n", snap.DiskHits, snap.DiskMisses)
		fmt.Printf("entries resident: %d (%d bytes)\n", inst.InMemoryEntryCount(), inst.InMemoryBytes())
		return nil
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchScope, "scope", "bench", "Scope name to exercise")
	benchCmd.Flags().IntVar(&benchKeys, "keys", 100, "Number of distinct keys to drive through Get")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 4, "Concurrent callers sharing the single-flight table")
	benchCmd.Flags().IntVar(&benchValueBytes, "value-bytes", 4096, "Synthetic produced value size")
	benchCmd.Flags().Float64Var(&benchRatePerSec, "rate-per-sec", 50, "Producer throughput limit, calls per second")
	rootCmd.AddCommand(benchCmd)
}
