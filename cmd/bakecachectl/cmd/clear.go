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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bakecache/bakecache/internal/cache"
)

var (
	clearMemory       bool
	clearDiskContents bool
	clearDiskScopeDir bool
	clearDiskTopDir   bool
)

var clearCmd = &cobra.Command{
	Use:   "clear <scope>",
	Short: "Clear a scope's memory and/or disk state out of band",
	Long: `clear acts on one scope's on-disk layout directly, the way an
administrator would between render farm jobs; it has no way to reach a
live process's in-memory table, so --memory only affects an instance this
CLI invocation constructs for itself, which is otherwise empty.

The disk-* flags are mutually preferential, most specific first: contents,
then the scope directory, then the whole top-level cache directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := args[0]
		var action cache.ClearAction
		if clearMemory {
			action |= cache.Memory
		}
		if clearDiskContents {
			action |= cache.DiskContents
		}
		if clearDiskScopeDir {
			action |= cache.DiskScopeDir
		}
		if clearDiskTopDir {
			action |= cache.DiskTopDir
		}
		if action == 0 {
			return fmt.Errorf("at least one of --memory, --disk-contents, --disk-scope-dir, --disk-top-dir is required")
		}

		inst := adminInstance(scope)
		inst.Clear(action)
		fmt.Printf("scope %s cleared\n", scope)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearMemory, "memory", false, "Drop in-memory entries")
	clearCmd.Flags().BoolVar(&clearDiskContents, "disk-contents", false, "Remove entry files, keep the scope directory")
	clearCmd.Flags().BoolVar(&clearDiskScopeDir, "disk-scope-dir", false, "Remove the scope directory")
	clearCmd.Flags().BoolVar(&clearDiskTopDir, "disk-top-dir", false, "Remove the whole top-level cache directory")
	rootCmd.AddCommand(clearCmd)
}
