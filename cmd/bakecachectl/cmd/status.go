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
	"sort"

	"github.com/spf13/cobra"

	"github.com/bakecache/bakecache/internal/pathops"
)

var statusCmd = &cobra.Command{
	Use:   "status [scope...]",
	Short: "Report resolved configuration and disk usage for one or more scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes := args
		if len(scopes) == 0 {
			for s := range Config.Cache.Scopes {
				scopes = append(scopes, s)
			}
			sort.Strings(scopes)
		}
		if len(scopes) == 0 {
			fmt.Println("no scopes configured")
			return nil
		}

		for _, scope := range scopes {
			if err := printScopeStatus(scope); err != nil {
				return fmt.Errorf("scope %s: %w", scope, err)
			}
		}
		return nil
	},
}

func printScopeStatus(scope string) error {
	inst := adminInstance(scope)

	fmt.Printf("scope: %s\n", scope)
	fmt.Printf("  memory entries: %d (%d bytes)\n", inst.InMemoryEntryCount(), inst.InMemoryBytes())

	scopePath := inst.DiskScopePath()
	if scopePath == "" {
		fmt.Println("  disk: disabled or never initialized")
		return nil
	}
	fmt.Printf("  disk root:  %s\n", inst.DiskRootPath())
	fmt.Printf("  disk scope: %s\n", scopePath)

	size, err := pathops.DirSize(scopePath)
	if err != nil {
		return fmt.Errorf("measure disk usage: %w", err)
	}
	fmt.Printf("  disk bytes (block-accounted): %d\n", size)
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
