// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the simulator revision.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rev := Revision

		if rev == "" {
			rev = "devel"
		}

		cmd.Println(rev)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
