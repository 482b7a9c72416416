// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// armory-m2m-sim runs the memory-to-memory DMA transfer against the
// GPDMA and interrupt controller models on the host.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// initialized at compile time (see Makefile)
var Revision string

var rootCmd = &cobra.Command{
	Use:   "armory-m2m-sim",
	Short: "Host simulator for the armory-m2m DMA transfer.",
	Long: `Host simulator for the armory-m2m DMA transfer. ` +
		`The transfer supervisor runs unmodified against a GPDMA controller ` +
		`and interrupt controller model, faults can be injected to exercise ` +
		`the halt paths.`,
	SilenceUsage: true,
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
