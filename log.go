// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package main

import (
	"log"
)

// initialized at compile time (see Makefile)
var Build string
var Revision string

// Debug enables the diagnostic console when set to "1" at compile time.
var Debug string

func init() {
	log.SetFlags(0)
}

func debug() bool {
	return Debug == "1"
}
