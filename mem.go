// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package main

import (
	"unsafe"

	"github.com/f-secure-foundry/armory-m2m/internal/m2m"

	"github.com/f-secure-foundry/tamago/dma"
)

// Override usbarmory pkg ramSize and `mem` allocation, as the transfer
// buffers live in a dedicated DMA region.

//go:linkname ramSize runtime.ramSize
var ramSize uint32 = 0x10000000 // 256MB
// 2nd half of external RAM (256MB)
var dmaStart uint32 = 0x90000000

// 1MB
var dmaSize = 0x100000

// word alignment
const wordSize = 4

func init() {
	dma.Init(dmaStart, dmaSize)
}

// destination reserves the zeroed transfer destination in the DMA region,
// it is never released.
func destination() m2m.Words {
	_, buf := dma.Reserve(m2m.DataLength*wordSize, wordSize)

	for i := range buf {
		buf[i] = 0
	}

	return unsafe.Slice((*uint32)(unsafe.Pointer(&buf[0])), m2m.DataLength)
}
