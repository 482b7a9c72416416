// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/f-secure-foundry/armory-m2m/internal/board"
	"github.com/f-secure-foundry/armory-m2m/internal/m2m"

	"github.com/f-secure-foundry/tamago/soc/imx6"

	"github.com/f-secure-foundry/tamago/board/f-secure/usbarmory/mark-two"
)

// source data is immutable for the whole program lifetime
var sourceData = m2m.SourceData()

func init() {
	if err := imx6.SetARMFreq(900); err != nil {
		panic(fmt.Sprintf("WARNING: error setting ARM frequency: %v\n", err))
	}
}

func main() {
	usbarmory.LED("blue", false)
	usbarmory.LED("white", false)

	dst := destination()
	hw := board.New()

	sup := &m2m.Supervisor{
		Bootstrap: func() error {
			return hw.Init(sourceData, dst, nil)
		},
		Peripheral: hw.Peripheral,
		Indicator:  &led{name: "white"},
		Flag:       hw.Flag,

		Source:      sourceData,
		Destination: dst,

		Debug:  debug(),
		Logger: log.Default(),
	}

	if debug() {
		log.Printf("armory-m2m %s (%s) %x", Revision, Build, imx6.UniqueID())
	}

	res := sup.Run(context.Background())

	if !res.OK() {
		m2m.Halt(res)
	}

	sup.Idle(context.Background())
}

type led struct {
	name string
}

func (l *led) Set(on bool) error {
	return usbarmory.LED(l.name, on)
}
