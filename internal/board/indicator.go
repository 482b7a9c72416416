// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package board

import (
	"log"
	"sync"
)

// LogIndicator is a success indicator for hosts without LEDs, state
// changes are printed on Logger.
type LogIndicator struct {
	sync.Mutex

	Name   string
	Logger *log.Logger

	on bool
}

func (l *LogIndicator) Set(on bool) error {
	l.Lock()
	defer l.Unlock()

	l.on = on

	state := "off"

	if on {
		state = "on"
	}

	if l.Logger != nil {
		l.Logger.Printf("LED %s %s", l.Name, state)
	}

	return nil
}

func (l *LogIndicator) On() bool {
	l.Lock()
	defer l.Unlock()

	return l.on
}
