// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package gpdma models a general-purpose DMA controller.
//
// Each channel is programmed with a descriptor and, once enabled, moves
// 32-bit words from source to destination on its own goroutine, block
// by block, concurrently with the caller. Block and transfer completion
// are latched in a per-channel raw event status register and, when
// unmasked, raise the controller interrupt line.
package gpdma

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/f-secure-foundry/armory-m2m/internal/nvic"
)

// Event is a channel event status bitmask.
type Event uint32

const (
	EventTransferComplete Event = 1 << iota
	EventBlockComplete
	EventError

	EventAll = EventTransferComplete | EventBlockComplete | EventError
)

var (
	ErrInvalidChannel    = errors.New("invalid DMA channel")
	ErrInvalidDescriptor = errors.New("invalid DMA descriptor")
	ErrNotConfigured     = errors.New("DMA channel not configured")
	ErrChannelBusy       = errors.New("DMA channel busy")
)

// Line is the interrupt line a controller signals on.
type Line interface {
	Raise(irq nvic.IRQ) error
}

// Descriptor represents a memory-to-memory channel program.
type Descriptor struct {
	// Src is the source buffer
	Src []uint32
	// Dst is the destination buffer
	Dst []uint32
	// Length is the number of words to move
	Length int
	// BlockSize is the number of words per block, 0 for a single block
	BlockSize int
	// Latency is the time spent moving each block
	Latency time.Duration

	// Fault, if set, is applied to the destination after the last word
	// has been moved and before completion is signaled.
	Fault func(dst []uint32)
}

func (d *Descriptor) validate() error {
	switch {
	case d.Length <= 0:
		return ErrInvalidDescriptor
	case d.Length > len(d.Src) || d.Length > len(d.Dst):
		return ErrInvalidDescriptor
	case d.BlockSize < 0 || d.Latency < 0:
		return ErrInvalidDescriptor
	}

	return nil
}

type channel struct {
	desc *Descriptor

	status Event
	mask   Event
	busy   bool

	// moved is the number of words transferred by the last program
	moved int
}

// Controller represents a GPDMA controller instance.
type Controller struct {
	sync.Mutex

	irq      nvic.IRQ
	line     Line
	channels []channel

	wg sync.WaitGroup
}

// New returns a controller with n channels signaling on irq.
func New(n int, line Line, irq nvic.IRQ) *Controller {
	return &Controller{
		irq:      irq,
		line:     line,
		channels: make([]channel, n),
	}
}

// IRQ returns the controller interrupt line.
func (c *Controller) IRQ() nvic.IRQ {
	return c.irq
}

// Channels returns the number of channels.
func (c *Controller) Channels() int {
	return len(c.channels)
}

func (c *Controller) channel(n int) (*channel, error) {
	if n < 0 || n >= len(c.channels) {
		return nil, ErrInvalidChannel
	}

	return &c.channels[n], nil
}

// Configure programs a channel descriptor, the channel must be idle.
func (c *Controller) Configure(n int, d Descriptor) (err error) {
	if err = d.validate(); err != nil {
		return
	}

	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return
	}

	if ch.busy {
		return ErrChannelBusy
	}

	ch.desc = &d
	ch.moved = 0

	return
}

// EnableEvents unmasks channel events towards the interrupt line.
func (c *Controller) EnableEvents(n int, ev Event) error {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return err
	}

	ch.mask |= ev & EventAll

	return nil
}

// DisableEvents masks channel events towards the interrupt line.
func (c *Controller) DisableEvents(n int, ev Event) error {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return err
	}

	ch.mask &^= ev

	return nil
}

// EventStatus returns the raw (unmasked) event status of a channel.
func (c *Controller) EventStatus(n int) (Event, error) {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return 0, err
	}

	return ch.status, nil
}

// ClearEventStatus acknowledges channel events.
func (c *Controller) ClearEventStatus(n int, ev Event) error {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return err
	}

	ch.status &^= ev

	return nil
}

// Busy returns whether a channel transfer is in progress.
func (c *Controller) Busy(n int) bool {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return false
	}

	return ch.busy
}

// Moved returns the number of words moved by the channel program.
func (c *Controller) Moved(n int) int {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return 0
	}

	return ch.moved
}

// EnableChannel starts the programmed transfer and returns immediately.
func (c *Controller) EnableChannel(n int) error {
	c.Lock()
	defer c.Unlock()

	ch, err := c.channel(n)

	if err != nil {
		return err
	}

	if ch.desc == nil {
		return ErrNotConfigured
	}

	if ch.busy {
		return ErrChannelBusy
	}

	ch.busy = true
	ch.moved = 0

	c.wg.Add(1)

	go func(d *Descriptor) {
		defer c.wg.Done()
		c.transfer(n, d)
	}(ch.desc)

	return nil
}

func (c *Controller) transfer(n int, d *Descriptor) {
	size := d.BlockSize

	if size == 0 {
		size = d.Length
	}

	for off := 0; off < d.Length; off += size {
		end := off + size

		if end > d.Length {
			end = d.Length
		}

		if d.Latency > 0 {
			time.Sleep(d.Latency)
		}

		for i := off; i < end; i++ {
			atomic.StoreUint32(&d.Dst[i], d.Src[i])
		}

		last := end == d.Length

		if last && d.Fault != nil {
			d.Fault(d.Dst[:d.Length])
		}

		ev := EventBlockComplete

		if last {
			ev |= EventTransferComplete
		}

		c.signal(n, end, ev, last)
	}
}

func (c *Controller) signal(n int, moved int, ev Event, last bool) {
	c.Lock()

	ch := &c.channels[n]
	ch.status |= ev
	ch.moved = moved

	raise := ch.mask&ev != 0

	c.Unlock()

	// a failed raise is latched as a channel error
	if raise && c.line != nil {
		if err := c.line.Raise(c.irq); err != nil {
			c.Lock()
			ch.status |= EventError
			c.Unlock()
		}
	}

	// the channel stays busy until its last event has been signaled
	if last {
		c.Lock()
		ch.busy = false
		c.Unlock()
	}
}

// Wait blocks until all channel transfers have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}
