// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package board binds the GPDMA controller and interrupt controller
// models to the memory-to-memory transfer, for both the firmware image
// and the host simulator.
package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/f-secure-foundry/armory-m2m/internal/gpdma"
	"github.com/f-secure-foundry/armory-m2m/internal/m2m"
	"github.com/f-secure-foundry/armory-m2m/internal/nvic"
)

const (
	// GPDMA0IRQ is the GPDMA0 channel interrupt line
	GPDMA0IRQ nvic.IRQ = 105

	// Channels is the number of GPDMA0 channels
	Channels = 8

	// DMAChannel is the channel used for the transfer
	DMAChannel = 0

	// InterruptPriority is the completion interrupt preempt priority
	InterruptPriority = 63
)

// ErrUnsupportedEvents is returned by Init for channel events other than
// transfer complete and error.
var ErrUnsupportedEvents = errors.New("unsupported channel events")

// Config represents the channel program options.
type Config struct {
	// BlockSize is the number of words per DMA block, 0 for one block
	BlockSize int
	// Latency is the time spent by the engine on each block
	Latency time.Duration
	// Fault (optional) alters the destination before completion
	Fault func(dst []uint32)
	// Events are the channel events unmasked on interrupt arming,
	// defaults to transfer complete, block events are refused
	Events gpdma.Event
	// Latch keeps interrupts raised before arming pending
	Latch bool
}

// Board represents the DMA and interrupt hardware used by the transfer.
type Board struct {
	NVIC *nvic.Controller
	DMA  *gpdma.Controller

	// Flag is set by the completion handler
	Flag *m2m.Flag

	Peripheral *Peripheral

	ready bool
}

// New returns a board with channel and interrupt line defaults.
func New() *Board {
	irqs := &nvic.Controller{}
	dmac := gpdma.New(Channels, irqs, GPDMA0IRQ)

	return &Board{
		NVIC: irqs,
		DMA:  dmac,
		Flag: &m2m.Flag{},
		Peripheral: &Peripheral{
			DMA:      dmac,
			NVIC:     irqs,
			Channel:  DMAChannel,
			IRQ:      dmac.IRQ(),
			Priority: InterruptPriority,
			Events:   gpdma.EventTransferComplete,
		},
	}
}

// Init programs the channel descriptor and installs the completion
// handler on the interrupt vector, the interrupt line is left disabled.
func (b *Board) Init(src m2m.Words, dst m2m.Words, conf *Config) (err error) {
	if conf == nil {
		conf = &Config{}
	}

	if conf.Events&^(gpdma.EventTransferComplete|gpdma.EventError) != 0 {
		return fmt.Errorf("%w: %#x", ErrUnsupportedEvents, conf.Events)
	}

	if conf.Events != 0 {
		b.Peripheral.Events = conf.Events
	}

	b.NVIC.Latch = conf.Latch

	d := gpdma.Descriptor{
		Src:       src,
		Dst:       dst,
		Length:    len(src),
		BlockSize: conf.BlockSize,
		Latency:   conf.Latency,
		Fault:     conf.Fault,
	}

	if err = b.DMA.Configure(b.Peripheral.Channel, d); err != nil {
		return fmt.Errorf("channel %d: %w", b.Peripheral.Channel, err)
	}

	if err = b.NVIC.Register(b.Peripheral.IRQ, b.Peripheral.handler(b.Flag)); err != nil {
		return fmt.Errorf("irq %d: %w", b.Peripheral.IRQ, err)
	}

	b.ready = true

	return
}

// Ready returns whether Init completed.
func (b *Board) Ready() bool {
	return b.ready
}

// Wait blocks until the engine and all dispatched handlers are done.
func (b *Board) Wait() {
	b.DMA.Wait()
	b.NVIC.Wait()
}

// Peripheral implements m2m.Peripheral over a GPDMA channel and its
// controller interrupt line.
type Peripheral struct {
	DMA  *gpdma.Controller
	NVIC *nvic.Controller

	Channel  int
	IRQ      nvic.IRQ
	Priority int
	Events   gpdma.Event
}

// handler returns the channel interrupt service routine, completion is
// only signaled once the transfer complete event is pending.
func (p *Peripheral) handler(flag *m2m.Flag) nvic.Handler {
	isr := m2m.CompletionHandler(flag, p)

	return func() {
		if status, err := p.DMA.EventStatus(p.Channel); err == nil && status&gpdma.EventTransferComplete != 0 {
			isr()
		}
	}
}

func (p *Peripheral) ConfigureInterrupt() (err error) {
	prio := nvic.EncodePriority(p.NVIC.PriorityGrouping(), p.Priority, 0)

	if err = p.NVIC.SetPriority(p.IRQ, prio); err != nil {
		return
	}

	if err = p.DMA.EnableEvents(p.Channel, p.Events); err != nil {
		return
	}

	return p.NVIC.Enable(p.IRQ)
}

func (p *Peripheral) AcknowledgeEvent() {
	p.DMA.ClearEventStatus(p.Channel, gpdma.EventTransferComplete)
}

func (p *Peripheral) EnableChannel() error {
	return p.DMA.EnableChannel(p.Channel)
}

// LateArming reverses the arming order: the channel events are unmasked
// and the channel started, but the interrupt line is only enabled once
// the transfer has finished. Without a latching controller the completion
// event is lost.
type LateArming struct {
	*Peripheral
}

func (p *LateArming) ConfigureInterrupt() error {
	return p.DMA.EnableEvents(p.Channel, p.Events)
}

func (p *LateArming) EnableChannel() (err error) {
	if err = p.Peripheral.EnableChannel(); err != nil {
		return
	}

	for p.DMA.Busy(p.Channel) {
		time.Sleep(time.Millisecond)
	}

	return p.Peripheral.ConfigureInterrupt()
}
