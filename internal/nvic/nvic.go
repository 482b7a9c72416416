// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package nvic models a nested vectored interrupt controller: a vector
// table of handlers, per-line priority and enable state, and dispatch of
// lines raised by peripherals.
//
// Lines raised while disabled are dropped (and counted) unless Latch is
// set, in which case they are held pending and delivered on Enable.
package nvic

import (
	"errors"
	"sync"
)

// NumIRQ is the number of external interrupt lines.
const NumIRQ = 112

// PriorityBits is the number of implemented priority bits.
const PriorityBits = 6

// MaxPriority is the numerically highest (least urgent) priority.
const MaxPriority = 1<<PriorityBits - 1

var (
	ErrInvalidIRQ      = errors.New("invalid interrupt line")
	ErrNoHandler       = errors.New("no handler registered")
	ErrInvalidPriority = errors.New("invalid priority")
)

// IRQ is an external interrupt line number.
type IRQ int

// Handler is an interrupt service routine.
type Handler func()

type vector struct {
	handler  Handler
	priority int
	enabled  bool
	pending  bool

	served  uint32
	dropped uint32
}

// Controller represents an interrupt controller instance.
type Controller struct {
	// Latch keeps lines raised while disabled pending until Enable
	Latch bool

	sync.Mutex

	grouping int
	vectors  [NumIRQ]vector

	// exec serializes handlers, they never nest
	exec sync.Mutex
	wg   sync.WaitGroup
}

func valid(irq IRQ) bool {
	return irq >= 0 && irq < NumIRQ
}

// Register installs the service routine for an interrupt line.
func (c *Controller) Register(irq IRQ, h Handler) error {
	if !valid(irq) {
		return ErrInvalidIRQ
	}

	if h == nil {
		return ErrNoHandler
	}

	c.Lock()
	c.vectors[irq].handler = h
	c.Unlock()

	return nil
}

// SetPriorityGrouping sets the preempt/sub priority split (0-7).
func (c *Controller) SetPriorityGrouping(group int) {
	c.Lock()
	c.grouping = group & 7
	c.Unlock()
}

func (c *Controller) PriorityGrouping() int {
	c.Lock()
	defer c.Unlock()

	return c.grouping
}

// EncodePriority packs preempt and sub priorities for the given grouping
// into a single priority value, fields wider than the implemented bits
// are truncated.
func EncodePriority(group int, preempt int, sub int) int {
	group &= 7

	preemptBits := 7 - group

	if preemptBits > PriorityBits {
		preemptBits = PriorityBits
	}

	subBits := 0

	if group+PriorityBits >= 7 {
		subBits = group - 7 + PriorityBits
	}

	return (preempt&(1<<preemptBits-1))<<subBits | sub&(1<<subBits-1)
}

func (c *Controller) SetPriority(irq IRQ, prio int) error {
	if !valid(irq) {
		return ErrInvalidIRQ
	}

	if prio < 0 || prio > MaxPriority {
		return ErrInvalidPriority
	}

	c.Lock()
	c.vectors[irq].priority = prio
	c.Unlock()

	return nil
}

func (c *Controller) Priority(irq IRQ) (int, error) {
	if !valid(irq) {
		return 0, ErrInvalidIRQ
	}

	c.Lock()
	defer c.Unlock()

	return c.vectors[irq].priority, nil
}

// Enable unmasks an interrupt line, a pending latched line is delivered
// immediately.
func (c *Controller) Enable(irq IRQ) error {
	if !valid(irq) {
		return ErrInvalidIRQ
	}

	c.Lock()
	defer c.Unlock()

	v := &c.vectors[irq]

	if v.handler == nil {
		return ErrNoHandler
	}

	v.enabled = true

	if v.pending {
		v.pending = false
		c.dispatch(v)
	}

	return nil
}

func (c *Controller) Disable(irq IRQ) error {
	if !valid(irq) {
		return ErrInvalidIRQ
	}

	c.Lock()
	c.vectors[irq].enabled = false
	c.Unlock()

	return nil
}

func (c *Controller) Enabled(irq IRQ) bool {
	if !valid(irq) {
		return false
	}

	c.Lock()
	defer c.Unlock()

	return c.vectors[irq].enabled
}

func (c *Controller) Pending(irq IRQ) bool {
	if !valid(irq) {
		return false
	}

	c.Lock()
	defer c.Unlock()

	return c.vectors[irq].pending
}

// Raise asserts an interrupt line on behalf of a peripheral. The handler
// runs asynchronously with respect to the caller.
func (c *Controller) Raise(irq IRQ) error {
	if !valid(irq) {
		return ErrInvalidIRQ
	}

	c.Lock()
	defer c.Unlock()

	v := &c.vectors[irq]

	switch {
	case v.enabled && v.handler != nil:
		c.dispatch(v)
	case c.Latch:
		v.pending = true
	default:
		v.dropped++
	}

	return nil
}

// dispatch must be called with the controller lock held.
func (c *Controller) dispatch(v *vector) {
	h := v.handler
	v.served++

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.exec.Lock()
		defer c.exec.Unlock()

		h()
	}()
}

// Served returns the number of times the line handler was dispatched.
func (c *Controller) Served(irq IRQ) uint32 {
	if !valid(irq) {
		return 0
	}

	c.Lock()
	defer c.Unlock()

	return c.vectors[irq].served
}

// Dropped returns the number of raises lost while the line was disabled.
func (c *Controller) Dropped(irq IRQ) uint32 {
	if !valid(irq) {
		return 0
	}

	c.Lock()
	defer c.Unlock()

	return c.vectors[irq].dropped
}

// Wait blocks until all dispatched handlers have returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}
