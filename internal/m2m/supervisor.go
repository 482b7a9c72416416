// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package m2m implements an interrupt driven memory-to-memory DMA
// transfer: the channel is started, completion is signaled by the
// interrupt handler through a one-shot flag, and the copy is verified
// before the success indicator is set.
//
// Every failure is terminal, the supervisor ends in the HALTED state and
// never touches the indicator.
package m2m

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	ErrBootstrap         = errors.New("bootstrap failed")
	ErrArm               = errors.New("interrupt arming failed")
	ErrStart             = errors.New("transfer start failed")
	ErrTimeout           = errors.New("transfer completion timed out")
	ErrCanceled          = errors.New("transfer wait canceled")
	ErrMismatch          = errors.New("source and destination array elements are not equal")
	ErrReport            = errors.New("success indicator failed")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Result represents the transfer outcome.
type Result struct {
	State    State
	Cause    error
	Mismatch *Mismatch
	Elapsed  time.Duration
}

// OK returns whether the transfer was verified and reported.
func (r Result) OK() bool {
	return r.State == StateIdle && r.Cause == nil
}

// Supervisor orchestrates a single transfer.
type Supervisor struct {
	// Bootstrap is the (optional) board and peripheral initialization
	Bootstrap func() error

	Peripheral Peripheral
	Indicator  Indicator

	// Flag is set by the completion handler
	Flag *Flag

	Source      Words
	Destination Words

	// Timeout bounds the completion wait, 0 waits forever
	Timeout time.Duration
	// PollInterval is the sleep between flag reads, 0 spins
	PollInterval time.Duration

	// Debug enables diagnostic messages on Logger
	Debug  bool
	Logger *log.Logger

	m machine
}

// State returns the current supervisor state.
func (s *Supervisor) State() State {
	return s.m.current()
}

func (s *Supervisor) debugf(format string, v ...interface{}) {
	if !s.Debug {
		return
	}

	if s.Logger != nil {
		s.Logger.Printf(format, v...)
	} else {
		log.Printf(format, v...)
	}
}

func (s *Supervisor) advance(to State) {
	if err := s.m.advance(to); err != nil {
		panic(err)
	}

	s.debugf("state %s", to)
}

func (s *Supervisor) halt(res *Result, cause error) {
	res.Cause = cause
	s.advance(StateHalted)
	s.debugf("halted: %v", cause)
}

// Run performs bootstrap, interrupt arming, transfer start, completion
// wait, verification and report, in this order. A supervisor runs once.
func (s *Supervisor) Run(ctx context.Context) (res Result) {
	start := time.Now()

	defer func() {
		res.State = s.State()
		res.Elapsed = time.Since(start)
	}()

	if err := s.m.start(); err != nil {
		res.Cause = err
		return
	}

	if s.Flag == nil || s.Peripheral == nil || s.Indicator == nil {
		s.halt(&res, fmt.Errorf("%w: incomplete supervisor", ErrBootstrap))
		return
	}

	// success requires all DataLength words to be compared
	if len(s.Source) != DataLength || len(s.Destination) < len(s.Source) {
		s.halt(&res, fmt.Errorf("%w: %d source and %d destination words, want %d",
			ErrBootstrap, len(s.Source), len(s.Destination), DataLength))
		return
	}

	if s.Bootstrap != nil {
		if err := s.Bootstrap(); err != nil {
			s.halt(&res, fmt.Errorf("%w: %v", ErrBootstrap, err))
			return
		}
	}

	s.debugf("initialization done")

	// the interrupt must be armed before the channel is enabled, a
	// completion raised earlier is lost
	if err := s.Peripheral.ConfigureInterrupt(); err != nil {
		s.halt(&res, fmt.Errorf("%w: %v", ErrArm, err))
		return
	}

	s.advance(StateArmed)
	s.advance(StateTransferring)

	if err := s.Peripheral.EnableChannel(); err != nil {
		s.halt(&res, fmt.Errorf("%w: %v", ErrStart, err))
		return
	}

	if err := s.Flag.Poll(ctx, s.Timeout, s.PollInterval); err != nil {
		if !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %v", ErrCanceled, err)
		}

		s.halt(&res, err)
		return
	}

	s.debugf("DMA transfer completed")

	// the destination is only read once completion has been observed
	if mm := Verify(s.Source, s.Destination); mm != nil {
		res.Mismatch = mm
		s.halt(&res, fmt.Errorf("%w: %v", ErrMismatch, mm))
		return
	}

	s.advance(StateVerifiedOK)

	if err := s.Indicator.Set(true); err != nil {
		s.halt(&res, fmt.Errorf("%w: %v", ErrReport, err))
		return
	}

	s.debugf("source and destination array elements are equal")
	s.advance(StateIdle)

	return
}

// Idle performs no work until ctx is done.
func (s *Supervisor) Idle(ctx context.Context) {
	<-ctx.Done()
}

// Halt stops execution on a failed transfer result.
func Halt(res Result) {
	panic(fmt.Sprintf("halted in %s: %v", res.State, res.Cause))
}
