// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package m2m

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Flag is a one-shot completion flag with a single writer (the interrupt
// handler) and a single reader (the supervisor). Once set it is never
// reset.
//
// The zero value is ready for use.
type Flag struct {
	// 0 or 1, accessed atomically
	set uint32

	once sync.Once
	done chan struct{}
}

func (f *Flag) init() {
	f.once.Do(func() {
		f.done = make(chan struct{})
	})
}

// Set marks completion, further calls have no effect.
func (f *Flag) Set() {
	f.init()

	if atomic.CompareAndSwapUint32(&f.set, 0, 1) {
		close(f.done)
	}
}

// IsSet returns whether completion has been signaled.
func (f *Flag) IsSet() bool {
	return atomic.LoadUint32(&f.set) == 1
}

// Done returns a channel closed on completion.
func (f *Flag) Done() <-chan struct{} {
	f.init()
	return f.done
}

// Poll spins on the flag until it is set, the timeout (if positive)
// elapses or the context is done. A zero interval yields the processor
// between reads instead of sleeping.
func (f *Flag) Poll(ctx context.Context, timeout time.Duration, interval time.Duration) error {
	var deadline time.Time

	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for !f.IsSet() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrTimeout
		}

		if interval > 0 {
			time.Sleep(interval)
		} else {
			runtime.Gosched()
		}
	}

	return nil
}
