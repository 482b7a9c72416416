// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package m2m

//go:generate go run go.uber.org/mock/mockgen -destination "mock_m2m_test.go" -package m2m_test -write_package_comment=false github.com/f-secure-foundry/armory-m2m/internal/m2m Peripheral,Indicator

// Peripheral is the DMA channel and its interrupt line, as seen by the
// transfer.
type Peripheral interface {
	// ConfigureInterrupt sets the completion interrupt priority and
	// enables it at the interrupt controller.
	ConfigureInterrupt() error
	// AcknowledgeEvent clears the transfer complete event status.
	AcknowledgeEvent()
	// EnableChannel starts the programmed transfer.
	EnableChannel() error
}

// Indicator is the success output signal (e.g. an LED).
type Indicator interface {
	Set(on bool) error
}

// CompletionHandler returns the interrupt service routine for the
// transfer complete event. It is the only writer of flag.
func CompletionHandler(flag *Flag, p Peripheral) func() {
	return func() {
		flag.Set()
		p.AcknowledgeEvent()
	}
}
