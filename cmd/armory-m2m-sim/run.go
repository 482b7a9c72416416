// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/f-secure-foundry/armory-m2m/internal/board"
	"github.com/f-secure-foundry/armory-m2m/internal/gpdma"
	"github.com/f-secure-foundry/armory-m2m/internal/m2m"
	"github.com/f-secure-foundry/armory-m2m/internal/report"
)

var errBootstrapFault = errors.New("injected bootstrap fault")

type simConfig struct {
	timeout time.Duration
	poll    time.Duration
	debug   bool
	idle    bool

	blockSize int
	latency   time.Duration

	corruptIndex  int
	corruptValue  uint32
	dropIRQ       bool
	armLate       bool
	latch         bool
	failBootstrap bool

	report       string
	reportFormat string
}

func (conf *simConfig) validate() error {
	switch {
	case conf.corruptIndex >= m2m.DataLength:
		return fmt.Errorf("corrupt index must be below %d", m2m.DataLength)
	case conf.blockSize < 0:
		return errors.New("block size must not be negative")
	case conf.timeout < 0 || conf.poll < 0 || conf.latency < 0:
		return errors.New("durations must not be negative")
	case conf.reportFormat != "json" && conf.reportFormat != "binary":
		return fmt.Errorf("unsupported report format %q", conf.reportFormat)
	}

	return nil
}

type simulation struct {
	conf   *simConfig
	logger *log.Logger

	hw  *board.Board
	led *board.LogIndicator
	sup *m2m.Supervisor
}

func newSimulation(conf *simConfig, logger *log.Logger) (s *simulation, err error) {
	if err = conf.validate(); err != nil {
		return
	}

	src := m2m.SourceData()
	dst := make(m2m.Words, m2m.DataLength)

	hw := board.New()
	led := &board.LogIndicator{Name: "white", Logger: logger}

	bc := &board.Config{
		BlockSize: conf.blockSize,
		Latency:   conf.latency,
		Latch:     conf.latch,
	}

	if conf.dropIRQ {
		bc.Events = gpdma.EventError
	}

	if conf.corruptIndex >= 0 {
		idx, val := conf.corruptIndex, conf.corruptValue

		bc.Fault = func(dst []uint32) {
			dst[idx] = val
		}
	}

	var p m2m.Peripheral = hw.Peripheral

	if conf.armLate {
		p = &board.LateArming{Peripheral: hw.Peripheral}
	}

	sup := &m2m.Supervisor{
		Bootstrap: func() error {
			if conf.failBootstrap {
				return errBootstrapFault
			}

			return hw.Init(src, dst, bc)
		},
		Peripheral:   p,
		Indicator:    led,
		Flag:         hw.Flag,
		Source:       src,
		Destination:  dst,
		Timeout:      conf.timeout,
		PollInterval: conf.poll,
		Debug:        conf.debug,
		Logger:       logger,
	}

	return &simulation{
		conf:   conf,
		logger: logger,
		hw:     hw,
		led:    led,
		sup:    sup,
	}, nil
}

// run executes the transfer, with debug enabled a second goroutine
// traces supervisor state changes.
func (s *simulation) run(ctx context.Context) (res m2m.Result) {
	g := &errgroup.Group{}
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		res = s.sup.Run(ctx)
		return nil
	})

	if s.conf.debug {
		g.Go(func() error {
			s.trace(done)
			return nil
		})
	}

	g.Wait()
	s.hw.Wait()

	return
}

func (s *simulation) trace(done <-chan struct{}) {
	last := m2m.StateInit

	t := time.NewTicker(time.Millisecond)
	defer t.Stop()

	for {
		var exit bool

		select {
		case <-done:
			exit = true
		case <-t.C:
		}

		if st := s.sup.State(); st != last {
			s.logger.Printf("trace: %s -> %s", last, st)
			last = st
		}

		if exit {
			return
		}
	}
}

func (s *simulation) writeReport(res m2m.Result) (err error) {
	r, err := report.New(res, time.Now())

	if err != nil {
		return
	}

	var buf []byte

	switch s.conf.reportFormat {
	case "binary":
		buf = r.Bytes()
	default:
		buf = r.JSON()
	}

	return os.WriteFile(s.conf.report, buf, 0600)
}

func newRunCmd() *cobra.Command {
	conf := &simConfig{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the transfer once and report its outcome.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := log.New(cmd.OutOrStdout(), "", 0)

			s, err := newSimulation(conf, logger)

			if err != nil {
				return err
			}

			res := s.run(ctx)

			logger.Printf("transfer %s in %v", res.State, res.Elapsed)

			if conf.report != "" {
				if err = s.writeReport(res); err != nil {
					return err
				}
			}

			if !res.OK() {
				return fmt.Errorf("halted: %w", res.Cause)
			}

			if conf.idle {
				logger.Printf("idle, interrupt to exit")
				s.sup.Idle(ctx)
			}

			return nil
		},
	}

	f := cmd.Flags()

	f.DurationVar(&conf.timeout, "timeout", 0, "completion wait bound (0 waits forever)")
	f.DurationVar(&conf.poll, "poll", 0, "completion flag poll interval (0 spins)")
	f.BoolVar(&conf.debug, "debug", false, "print diagnostic messages")
	f.BoolVar(&conf.idle, "idle", false, "idle after success until interrupted")

	f.IntVar(&conf.blockSize, "block-size", 0, "words per DMA block (0 for a single block)")
	f.DurationVar(&conf.latency, "latency", 0, "DMA engine time per block")

	f.IntVar(&conf.corruptIndex, "corrupt-index", -1, "destination word altered before completion (-1 disables)")
	f.Uint32Var(&conf.corruptValue, "corrupt-value", 99, "value written at corrupt-index")
	f.BoolVar(&conf.dropIRQ, "drop-irq", false, "leave the transfer complete event masked")
	f.BoolVar(&conf.armLate, "arm-late", false, "enable the interrupt line after the transfer")
	f.BoolVar(&conf.latch, "latch", false, "latch interrupts raised while the line is disabled")
	f.BoolVar(&conf.failBootstrap, "fail-bootstrap", false, "fail board initialization")

	f.StringVar(&conf.report, "report", "", "write the outcome report to file")
	f.StringVar(&conf.reportFormat, "report-format", "json", "report format (json, binary)")

	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
