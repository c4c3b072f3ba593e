/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package accel implements hardware-accelerated multi-precision arithmetic:
// plain multiplication, modular multiplication, and modular exponentiation
// offloaded to a big-number accelerator peripheral, with recursive software
// composition when operands exceed the peripheral's fixed operand width.
package accel

import (
	"sync"
	"time"

	"github.com/hwcrypto/mpiaccel/accel/soc"
	"github.com/hwcrypto/mpiaccel/common/flogging"
	"github.com/hwcrypto/mpiaccel/common/metrics"
	"github.com/hwcrypto/mpiaccel/common/metrics/disabled"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("accel")

// Opts contains options for constructing a Provider.
type Opts struct {
	// PollRetries bounds the completion busy-poll. The reference hardware
	// contract is to poll without timeout, which 0 preserves; a positive
	// value makes a stuck peripheral surface as an error after that many
	// polls instead of hanging the holder. Using a bound is a documented
	// deviation from the reference contract.
	PollRetries int `mapstructure:"pollRetries" json:"pollRetries,omitempty" yaml:"PollRetries"`
}

type config struct {
	pollRetries int
}

// A GuardObserver is notified as the peripheral access guard is acquired
// and released. Observers run inside the critical section.
type GuardObserver interface {
	Acquired(t time.Time)
	Released(t time.Time)
}

// An Option is used to configure the Provider.
type Option func(p *Provider) error

// WithBus returns an option that connects the Provider to the given
// register bus instead of the default simulated peripheral.
func WithBus(bus soc.Bus) Option {
	return func(p *Provider) error {
		if bus == nil {
			return errors.New("accel: nil bus")
		}
		p.bus = bus
		return nil
	}
}

// WithMetricsProvider returns an option that configures the Provider to
// record operation metrics with the given metrics provider.
func WithMetricsProvider(mp metrics.Provider) Option {
	return func(p *Provider) error {
		p.metricsProvider = mp
		return nil
	}
}

// WithGuardObserver returns an option that installs an observer on the
// peripheral access guard.
func WithGuardObserver(o GuardObserver) Option {
	return func(p *Provider) error {
		p.observer = o
		return nil
	}
}

// Provider owns the accelerator peripheral. All hardware use is serialized
// behind its process-wide lock, so a single Provider is safe for concurrent
// use by independent callers.
type Provider struct {
	conf *config
	bus  soc.Bus

	lock     sync.Mutex // exclusive access to the peripheral
	observer GuardObserver

	metricsProvider metrics.Provider
	metrics         *operationMetrics
}

// New returns a Provider configured with opts. Without a WithBus option the
// Provider drives the simulated peripheral.
func New(opts Opts, options ...Option) (*Provider, error) {
	if opts.PollRetries < 0 {
		return nil, errors.Errorf("accel: negative poll retry count %d", opts.PollRetries)
	}

	p := &Provider{
		conf:            &config{pollRetries: opts.PollRetries},
		metricsProvider: &disabled.Provider{},
	}
	for _, o := range options {
		if err := o(p); err != nil {
			return nil, err
		}
	}
	if p.bus == nil {
		p.bus = soc.NewSimulator()
	}
	p.metrics = newOperationMetrics(p.metricsProvider)

	logger.Debugf("accelerator provider initialized, poll retries %d", opts.PollRetries)
	return p, nil
}

// acquireHardware takes the process-wide peripheral lock, then clocks and
// powers the accelerator and waits for it to report clean. Every register
// access must happen between a matched acquireHardware/releaseHardware
// pair.
func (p *Provider) acquireHardware() {
	p.lock.Lock()

	setBits(p.bus, soc.RegClockEnable, soc.ClockEnableRSA)
	// Also clear reset on the digital signature unit; the accelerator is
	// held in reset while it is asserted.
	clearBits(p.bus, soc.RegReset, soc.ResetRSA|soc.ResetDS)
	clearBits(p.bus, soc.RegPowerCtrl, soc.PowerDownMem)

	for p.bus.Read32(soc.RegQueryClean) != 1 {
	}
	// From enabling the clock to a clean peripheral is ~1.3us on the
	// reference silicon, so the wait above is short and bounded.

	if p.observer != nil {
		p.observer.Acquired(time.Now())
	}
}

// releaseHardware powers the peripheral back down, re-asserts its reset,
// gates its clock, and releases the lock.
func (p *Provider) releaseHardware() {
	if p.observer != nil {
		p.observer.Released(time.Now())
	}

	setBits(p.bus, soc.RegPowerCtrl, soc.PowerDownMem)
	// Leave the digital signature reset alone; asserting it resets the AES
	// unit as well.
	setBits(p.bus, soc.RegReset, soc.ResetRSA)
	clearBits(p.bus, soc.RegClockEnable, soc.ClockEnableRSA)

	p.lock.Unlock()
}

func setBits(bus soc.Bus, reg, mask uint32) {
	bus.Write32(reg, bus.Read32(reg)|mask)
}

func clearBits(bus soc.Bus, reg, mask uint32) {
	bus.Write32(reg, bus.Read32(reg)&^mask)
}
