/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"github.com/hwcrypto/mpiaccel/accel/soc"
	"github.com/pkg/errors"
)

// startOp begins an accelerator operation. startReg selects which start
// trigger is written. Any pending completion status is cleared first, and
// the barrier guarantees the operand block writes and the clear are visible
// to the device before the trigger.
func (p *Provider) startOp(startReg uint32) {
	p.bus.Write32(soc.RegClearInterrupt, 1)
	p.bus.Write32(soc.RegInterruptEna, 1)

	p.bus.Barrier()

	p.bus.Write32(startReg, 1)
}

// waitOp busy-polls until the accelerator reports completion, then clears
// the completion flag. With pollRetries == 0 the poll never times out: the
// operation is assumed to always complete because operand widths are
// bounded. A stuck peripheral then hangs the holder and every queued
// caller.
func (p *Provider) waitOp() error {
	polls := 0
	for p.bus.Read32(soc.RegQueryIdle) != 1 {
		polls++
		if p.conf.pollRetries > 0 && polls >= p.conf.pollRetries {
			return errors.Errorf("accel: operation incomplete after %d polls", polls)
		}
	}

	p.bus.Write32(soc.RegClearInterrupt, 1)
	return nil
}
