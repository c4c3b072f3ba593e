/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"time"

	"github.com/hwcrypto/mpiaccel/accel/soc"
	"github.com/hwcrypto/mpiaccel/mpi"
	"github.com/pkg/errors"
)

// ModExp sets Z = X^Y mod M using the hardware sliding-window
// exponentiation mode. M must be positive and odd, and Y non-negative.
//
// cachedRinv optionally carries a pre-computed Montgomery residue constant
// for M at this operand width (via CalculateRinv); when it is non-nil and
// empty, the derived constant is stored into it so the caller can reuse it
// across operations against the same modulus. Pass nil to derive a
// throwaway constant.
func (p *Provider) ModExp(z, x, y, m *mpi.Int, cachedRinv *mpi.Int) error {
	yBits := y.BitLen()
	xWords := x.Words()
	yWords := y.Words()
	mWords := m.Words()

	// "All numbers must be the same length", so the longest operand sets
	// the cardinal length of the operation.
	numWords := maxWords(mWords, xWords, yWords)

	if m.CmpInt(0) <= 0 || m.Limb(0)&1 == 0 {
		p.metrics.rejectCount.Add(1)
		return errors.Wrap(ErrBadInput, "modulus must be positive and odd")
	}
	if y.CmpInt(0) < 0 {
		p.metrics.rejectCount.Add(1)
		return errors.Wrap(ErrBadInput, "exponent must be non-negative")
	}
	if y.CmpInt(0) == 0 {
		// X^0 = 1, no hardware use.
		z.Lset(1)
		return nil
	}
	if numWords*mpi.WordBits > soc.MaxOperandBits {
		p.metrics.rejectCount.Add(1)
		return errors.Wrapf(ErrOperandTooLarge, "mod exp needs %d bits", numWords*mpi.WordBits)
	}

	// Use the caller's cached Rinv when provided, deriving it only when the
	// cache is empty. Derivation happens before the hardware guard is
	// taken.
	rinv := cachedRinv
	if rinv == nil {
		rinv = mpi.New()
	}
	if len(rinv.Bits()) == 0 {
		if err := calculateRinv(rinv, m, numWords); err != nil {
			return err
		}
	}
	mprime := modularInverse(m)

	defer p.metrics.observeOp(modeModExp, time.Now())

	p.acquireHardware()

	p.bus.Write32(soc.RegLength, uint32(numWords-1))

	writeBlock(p.bus, soc.MemXBase, x, numWords)
	writeBlock(p.bus, soc.MemYBase, y, numWords)
	writeBlock(p.bus, soc.MemMBase, m, numWords)
	writeBlock(p.bus, soc.MemRinvBase, rinv, numWords)
	p.bus.Write32(soc.RegMPrime, mprime)

	p.bus.Write32(soc.RegConstantTime, 0)
	p.bus.Write32(soc.RegSearchEnable, 1)
	p.bus.Write32(soc.RegSearchPos, uint32(yBits-1))

	p.startOp(soc.RegModExpStart)
	err := p.waitOp()
	if err == nil {
		p.bus.Write32(soc.RegSearchEnable, 0)
		err = readBlock(z, p.bus, soc.MemZBase, mWords)
	}

	p.releaseHardware()
	if err != nil {
		return err
	}

	// The hardware result is always non-negative. Fold a negative base with
	// an odd exponent back into [0, M).
	if x.Sign() < 0 && y.Limb(0)&1 != 0 {
		z.SetSign(-1)
		return z.Add(m, z)
	}
	return nil
}

// CalculateRinv pre-computes the Montgomery residue constant R^2 mod M for
// use as the cached Rinv argument of ModExp. numWords is the operand width
// of the operations the cache will serve. The caller owns the result and
// decides when a modulus change requires recomputing it.
func (p *Provider) CalculateRinv(rinv, m *mpi.Int, numWords int) error {
	if m.CmpInt(0) <= 0 {
		return errors.Wrap(ErrBadInput, "modulus must be positive")
	}
	if numWords <= 0 || numWords > soc.MaxOperandWords {
		return errors.Wrapf(ErrOperandTooLarge, "rinv for %d words", numWords)
	}
	return calculateRinv(rinv, m, numWords)
}
