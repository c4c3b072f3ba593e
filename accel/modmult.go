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

// ModMult sets Z = (X * Y) mod M using a single hardware Montgomery
// multiplication. All operands must fit the hardware operand width; the
// Montgomery parameters are derived before the peripheral is acquired.
func (p *Provider) ModMult(z, x, y, m *mpi.Int) error {
	yBits := y.BitLen()
	xWords := x.Words()
	yWords := y.Words()
	mWords := m.Words()

	numWords := maxWords(mWords, xWords, yWords)
	if numWords*mpi.WordBits > soc.MaxOperandBits {
		p.metrics.rejectCount.Add(1)
		return errors.Wrapf(ErrOperandTooLarge, "mod mult needs %d bits", numWords*mpi.WordBits)
	}

	// First stage Montgomery parameters. Rinv is the expensive one and must
	// be computed before the hardware guard is taken.
	rinv := mpi.New()
	if err := calculateRinv(rinv, m, numWords); err != nil {
		return err
	}
	mprime := modularInverse(m)

	defer p.metrics.observeOp(modeModMult, time.Now())

	p.acquireHardware()
	defer p.releaseHardware()

	p.bus.Write32(soc.RegLength, uint32(numWords-1))
	p.bus.Write32(soc.RegMPrime, mprime)

	writeBlock(p.bus, soc.MemMBase, m, numWords)
	writeBlock(p.bus, soc.MemRinvBase, rinv, numWords)
	writeBlock(p.bus, soc.MemXBase, x, numWords)
	writeBlock(p.bus, soc.MemYBase, y, numWords)

	// Constant-time mode stays off for performance; the search acceleration
	// is keyed on Y's most significant bit position.
	p.bus.Write32(soc.RegConstantTime, 0)
	p.bus.Write32(soc.RegSearchEnable, 1)
	p.bus.Write32(soc.RegSearchPos, uint32(yBits-1))

	p.startOp(soc.RegModMultStart)
	if err := p.waitOp(); err != nil {
		return err
	}

	p.bus.Write32(soc.RegSearchEnable, 0)

	return readBlock(z, p.bus, soc.MemZBase, mWords)
}

func maxWords(words ...int) int {
	max := 0
	for _, w := range words {
		if w > max {
			max = w
		}
	}
	return max
}
