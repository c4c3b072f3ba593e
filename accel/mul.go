/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"time"

	"github.com/hwcrypto/mpiaccel/accel/soc"
	"github.com/hwcrypto/mpiaccel/mpi"
)

// Mul sets Z = X * Y. Operands within half the hardware ceiling use the
// plain-multiply mode directly; larger operands whose product still fits
// the ceiling go through a modular multiply disguised with an all-ones
// modulus; anything larger is split recursively. Z must not alias X or Y.
func (p *Provider) Mul(z, x, y *mpi.Int) error {
	xBits := x.BitLen()
	yBits := y.BitLen()

	// Short-circuit if either argument is 0 or +-1. Modular division will
	// sometimes call in here with one argument too large for the hardware
	// unit but the other trivial. This leaks some timing information,
	// although overall there is far less timing variation than a software
	// approach.
	if xBits == 0 || yBits == 0 {
		z.Lset(0)
		return nil
	}
	if xBits == 1 {
		if err := z.Copy(y); err != nil {
			return err
		}
		z.SetSign(z.Sign() * x.Sign())
		return nil
	}
	if yBits == 1 {
		if err := z.Copy(x); err != nil {
			return err
		}
		z.SetSign(z.Sign() * y.Sign())
		return nil
	}

	xWords := bitsToWords(xBits)
	yWords := bitsToWords(yBits)
	numWords := xWords
	if yWords > numWords {
		numWords = yWords
	}
	zWords := xWords + yWords

	// Factors over half the ceiling exceed the plain multiplier, which
	// needs room for a double-width result. The modular-multiply mode has
	// no such restriction, so products up to the full ceiling fail over to
	// it; beyond that the longer operand is split.
	if numWords*mpi.WordBits > soc.MaxOperandBits/2 {
		if zWords*mpi.WordBits <= soc.MaxOperandBits {
			return p.mulFailover(z, x, y, zWords)
		}
		if err := z.Grow(zWords); err != nil {
			return err
		}
		if yWords > xWords {
			return p.mulOverlong(z, x, y, yWords)
		}
		return p.mulOverlong(z, y, x, xWords)
	}

	defer p.metrics.observeOp(modeMult, time.Now())

	p.acquireHardware()

	// X right-extended in its own block, Y left-extended into the upper
	// half of the Z block. The lower half of the Z block is not written;
	// power-up zeroed it during acquire.
	writeBlock(p.bus, soc.MemXBase, x, numWords)
	writeBlock(p.bus, soc.MemZBase+uint32(numWords)*4, y, numWords)

	p.bus.Write32(soc.RegMPrime, 0)
	p.bus.Write32(soc.RegLength, uint32(numWords*2-1))

	p.startOp(soc.RegMultStart)
	err := p.waitOp()
	if err == nil {
		err = readBlock(z, p.bus, soc.MemZBase, zWords)
	}

	p.releaseHardware()
	if err != nil {
		return err
	}

	z.SetSign(x.Sign() * y.Sign())
	return nil
}

// mulFailover computes Z = X * Y on the modular-multiply unit for factors
// beyond the plain multiplier's width. The modulus is chosen as
// M = 2^(numWords*32) - 1, which is larger than any possible product, so no
// reduction actually occurs and the Montgomery parameters collapse to
// N' = 1 and Rinv = 1 with no computation.
func (p *Provider) mulFailover(z, x, y *mpi.Int, numWords int) error {
	defer p.metrics.observeOp(modeModMult, time.Now())

	p.acquireHardware()

	// M = 2^(numWords*32) - 1, so the block is entirely ones.
	for i := 0; i < numWords; i++ {
		p.bus.Write32(soc.MemMBase+uint32(i)*4, 0xFFFFFFFF)
	}

	p.bus.Write32(soc.RegMPrime, 1)
	p.bus.Write32(soc.RegLength, uint32(numWords-1))

	writeBlock(p.bus, soc.MemXBase, x, numWords)
	writeBlock(p.bus, soc.MemYBase, y, numWords)

	// Rinv = 1.
	p.bus.Write32(soc.MemRinvBase, 1)
	for i := 1; i < numWords; i++ {
		p.bus.Write32(soc.MemRinvBase+uint32(i)*4, 0)
	}

	p.startOp(soc.RegModMultStart)
	err := p.waitOp()
	if err == nil {
		err = readBlock(z, p.bus, soc.MemZBase, numWords)
	}

	p.releaseHardware()
	if err != nil {
		return err
	}

	z.SetSign(x.Sign() * y.Sign())
	return nil
}

// mulOverlong computes Z = X * Y when even the failover path cannot hold
// the product. Y must be the longer operand; it is sliced on the limb
// boundary into a low half Yp and a high half Ypp, both storage-sharing
// views, and
//
//	Z = X*Y = (X * Yp) + (X * Ypp << b)
//
// with b the slice width in bits. The recursive calls bottom out in one of
// the two hardware paths since each call strictly narrows the operands.
// This trades one extra addition for avoiding a third recursive multiply.
func (p *Provider) mulOverlong(z, x, y *mpi.Int, yWords int) error {
	wordsSlice := yWords / 2
	yp := y.Window(0, wordsSlice)
	ypp := y.Window(wordsSlice, yWords-wordsSlice)

	ztemp := mpi.New()
	if err := p.Mul(ztemp, x, yp); err != nil {
		return err
	}
	if err := p.Mul(z, x, ypp); err != nil {
		return err
	}
	if err := z.ShiftL(wordsSlice * mpi.WordBits); err != nil {
		return err
	}
	return z.Add(z, ztemp)
}

func bitsToWords(bits int) int {
	return (bits + mpi.WordBits - 1) / mpi.WordBits
}
