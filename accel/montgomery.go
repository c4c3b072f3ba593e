/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"github.com/hwcrypto/mpiaccel/mpi"
)

// modularInverse derives the Montgomery constant N' from the modulus M,
// where N*N' == -1 (mod 2^32). Only the least significant word of M
// participates; M must be odd. This is the iterative reconstruction from
// Dusse and Kaliski's article: at step i the low i bits of t satisfy
// N*t == 1 (mod 2^i).
func modularInverse(m *mpi.Int) uint32 {
	var (
		t    uint64 = 1
		bit  uint64 = 2 // 2^(i-1)
		mod  uint64 = 4 // 2^i
		n           = uint64(m.Limb(0))
	)

	for i := 2; i <= 32; i++ {
		if n*t%mod >= bit {
			t += bit
		}
		bit <<= 1
		mod <<= 1
	}

	// N' = 2^32 - t, i.e. the two's complement negation of t.
	return -uint32(t)
}

// calculateRinv computes Rinv = R^2 mod M, where R = 2^(32*numWords). The
// general modular reduction makes this computationally expensive, so
// callers should cache the result where possible.
//
// Do not call this function while holding the hardware guard.
func calculateRinv(rinv, m *mpi.Int, numWords int) error {
	numBits := numWords * 32

	rr := mpi.New()
	if err := rr.SetBit(numBits*2, 1); err != nil {
		return err
	}
	return rinv.Mod(rr, m)
}
