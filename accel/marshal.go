/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"github.com/hwcrypto/mpiaccel/accel/soc"
	"github.com/hwcrypto/mpiaccel/mpi"
)

// writeBlock copies x's magnitude into the numWords-word operand block at
// base. When numWords exceeds x's significant length the remainder of the
// block is zeroed; when it is shorter, the copy truncates.
func writeBlock(bus soc.Bus, base uint32, x *mpi.Int, numWords int) {
	copyWords := x.Words()
	if copyWords > numWords {
		copyWords = numWords
	}

	for i := 0; i < copyWords; i++ {
		bus.Write32(base+uint32(i)*4, x.Limb(i))
	}
	for i := copyWords; i < numWords; i++ {
		bus.Write32(base+uint32(i)*4, 0)
	}

	// No barrier here; the sequencer issues one before the start trigger.
}

// readBlock reads the numWords-word operand block at base into z, growing
// z's storage as needed and zeroing any allocated limbs beyond numWords.
// Hardware results are magnitudes, so z comes back non-negative. Growing
// the storage is the only failure.
func readBlock(z *mpi.Int, bus soc.Bus, base uint32, numWords int) error {
	if err := z.Grow(numWords); err != nil {
		return err
	}

	limbs := z.Bits()
	for i := 0; i < numWords; i++ {
		limbs[i] = bus.Read32(base + uint32(i)*4)
	}
	for i := numWords; i < len(limbs); i++ {
		limbs[i] = 0
	}
	z.SetSign(1)

	// The result must be fully visible before the peripheral is released.
	bus.Barrier()
	return nil
}
