/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/hwcrypto/mpiaccel/mpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, options ...Option) *Provider {
	t.Helper()
	p, err := New(Opts{}, options...)
	require.NoError(t, err)
	return p
}

func toMpi(t *testing.T, b *big.Int) *mpi.Int {
	t.Helper()
	z := mpi.New()
	require.NoError(t, z.SetBigInt(b))
	return z
}

// randOdd returns a deterministic pseudo-random odd integer of exactly bits
// bits.
func randOdd(rnd *rand.Rand, bits int) *big.Int {
	v := new(big.Int).Rand(rnd, new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	v.SetBit(v, bits-1, 1)
	v.SetBit(v, 0, 1)
	return v
}

func TestModMultWorkedExample(t *testing.T) {
	p := newTestProvider(t)

	z := mpi.New()
	require.NoError(t, p.ModMult(z, mpi.NewInt(12345), mpi.NewInt(67890), mpi.NewInt(1000003)))

	want := new(big.Int).Mod(big.NewInt(12345*67890), big.NewInt(1000003))
	assert.Zero(t, z.BigInt().Cmp(want))
}

func TestModMultWidthSpan(t *testing.T) {
	// Widths spanning one word, the plain-multiply boundary, and the
	// hardware ceiling, plus one word below each boundary.
	widths := []int{32, 2016, 2048, 2080, 4064, 4096}

	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(0x5eed))

	for _, bits := range widths {
		t.Run(fmt.Sprintf("%dbits", bits), func(t *testing.T) {
			m := randOdd(rnd, bits)
			x := new(big.Int).Rand(rnd, m)
			y := new(big.Int).Rand(rnd, m)

			z := mpi.New()
			require.NoError(t, p.ModMult(z, toMpi(t, x), toMpi(t, y), toMpi(t, m)))

			want := new(big.Int).Mod(new(big.Int).Mul(x, y), m)
			assert.Zero(t, z.BigInt().Cmp(want))
		})
	}
}

func TestModMultRejectsOversizedOperands(t *testing.T) {
	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(1))

	m := randOdd(rnd, 4097) // one bit over the ceiling needs 129 words
	z := mpi.New()
	err := p.ModMult(z, mpi.NewInt(2), mpi.NewInt(3), toMpi(t, m))
	assert.ErrorIs(t, err, ErrOperandTooLarge)
}

func TestModMultResultWidthFollowsModulus(t *testing.T) {
	// The result is read back at the modulus width even when X and Y are
	// wider than M.
	p := newTestProvider(t)

	m := mpi.NewInt(997) // odd
	x := mpi.New()
	require.NoError(t, x.SetString("ffffffffffffffffffffffff", 16))
	y := mpi.New()
	require.NoError(t, y.SetString("eeeeeeeeeeeeeeeeeeeeeeee", 16))

	z := mpi.New()
	require.NoError(t, p.ModMult(z, x, y, m))

	want := new(big.Int).Mod(new(big.Int).Mul(x.BigInt(), y.BigInt()), m.BigInt())
	assert.Zero(t, z.BigInt().Cmp(want))
}

func TestModMultReusableResult(t *testing.T) {
	// The same destination integer can be reused across calls against
	// different moduli.
	p := newTestProvider(t)
	z := mpi.New()

	require.NoError(t, p.ModMult(z, mpi.NewInt(10), mpi.NewInt(20), mpi.NewInt(7)))
	assert.Equal(t, 0, z.CmpInt(200%7))

	require.NoError(t, p.ModMult(z, mpi.NewInt(10), mpi.NewInt(20), mpi.NewInt(201)))
	assert.Equal(t, 0, z.CmpInt(200))
}
