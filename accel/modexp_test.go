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

func TestModExpSmallCases(t *testing.T) {
	p := newTestProvider(t)

	tests := []struct {
		x, y, m int64
	}{
		{2, 10, 1000003},
		{7, 0, 13},
		{0, 5, 13},
		{5, 1, 13},
		{12345, 678, 1000003},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d^%d mod %d", tc.x, tc.y, tc.m), func(t *testing.T) {
			z := mpi.New()
			require.NoError(t, p.ModExp(z, mpi.NewInt(tc.x), mpi.NewInt(tc.y), mpi.NewInt(tc.m), nil))

			want := new(big.Int).Exp(big.NewInt(tc.x), big.NewInt(tc.y), big.NewInt(tc.m))
			assert.Zero(t, z.BigInt().Cmp(want))
		})
	}
}

func TestModExpZeroExponentSkipsHardware(t *testing.T) {
	// Y == 0 must produce 1 without touching the peripheral, for any X.
	rec := &intervalRecorder{}
	p := newTestProvider(t, WithGuardObserver(rec))

	z := mpi.New()
	require.NoError(t, p.ModExp(z, mpi.NewInt(-12345), mpi.NewInt(0), mpi.NewInt(99991), nil))
	assert.Equal(t, 0, z.CmpInt(1))
	assert.Empty(t, rec.intervals(), "degenerate exponent must not acquire the hardware")
}

func TestModExpValidation(t *testing.T) {
	p := newTestProvider(t)
	z := mpi.New()

	// Modulus must be strictly positive and odd.
	assert.ErrorIs(t, p.ModExp(z, mpi.NewInt(2), mpi.NewInt(3), mpi.NewInt(0), nil), ErrBadInput)
	assert.ErrorIs(t, p.ModExp(z, mpi.NewInt(2), mpi.NewInt(3), mpi.NewInt(-7), nil), ErrBadInput)
	assert.ErrorIs(t, p.ModExp(z, mpi.NewInt(2), mpi.NewInt(3), mpi.NewInt(10), nil), ErrBadInput)

	// Exponent must be non-negative.
	assert.ErrorIs(t, p.ModExp(z, mpi.NewInt(2), mpi.NewInt(-3), mpi.NewInt(7), nil), ErrBadInput)

	// Width ceiling.
	wide := mpi.New()
	require.NoError(t, wide.SetBit(4096, 1)) // 129 words
	require.NoError(t, wide.SetBit(0, 1))    // keep it odd
	assert.ErrorIs(t, p.ModExp(z, mpi.NewInt(2), mpi.NewInt(3), wide, nil), ErrOperandTooLarge)
}

func TestModExpNegativeBaseSignRule(t *testing.T) {
	p := newTestProvider(t)
	m := big.NewInt(1000003)

	tests := []struct {
		x, y int64
	}{
		{-2, 3},  // odd exponent folds back into [0, M)
		{-2, 4},  // even exponent stays non-negative
		{-9, 1},
		{-9, 2},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d^%d", tc.x, tc.y), func(t *testing.T) {
			z := mpi.New()
			require.NoError(t, p.ModExp(z, mpi.NewInt(tc.x), mpi.NewInt(tc.y), toMpi(t, m), nil))

			want := new(big.Int).Exp(big.NewInt(tc.x), big.NewInt(tc.y), m)
			if want.Sign() < 0 {
				want.Add(want, m)
			}
			assert.Zero(t, z.BigInt().Cmp(want), "want %s", want)
			assert.True(t, z.BigInt().Sign() >= 0)
		})
	}
}

func TestModExpWideOperands(t *testing.T) {
	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(42))

	for _, bits := range []int{2048, 4096} {
		t.Run(fmt.Sprintf("%dbits", bits), func(t *testing.T) {
			m := randOdd(rnd, bits)
			x := new(big.Int).Rand(rnd, m)
			y := new(big.Int).Rand(rnd, big.NewInt(1<<20))

			z := mpi.New()
			require.NoError(t, p.ModExp(z, toMpi(t, x), toMpi(t, y), toMpi(t, m), nil))

			want := new(big.Int).Exp(x, y, m)
			assert.Zero(t, z.BigInt().Cmp(want))
		})
	}
}

func TestModExpCachedRinv(t *testing.T) {
	p := newTestProvider(t)

	m := mpi.NewInt(1000003)
	x := mpi.NewInt(12345)

	// An empty cache is populated on first use.
	cache := mpi.New()
	z := mpi.New()
	require.NoError(t, p.ModExp(z, x, mpi.NewInt(17), m, cache))
	require.NotZero(t, len(cache.Bits()), "cache must be populated")

	r := new(big.Int).Lsh(big.NewInt(1), 32)
	wantRinv := new(big.Int).Mod(new(big.Int).Mul(r, r), m.BigInt())
	assert.Zero(t, cache.BigInt().Cmp(wantRinv))

	// Reuse produces the same results as derivation.
	z2 := mpi.New()
	require.NoError(t, p.ModExp(z2, x, mpi.NewInt(18), m, cache))
	want := new(big.Int).Exp(x.BigInt(), big.NewInt(18), m.BigInt())
	assert.Zero(t, z2.BigInt().Cmp(want))
}

func TestCalculateRinvValidation(t *testing.T) {
	p := newTestProvider(t)
	rinv := mpi.New()

	assert.ErrorIs(t, p.CalculateRinv(rinv, mpi.NewInt(0), 4), ErrBadInput)
	assert.ErrorIs(t, p.CalculateRinv(rinv, mpi.NewInt(9), 129), ErrOperandTooLarge)
	require.NoError(t, p.CalculateRinv(rinv, mpi.NewInt(1000003), 1))
}
