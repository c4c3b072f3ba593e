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

func TestMulFastExits(t *testing.T) {
	rec := &intervalRecorder{}
	p := newTestProvider(t, WithGuardObserver(rec))

	tests := []struct {
		name string
		x, y int64
		want int64
	}{
		{"zero left", 0, 123456, 0},
		{"zero right", 123456, 0, 0},
		{"unit left", 1, 123456, 123456},
		{"unit right", 123456, 1, 123456},
		{"negative unit", -1, 123456, -123456},
		{"both negative units", -1, -1, 1},
		{"unit against zero", -1, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			z := mpi.New()
			require.NoError(t, p.Mul(z, mpi.NewInt(tc.x), mpi.NewInt(tc.y)))
			assert.Equal(t, 0, z.CmpInt(tc.want))
			if tc.want == 0 {
				assert.Equal(t, 1, z.Sign(), "zero results normalize to a positive sign")
			}
		})
	}

	assert.Empty(t, rec.intervals(), "trivial operands must not touch the hardware")
}

func TestMulAllPaths(t *testing.T) {
	// Operand widths landing in each code path: hardware plain multiply,
	// failover through the modular unit, and recursive decomposition.
	tests := []struct {
		name         string
		xBits, yBits int
	}{
		{"hardware small", 64, 96},
		{"hardware at boundary", 2048, 2048},
		{"failover just over boundary", 2080, 1984},
		{"failover at ceiling", 2080, 2016},
		{"overlong balanced", 2080, 2080},
		{"overlong lopsided", 96, 8192},
		{"overlong huge", 6144, 6144},
	}

	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(0xACC))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x := randOdd(rnd, tc.xBits)
			y := randOdd(rnd, tc.yBits)

			z := mpi.New()
			require.NoError(t, p.Mul(z, toMpi(t, x), toMpi(t, y)))
			assert.Zero(t, z.BigInt().Cmp(new(big.Int).Mul(x, y)))
		})
	}
}

func TestMulSigns(t *testing.T) {
	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(7))

	x := randOdd(rnd, 512)
	y := randOdd(rnd, 512)

	for _, tc := range []struct{ sx, sy int64 }{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}} {
		t.Run(fmt.Sprintf("%+d*%+d", tc.sx, tc.sy), func(t *testing.T) {
			xs := new(big.Int).Mul(x, big.NewInt(tc.sx))
			ys := new(big.Int).Mul(y, big.NewInt(tc.sy))

			z := mpi.New()
			require.NoError(t, p.Mul(z, toMpi(t, xs), toMpi(t, ys)))
			assert.Zero(t, z.BigInt().Cmp(new(big.Int).Mul(xs, ys)))
		})
	}
}

func TestMulRecursiveMatchesDirect(t *testing.T) {
	// The recursive split path must produce results identical to direct
	// computation on the operands' halves.
	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(99))

	x := randOdd(rnd, 4100)
	y := randOdd(rnd, 5000)

	z := mpi.New()
	require.NoError(t, p.Mul(z, toMpi(t, x), toMpi(t, y)))

	want := new(big.Int).Mul(x, y)
	assert.Zero(t, z.BigInt().Cmp(want))
}

func TestMulSignsOnNonHardwarePaths(t *testing.T) {
	p := newTestProvider(t)
	rnd := rand.New(rand.NewSource(3))

	// Failover width.
	x := new(big.Int).Neg(randOdd(rnd, 2080))
	y := randOdd(rnd, 1900)
	z := mpi.New()
	require.NoError(t, p.Mul(z, toMpi(t, x), toMpi(t, y)))
	assert.Zero(t, z.BigInt().Cmp(new(big.Int).Mul(x, y)))

	// Recursive width.
	x = new(big.Int).Neg(randOdd(rnd, 4200))
	y = new(big.Int).Neg(randOdd(rnd, 4200))
	require.NoError(t, p.Mul(z, toMpi(t, x), toMpi(t, y)))
	assert.Zero(t, z.BigInt().Cmp(new(big.Int).Mul(x, y)))
}
