/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mpi

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLsetAndWords(t *testing.T) {
	z := NewInt(0)
	assert.Equal(t, 0, z.Words())
	assert.Equal(t, 0, z.BitLen())
	assert.Equal(t, 1, z.Sign())

	z.Lset(1)
	assert.Equal(t, 1, z.Words())
	assert.Equal(t, 1, z.BitLen())

	z.Lset(-42)
	assert.Equal(t, -1, z.Sign())
	assert.Equal(t, uint32(42), z.Limb(0))

	// Allocated length beyond the significant length is ignored.
	require.NoError(t, z.Grow(10))
	assert.Equal(t, 1, z.Words())
}

func TestGrowLimit(t *testing.T) {
	z := New()
	require.NoError(t, z.Grow(MaxLimbs))
	assert.ErrorIs(t, z.Grow(MaxLimbs+1), ErrAlloc)
}

func TestSignNormalization(t *testing.T) {
	z := NewInt(0)
	z.SetSign(-1)
	assert.Equal(t, 1, z.Sign(), "zero magnitude always carries a positive sign")

	z.Lset(5)
	z.SetSign(-1)
	assert.Equal(t, -1, z.Sign())
}

func TestAddSigned(t *testing.T) {
	tests := []struct {
		x, y, want int64
	}{
		{0, 0, 0},
		{1, 2, 3},
		{-1, -2, -3},
		{5, -3, 2},
		{3, -5, -2},
		{-5, 3, -2},
		{5, -5, 0},
	}
	for _, tc := range tests {
		z := New()
		require.NoError(t, z.Add(NewInt(tc.x), NewInt(tc.y)))
		assert.Equal(t, 0, z.CmpInt(tc.want), "%d + %d", tc.x, tc.y)
	}
}

func TestAddCarryPropagation(t *testing.T) {
	x := New()
	require.NoError(t, x.SetString("ffffffffffffffffffffffff", 16))
	z := New()
	require.NoError(t, z.Add(x, NewInt(1)))

	want, _ := new(big.Int).SetString("1000000000000000000000000", 16)
	assert.Zero(t, z.BigInt().Cmp(want))
}

func TestAddAliased(t *testing.T) {
	z := NewInt(7)
	require.NoError(t, z.Add(z, z))
	assert.Equal(t, 0, z.CmpInt(14))
}

func TestShiftL(t *testing.T) {
	tests := []struct {
		in    string
		count int
	}{
		{"1", 1},
		{"1", 32},
		{"deadbeef", 13},
		{"ffffffffffffffff", 96},
		{"123456789abcdef0123456789abcdef", 61},
	}
	for _, tc := range tests {
		z := New()
		require.NoError(t, z.SetString(tc.in, 16))
		require.NoError(t, z.ShiftL(tc.count))

		want, _ := new(big.Int).SetString(tc.in, 16)
		want.Lsh(want, uint(tc.count))
		assert.Zero(t, z.BigInt().Cmp(want), "%s << %d", tc.in, tc.count)
	}
}

func TestSetBit(t *testing.T) {
	z := New()
	require.NoError(t, z.SetBit(4096, 1))
	assert.Equal(t, 4097, z.BitLen())
	assert.Equal(t, 129, z.Words())

	require.NoError(t, z.SetBit(4096, 0))
	assert.Equal(t, 0, z.BitLen())
}

func TestMod(t *testing.T) {
	x := New()
	require.NoError(t, x.SetString("123456789123456789123456789", 10))
	m := NewInt(1000003)

	z := New()
	require.NoError(t, z.Mod(x, m))

	want := new(big.Int).Mod(x.BigInt(), big.NewInt(1000003))
	assert.Zero(t, z.BigInt().Cmp(want))

	assert.Error(t, z.Mod(x, NewInt(0)))
}

func TestCmp(t *testing.T) {
	assert.Equal(t, 0, NewInt(0).Cmp(NewInt(0)))
	assert.Equal(t, 1, NewInt(1).Cmp(NewInt(-1)))
	assert.Equal(t, -1, NewInt(-2).Cmp(NewInt(-1)))
	assert.Equal(t, 1, NewInt(-1).CmpInt(-2))
	assert.Equal(t, -1, NewInt(0).CmpInt(1))
}

func TestWindowSharesStorage(t *testing.T) {
	y := New()
	require.NoError(t, y.SetString("0123456789abcdef0123456789abcdef0123456789abcdef", 16))
	n := y.Words()
	require.Equal(t, 6, n)

	low := y.Window(0, 3)
	high := y.Window(3, 3)
	assert.Equal(t, y.Limb(0), low.Limb(0))
	assert.Equal(t, y.Limb(3), high.Limb(0))

	// Recombining the views reproduces the original value.
	combined := new(big.Int).Lsh(high.BigInt(), 96)
	combined.Add(combined, low.BigInt())
	assert.Zero(t, combined.Cmp(y.BigInt()))

	// The view aliases the parent's limbs rather than copying them.
	y.Bits()[0] = 0x5a5a5a5a
	assert.Equal(t, uint32(0x5a5a5a5a), low.Limb(0))
}

func TestBigIntRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "-1", "ff00ff00ff00ff00ff", "-123456789abcdef"} {
		want, ok := new(big.Int).SetString(s, 16)
		require.True(t, ok)

		z := New()
		require.NoError(t, z.SetBigInt(want))
		assert.Zero(t, z.BigInt().Cmp(want), s)
	}
}

func TestSetStringRejectsGarbage(t *testing.T) {
	z := New()
	assert.Error(t, z.SetString("not a number", 10))
}
