/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mpi implements the sign-magnitude multi-precision integer type
// consumed by the accelerator engine. Magnitudes are stored as 32-bit limbs,
// least-significant limb first. The allocated limb count may exceed the
// significant limb count; arithmetic always derives significance by scanning
// down from the top of the allocation.
package mpi

import (
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
)

const (
	// WordBits is the width of a single limb.
	WordBits = 32

	// MaxLimbs bounds the size of any single allocation. Grow requests
	// beyond this limit fail rather than exhaust memory.
	MaxLimbs = 10000
)

// ErrAlloc is returned when a Grow request exceeds MaxLimbs.
var ErrAlloc = errors.New("mpi: allocation exceeds maximum size")

// Int is a signed multi-precision integer.
//
// The zero value is ready to use and represents zero. A zero magnitude
// always carries a positive sign.
type Int struct {
	neg bool
	p   []uint32
}

// New returns a new Int with value zero and no allocated limbs.
func New() *Int {
	return &Int{}
}

// NewInt returns a new Int set to v.
func NewInt(v int64) *Int {
	z := &Int{}
	z.Lset(v)
	return z
}

// Lset sets z to the small integer v.
func (z *Int) Lset(v int64) *Int {
	z.neg = v < 0
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	z.p = append(z.p[:0], uint32(u), uint32(u>>32))
	return z
}

// Grow extends z's allocation to at least limbs limbs, zero-filling the new
// limbs. Shrinking never occurs. Grow fails only when the request exceeds
// MaxLimbs.
func (z *Int) Grow(limbs int) error {
	if limbs > MaxLimbs {
		return errors.Wrapf(ErrAlloc, "grow to %d limbs", limbs)
	}
	for len(z.p) < limbs {
		z.p = append(z.p, 0)
	}
	return nil
}

// Bits returns the backing limb slice of z, least-significant limb first.
// The slice aliases z's storage: writes through it modify z. Callers must
// Grow z first to guarantee the length they need.
func (z *Int) Bits() []uint32 {
	return z.p
}

// Words returns the number of significant limbs in x, ignoring high zero
// limbs in the allocation.
func (x *Int) Words() int {
	for i := len(x.p); i > 0; i-- {
		if x.p[i-1] != 0 {
			return i
		}
	}
	return 0
}

// BitLen returns the length of the absolute value of x in bits. The bit
// length of zero is 0.
func (x *Int) BitLen() int {
	n := x.Words()
	if n == 0 {
		return 0
	}
	return (n-1)*WordBits + bits.Len32(x.p[n-1])
}

// Limb returns limb i of x's magnitude, or 0 when i is beyond the
// allocation.
func (x *Int) Limb(i int) uint32 {
	if i < 0 || i >= len(x.p) {
		return 0
	}
	return x.p[i]
}

// Sign returns the sign of x's representation: -1 for negative values and
// +1 otherwise. A zero magnitude is always +1.
func (x *Int) Sign() int {
	if x.neg && x.Words() != 0 {
		return -1
	}
	return 1
}

// SetSign sets the sign of z. A zero magnitude is normalized back to +1
// regardless of s.
func (z *Int) SetSign(s int) {
	z.neg = s < 0 && z.Words() != 0
}

// Copy sets z to a deep copy of x, sign included.
func (z *Int) Copy(x *Int) error {
	if z == x {
		return nil
	}
	n := x.Words()
	if err := z.Grow(n); err != nil {
		return err
	}
	copy(z.p, x.p[:n])
	for i := n; i < len(z.p); i++ {
		z.p[i] = 0
	}
	z.neg = x.neg && n != 0
	return nil
}

// cmpAbs compares the magnitudes of x and y.
func cmpAbs(x, y *Int) int {
	xn, yn := x.Words(), y.Words()
	if xn != yn {
		if xn > yn {
			return 1
		}
		return -1
	}
	for i := xn - 1; i >= 0; i-- {
		if x.p[i] != y.p[i] {
			if x.p[i] > y.p[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Cmp compares x and y as signed values and returns -1, 0, or 1.
func (x *Int) Cmp(y *Int) int {
	xs, ys := x.Sign(), y.Sign()
	if x.Words() == 0 && y.Words() == 0 {
		return 0
	}
	switch {
	case xs > ys:
		return 1
	case xs < ys:
		return -1
	case xs < 0:
		return -cmpAbs(x, y)
	default:
		return cmpAbs(x, y)
	}
}

// CmpInt compares x to the small integer v and returns -1, 0, or 1.
func (x *Int) CmpInt(v int64) int {
	var y Int
	y.Lset(v)
	return x.Cmp(&y)
}

// Add sets z = x + y with full sign handling. z may alias x or y.
func (z *Int) Add(x, y *Int) error {
	if x.neg == y.neg {
		if err := z.addAbs(x, y); err != nil {
			return err
		}
		z.neg = x.neg && z.Words() != 0
		return nil
	}

	// Opposite signs: subtract the smaller magnitude from the larger; the
	// result takes the sign of the larger.
	if cmpAbs(x, y) >= 0 {
		neg := x.neg
		if err := z.subAbs(x, y); err != nil {
			return err
		}
		z.neg = neg && z.Words() != 0
	} else {
		neg := y.neg
		if err := z.subAbs(y, x); err != nil {
			return err
		}
		z.neg = neg && z.Words() != 0
	}
	return nil
}

func (z *Int) addAbs(x, y *Int) error {
	n := x.Words()
	if yn := y.Words(); yn > n {
		n = yn
	}
	if err := z.Grow(n + 1); err != nil {
		return err
	}
	var carry uint64
	for i := 0; i < n; i++ {
		sum := uint64(x.Limb(i)) + uint64(y.Limb(i)) + carry
		z.p[i] = uint32(sum)
		carry = sum >> WordBits
	}
	z.p[n] = uint32(carry)
	for i := n + 1; i < len(z.p); i++ {
		z.p[i] = 0
	}
	return nil
}

// subAbs sets z's magnitude to |x| - |y|. Requires |x| >= |y|.
func (z *Int) subAbs(x, y *Int) error {
	n := x.Words()
	if err := z.Grow(n); err != nil {
		return err
	}
	var borrow uint64
	for i := 0; i < n; i++ {
		diff := uint64(x.Limb(i)) - uint64(y.Limb(i)) - borrow
		z.p[i] = uint32(diff)
		borrow = (diff >> 63) & 1
	}
	for i := n; i < len(z.p); i++ {
		z.p[i] = 0
	}
	return nil
}

// ShiftL shifts z left by count bits in place, growing the allocation as
// needed.
func (z *Int) ShiftL(count int) error {
	n := z.Words()
	if count <= 0 || n == 0 {
		return nil
	}
	wshift := count / WordBits
	bshift := uint(count % WordBits)

	newLen := n + wshift
	if bshift > 0 {
		newLen++
	}
	if err := z.Grow(newLen); err != nil {
		return err
	}

	if wshift > 0 {
		for i := n - 1; i >= 0; i-- {
			z.p[i+wshift] = z.p[i]
		}
		for i := 0; i < wshift; i++ {
			z.p[i] = 0
		}
	}
	if bshift > 0 {
		var carry uint32
		for i := wshift; i < newLen; i++ {
			v := z.p[i]
			z.p[i] = v<<bshift | carry
			carry = v >> (WordBits - bshift)
		}
	}
	return nil
}

// SetBit sets bit pos of z's magnitude to bit (0 or 1), growing the
// allocation as needed.
func (z *Int) SetBit(pos int, bit uint) error {
	idx := pos / WordBits
	off := uint(pos % WordBits)
	if bit == 0 && idx >= len(z.p) {
		return nil
	}
	if err := z.Grow(idx + 1); err != nil {
		return err
	}
	if bit == 0 {
		z.p[idx] &^= 1 << off
	} else {
		z.p[idx] |= 1 << off
	}
	return nil
}

// Mod sets z = x mod m using general modular reduction. The result is in
// [0, |m|). m must be non-zero.
func (z *Int) Mod(x, m *Int) error {
	if m.Words() == 0 {
		return errors.New("mpi: division by zero")
	}
	r := new(big.Int).Mod(x.BigInt(), new(big.Int).Abs(m.BigInt()))
	return z.SetBigInt(r)
}

// Window returns a non-owning view of n limbs of x starting at limb off.
// The view shares x's backing storage: it must not be grown or written, and
// x must outlive it. The view carries x's sign.
func (x *Int) Window(off, n int) *Int {
	if off > len(x.p) {
		off = len(x.p)
	}
	end := off + n
	if end > len(x.p) {
		end = len(x.p)
	}
	return &Int{neg: x.neg, p: x.p[off:end:end]}
}

// BigInt returns x as a math/big integer. Used for interop with general
// arithmetic (modular reduction) and as the independent reference in tests.
func (x *Int) BigInt() *big.Int {
	n := x.Words()
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		limb := x.p[i]
		off := (n - 1 - i) * 4
		buf[off] = byte(limb >> 24)
		buf[off+1] = byte(limb >> 16)
		buf[off+2] = byte(limb >> 8)
		buf[off+3] = byte(limb)
	}
	b := new(big.Int).SetBytes(buf)
	if x.neg {
		b.Neg(b)
	}
	return b
}

// SetBigInt sets z from a math/big integer.
func (z *Int) SetBigInt(b *big.Int) error {
	buf := b.Bytes()
	n := (len(buf) + 3) / 4
	if err := z.Grow(n); err != nil {
		return err
	}
	for i := range z.p {
		z.p[i] = 0
	}
	for i, c := range buf {
		bit := uint((len(buf) - 1 - i) * 8)
		z.p[bit/WordBits] |= uint32(c) << (bit % WordBits)
	}
	z.neg = b.Sign() < 0
	return nil
}

// SetString sets z from an ASCII representation of an integer in the given
// base (as accepted by math/big).
func (z *Int) SetString(s string, base int) error {
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return errors.Errorf("mpi: invalid integer %q in base %d", s, base)
	}
	return z.SetBigInt(b)
}

// String returns the decimal representation of x.
func (x *Int) String() string {
	return x.BigInt().String()
}
