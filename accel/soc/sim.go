/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package soc

import (
	"math/big"
	"sync"

	"github.com/hwcrypto/mpiaccel/common/flogging"
)

var logger = flogging.MustGetLogger("soc.sim")

// Simulator is a behavioral model of the big-number accelerator peripheral.
// It implements Bus and executes operations synchronously when a start
// trigger is written, so a completion poll observes done on its first read.
//
// The model enforces the power sequencing contract: operand memory and
// registers are only accessible while the peripheral is clocked, out of
// reset, and powered. Power-up clears the entire register file and operand
// memory, which the plain-multiply path relies on for the low half of the
// Z block.
type Simulator struct {
	mu sync.Mutex

	clockEnable uint32
	reset       uint32
	powerCtrl   uint32
	powered     bool

	mem [memBytes / 4]uint32

	mprime       uint32
	length       uint32
	constantTime uint32
	searchEnable uint32
	searchPos    uint32
	interruptEna uint32
	done         uint32
}

// NewSimulator returns a powered-down simulated peripheral.
func NewSimulator() *Simulator {
	return &Simulator{
		reset:     ResetRSA | ResetDS,
		powerCtrl: PowerDownMem,
	}
}

func (s *Simulator) Read32(offset uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch offset {
	case RegClockEnable:
		return s.clockEnable
	case RegReset:
		return s.reset
	case RegPowerCtrl:
		return s.powerCtrl
	case RegQueryClean:
		if s.powered {
			return 1
		}
		return 0
	}

	if !s.powered {
		return 0
	}

	switch {
	case offset < memBytes:
		return s.mem[offset/4]
	case offset == RegMPrime:
		return s.mprime
	case offset == RegLength:
		return s.length
	case offset == RegConstantTime:
		return s.constantTime
	case offset == RegSearchEnable:
		return s.searchEnable
	case offset == RegSearchPos:
		return s.searchPos
	case offset == RegInterruptEna:
		return s.interruptEna
	case offset == RegQueryIdle:
		return s.done
	default:
		return 0
	}
}

func (s *Simulator) Write32(offset, value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch offset {
	case RegClockEnable:
		s.clockEnable = value
		s.updatePowerState()
		return
	case RegReset:
		s.reset = value
		s.updatePowerState()
		return
	case RegPowerCtrl:
		s.powerCtrl = value
		s.updatePowerState()
		return
	}

	if !s.powered {
		return
	}

	switch {
	case offset < memBytes:
		s.mem[offset/4] = value
	case offset == RegMPrime:
		s.mprime = value
	case offset == RegLength:
		s.length = value
	case offset == RegConstantTime:
		s.constantTime = value
	case offset == RegSearchEnable:
		s.searchEnable = value
	case offset == RegSearchPos:
		s.searchPos = value
	case offset == RegInterruptEna:
		s.interruptEna = value
	case offset == RegClearInterrupt:
		if value == 1 {
			s.done = 0
		}
	case offset == RegMultStart:
		if value == 1 {
			s.runMult()
			s.done = 1
		}
	case offset == RegModMultStart:
		if value == 1 {
			s.runModMult()
			s.done = 1
		}
	case offset == RegModExpStart:
		if value == 1 {
			s.runModExp()
			s.done = 1
		}
	}
}

// Barrier is a full memory barrier. The simulator serializes every access
// through its lock, so ordering is already guaranteed; the method exists to
// satisfy the Bus contract real register files need.
func (s *Simulator) Barrier() {}

// Powered reports whether the peripheral is currently powered.
func (s *Simulator) Powered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powered
}

// updatePowerState recomputes the derived power state after a system
// register write. On the transition to powered, the register file and
// operand memory come up zeroed.
func (s *Simulator) updatePowerState() {
	up := s.clockEnable&ClockEnableRSA != 0 &&
		s.reset&ResetRSA == 0 &&
		s.powerCtrl&PowerDownMem == 0

	if up && !s.powered {
		for i := range s.mem {
			s.mem[i] = 0
		}
		s.mprime = 0
		s.length = 0
		s.constantTime = 0
		s.searchEnable = 0
		s.searchPos = 0
		s.interruptEna = 0
		s.done = 0
		logger.Debugf("peripheral powered up")
	}
	s.powered = up
}

// readOperand assembles the numWords-word operand at base into an integer.
func (s *Simulator) readOperand(base uint32, numWords int) *big.Int {
	buf := make([]byte, numWords*4)
	for i := 0; i < numWords; i++ {
		w := s.mem[int(base/4)+i]
		off := (numWords - 1 - i) * 4
		buf[off] = byte(w >> 24)
		buf[off+1] = byte(w >> 16)
		buf[off+2] = byte(w >> 8)
		buf[off+3] = byte(w)
	}
	return new(big.Int).SetBytes(buf)
}

// writeOperand stores the low numWords words of v at base.
func (s *Simulator) writeOperand(base uint32, numWords int, v *big.Int) {
	mask := big.NewInt(0xFFFFFFFF)
	tmp := new(big.Int).Set(v)
	word := new(big.Int)
	for i := 0; i < numWords; i++ {
		word.And(tmp, mask)
		s.mem[int(base/4)+i] = uint32(word.Uint64())
		tmp.Rsh(tmp, 32)
	}
}

// searchLimited returns y truncated to the bits the search acceleration
// window covers. With search disabled, or a correctly programmed search
// position, y is returned unchanged.
func (s *Simulator) searchLimited(y *big.Int, numWords int) *big.Int {
	if s.searchEnable != 1 {
		return y
	}
	limit := uint(s.searchPos) + 1
	if limit >= uint(numWords)*32 {
		return y
	}
	mod := new(big.Int).Lsh(big.NewInt(1), limit)
	return new(big.Int).Mod(y, mod)
}

// runMult executes the plain-multiply mode: X is in the X block, Y sits in
// the upper half of the Z block, and the length register holds 2n-1.
func (s *Simulator) runMult() {
	n := int(s.length+1) / 2
	if n <= 0 || 2*n > MaxOperandWords {
		logger.Warnf("plain multiply with bad length register %d", s.length)
		return
	}
	x := s.readOperand(MemXBase, n)
	y := s.readOperand(MemZBase+uint32(n)*4, n)
	s.writeOperand(MemZBase, 2*n, new(big.Int).Mul(x, y))
}

// runModMult executes the Montgomery modular multiply mode. The device
// computes montmul(montmul(X, Rinv), Y) which, with Rinv = R^2 mod M and a
// correct N', equals X*Y mod M.
func (s *Simulator) runModMult() {
	n := int(s.length) + 1
	if n <= 0 || n > MaxOperandWords {
		logger.Warnf("modular multiply with bad length register %d", s.length)
		return
	}
	m := s.readOperand(MemMBase, n)
	x := s.readOperand(MemXBase, n)
	y := s.searchLimited(s.readOperand(MemYBase, n), n)
	rinv := s.readOperand(MemRinvBase, n)

	r := new(big.Int).Lsh(big.NewInt(1), uint(n)*32)
	rModInv := new(big.Int).ModInverse(r, m)
	if rModInv == nil {
		// gcd(R, M) != 1; real hardware produces garbage here.
		s.writeOperand(MemZBase, n, big.NewInt(0))
		return
	}
	montmul := func(a, b *big.Int) *big.Int {
		t := new(big.Int).Mul(a, b)
		t.Mul(t, rModInv)
		return t.Mod(t, m)
	}
	s.writeOperand(MemZBase, n, montmul(montmul(x, rinv), y))
}

// runModExp executes the modular exponentiation mode.
func (s *Simulator) runModExp() {
	n := int(s.length) + 1
	if n <= 0 || n > MaxOperandWords {
		logger.Warnf("modular exponentiation with bad length register %d", s.length)
		return
	}
	m := s.readOperand(MemMBase, n)
	if m.Sign() == 0 {
		s.writeOperand(MemZBase, n, big.NewInt(0))
		return
	}
	x := s.readOperand(MemXBase, n)
	y := s.searchLimited(s.readOperand(MemYBase, n), n)
	s.writeOperand(MemZBase, n, new(big.Int).Exp(x, y, m))
}
