/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package soc defines the register-level contract of the big-number
// accelerator peripheral and provides a behavioral simulation of it. The
// register addresses are the simulated SoC's own map; the protocol (which
// registers are written, in what order, and what is polled) is the part the
// engine depends on.
package soc

// The accelerator operates on fixed-width operand memory blocks. A single
// invocation is limited to MaxOperandBits; the Z block is double width so
// the plain-multiply mode can hold a full product.
const (
	MaxOperandBits  = 4096
	MaxOperandWords = MaxOperandBits / 32

	BlockBytes = MaxOperandWords * 4
)

// Operand memory block base offsets, in bytes.
const (
	MemMBase    uint32 = 0x0000
	MemRinvBase uint32 = 0x0200
	MemXBase    uint32 = 0x0400
	MemYBase    uint32 = 0x0600
	MemZBase    uint32 = 0x0800 // double width: 0x0800-0x0BFF
)

const memBytes = 0x0C00

// Scalar control and status registers.
const (
	RegMPrime       uint32 = 0x0C00 // Montgomery constant N'
	RegLength       uint32 = 0x0C04 // operand length in words, minus one
	RegConstantTime uint32 = 0x0C08 // constant-time mode toggle
	RegSearchEnable uint32 = 0x0C0C // exponent bit-search acceleration
	RegSearchPos    uint32 = 0x0C10 // highest significant bit position of Y

	RegMultStart    uint32 = 0x0C14 // plain multiply start trigger
	RegModMultStart uint32 = 0x0C18 // Montgomery modular multiply start trigger
	RegModExpStart  uint32 = 0x0C1C // modular exponentiation start trigger

	RegQueryIdle      uint32 = 0x0C20 // reads 1 when the current operation is done
	RegClearInterrupt uint32 = 0x0C24 // write 1 to clear completion status
	RegInterruptEna   uint32 = 0x0C28

	RegQueryClean uint32 = 0x0C2C // reads 1 when the peripheral is powered and clean
)

// System control registers for clock gating, reset, and power. These live in
// the SoC's clock/reset controller rather than the accelerator itself and
// are read-modify-write bit fields.
const (
	RegClockEnable uint32 = 0x0F00
	RegReset       uint32 = 0x0F04
	RegPowerCtrl   uint32 = 0x0F08
)

// Bit assignments for the system control registers.
const (
	ClockEnableRSA uint32 = 1 << 0

	ResetRSA uint32 = 1 << 0
	ResetDS  uint32 = 1 << 1 // digital signature unit shares the RSA reset tree

	PowerDownMem uint32 = 1 << 0
)

// Bus is the 32-bit register access interface to the peripheral.
//
// Write32 calls issued by a single goroutine are observed by the device in
// program order. Barrier provides a full memory barrier: it returns only
// once every prior Write32 is visible to the device and every prior Read32
// result is visible to the caller.
type Bus interface {
	Read32(offset uint32) uint32
	Write32(offset uint32, value uint32)
	Barrier()
}
