/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package accel

import "github.com/pkg/errors"

var (
	// ErrOperandTooLarge is returned when the combined operand width of an
	// operation exceeds the hardware operand register ceiling, even after
	// decomposition eligibility checks.
	ErrOperandTooLarge = errors.New("accel: operand width exceeds hardware ceiling")

	// ErrBadInput is returned when an operation rejects its inputs before
	// touching the hardware: a non-positive or even modulus, or a negative
	// exponent.
	ErrBadInput = errors.New("accel: bad input value")
)
