// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

//错误码
var (
	ErrWrongValue         = errors.New("ErrWrongValue")
	ErrInvalidBlindFactor = errors.New("ErrInvalidBlindFactor")
	ErrNoInverseExists    = errors.New("ErrNoInverseExists")
	ErrKeyAlreadyConsumed = errors.New("ErrKeyAlreadyConsumed")
	ErrUnknownKey         = errors.New("ErrUnknownKey")
	ErrKeyAlreadyUsed     = errors.New("ErrKeyAlreadyUsed")
	ErrSignatureMismatch  = errors.New("ErrSignatureMismatch")
	ErrPayoutFailed       = errors.New("ErrPayoutFailed")

	ErrNotFound       = errors.New("ErrNotFound")
	ErrAmount         = errors.New("ErrAmount")
	ErrNoBalance      = errors.New("ErrNoBalance")
	ErrInvalidAddress = errors.New("ErrInvalidAddress")
	ErrInvalidKeyPair = errors.New("ErrInvalidKeyPair")
)
