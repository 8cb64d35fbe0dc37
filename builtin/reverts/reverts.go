// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// ErrRevert is a caller-visible failure of a program operation.
// Two reverts with the same code match under errors.Is regardless of message.
type ErrRevert struct {
	code    string
	message string
}

func New(code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

// Predefined revert kinds.
var (
	ErrInvalidAuthority        = New("InvalidAuthority", "caller is not the required authority")
	ErrAlreadyExists           = New("AlreadyExists", "record already exists")
	ErrAccountNotInitialized   = New("AccountNotInitialized", "record does not exist")
	ErrStatusNotPending        = New("StatusNotPending", "application status is not pending")
	ErrCapExceeded             = New("CapExceeded", "stake exceeds the application cap")
	ErrSelectedButCantTransfer = New("SelectedButCantTransfer", "selected application cannot withdraw yet")
	ErrAlreadyUnstaked         = New("AlreadyUnstaked", "nothing staked")
	ErrInvalidCall             = New("InvalidCall", "operation invoked outside the settlement path")
	ErrConstraintRaw           = New("ConstraintRaw", "token account is not owned by the caller")

	ErrInvalidAmount     = New("InvalidAmount", "amount must be positive")
	ErrInvalidStatus     = New("InvalidStatus", "unknown application status")
	ErrInvalidUnit       = New("InvalidUnit", "token account holds another unit")
	ErrInsufficientFunds = New("InsufficientFunds", "insufficient balance")
	ErrRewardOverflow    = New("RewardOverflow", "amount overflows")
)

// Withf derives a revert of the same kind with a specific message.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	return &ErrRevert{
		code:    e.code,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *ErrRevert) Code() string {
	return e.code
}

func (e *ErrRevert) Message() string {
	return e.message
}

func (e *ErrRevert) Error() string {
	return e.code + ": " + e.message
}

func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.code == e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// AsRevert unwraps the revert carried by err, if any.
func AsRevert(err error) (*ErrRevert, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
