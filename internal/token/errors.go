package token

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrMintMismatch       = fmt.Errorf("%w: account not associated with this mint", ErrInvalidAccount)
	ErrUninitialized      = fmt.Errorf("%w: account is not initialized", ErrInvalidAccount)
	ErrOwnerMismatch      = errors.New("owner does not match")
	ErrFixedSupply        = errors.New("fixed supply")
	ErrAlreadyInUse       = errors.New("account or token already in use")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrOverflow           = errors.New("operation overflowed")
	ErrAccountFrozen      = errors.New("account is frozen")
	ErrMissingSignature   = errors.New("missing required signature")
	ErrNotEnoughAccounts  = fmt.Errorf("%w: not enough account keys", ErrInvalidAccount)
)

// codes are the custom error numbers the SPL token program reports.
var codes = map[uint32]error{
	1:  ErrInsufficientFunds,
	2:  ErrInvalidAccount,
	3:  ErrMintMismatch,
	4:  ErrOwnerMismatch,
	5:  ErrFixedSupply,
	6:  ErrAlreadyInUse,
	9:  ErrUninitialized,
	12: ErrInvalidInstruction,
	13: ErrInvalidAccount,
	14: ErrOverflow,
	17: ErrAccountFrozen,
}

// ErrorFromCode maps an SPL token custom error code to its sentinel, or nil
// when the code is unknown.
func ErrorFromCode(code uint32) error {
	return codes[code]
}
