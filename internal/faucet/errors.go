package faucet

import (
	"errors"
	"fmt"
	"test-token/internal/token"
)

// Failures surfaced by the token library keep the library's sentinels so
// errors.Is works across the CPI boundary.
var (
	ErrInvalidAccount      = token.ErrInvalidAccount
	ErrOverflow            = token.ErrOverflow
	ErrInsufficientBalance = token.ErrInsufficientFunds
	ErrNotEnoughAccounts   = token.ErrNotEnoughAccounts
)

var (
	ErrDerivationMismatch   = errors.New("authority is not the derived address")
	ErrAccountNotMutable    = fmt.Errorf("%w: account is not writable", ErrInvalidAccount)
	ErrAccountWrongOwner    = fmt.Errorf("%w: account owned by the wrong program", ErrInvalidAccount)
	ErrAccountUninitialized = fmt.Errorf("%w: account is not initialized", ErrInvalidAccount)
	ErrInvalidProgramID     = fmt.Errorf("%w: program id mismatch", ErrInvalidAccount)
	ErrAccountNotSigner     = errors.New("account is not a signer")

	ErrInstructionNotFound    = errors.New("instruction not found")
	ErrInstructionDeserialize = errors.New("instruction did not deserialize")
	ErrUnknownEvent           = errors.New("unknown event")

	ErrUnsupportedAccessControl = errors.New("unsupported access control mode")
)

// anchorCodes are the framework error numbers a deployed build of the
// program reports for the checks above.
var anchorCodes = map[uint32]error{
	101:  ErrInstructionNotFound,
	102:  ErrInstructionDeserialize,
	2000: ErrAccountNotMutable,
	2006: ErrDerivationMismatch,
	3003: ErrInvalidAccount,
	3005: ErrNotEnoughAccounts,
	3007: ErrAccountWrongOwner,
	3008: ErrInvalidProgramID,
	3009: ErrInvalidProgramID,
	3010: ErrAccountNotSigner,
	3012: ErrAccountUninitialized,
}

// ErrorFromCode maps a custom error code from a failed on-chain instruction
// to a sentinel. Codes below 100 come from the token library. It returns nil
// for unknown codes.
func ErrorFromCode(code uint32) error {
	if err, ok := anchorCodes[code]; ok {
		return err
	}
	if code < 100 {
		return token.ErrorFromCode(code)
	}
	return nil
}
