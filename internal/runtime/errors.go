package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrProgramNotFound        = errors.New("program not found")
	ErrMissingSignature       = errors.New("missing required signature")
	ErrSignatureVerification  = errors.New("signature verification failed")
	ErrBlockhashNotFound      = errors.New("blockhash not found")
	ErrAlreadyProcessed       = errors.New("transaction already processed")
	ErrPrivilegeEscalation    = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrMissingAccount         = errors.New("instruction references an unknown account")
	ErrCallDepth              = errors.New("cross-program invocation call depth too deep")
	ErrReadonlyDataModified   = errors.New("instruction modified data of a read-only account")
	ErrExternalDataModified   = errors.New("instruction modified data of an account it does not own")
	ErrExternalLamportsChange = errors.New("instruction changed the balance of an account it does not own")
	ErrOwnerModified          = errors.New("instruction modified the program id of an account")
	ErrInvalidSeeds           = errors.New("provided seeds do not result in a valid address")
	ErrAccountInUse           = errors.New("account already exists")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	ErrInsufficientLamports   = errors.New("insufficient lamports")
)

// InstructionError reports which top-level instruction of a transaction
// failed. Err is whatever the program (or the host, on its behalf) returned.
type InstructionError struct {
	Index int
	Err   error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d: %v", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}
