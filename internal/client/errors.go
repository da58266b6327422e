package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"test-token/internal/faucet"
	"test-token/internal/token"
)

var ErrTransactionFailed = errors.New("transaction failed")

// instructionErrors maps the named instruction errors the runtime reports
// instead of a custom code.
var instructionErrors = map[string]error{
	"InvalidAccountData":        faucet.ErrInvalidAccount,
	"NotEnoughAccountKeys":      faucet.ErrNotEnoughAccounts,
	"MissingRequiredSignature":  token.ErrMissingSignature,
	"InvalidInstructionData":    token.ErrInvalidInstruction,
	"AccountAlreadyInitialized": token.ErrAlreadyInUse,
	"IllegalOwner":              faucet.ErrAccountWrongOwner,
	"IncorrectProgramId":        faucet.ErrInvalidProgramID,
}

// TransactionError is a failed transaction status as reported by the
// cluster. Err is the matching sentinel when one is known.
type TransactionError struct {
	Index int
	Code  *uint32
	Raw   interface{}
	Err   error
}

func (e *TransactionError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("instruction %d failed with custom error %d: %v", e.Index, *e.Code, e.Err)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("instruction %d failed: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Err, e.Raw)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// decodeTransactionError reads the status the cluster returns for a failed
// transaction, e.g. {"InstructionError":[0,{"Custom":2006}]}.
func decodeTransactionError(raw interface{}) error {
	out := &TransactionError{Index: -1, Raw: raw, Err: ErrTransactionFailed}

	m, ok := raw.(map[string]interface{})
	if !ok {
		return out
	}
	pair, ok := m["InstructionError"].([]interface{})
	if !ok || len(pair) != 2 {
		return out
	}
	if index, ok := toUint32(pair[0]); ok {
		out.Index = int(index)
	}

	switch detail := pair[1].(type) {
	case string:
		if err, ok := instructionErrors[detail]; ok {
			out.Err = err
		} else {
			out.Err = fmt.Errorf("%w: %s", ErrTransactionFailed, detail)
		}
	case map[string]interface{}:
		code, ok := toUint32(detail["Custom"])
		if !ok {
			return out
		}
		out.Code = &code
		if err := faucet.ErrorFromCode(code); err != nil {
			out.Err = err
		}
	}
	return out
}

func toUint32(v interface{}) (uint32, bool) {
	switch n := v.(type) {
	case float64:
		return uint32(n), n >= 0
	case json.Number:
		i, err := n.Int64()
		return uint32(i), err == nil && i >= 0
	case int:
		return uint32(n), n >= 0
	case int64:
		return uint32(n), n >= 0
	case uint64:
		return uint32(n), true
	}
	return 0, false
}
