package faucet

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidInput = errors.New("invalid input")

// RejectedError is a transaction that reached the ledger and failed. Logs
// are the program logs of the failed execution.
type RejectedError struct {
	Signature string
	Logs      []string
	Err       error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction %s rejected: %v", e.Signature, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

func parseKey(name, s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s %q: %v", ErrInvalidInput, name, s, err)
	}
	return key, nil
}
