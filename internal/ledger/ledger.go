package ledger

import (
	"context"
	"errors"
	"test-token/internal/faucet"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrConfirmation = errors.New("transaction not confirmed")
)

// Receipt is the outcome of a submitted transaction. Events are the faucet
// events found in its logs.
type Receipt struct {
	Signature solana.Signature `json:"signature"`
	Logs      []string         `json:"logs,omitempty"`
	Events    []faucet.Event   `json:"events"`
}

type TokenAccount struct {
	Address solana.PublicKey `json:"address"`
	Mint    solana.PublicKey `json:"mint"`
	Owner   solana.PublicKey `json:"owner"`
	Amount  uint64           `json:"amount"`
}

// Ledger executes faucet transactions, either in process or on a cluster.
//
// Submit returns the receipt together with the error when the transaction
// reached the ledger and failed, so callers can inspect the logs.
type Ledger interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	MinimumBalance(ctx context.Context, space uint64) (uint64, error)
	Submit(ctx context.Context, tx *solana.Transaction) (*Receipt, error)
	TokenAccount(ctx context.Context, address solana.PublicKey) (*TokenAccount, error)
}

// Watcher is implemented by ledgers that can stream faucet events emitted by
// transactions submitted elsewhere. handle is called once per successful
// transaction that carries events.
type Watcher interface {
	WatchEvents(ctx context.Context, handle func(*Receipt)) error
}
