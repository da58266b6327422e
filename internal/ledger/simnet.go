package ledger

import (
	"context"
	"fmt"
	"test-token/internal/faucet"
	"test-token/internal/runtime"
	"test-token/internal/token"

	"github.com/gagliardetto/solana-go"
	"github.com/zeromicro/go-zero/core/logx"
)

// Simnet runs the faucet, the token program and the associated token
// program on an in-process Bank.
type Simnet struct {
	bank    *runtime.Bank
	program *faucet.Program
}

func NewSimnet(program *faucet.Program, opts ...runtime.Option) *Simnet {
	bank := runtime.NewBank(opts...)
	bank.Register(token.NewProgram(), token.NewAssociatedProgram(), program)
	return &Simnet{bank: bank, program: program}
}

func (s *Simnet) Bank() *runtime.Bank {
	return s.bank
}

// Airdrop funds key with lamports.
func (s *Simnet) Airdrop(key solana.PublicKey, lamports uint64) {
	s.bank.Airdrop(key, lamports)
}

func (s *Simnet) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return s.bank.LatestBlockhash(), nil
}

func (s *Simnet) MinimumBalance(ctx context.Context, space uint64) (uint64, error) {
	return runtime.MinimumBalance(space), nil
}

func (s *Simnet) Submit(ctx context.Context, tx *solana.Transaction) (*Receipt, error) {
	result, err := s.bank.ProcessTransaction(ctx, tx)
	if result == nil {
		return nil, err
	}

	receipt := &Receipt{Signature: result.Signature, Logs: result.Logs}
	if err != nil {
		logx.WithContext(ctx).Infof("simnet transaction %s failed: %v", result.Signature, err)
		return receipt, err
	}
	events, err := faucet.ParseEvents(s.program.ID(), result.Logs)
	if err != nil {
		return receipt, fmt.Errorf("parse events: %w", err)
	}
	receipt.Events = events
	return receipt, nil
}

func (s *Simnet) TokenAccount(ctx context.Context, address solana.PublicKey) (*TokenAccount, error) {
	acct, ok := s.bank.Account(address)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	if acct.Owner != token.ProgramID {
		return nil, fmt.Errorf("%w: %s is not a token account", token.ErrInvalidAccount, address)
	}
	decoded, err := token.DecodeAccount(acct.Data)
	if err != nil {
		return nil, err
	}
	return &TokenAccount{
		Address: address,
		Mint:    decoded.Mint,
		Owner:   decoded.Owner,
		Amount:  decoded.Amount,
	}, nil
}

var _ Ledger = (*Simnet)(nil)
