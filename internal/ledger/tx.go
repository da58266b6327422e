package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

type TxBuilder struct {
	payer        solana.PublicKey
	blockhash    solana.Hash
	instructions []solana.Instruction

	priorityFee  uint64
	computeLimit uint32
}

type TxOption func(*TxBuilder)

// WithPriorityFee prices compute units in micro-lamports.
func WithPriorityFee(microLamports uint64) TxOption {
	return func(b *TxBuilder) {
		b.priorityFee = microLamports
	}
}

func WithComputeUnitLimit(units uint32) TxOption {
	return func(b *TxBuilder) {
		b.computeLimit = units
	}
}

func NewTxBuilder(payer solana.PublicKey, blockhash solana.Hash, opts ...TxOption) *TxBuilder {
	b := &TxBuilder{
		payer:        payer,
		blockhash:    blockhash,
		instructions: make([]solana.Instruction, 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *TxBuilder) AddInstruction(instrs ...solana.Instruction) {
	b.instructions = append(b.instructions, instrs...)
}

// BuildTx assembles the transaction and signs it with every signer whose key
// it references.
func (b *TxBuilder) BuildTx(signers []solana.PrivateKey) (*solana.Transaction, error) {
	instrs := make([]solana.Instruction, 0, len(b.instructions)+2)
	if b.computeLimit > 0 {
		instrs = append(instrs, computebudget.NewSetComputeUnitLimitInstruction(b.computeLimit).Build())
	}
	if b.priorityFee > 0 {
		instrs = append(instrs, computebudget.NewSetComputeUnitPriceInstruction(b.priorityFee).Build())
	}
	instrs = append(instrs, b.instructions...)

	tx, err := solana.NewTransaction(
		instrs,
		b.blockhash,
		solana.TransactionPayer(b.payer),
	)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey() == key {
				return &signers[i]
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// Send builds a transaction paid by payer, signs it with payer and signers,
// and submits it to l.
func Send(
	ctx context.Context,
	l Ledger,
	payer solana.PrivateKey,
	signers []solana.PrivateKey,
	instructions []solana.Instruction,
	opts ...TxOption,
) (*Receipt, error) {
	blockhash, err := l.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest blockhash: %w", err)
	}

	b := NewTxBuilder(payer.PublicKey(), blockhash, opts...)
	b.AddInstruction(instructions...)
	tx, err := b.BuildTx(append([]solana.PrivateKey{payer}, signers...))
	if err != nil {
		return nil, err
	}
	return l.Submit(ctx, tx)
}
