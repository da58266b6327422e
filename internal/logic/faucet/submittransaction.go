package faucet

import (
	"context"
	"fmt"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/gagliardetto/solana-go"
	"github.com/zeromicro/go-zero/core/logx"
)

type SubmitTransaction struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSubmitTransaction(ctx context.Context, svcCtx *svc.ServiceContext) *SubmitTransaction {
	return &SubmitTransaction{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// SubmitTransaction relays a transaction the caller signed, such as a burn.
// Only transactions that invoke the faucet are accepted.
func (l *SubmitTransaction) SubmitTransaction(req *types.SubmitTransactionRequest) (resp *types.TransactionResponse, err error) {
	tx, err := solana.TransactionFromBase64(req.Transaction)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction: %v", ErrInvalidInput, err)
	}
	if !invokes(tx, l.svcCtx.Program.ID()) {
		return nil, fmt.Errorf("%w: transaction does not invoke %s", ErrInvalidInput, l.svcCtx.Program.ID())
	}

	receipt, err := l.svcCtx.Ledger.Submit(l.ctx, tx)
	if err != nil {
		return nil, rejected(receipt, err)
	}
	l.svcCtx.Record(receipt)
	return transactionResponse(receipt), nil
}

func invokes(tx *solana.Transaction, programID solana.PublicKey) bool {
	for _, inst := range tx.Message.Instructions {
		id, err := tx.Message.Program(inst.ProgramIDIndex)
		if err == nil && id == programID {
			return true
		}
	}
	return false
}
