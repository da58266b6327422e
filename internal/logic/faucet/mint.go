package faucet

import (
	"context"
	"test-token/internal/ledger"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type Mint struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMint(ctx context.Context, svcCtx *svc.ServiceContext) *Mint {
	return &Mint{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Mint is the open faucet: anyone may ask for any amount, and the service's
// fee payer sends the transaction.
func (l *Mint) Mint(req *types.MintRequest) (resp *types.TransactionResponse, err error) {
	mint, err := parseKey("mint", req.Mint)
	if err != nil {
		return nil, err
	}
	account, err := parseKey("account", req.Account)
	if err != nil {
		return nil, err
	}

	receipt, err := ledger.MintTokens(l.ctx, l.svcCtx.Ledger, l.svcCtx.Payer, l.svcCtx.Program, mint, account, req.Amount, l.svcCtx.TxOptions()...)
	if err != nil {
		return nil, rejected(receipt, err)
	}
	l.Infof("minted %d of %s to %s in %s", req.Amount, mint, account, receipt.Signature)
	l.svcCtx.Record(receipt)
	return transactionResponse(receipt), nil
}

func transactionResponse(receipt *ledger.Receipt) *types.TransactionResponse {
	return &types.TransactionResponse{
		Signature: receipt.Signature.String(),
		Events:    receipt.Events,
	}
}

// rejected keeps the logs of a transaction that reached the ledger.
func rejected(receipt *ledger.Receipt, err error) error {
	if receipt == nil {
		return err
	}
	return &RejectedError{
		Signature: receipt.Signature.String(),
		Logs:      receipt.Logs,
		Err:       err,
	}
}
