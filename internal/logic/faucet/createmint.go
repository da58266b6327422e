package faucet

import (
	"context"
	"test-token/internal/ledger"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateMint struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateMint(ctx context.Context, svcCtx *svc.ServiceContext) *CreateMint {
	return &CreateMint{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// CreateMint creates a mint whose mint and freeze authority are the
// faucet's derived address.
func (l *CreateMint) CreateMint(req *types.CreateMintRequest) (resp *types.CreateMintResponse, err error) {
	decimals := l.svcCtx.Config.Faucet.Decimals
	if req.Decimals != nil {
		decimals = *req.Decimals
	}

	authority, _ := l.svcCtx.Program.Authority()
	mint, receipt, err := ledger.CreateMint(l.ctx, l.svcCtx.Ledger, l.svcCtx.Payer, decimals, authority, authority, l.svcCtx.TxOptions()...)
	if err != nil {
		return nil, rejected(receipt, err)
	}
	l.Infof("created mint %s with %d decimals", mint, decimals)
	return &types.CreateMintResponse{
		Mint:      mint.String(),
		Signature: receipt.Signature.String(),
	}, nil
}
