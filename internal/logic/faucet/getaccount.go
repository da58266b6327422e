package faucet

import (
	"context"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetAccount struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetAccount(ctx context.Context, svcCtx *svc.ServiceContext) *GetAccount {
	return &GetAccount{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetAccount) GetAccount(req *types.GetAccountRequest) (resp *types.GetAccountResponse, err error) {
	address, err := parseKey("address", req.Address)
	if err != nil {
		return nil, err
	}
	acct, err := l.svcCtx.Ledger.TokenAccount(l.ctx, address)
	if err != nil {
		return nil, err
	}
	return &types.GetAccountResponse{
		Address: acct.Address.String(),
		Mint:    acct.Mint.String(),
		Owner:   acct.Owner.String(),
		Amount:  acct.Amount,
	}, nil
}
