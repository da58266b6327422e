package faucet

import (
	"context"
	"test-token/internal/ledger"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateAccount struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateAccount(ctx context.Context, svcCtx *svc.ServiceContext) *CreateAccount {
	return &CreateAccount{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateAccount) CreateAccount(req *types.CreateAccountRequest) (resp *types.CreateAccountResponse, err error) {
	mint, err := parseKey("mint", req.Mint)
	if err != nil {
		return nil, err
	}
	owner, err := parseKey("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	address, receipt, err := ledger.CreateTokenAccount(l.ctx, l.svcCtx.Ledger, l.svcCtx.Payer, mint, owner, l.svcCtx.TxOptions()...)
	if err != nil {
		return nil, rejected(receipt, err)
	}
	return &types.CreateAccountResponse{
		Address:   address.String(),
		Signature: receipt.Signature.String(),
	}, nil
}
