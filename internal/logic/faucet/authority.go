package faucet

import (
	"context"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type Authority struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAuthority(ctx context.Context, svcCtx *svc.ServiceContext) *Authority {
	return &Authority{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *Authority) Authority(req *types.AuthorityRequest) (resp *types.AuthorityResponse, err error) {
	address, bump := l.svcCtx.Program.Authority()
	return &types.AuthorityResponse{
		ProgramID: l.svcCtx.Program.ID().String(),
		Label:     l.svcCtx.Program.Label(),
		Address:   address.String(),
		Bump:      bump,
	}, nil
}
