package faucet

import (
	"context"
	"test-token/internal/svc"
	"test-token/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListEvents struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListEvents(ctx context.Context, svcCtx *svc.ServiceContext) *ListEvents {
	return &ListEvents{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ListEvents returns the most recent faucet events, newest first.
func (l *ListEvents) ListEvents(req *types.ListEventsRequest) (resp *types.ListEventsResponse, err error) {
	records := l.svcCtx.Recent.Newest(req.Limit)
	resp = &types.ListEventsResponse{Events: make([]types.Event, 0, len(records))}
	for _, rec := range records {
		resp.Events = append(resp.Events, types.Event{
			Signature: rec.Signature.String(),
			Event:     rec.Event,
		})
	}
	return resp, nil
}
