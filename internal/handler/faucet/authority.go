package faucet

import (
	"fmt"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"test-token/internal/logic/faucet"
	"test-token/internal/svc"
	"test-token/internal/types"
)

func Authority(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AuthorityRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, fmt.Errorf("%w: %v", faucet.ErrInvalidInput, err))
			return
		}

		l := faucet.NewAuthority(r.Context(), svcCtx)
		resp, err := l.Authority(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
