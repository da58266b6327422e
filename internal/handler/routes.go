package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"test-token/internal/handler/faucet"
	"test-token/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	httpx.SetErrorHandlerCtx(ErrorHandler)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/authority",
				Handler: faucet.Authority(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/mints",
				Handler: faucet.CreateMint(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/accounts",
				Handler: faucet.CreateAccount(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/accounts/:address",
				Handler: faucet.GetAccount(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/mint",
				Handler: faucet.Mint(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/transactions",
				Handler: faucet.SubmitTransaction(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/events",
				Handler: faucet.ListEvents(serverCtx),
			},
		},
		rest.WithPrefix("/v1"),
	)
}
