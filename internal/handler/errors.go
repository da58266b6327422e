package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"test-token/internal/ledger"
	"test-token/internal/logic/faucet"
	"test-token/internal/token"
	"test-token/internal/types"
)

// ErrorHandler maps service errors to HTTP statuses. Failed transactions
// carry their program logs.
func ErrorHandler(ctx context.Context, err error) (int, any) {
	resp := &types.ErrorResponse{Message: err.Error()}

	var rejected *faucet.RejectedError
	switch {
	case errors.Is(err, faucet.ErrInvalidInput):
		resp.Code = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		resp.Code = http.StatusNotFound
	case errors.Is(err, ledger.ErrConfirmation):
		resp.Code = http.StatusGatewayTimeout
	case errors.As(err, &rejected):
		resp.Code = http.StatusUnprocessableEntity
		resp.Logs = rejected.Logs
	case errors.Is(err, token.ErrInvalidAccount):
		resp.Code = http.StatusBadRequest
	default:
		logx.WithContext(ctx).Errorf("request failed: %v", err)
		resp.Code = http.StatusInternalServerError
	}
	return resp.Code, resp
}
