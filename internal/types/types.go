package types

import (
	"test-token/internal/faucet"
)

type AuthorityRequest struct {
}

type AuthorityResponse struct {
	ProgramID string `json:"programId"`
	Label     string `json:"label"`
	Address   string `json:"address"`
	Bump      uint8  `json:"bump"`
}

type CreateMintRequest struct {
	Decimals *uint8 `json:"decimals,optional"`
}

type CreateMintResponse struct {
	Mint      string `json:"mint"`
	Signature string `json:"signature"`
}

type CreateAccountRequest struct {
	Mint  string `json:"mint"`
	Owner string `json:"owner"`
}

type CreateAccountResponse struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type GetAccountRequest struct {
	Address string `path:"address"`
}

type GetAccountResponse struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
}

type MintRequest struct {
	Mint    string `json:"mint"`
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type SubmitTransactionRequest struct {
	// Transaction is a signed transaction in base64.
	Transaction string `json:"transaction"`
}

type TransactionResponse struct {
	Signature string         `json:"signature"`
	Events    []faucet.Event `json:"events"`
}

type ListEventsRequest struct {
	Limit int `form:"limit,default=20,range=[1:1000]"`
}

type Event struct {
	Signature string `json:"signature"`
	faucet.Event
}

type ListEventsResponse struct {
	Events []Event `json:"events"`
}

type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Logs    []string `json:"logs,omitempty"`
}
