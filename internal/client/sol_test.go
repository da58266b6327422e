package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"test-token/internal/client/clienttest"
	"test-token/internal/faucet"
	"test-token/internal/ledger"
	"test-token/internal/token"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// stubNode answers JSON-RPC calls with canned results keyed by method.
type stubNode struct {
	mu      sync.Mutex
	results map[string]interface{}
	calls   map[string]int
}

func newStubNode(t *testing.T, results map[string]interface{}) (*stubNode, *httptest.Server) {
	t.Helper()
	node := &stubNode{results: results, calls: make(map[string]int)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		node.mu.Lock()
		node.calls[req.Method]++
		result, ok := node.results[req.Method]
		node.mu.Unlock()

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return node, srv
}

func (n *stubNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func withContext(value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value":   value,
	}
}

func newTestClient(url string) *Client {
	c := New(Config{HTTPUrl: url, Timeout: time.Second})
	c.pollInterval = 10 * time.Millisecond
	return c
}

func signedTx(t *testing.T) *solana.Transaction {
	t.Helper()
	payer := solana.NewWallet().PrivateKey
	inst, err := faucet.NewMintTokensInstruction(faucet.DefaultProgramID, 1,
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()).ValidateAndBuild()
	require.NoError(t, err)

	b := ledger.NewTxBuilder(payer.PublicKey(), solana.Hash{1})
	b.AddInstruction(inst)
	tx, err := b.BuildTx([]solana.PrivateKey{payer})
	require.NoError(t, err)
	return tx
}

func TestDecodeTransactionError(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  error
		index int
	}{
		{"faucet code", `{"InstructionError":[0,{"Custom":2006}]}`, faucet.ErrDerivationMismatch, 0},
		{"token code", `{"InstructionError":[1,{"Custom":1}]}`, faucet.ErrInsufficientBalance, 1},
		{"named", `{"InstructionError":[0,"MissingRequiredSignature"]}`, token.ErrMissingSignature, 0},
		{"unknown code", `{"InstructionError":[2,{"Custom":7777}]}`, ErrTransactionFailed, 2},
		{"unknown name", `{"InstructionError":[0,"ProgramFailedToComplete"]}`, ErrTransactionFailed, 0},
		{"transaction level", `"BlockhashNotFound"`, ErrTransactionFailed, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &raw))

			err := decodeTransactionError(raw)
			assert.ErrorIs(t, err, tt.want)
			var txErr *TransactionError
			require.ErrorAs(t, err, &txErr)
			assert.Equal(t, tt.index, txErr.Index)
		})
	}
}

func TestClientBlockhashAndRent(t *testing.T) {
	hash := solana.Hash{7, 7, 7}
	_, srv := newStubNode(t, map[string]interface{}{
		"getLatestBlockhash": withContext(map[string]interface{}{
			"blockhash":            hash.String(),
			"lastValidBlockHeight": 100,
		}),
		"getMinimumBalanceForRentExemption": 2039280,
	})
	c := newTestClient(srv.URL)

	got, err := c.LatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	rent, err := c.MinimumBalance(context.Background(), token.AccountSize)
	require.NoError(t, err)
	assert.EqualValues(t, 2039280, rent)
}

func TestClientTokenAccount(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	data, err := token.EncodeAccount(&tokenprog.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: 42,
		State:  tokenprog.Initialized,
	})
	require.NoError(t, err)

	_, srv := newStubNode(t, map[string]interface{}{
		"getAccountInfo": withContext(map[string]interface{}{
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"lamports":   2039280,
			"owner":      token.ProgramID.String(),
			"rentEpoch":  0,
		}),
	})
	c := newTestClient(srv.URL)

	address := solana.NewWallet().PublicKey()
	got, err := c.TokenAccount(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, &ledger.TokenAccount{Address: address, Mint: mint, Owner: owner, Amount: 42}, got)
}

func TestClientTokenAccountMissing(t *testing.T) {
	_, srv := newStubNode(t, map[string]interface{}{
		"getAccountInfo": withContext(nil),
	})
	c := newTestClient(srv.URL)

	_, err := c.TokenAccount(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestSubmitSimulationFailure(t *testing.T) {
	logs := []string{
		"Program " + faucet.DefaultProgramID.String() + " invoke [1]",
		"Program log: Instruction: MintTokens",
		"Program " + faucet.DefaultProgramID.String() + " failed: custom program error: 0x7d6",
	}
	node, srv := newStubNode(t, map[string]interface{}{
		"simulateTransaction": withContext(map[string]interface{}{
			"err":  map[string]interface{}{"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 2006}}},
			"logs": logs,
		}),
	})
	c := newTestClient(srv.URL)

	receipt, err := c.Submit(context.Background(), signedTx(t))
	assert.ErrorIs(t, err, faucet.ErrDerivationMismatch)
	require.NotNil(t, receipt)
	assert.Equal(t, logs, receipt.Logs)
	assert.Zero(t, node.count("sendTransaction"))
}

func TestSubmitConfirmed(t *testing.T) {
	tx := signedTx(t)
	account := solana.NewWallet().PublicKey()
	data, err := faucet.EncodeEvent(faucet.Event{Kind: faucet.EventMint, Account: account, Amount: 1})
	require.NoError(t, err)
	program := faucet.DefaultProgramID.String()
	logs := []string{
		"Program " + program + " invoke [1]",
		"Program log: Instruction: MintTokens",
		"Program " + token.ProgramID.String() + " invoke [2]",
		"Program " + token.ProgramID.String() + " success",
		"Program data: " + base64.StdEncoding.EncodeToString(data),
		"Program " + program + " success",
	}

	node, srv := newStubNode(t, map[string]interface{}{
		"simulateTransaction": withContext(map[string]interface{}{"err": nil, "logs": logs}),
		"sendTransaction":     tx.Signatures[0].String(),
		"getTransaction": map[string]interface{}{
			"slot": 10,
			"meta": map[string]interface{}{
				"err":          nil,
				"fee":          5000,
				"preBalances":  []uint64{},
				"postBalances": []uint64{},
				"logMessages":  logs,
			},
		},
	})
	c := newTestClient(srv.URL)

	receipt, err := c.Submit(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Signatures[0], receipt.Signature)
	assert.Equal(t, []faucet.Event{{Kind: faucet.EventMint, Account: account, Amount: 1}}, receipt.Events)
	assert.Equal(t, 1, node.count("sendTransaction"))
}

func TestSubmitOnChainFailure(t *testing.T) {
	tx := signedTx(t)
	_, srv := newStubNode(t, map[string]interface{}{
		"simulateTransaction": withContext(map[string]interface{}{"err": nil, "logs": []string{}}),
		"sendTransaction":     tx.Signatures[0].String(),
		"getTransaction": map[string]interface{}{
			"slot": 10,
			"meta": map[string]interface{}{
				"err":         map[string]interface{}{"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 1}}},
				"fee":         5000,
				"logMessages": []string{"Program log: Error: insufficient funds"},
			},
		},
	})
	c := newTestClient(srv.URL)

	receipt, err := c.Submit(context.Background(), tx)
	assert.ErrorIs(t, err, faucet.ErrInsufficientBalance)
	require.NotNil(t, receipt)
	assert.Empty(t, receipt.Events)
	assert.NotEmpty(t, receipt.Logs)
}

func TestSubmitNotConfirmed(t *testing.T) {
	tx := signedTx(t)
	_, srv := newStubNode(t, map[string]interface{}{
		"simulateTransaction": withContext(map[string]interface{}{"err": nil, "logs": []string{}}),
		"sendTransaction":     tx.Signatures[0].String(),
		"getTransaction":      nil,
	})
	c := newTestClient(srv.URL)
	c.timeout = 50 * time.Millisecond

	_, err := c.Submit(context.Background(), tx)
	assert.ErrorIs(t, err, ledger.ErrConfirmation)
}

func TestWatchEventsRequiresWebsocket(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")
	assert.Error(t, c.WatchEvents(context.Background(), func(*ledger.Receipt) {}))
}

func TestWatchEvents(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	mint := faucet.Event{Kind: faucet.EventMint, Account: account, Amount: 5}
	burn := faucet.Event{Kind: faucet.EventBurn, Account: account, Amount: 2}
	minted := solana.Signature{1}
	burned := solana.Signature{3}

	wsURL := clienttest.NewLogsNode(t,
		clienttest.Notification{Signature: minted, Logs: clienttest.EventLogs(t, faucet.DefaultProgramID, mint)},
		clienttest.Notification{
			Signature: solana.Signature{2},
			Err:       map[string]interface{}{"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 1}}},
			Logs:      clienttest.EventLogs(t, faucet.DefaultProgramID, mint),
		},
		clienttest.Notification{Signature: solana.Signature{4}, Logs: []string{"Program log: unrelated"}},
		clienttest.Notification{Signature: burned, Logs: clienttest.EventLogs(t, faucet.DefaultProgramID, burn)},
	)
	c := New(Config{HTTPUrl: "http://127.0.0.1:0", WSUrl: wsURL, ProgramID: faucet.DefaultProgramID})

	var (
		mu       sync.Mutex
		receipts []*ledger.Receipt
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.WatchEvents(ctx, func(r *ledger.Receipt) {
			mu.Lock()
			defer mu.Unlock()
			receipts = append(receipts, r)
		})
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(receipts) == 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, receipts, 2)
	assert.Equal(t, minted, receipts[0].Signature)
	assert.Equal(t, []faucet.Event{mint}, receipts[0].Events)
	assert.Equal(t, burned, receipts[1].Signature)
	assert.Equal(t, []faucet.Event{burn}, receipts[1].Events)
}
