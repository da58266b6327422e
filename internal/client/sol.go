package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"test-token/internal/faucet"
	"test-token/internal/ledger"
	"test-token/internal/token"
	"time"

	"github.com/avast/retry-go"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

type Config struct {
	HTTPUrl    string
	WSUrl      string
	Commitment rpc.CommitmentType
	Timeout    time.Duration
	ProgramID  solana.PublicKey
}

// Client talks to a cluster over JSON-RPC. Confirmation goes through the
// websocket endpoint when one is configured and falls back to polling.
type Client struct {
	rpc        *rpc.Client
	wsUrl      string
	programID  solana.PublicKey
	commitment rpc.CommitmentType

	timeout      time.Duration
	pollInterval time.Duration
}

func New(c Config) *Client {
	if c.Commitment == "" {
		c.Commitment = rpc.CommitmentConfirmed
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ProgramID.IsZero() {
		c.ProgramID = faucet.DefaultProgramID
	}
	return &Client{
		rpc:          rpc.New(c.HTTPUrl),
		wsUrl:        c.WSUrl,
		programID:    c.ProgramID,
		commitment:   c.Commitment,
		timeout:      c.Timeout,
		pollInterval: defaultPollInterval,
	}
}

func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, err
	}
	return out.Value.Blockhash, nil
}

func (c *Client) MinimumBalance(ctx context.Context, space uint64) (uint64, error) {
	return c.rpc.GetMinimumBalanceForRentExemption(ctx, space, c.commitment)
}

// Submit simulates tx, sends it and waits for it to land. A transaction
// that fails in simulation is never sent.
func (c *Client) Submit(ctx context.Context, tx *solana.Transaction) (*ledger.Receipt, error) {
	receipt := &ledger.Receipt{}
	if len(tx.Signatures) > 0 {
		receipt.Signature = tx.Signatures[0]
	}

	sim, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("simulate transaction: %w", err)
	}
	if sim.Value.Err != nil {
		receipt.Logs = sim.Value.Logs
		logx.WithContext(ctx).Infof("simulation of %s failed: %v", receipt.Signature, sim.Value.Err)
		return receipt, decodeTransactionError(sim.Value.Err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}
	receipt.Signature = sig

	result, err := c.waitForTransaction(ctx, sig)
	if err != nil {
		return receipt, err
	}
	if result.Meta == nil {
		return receipt, fmt.Errorf("%w: %s has no status", ledger.ErrConfirmation, sig)
	}
	receipt.Logs = result.Meta.LogMessages
	if result.Meta.Err != nil {
		return receipt, decodeTransactionError(result.Meta.Err)
	}

	events, err := faucet.ParseEvents(c.programID, receipt.Logs)
	if err != nil {
		return receipt, fmt.Errorf("parse events: %w", err)
	}
	receipt.Events = events
	return receipt, nil
}

func (c *Client) waitForTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.wsUrl != "" {
		if err := c.subscribeSignature(ctx, sig); err != nil {
			logx.WithContext(ctx).Errorf("signature subscription for %s: %v", sig, err)
		}
	}

	var result *rpc.GetTransactionResult
	maxVersion := uint64(0)
	err := retry.Do(func() error {
		out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
			Commitment:                     c.commitment,
			Encoding:                       solana.EncodingBase64,
			MaxSupportedTransactionVersion: &maxVersion,
		})
		if err != nil {
			return err
		}
		result = out
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(uint(c.timeout/c.pollInterval)+1),
		retry.Delay(c.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ledger.ErrConfirmation, sig, err)
	}
	return result, nil
}

// subscribeSignature blocks until the cluster reports sig at the client's
// commitment. The transaction status itself is read afterwards.
func (c *Client) subscribeSignature(ctx context.Context, sig solana.Signature) error {
	wsClient, err := ws.Connect(ctx, c.wsUrl)
	if err != nil {
		return err
	}
	defer wsClient.Close()

	sub, err := wsClient.SignatureSubscribe(sig, c.commitment)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	_, err = sub.RecvWithTimeout(time.Until(deadline))
	return err
}

func (c *Client) TokenAccount(ctx context.Context, address solana.PublicKey) (*ledger.TokenAccount, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, address)
	}
	if err != nil {
		return nil, err
	}
	if out.Value.Owner != token.ProgramID {
		return nil, fmt.Errorf("%w: %s is not a token account", token.ErrInvalidAccount, address)
	}
	acct, err := token.DecodeAccount(out.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	return &ledger.TokenAccount{
		Address: address,
		Mint:    acct.Mint,
		Owner:   acct.Owner,
		Amount:  acct.Amount,
	}, nil
}

// WatchEvents streams the faucet events of every successful transaction
// that mentions the program until ctx is done or the stream closes.
func (c *Client) WatchEvents(ctx context.Context, handle func(*ledger.Receipt)) error {
	if c.wsUrl == "" {
		return errors.New("websocket url is not configured")
	}
	wsClient, err := ws.Connect(ctx, c.wsUrl)
	if err != nil {
		return err
	}
	defer wsClient.Close()

	sub, err := wsClient.LogsSubscribeMentions(c.programID, c.commitment)
	if err != nil {
		return fmt.Errorf("subscribe to logs: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		got, err := sub.Recv(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if got.Value.Err != nil {
			continue
		}
		events, err := faucet.ParseEvents(c.programID, got.Value.Logs)
		if err != nil {
			logx.WithContext(ctx).Errorf("parse events of %s: %v", got.Value.Signature, err)
			continue
		}
		if len(events) == 0 {
			continue
		}
		handle(&ledger.Receipt{
			Signature: got.Value.Signature,
			Logs:      got.Value.Logs,
			Events:    events,
		})
	}
}

var (
	_ ledger.Ledger  = (*Client)(nil)
	_ ledger.Watcher = (*Client)(nil)
)
