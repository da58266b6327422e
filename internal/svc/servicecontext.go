package svc

import (
	"context"
	"fmt"
	"test-token/internal/client"
	"test-token/internal/config"
	"test-token/internal/faucet"
	"test-token/internal/ledger"
	"test-token/internal/utils/fifomap"
	"test-token/internal/utils/pubsub"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/zeromicro/go-zero/core/logx"
)

// EventRecord is a faucet event together with the transaction that
// emitted it.
type EventRecord struct {
	Signature solana.Signature `json:"signature"`
	faucet.Event
}

type ServiceContext struct {
	Config config.Config

	Program *faucet.Program
	Ledger  ledger.Ledger
	Payer   solana.PrivateKey

	Receipts *pubsub.PubSub[*ledger.Receipt]
	Recent   *fifomap.FIFOMap[string, EventRecord]
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	if c.Events.Capacity <= 0 || c.Events.Buffer <= 0 {
		return nil, fmt.Errorf("events: capacity %d and buffer %d must be positive", c.Events.Capacity, c.Events.Buffer)
	}
	program, err := NewProgram(c.Faucet)
	if err != nil {
		return nil, err
	}
	payer, err := LoadPayer(c.Solana)
	if err != nil {
		return nil, err
	}

	var l ledger.Ledger
	switch c.Faucet.Backend {
	case "rpc":
		l = client.New(ClientConfig(c.Solana, program.ID()))
	default:
		sim := ledger.NewSimnet(program)
		sim.Airdrop(payer.PublicKey(), c.Solana.Airdrop)
		l = sim
	}

	return &ServiceContext{
		Config:   c,
		Program:  program,
		Ledger:   l,
		Payer:    payer,
		Receipts: pubsub.NewPubSub[*ledger.Receipt](c.Events.Buffer),
		Recent:   fifomap.NewFIFOMap[string, EventRecord](c.Events.Capacity),
	}, nil
}

func NewProgram(c config.FaucetConf) (*faucet.Program, error) {
	var programID solana.PublicKey
	if c.ProgramID != "" {
		id, err := solana.PublicKeyFromBase58(c.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("program id %q: %w", c.ProgramID, err)
		}
		programID = id
	}
	return faucet.New(faucet.Config{
		ProgramID:     programID,
		Label:         c.Label,
		AccessControl: faucet.AccessControl(c.AccessControl),
	})
}

// LoadPayer reads the fee payer keypair. Without a keypair file a fresh key
// is generated, which is only useful against the simnet.
func LoadPayer(c config.SolanaConf) (solana.PrivateKey, error) {
	if c.Keypair == "" {
		return solana.NewWallet().PrivateKey, nil
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(c.Keypair)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", c.Keypair, err)
	}
	return key, nil
}

func ClientConfig(c config.SolanaConf, programID solana.PublicKey) client.Config {
	return client.Config{
		HTTPUrl:    c.RPC,
		WSUrl:      c.WS,
		Commitment: rpc.CommitmentType(c.Commitment),
		Timeout:    c.Timeout,
		ProgramID:  programID,
	}
}

func (s *ServiceContext) TxOptions() []ledger.TxOption {
	if s.Config.Faucet.PriorityFee == 0 {
		return nil
	}
	return []ledger.TxOption{ledger.WithPriorityFee(s.Config.Faucet.PriorityFee)}
}

// Record publishes a receipt that carries events.
func (s *ServiceContext) Record(receipt *ledger.Receipt) {
	if receipt == nil || len(receipt.Events) == 0 {
		return
	}
	s.Receipts.Publish(receipt)
}

// Start caches published events until ctx is done. When the ledger can
// watch the cluster, events from transactions sent by others are recorded
// too.
func (s *ServiceContext) Start(ctx context.Context) {
	sub := s.Receipts.Subscribe()
	go func() {
		defer s.Receipts.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case receipt := <-sub:
				s.cache(receipt)
			}
		}
	}()

	watcher, ok := s.Ledger.(ledger.Watcher)
	if !ok || s.Config.Solana.WS == "" {
		return
	}
	go func() {
		if err := watcher.WatchEvents(ctx, s.Record); err != nil && ctx.Err() == nil {
			logx.Errorf("watch faucet events: %v", err)
		}
	}()
}

// cache keys events by signature and position, so a receipt seen both
// locally and through the watcher is stored once.
func (s *ServiceContext) cache(receipt *ledger.Receipt) {
	for i, e := range receipt.Events {
		key := fmt.Sprintf("%s/%d", receipt.Signature, i)
		if _, ok := s.Recent.Get(key); ok {
			continue
		}
		s.Recent.Set(key, EventRecord{Signature: receipt.Signature, Event: e})
	}
}
