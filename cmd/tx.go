package cmd

import (
	"errors"
	"fmt"
	"io"
	"test-token/internal/client"
	"test-token/internal/config"
	"test-token/internal/faucet"
	"test-token/internal/ledger"
	"test-token/internal/svc"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/treeout"
)

// cluster bundles what the transaction commands need to reach the
// configured RPC node.
type cluster struct {
	config  config.Config
	program *faucet.Program
	payer   solana.PrivateKey
	client  *client.Client
}

func newCluster(c config.Config) (*cluster, error) {
	program, err := svc.NewProgram(c.Faucet)
	if err != nil {
		return nil, err
	}
	if c.Solana.Keypair == "" {
		return nil, errors.New("a fee payer keypair is required, set Solana.Keypair or SOLANA_KEYPAIR")
	}
	payer, err := svc.LoadPayer(c.Solana)
	if err != nil {
		return nil, err
	}
	return &cluster{
		config:  c,
		program: program,
		payer:   payer,
		client:  client.New(svc.ClientConfig(c.Solana, program.ID())),
	}, nil
}

func (c *cluster) txOptions() []ledger.TxOption {
	if c.config.Faucet.PriorityFee == 0 {
		return nil
	}
	return []ledger.TxOption{ledger.WithPriorityFee(c.config.Faucet.PriorityFee)}
}

func printTree(w io.Writer, inst *faucet.Instruction) {
	tree := treeout.New("dry run")
	inst.EncodeToTree(tree)
	fmt.Fprintln(w, tree.String())
}

func printReceipt(w io.Writer, receipt *ledger.Receipt) {
	fmt.Fprintf(w, "signature: %s\n", receipt.Signature)
	for _, e := range receipt.Events {
		fmt.Fprintf(w, "event:     %s account=%s amount=%d\n", e.Kind, e.Account, e.Amount)
	}
}

func parseKeyFlag(name, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("--%s %q: %w", name, value, err)
	}
	return key, nil
}
