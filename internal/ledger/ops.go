package ledger

import (
	"context"
	"fmt"
	"test-token/internal/faucet"
	"test-token/internal/token"

	"github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
)

// CreateMint creates and initializes a fresh mint paid for by payer. A zero
// freezeAuthority leaves the mint without one.
func CreateMint(
	ctx context.Context,
	l Ledger,
	payer solana.PrivateKey,
	decimals uint8,
	mintAuthority solana.PublicKey,
	freezeAuthority solana.PublicKey,
	opts ...TxOption,
) (solana.PublicKey, *Receipt, error) {
	mint := solana.NewWallet()
	rent, err := l.MinimumBalance(ctx, token.MintSize)
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("rent for mint: %w", err)
	}

	receipt, err := Send(ctx, l, payer, []solana.PrivateKey{mint.PrivateKey}, []solana.Instruction{
		system.NewCreateAccountInstruction(rent, token.MintSize, token.ProgramID, payer.PublicKey(), mint.PublicKey()).Build(),
		token.NewInitializeMint2Instruction(decimals, mintAuthority, freezeAuthority, mint.PublicKey()),
	}, opts...)
	if err != nil {
		return solana.PublicKey{}, receipt, fmt.Errorf("create mint: %w", err)
	}
	return mint.PublicKey(), receipt, nil
}

// CreateTokenAccount creates the associated token account of owner for mint.
func CreateTokenAccount(
	ctx context.Context,
	l Ledger,
	payer solana.PrivateKey,
	mint solana.PublicKey,
	owner solana.PublicKey,
	opts ...TxOption,
) (solana.PublicKey, *Receipt, error) {
	addr, _, err := token.FindAssociatedAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	receipt, err := Send(ctx, l, payer, nil, []solana.Instruction{
		ata.NewCreateInstruction(payer.PublicKey(), owner, mint).Build(),
	}, opts...)
	if err != nil {
		return solana.PublicKey{}, receipt, fmt.Errorf("create token account: %w", err)
	}
	return addr, receipt, nil
}

// MintTokens asks program for amount tokens of mint into to. The payer signs
// only as fee payer.
func MintTokens(
	ctx context.Context,
	l Ledger,
	payer solana.PrivateKey,
	program *faucet.Program,
	mint solana.PublicKey,
	to solana.PublicKey,
	amount uint64,
	opts ...TxOption,
) (*Receipt, error) {
	inst, err := program.MintTokensInstruction(amount, mint, to).ValidateAndBuild()
	if err != nil {
		return nil, err
	}
	return Send(ctx, l, payer, nil, []solana.Instruction{inst}, opts...)
}

// BurnTokens burns amount tokens of mint from the account from, signed by
// authority.
func BurnTokens(
	ctx context.Context,
	l Ledger,
	payer solana.PrivateKey,
	authority solana.PrivateKey,
	programID solana.PublicKey,
	mint solana.PublicKey,
	from solana.PublicKey,
	amount uint64,
	opts ...TxOption,
) (*Receipt, error) {
	inst, err := faucet.NewBurnTokensInstruction(programID, amount, mint, from, authority.PublicKey()).ValidateAndBuild()
	if err != nil {
		return nil, err
	}
	var signers []solana.PrivateKey
	if authority.PublicKey() != payer.PublicKey() {
		signers = append(signers, authority)
	}
	return Send(ctx, l, payer, signers, []solana.Instruction{inst}, opts...)
}
