package token

import (
	"fmt"
	"test-token/internal/runtime"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

var AssociatedProgramID = solana.SPLAssociatedTokenAccountProgramID

// FindAssociatedAddress returns the canonical token account of wallet for
// mint.
func FindAssociatedAddress(
	wallet solana.PublicKey,
	mint solana.PublicKey,
) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		wallet[:],
		ProgramID[:],
		mint[:],
	},
		AssociatedProgramID,
	)
}

const (
	associatedCreate           uint8 = 0
	associatedCreateIdempotent uint8 = 1
)

// AssociatedProgram creates associated token accounts. The new account is
// funded by the payer and signed for with the derived address seeds.
type AssociatedProgram struct{}

func NewAssociatedProgram() *AssociatedProgram {
	return &AssociatedProgram{}
}

func (p *AssociatedProgram) ID() solana.PublicKey {
	return AssociatedProgramID
}

func (p *AssociatedProgram) Process(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	kind := associatedCreate
	if len(data) > 0 {
		kind = data[0]
	}
	if kind != associatedCreate && kind != associatedCreateIdempotent {
		return fmt.Errorf("%w: associated token instruction %d", ErrInvalidInstruction, kind)
	}
	if len(accounts) < 6 {
		return ErrNotEnoughAccounts
	}
	payer, ata, wallet, mint, tokenProgram := accounts[0], accounts[1], accounts[2], accounts[3], accounts[5]

	if tokenProgram.Key != ProgramID {
		return fmt.Errorf("%w: token program %s", ErrInvalidAccount, tokenProgram.Key)
	}
	addr, bump, err := FindAssociatedAddress(wallet.Key, mint.Key)
	if err != nil {
		return err
	}
	if ata.Key != addr {
		return fmt.Errorf("%w: %s is not the associated address %s", runtime.ErrInvalidSeeds, ata.Key, addr)
	}

	if kind == associatedCreateIdempotent && ata.Owner == ProgramID {
		ctx.Logf("Create")
		existing, err := loadAccount(ata)
		if err != nil {
			return err
		}
		if existing.Owner != wallet.Key {
			return fmt.Errorf("%w: %s", ErrOwnerMismatch, ata.Key)
		}
		if existing.Mint != mint.Key {
			return ErrMintMismatch
		}
		return nil
	}

	ctx.Logf("Create")
	create := system.NewCreateAccountInstruction(
		runtime.MinimumBalance(AccountSize),
		AccountSize,
		ProgramID,
		payer.Key,
		ata.Key,
	).Build()
	seeds := [][]byte{wallet.Key[:], ProgramID[:], mint.Key[:], {bump}}
	if err := ctx.InvokeSigned(create, seeds); err != nil {
		return err
	}
	return ctx.Invoke(NewInitializeAccount3Instruction(wallet.Key, ata.Key, mint.Key))
}

var _ runtime.Program = (*AssociatedProgram)(nil)

