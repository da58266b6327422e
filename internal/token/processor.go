package token

import (
	"fmt"
	"math/bits"
	"test-token/internal/runtime"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
)

// Program executes the subset of the SPL token program used by the faucet:
// InitializeMint2, InitializeAccount3, Approve, MintTo and Burn. Account
// layouts and instruction bytes are the SPL ones, so the same instructions
// work against a real cluster.
type Program struct{}

func NewProgram() *Program {
	return &Program{}
}

func (p *Program) ID() solana.PublicKey {
	return ProgramID
}

func (p *Program) Process(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	inst, err := decodeInstruction(data)
	if err != nil {
		return err
	}
	if len(accounts) < minAccounts[inst.kind] {
		return ErrNotEnoughAccounts
	}

	switch inst.kind {
	case instructionInitializeMint2:
		ctx.Logf("Instruction: InitializeMint2")
		return p.initializeMint(accounts[0], inst)
	case instructionInitializeAccount3:
		ctx.Logf("Instruction: InitializeAccount3")
		return p.initializeAccount(accounts[0], accounts[1], inst.authority)
	case instructionApprove:
		ctx.Logf("Instruction: Approve")
		return p.approve(accounts[0], accounts[1], accounts[2], inst.amount)
	case instructionMintTo:
		ctx.Logf("Instruction: MintTo")
		return p.mintTo(accounts[0], accounts[1], accounts[2], inst.amount)
	case instructionBurn:
		ctx.Logf("Instruction: Burn")
		return p.burn(accounts[0], accounts[1], accounts[2], inst.amount)
	}
	return ErrInvalidInstruction
}

func (p *Program) initializeMint(mintInfo *runtime.AccountInfo, inst *instruction) error {
	if err := checkOwner(mintInfo); err != nil {
		return err
	}
	mint, err := DecodeMint(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return fmt.Errorf("%w: mint %s", ErrAlreadyInUse, mintInfo.Key)
	}

	authority := inst.authority
	mint.MintAuthority = &authority
	mint.FreezeAuthority = inst.freezeAuthority
	mint.Decimals = inst.decimals
	mint.IsInitialized = true
	return storeMint(mintInfo, mint)
}

func (p *Program) initializeAccount(acctInfo, mintInfo *runtime.AccountInfo, owner solana.PublicKey) error {
	if err := checkOwner(acctInfo); err != nil {
		return err
	}
	acct, err := DecodeAccount(acctInfo.Data)
	if err != nil {
		return err
	}
	if acct.State != tokenprog.Uninitialized {
		return fmt.Errorf("%w: token account %s", ErrAlreadyInUse, acctInfo.Key)
	}
	if _, err := loadMint(mintInfo); err != nil {
		return err
	}

	acct.Mint = mintInfo.Key
	acct.Owner = owner
	acct.State = tokenprog.Initialized
	return storeAccount(acctInfo, acct)
}

func (p *Program) approve(sourceInfo, delegateInfo, ownerInfo *runtime.AccountInfo, amount uint64) error {
	source, err := loadAccount(sourceInfo)
	if err != nil {
		return err
	}
	if source.State == tokenprog.Frozen {
		return ErrAccountFrozen
	}
	if err := validateOwner(source.Owner, ownerInfo); err != nil {
		return err
	}

	delegate := delegateInfo.Key
	source.Delegate = &delegate
	source.DelegatedAmount = amount
	return storeAccount(sourceInfo, source)
}

func (p *Program) mintTo(mintInfo, destInfo, authority *runtime.AccountInfo, amount uint64) error {
	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}
	if dest.State == tokenprog.Frozen {
		return ErrAccountFrozen
	}
	if dest.Mint != mintInfo.Key {
		return ErrMintMismatch
	}

	mint, err := loadMint(mintInfo)
	if err != nil {
		return err
	}
	if mint.MintAuthority == nil {
		return ErrFixedSupply
	}
	if err := validateOwner(*mint.MintAuthority, authority); err != nil {
		return err
	}

	balance, carry := bits.Add64(dest.Amount, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	supply, carry := bits.Add64(mint.Supply, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}

	dest.Amount = balance
	mint.Supply = supply
	if err := storeAccount(destInfo, dest); err != nil {
		return err
	}
	return storeMint(mintInfo, mint)
}

func (p *Program) burn(sourceInfo, mintInfo, authority *runtime.AccountInfo, amount uint64) error {
	source, err := loadAccount(sourceInfo)
	if err != nil {
		return err
	}
	if source.State == tokenprog.Frozen {
		return ErrAccountFrozen
	}
	if source.Mint != mintInfo.Key {
		return ErrMintMismatch
	}

	mint, err := loadMint(mintInfo)
	if err != nil {
		return err
	}
	if source.Amount < amount {
		return ErrInsufficientFunds
	}

	if source.Delegate != nil && *source.Delegate == authority.Key {
		if err := validateOwner(*source.Delegate, authority); err != nil {
			return err
		}
		if source.DelegatedAmount < amount {
			return ErrInsufficientFunds
		}
		source.DelegatedAmount -= amount
		if source.DelegatedAmount == 0 {
			source.Delegate = nil
		}
	} else if err := validateOwner(source.Owner, authority); err != nil {
		return err
	}

	supply, borrow := bits.Sub64(mint.Supply, amount, 0)
	if borrow != 0 {
		return ErrOverflow
	}

	source.Amount -= amount
	mint.Supply = supply
	if err := storeAccount(sourceInfo, source); err != nil {
		return err
	}
	return storeMint(mintInfo, mint)
}

func checkOwner(info *runtime.AccountInfo) error {
	if info.Owner != ProgramID {
		return fmt.Errorf("%w: %s is owned by %s", ErrInvalidAccount, info.Key, info.Owner)
	}
	return nil
}

func loadMint(info *runtime.AccountInfo) (*tokenprog.Mint, error) {
	if err := checkOwner(info); err != nil {
		return nil, err
	}
	mint, err := DecodeMint(info.Data)
	if err != nil {
		return nil, err
	}
	if !mint.IsInitialized {
		return nil, fmt.Errorf("%w: mint %s", ErrUninitialized, info.Key)
	}
	return mint, nil
}

func loadAccount(info *runtime.AccountInfo) (*tokenprog.Account, error) {
	if err := checkOwner(info); err != nil {
		return nil, err
	}
	acct, err := DecodeAccount(info.Data)
	if err != nil {
		return nil, err
	}
	if acct.State == tokenprog.Uninitialized {
		return nil, fmt.Errorf("%w: token account %s", ErrUninitialized, info.Key)
	}
	return acct, nil
}

func validateOwner(expected solana.PublicKey, authority *runtime.AccountInfo) error {
	if expected != authority.Key {
		return fmt.Errorf("%w: want %s, got %s", ErrOwnerMismatch, expected, authority.Key)
	}
	if !authority.IsSigner {
		return fmt.Errorf("%w: %s", ErrMissingSignature, authority.Key)
	}
	return nil
}

func storeMint(info *runtime.AccountInfo, mint *tokenprog.Mint) error {
	data, err := EncodeMint(mint)
	if err != nil {
		return err
	}
	copy(info.Data, data)
	return nil
}

func storeAccount(info *runtime.AccountInfo, acct *tokenprog.Account) error {
	data, err := EncodeAccount(acct)
	if err != nil {
		return err
	}
	copy(info.Data, data)
	return nil
}
