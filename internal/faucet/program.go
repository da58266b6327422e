package faucet

import (
	"fmt"
	"test-token/internal/runtime"
	"test-token/internal/token"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
)

// AccessControl names who may mint. Only AccessControlNone exists: any
// signer may mint any amount to any token account of a faucet mint.
type AccessControl string

const AccessControlNone AccessControl = "none"

type Config struct {
	ProgramID     solana.PublicKey
	Label         string
	AccessControl AccessControl
}

// Program is the faucet. It holds no state of its own; the mint authority
// is a derived address the program signs for during the token CPI.
type Program struct {
	id    solana.PublicKey
	label string
}

func New(c Config) (*Program, error) {
	if c.AccessControl != AccessControlNone {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAccessControl, c.AccessControl)
	}
	if c.ProgramID.IsZero() {
		c.ProgramID = DefaultProgramID
	}
	if c.Label == "" {
		c.Label = AuthorityLabel
	}
	if _, _, err := FindAuthority(c.Label, c.ProgramID); err != nil {
		return nil, err
	}
	return &Program{id: c.ProgramID, label: c.Label}, nil
}

func MustNew(c Config) *Program {
	p, err := New(c)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Program) ID() solana.PublicKey {
	return p.id
}

func (p *Program) Label() string {
	return p.label
}

// MintTokensInstruction builds a mint request signed for by this program's
// derived authority.
func (p *Program) MintTokensInstruction(amount uint64, mint, to solana.PublicKey) *MintTokens {
	authority, _ := p.Authority()
	return NewMintTokensInstruction(p.id, amount, mint, to).SetMintAuthorityAccount(authority)
}

// Authority returns the mint authority every faucet mint must carry.
func (p *Program) Authority() (solana.PublicKey, uint8) {
	addr, bump, _ := FindAuthority(p.label, p.id)
	return addr, bump
}

func (p *Program) Process(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	metas := make([]*solana.AccountMeta, len(accounts))
	for i, info := range accounts {
		metas[i] = info.Meta()
	}
	inst, err := DecodeInstruction(ctx.ProgramID(), metas, data)
	if err != nil {
		return err
	}
	if len(accounts) < 4 {
		return ErrNotEnoughAccounts
	}

	switch impl := inst.Impl.(type) {
	case *MintTokens:
		ctx.Logf("Instruction: MintTokens")
		return p.mintTokens(ctx, accounts[0], accounts[1], accounts[2], accounts[3], *impl.Amount)
	case *BurnTokens:
		ctx.Logf("Instruction: BurnTokens")
		return p.burnTokens(ctx, accounts[0], accounts[1], accounts[2], accounts[3], *impl.Amount)
	}
	return ErrInstructionNotFound
}

func (p *Program) mintTokens(ctx *runtime.InvokeContext, mint, authority, to, tokenProgram *runtime.AccountInfo, amount uint64) error {
	if err := checkMint(mint); err != nil {
		return err
	}
	// The authority is derived again on every call; nothing cached can
	// stand in for it.
	expected, bump, err := FindAuthority(p.label, ctx.ProgramID())
	if err != nil {
		return err
	}
	if authority.Key != expected {
		return fmt.Errorf("%w: got %s, want %s", ErrDerivationMismatch, authority.Key, expected)
	}
	if err := checkTokenAccount(to); err != nil {
		return err
	}
	if err := checkTokenProgram(tokenProgram); err != nil {
		return err
	}

	cpi := tokenprog.NewMintToInstruction(amount, mint.Key, to.Key, authority.Key, nil).Build()
	if err := ctx.InvokeSigned(cpi, authoritySeeds(p.label, bump)); err != nil {
		return err
	}
	return emit(ctx, Event{Kind: EventMint, Account: to.Key, Amount: amount})
}

func (p *Program) burnTokens(ctx *runtime.InvokeContext, mint, from, authority, tokenProgram *runtime.AccountInfo, amount uint64) error {
	if err := checkMint(mint); err != nil {
		return err
	}
	if err := checkTokenAccount(from); err != nil {
		return err
	}
	if !authority.IsSigner {
		return fmt.Errorf("%w: %s", ErrAccountNotSigner, authority.Key)
	}
	if err := checkTokenProgram(tokenProgram); err != nil {
		return err
	}

	cpi := tokenprog.NewBurnInstruction(amount, from.Key, mint.Key, authority.Key, nil).Build()
	if err := ctx.Invoke(cpi); err != nil {
		return err
	}
	return emit(ctx, Event{Kind: EventBurn, Account: from.Key, Amount: amount})
}

func emit(ctx *runtime.InvokeContext, e Event) error {
	data, err := EncodeEvent(e)
	if err != nil {
		return err
	}
	ctx.EmitData(data)
	return nil
}

func checkMint(info *runtime.AccountInfo) error {
	if !info.IsWritable {
		return fmt.Errorf("%w: mint %s", ErrAccountNotMutable, info.Key)
	}
	if info.Owner != token.ProgramID {
		return fmt.Errorf("%w: mint %s", ErrAccountWrongOwner, info.Key)
	}
	mint, err := token.DecodeMint(info.Data)
	if err != nil {
		return err
	}
	if !mint.IsInitialized {
		return fmt.Errorf("%w: mint %s", ErrAccountUninitialized, info.Key)
	}
	return nil
}

func checkTokenAccount(info *runtime.AccountInfo) error {
	if !info.IsWritable {
		return fmt.Errorf("%w: token account %s", ErrAccountNotMutable, info.Key)
	}
	if info.Owner != token.ProgramID {
		return fmt.Errorf("%w: token account %s", ErrAccountWrongOwner, info.Key)
	}
	acct, err := token.DecodeAccount(info.Data)
	if err != nil {
		return err
	}
	if acct.State == tokenprog.Uninitialized {
		return fmt.Errorf("%w: token account %s", ErrAccountUninitialized, info.Key)
	}
	return nil
}

func checkTokenProgram(info *runtime.AccountInfo) error {
	if info.Key != token.ProgramID || !info.Executable {
		return fmt.Errorf("%w: %s", ErrInvalidProgramID, info.Key)
	}
	return nil
}

var _ runtime.Program = (*Program)(nil)
