package faucet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"test-token/internal/token"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	format "github.com/gagliardetto/solana-go/text/format"
	"github.com/gagliardetto/treeout"
)

// MintTokens credits amount new tokens to a token account. Anyone may send
// it; the program signs the token CPI with its derived authority.
type MintTokens struct {
	Amount *uint64

	// [0] = [WRITE] mint
	// ··········· Mint whose authority is the derived address
	//
	// [1] = [] mintAuthority
	// ··········· Derived authority, seeds [label]
	//
	// [2] = [WRITE] to
	// ··········· Token account credited
	//
	// [3] = [] tokenProgram
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`

	programID solana.PublicKey
}

func NewMintTokensInstructionBuilder() *MintTokens {
	inst := &MintTokens{
		AccountMetaSlice: make(solana.AccountMetaSlice, 4),
		programID:        DefaultProgramID,
	}
	inst.AccountMetaSlice[3] = solana.Meta(token.ProgramID)
	return inst
}

// NewMintTokensInstruction fills in the derived authority for the default
// label.
func NewMintTokensInstruction(programID solana.PublicKey, amount uint64, mint, to solana.PublicKey) *MintTokens {
	authority, _, _ := FindAuthority(AuthorityLabel, programID)
	return NewMintTokensInstructionBuilder().
		SetProgramID(programID).
		SetAmount(amount).
		SetMintAccount(mint).
		SetMintAuthorityAccount(authority).
		SetToAccount(to)
}

func (inst *MintTokens) SetProgramID(programID solana.PublicKey) *MintTokens {
	inst.programID = programID
	return inst
}

func (inst *MintTokens) SetAmount(amount uint64) *MintTokens {
	inst.Amount = &amount
	return inst
}

func (inst *MintTokens) SetMintAccount(mint solana.PublicKey) *MintTokens {
	inst.AccountMetaSlice[0] = solana.Meta(mint).WRITE()
	return inst
}

func (inst *MintTokens) GetMintAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(0)
}

func (inst *MintTokens) SetMintAuthorityAccount(authority solana.PublicKey) *MintTokens {
	inst.AccountMetaSlice[1] = solana.Meta(authority)
	return inst
}

func (inst *MintTokens) GetMintAuthorityAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(1)
}

func (inst *MintTokens) SetToAccount(to solana.PublicKey) *MintTokens {
	inst.AccountMetaSlice[2] = solana.Meta(to).WRITE()
	return inst
}

func (inst *MintTokens) GetToAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(2)
}

func (inst *MintTokens) SetTokenProgramAccount(program solana.PublicKey) *MintTokens {
	inst.AccountMetaSlice[3] = solana.Meta(program)
	return inst
}

func (inst *MintTokens) GetTokenProgramAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(3)
}

func (inst MintTokens) Build() *Instruction {
	return &Instruction{
		BaseVariant: bin.BaseVariant{Impl: &inst, TypeID: bin.NoTypeIDDefaultID},
		programID:   inst.programID,
	}
}

// ValidateAndBuild validates the instruction parameters and accounts.
// If there is a validation error, it returns the error.
// Otherwise, it builds and returns the instruction.
func (inst MintTokens) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *MintTokens) Validate() error {
	if inst.Amount == nil {
		return errors.New("Amount parameter is not set")
	}
	if inst.programID.IsZero() {
		return errors.New("program id is not set")
	}
	for i, name := range []string{"Mint", "MintAuthority", "To", "TokenProgram"} {
		if inst.AccountMetaSlice.Get(i) == nil {
			return fmt.Errorf("accounts.%s is not set", name)
		}
	}
	return nil
}

func (inst *MintTokens) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, inst.programID)).
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction("MintTokens")).
				ParentFunc(func(instructionBranch treeout.Branches) {
					instructionBranch.Child("Params[len=1]").ParentFunc(func(paramsBranch treeout.Branches) {
						paramsBranch.Child(format.Param("Amount", *inst.Amount))
					})
					instructionBranch.Child("Accounts[len=4]").ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta("         mint", inst.AccountMetaSlice.Get(0)))
						accountsBranch.Child(format.Meta("mintAuthority", inst.AccountMetaSlice.Get(1)))
						accountsBranch.Child(format.Meta("           to", inst.AccountMetaSlice.Get(2)))
						accountsBranch.Child(format.Meta(" tokenProgram", inst.AccountMetaSlice.Get(3)))
					})
				})
		})
}

func (inst MintTokens) MarshalWithEncoder(encoder *bin.Encoder) error {
	if inst.Amount == nil {
		return errors.New("Amount parameter is not set")
	}
	if err := encoder.WriteBytes(MintTokensDiscriminator[:], false); err != nil {
		return err
	}
	return encoder.WriteUint64(*inst.Amount, binary.LittleEndian)
}

func (inst *MintTokens) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := readDiscriminator(decoder, MintTokensDiscriminator); err != nil {
		return err
	}
	amount, err := decoder.ReadUint64(binary.LittleEndian)
	if err != nil {
		return err
	}
	inst.Amount = &amount
	return nil
}

func (inst MintTokens) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *MintTokens) SetAccounts(accounts []*solana.AccountMeta) error {
	inst.AccountMetaSlice = accounts
	return nil
}
