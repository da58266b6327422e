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

// BurnTokens destroys amount tokens held by a token account. The token
// library decides whether the signer may spend from it.
type BurnTokens struct {
	Amount *uint64

	// [0] = [WRITE] mint
	//
	// [1] = [WRITE] from
	// ··········· Token account debited
	//
	// [2] = [SIGNER] authority
	// ··········· Owner or delegate of from
	//
	// [3] = [] tokenProgram
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`

	programID solana.PublicKey
}

func NewBurnTokensInstructionBuilder() *BurnTokens {
	inst := &BurnTokens{
		AccountMetaSlice: make(solana.AccountMetaSlice, 4),
		programID:        DefaultProgramID,
	}
	inst.AccountMetaSlice[3] = solana.Meta(token.ProgramID)
	return inst
}

func NewBurnTokensInstruction(programID solana.PublicKey, amount uint64, mint, from, authority solana.PublicKey) *BurnTokens {
	return NewBurnTokensInstructionBuilder().
		SetProgramID(programID).
		SetAmount(amount).
		SetMintAccount(mint).
		SetFromAccount(from).
		SetAuthorityAccount(authority)
}

func (inst *BurnTokens) SetProgramID(programID solana.PublicKey) *BurnTokens {
	inst.programID = programID
	return inst
}

func (inst *BurnTokens) SetAmount(amount uint64) *BurnTokens {
	inst.Amount = &amount
	return inst
}

func (inst *BurnTokens) SetMintAccount(mint solana.PublicKey) *BurnTokens {
	inst.AccountMetaSlice[0] = solana.Meta(mint).WRITE()
	return inst
}

func (inst *BurnTokens) GetMintAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(0)
}

func (inst *BurnTokens) SetFromAccount(from solana.PublicKey) *BurnTokens {
	inst.AccountMetaSlice[1] = solana.Meta(from).WRITE()
	return inst
}

func (inst *BurnTokens) GetFromAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(1)
}

func (inst *BurnTokens) SetAuthorityAccount(authority solana.PublicKey) *BurnTokens {
	inst.AccountMetaSlice[2] = solana.Meta(authority).SIGNER()
	return inst
}

func (inst *BurnTokens) GetAuthorityAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(2)
}

func (inst *BurnTokens) SetTokenProgramAccount(program solana.PublicKey) *BurnTokens {
	inst.AccountMetaSlice[3] = solana.Meta(program)
	return inst
}

func (inst *BurnTokens) GetTokenProgramAccount() *solana.AccountMeta {
	return inst.AccountMetaSlice.Get(3)
}

func (inst BurnTokens) Build() *Instruction {
	return &Instruction{
		BaseVariant: bin.BaseVariant{Impl: &inst, TypeID: bin.NoTypeIDDefaultID},
		programID:   inst.programID,
	}
}

func (inst BurnTokens) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

func (inst *BurnTokens) Validate() error {
	if inst.Amount == nil {
		return errors.New("Amount parameter is not set")
	}
	if inst.programID.IsZero() {
		return errors.New("program id is not set")
	}
	for i, name := range []string{"Mint", "From", "Authority", "TokenProgram"} {
		if inst.AccountMetaSlice.Get(i) == nil {
			return fmt.Errorf("accounts.%s is not set", name)
		}
	}
	return nil
}

func (inst *BurnTokens) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, inst.programID)).
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction("BurnTokens")).
				ParentFunc(func(instructionBranch treeout.Branches) {
					instructionBranch.Child("Params[len=1]").ParentFunc(func(paramsBranch treeout.Branches) {
						paramsBranch.Child(format.Param("Amount", *inst.Amount))
					})
					instructionBranch.Child("Accounts[len=4]").ParentFunc(func(accountsBranch treeout.Branches) {
						accountsBranch.Child(format.Meta("        mint", inst.AccountMetaSlice.Get(0)))
						accountsBranch.Child(format.Meta("        from", inst.AccountMetaSlice.Get(1)))
						accountsBranch.Child(format.Meta("   authority", inst.AccountMetaSlice.Get(2)))
						accountsBranch.Child(format.Meta("tokenProgram", inst.AccountMetaSlice.Get(3)))
					})
				})
		})
}

func (inst BurnTokens) MarshalWithEncoder(encoder *bin.Encoder) error {
	if inst.Amount == nil {
		return errors.New("Amount parameter is not set")
	}
	if err := encoder.WriteBytes(BurnTokensDiscriminator[:], false); err != nil {
		return err
	}
	return encoder.WriteUint64(*inst.Amount, binary.LittleEndian)
}

func (inst *BurnTokens) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := readDiscriminator(decoder, BurnTokensDiscriminator); err != nil {
		return err
	}
	amount, err := decoder.ReadUint64(binary.LittleEndian)
	if err != nil {
		return err
	}
	inst.Amount = &amount
	return nil
}

func (inst BurnTokens) GetAccounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *BurnTokens) SetAccounts(accounts []*solana.AccountMeta) error {
	inst.AccountMetaSlice = accounts
	return nil
}
