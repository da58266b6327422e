package faucet

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/text"
	"github.com/gagliardetto/treeout"
)

const ProgramName = "Test Token Faucet"

// DefaultProgramID is the address the faucet is deployed at unless
// configured otherwise.
var DefaultProgramID = solana.MustPublicKeyFromBase58("testToken1111111111111111111111111111111111")

var (
	MintTokensDiscriminator = discriminator("global", "mint_tokens")
	BurnTokensDiscriminator = discriminator("global", "burn_tokens")
)

// discriminator is the first 8 bytes of sha256("<namespace>:<name>").
func discriminator(namespace, name string) [8]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// InstructionImpl is implemented by MintTokens and BurnTokens.
type InstructionImpl interface {
	bin.EncoderDecoder
	Validate() error
	GetAccounts() []*solana.AccountMeta
	SetAccounts(accounts []*solana.AccountMeta) error
}

// Instruction is a faucet instruction addressed to a program id.
type Instruction struct {
	bin.BaseVariant
	programID solana.PublicKey
}

func (inst *Instruction) ProgramID() solana.PublicKey {
	return inst.programID
}

func (inst *Instruction) Accounts() []*solana.AccountMeta {
	return inst.Impl.(InstructionImpl).GetAccounts()
}

func (inst *Instruction) Data() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(inst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (inst *Instruction) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.Encode(inst.Impl)
}

func (inst *Instruction) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return decoder.Decode(inst.Impl)
}

func (inst *Instruction) EncodeToTree(parent treeout.Branches) {
	if enc, ok := inst.Impl.(text.EncodableToTree); ok {
		enc.EncodeToTree(parent)
	}
}

// DecodeInstruction parses instruction data addressed to programID.
func DecodeInstruction(programID solana.PublicKey, accounts []*solana.AccountMeta, data []byte) (*Instruction, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: data too short", ErrInstructionNotFound)
	}

	var (
		disc [8]byte
		impl InstructionImpl
	)
	copy(disc[:], data[:8])
	switch disc {
	case MintTokensDiscriminator:
		impl = &MintTokens{programID: programID}
	case BurnTokensDiscriminator:
		impl = &BurnTokens{programID: programID}
	default:
		return nil, fmt.Errorf("%w: discriminator %x", ErrInstructionNotFound, disc)
	}

	if err := impl.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstructionDeserialize, err)
	}
	if err := impl.SetAccounts(accounts); err != nil {
		return nil, err
	}
	return &Instruction{
		BaseVariant: bin.BaseVariant{Impl: impl, TypeID: bin.NoTypeIDDefaultID},
		programID:   programID,
	}, nil
}

func readDiscriminator(decoder *bin.Decoder, want [8]byte) error {
	got, err := decoder.ReadNBytes(8)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want[:]) {
		return fmt.Errorf("unexpected discriminator %x", got)
	}
	return nil
}

var (
	_ solana.Instruction = (*Instruction)(nil)
	_ bin.EncoderDecoder = (*Instruction)(nil)
)
