package token

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// NewInitializeMint2Instruction initializes a mint account that already
// exists with MintSize bytes and the token program as owner. A zero
// freezeAuthority leaves the mint without one.
func NewInitializeMint2Instruction(
	decimals uint8,
	mintAuthority solana.PublicKey,
	freezeAuthority solana.PublicKey,
	mint solana.PublicKey,
) solana.Instruction {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	_ = enc.WriteUint8(instructionInitializeMint2)
	_ = enc.WriteUint8(decimals)
	_ = enc.WriteBytes(mintAuthority[:], false)
	if freezeAuthority.IsZero() {
		_ = enc.WriteUint8(0)
	} else {
		_ = enc.WriteUint8(1)
		_ = enc.WriteBytes(freezeAuthority[:], false)
	}

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(mint).WRITE(),
	}, buf.Bytes())
}

// NewInitializeAccount3Instruction initializes a token account that already
// exists with AccountSize bytes and the token program as owner.
func NewInitializeAccount3Instruction(
	owner solana.PublicKey,
	account solana.PublicKey,
	mint solana.PublicKey,
) solana.Instruction {
	data := make([]byte, 0, 33)
	data = append(data, instructionInitializeAccount3)
	data = append(data, owner[:]...)

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(account).WRITE(),
		solana.Meta(mint),
	}, data)
}

// Instruction tags of the SPL token program.
const (
	instructionApprove            uint8 = 4
	instructionMintTo             uint8 = 7
	instructionBurn               uint8 = 8
	instructionInitializeAccount3 uint8 = 18
	instructionInitializeMint2    uint8 = 20
)

type instruction struct {
	kind            uint8
	amount          uint64
	decimals        uint8
	authority       solana.PublicKey
	freezeAuthority *solana.PublicKey
}

// minAccounts is the number of accounts each supported instruction needs.
var minAccounts = map[uint8]int{
	instructionApprove:            3,
	instructionMintTo:             3,
	instructionBurn:               3,
	instructionInitializeAccount3: 2,
	instructionInitializeMint2:    1,
}

func decodeInstruction(data []byte) (*instruction, error) {
	dec := bin.NewBinDecoder(data)
	kind, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: empty instruction data", ErrInvalidInstruction)
	}

	inst := &instruction{kind: kind}
	switch kind {
	case instructionApprove, instructionMintTo, instructionBurn:
		if inst.amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return nil, fmt.Errorf("%w: amount: %v", ErrInvalidInstruction, err)
		}
	case instructionInitializeMint2:
		if inst.decimals, err = dec.ReadUint8(); err != nil {
			return nil, fmt.Errorf("%w: decimals: %v", ErrInvalidInstruction, err)
		}
		if inst.authority, err = readPublicKey(dec); err != nil {
			return nil, fmt.Errorf("%w: mint authority: %v", ErrInvalidInstruction, err)
		}
		tag, err := dec.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("%w: freeze authority: %v", ErrInvalidInstruction, err)
		}
		if tag == 1 {
			freeze, err := readPublicKey(dec)
			if err != nil {
				return nil, fmt.Errorf("%w: freeze authority: %v", ErrInvalidInstruction, err)
			}
			inst.freezeAuthority = &freeze
		}
	case instructionInitializeAccount3:
		if inst.authority, err = readPublicKey(dec); err != nil {
			return nil, fmt.Errorf("%w: owner: %v", ErrInvalidInstruction, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported instruction %d", ErrInvalidInstruction, kind)
	}
	return inst, nil
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}
