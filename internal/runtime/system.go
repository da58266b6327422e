package runtime

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	lamportsPerByteYear    = 3480
	exemptionThresholdYear = 2
	accountStorageOverhead = 128
)

// MinimumBalance is the rent-exempt balance of an account holding space
// bytes.
func MinimumBalance(space uint64) uint64 {
	return (space + accountStorageOverhead) * lamportsPerByteYear * exemptionThresholdYear
}

const (
	systemCreateAccount uint32 = 0
	systemTransfer      uint32 = 2
)

// SystemProgram owns every account that has not been assigned yet. It is
// registered with each Bank and handles CreateAccount and Transfer.
type SystemProgram struct{}

func (SystemProgram) ID() solana.PublicKey {
	return solana.SystemProgramID
}

func (SystemProgram) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	dec := bin.NewBinDecoder(data)
	kind, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return fmt.Errorf("%w: system instruction: %v", ErrInvalidInstructionData, err)
	}
	if len(accounts) < 2 {
		return fmt.Errorf("%w: system instruction needs 2 accounts", ErrMissingAccount)
	}
	from, to := accounts[0], accounts[1]

	switch kind {
	case systemCreateAccount:
		lamports, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return fmt.Errorf("%w: lamports: %v", ErrInvalidInstructionData, err)
		}
		space, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return fmt.Errorf("%w: space: %v", ErrInvalidInstructionData, err)
		}
		owner, err := dec.ReadNBytes(32)
		if err != nil {
			return fmt.Errorf("%w: owner: %v", ErrInvalidInstructionData, err)
		}

		if !to.IsSigner {
			return fmt.Errorf("%w: %s", ErrMissingSignature, to.Key)
		}
		if !isEmpty(to.Account) {
			return fmt.Errorf("%w: %s", ErrAccountInUse, to.Key)
		}
		if err := debit(from, lamports); err != nil {
			return err
		}
		to.Lamports = lamports
		to.Data = make([]byte, space)
		to.Owner = solana.PublicKeyFromBytes(owner)
		return nil

	case systemTransfer:
		lamports, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return fmt.Errorf("%w: lamports: %v", ErrInvalidInstructionData, err)
		}
		if err := debit(from, lamports); err != nil {
			return err
		}
		to.Lamports += lamports
		return nil
	}
	return fmt.Errorf("%w: system instruction %d", ErrInvalidInstructionData, kind)
}

func debit(from *AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return fmt.Errorf("%w: %s", ErrMissingSignature, from.Key)
	}
	if !from.Owner.IsZero() || len(from.Data) > 0 {
		return fmt.Errorf("%w: %s carries data", ErrInvalidInstructionData, from.Key)
	}
	if from.Lamports < lamports {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientLamports, from.Key, from.Lamports, lamports)
	}
	from.Lamports -= lamports
	return nil
}
