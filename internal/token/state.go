package token

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
)

const (
	MintSize    = 82
	AccountSize = 165
)

// ProgramID is the id of the SPL token program this package stands in for.
var ProgramID = solana.TokenProgramID

func DecodeMint(data []byte) (*tokenprog.Mint, error) {
	if len(data) != MintSize {
		return nil, fmt.Errorf("%w: mint data is %d bytes, want %d", ErrInvalidAccount, len(data), MintSize)
	}
	mint := new(tokenprog.Mint)
	if err := bin.NewBinDecoder(data).Decode(mint); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	return mint, nil
}

func EncodeMint(mint *tokenprog.Mint) ([]byte, error) {
	return encode(mint, MintSize)
}

func DecodeAccount(data []byte) (*tokenprog.Account, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("%w: token account data is %d bytes, want %d", ErrInvalidAccount, len(data), AccountSize)
	}
	acct := new(tokenprog.Account)
	if err := bin.NewBinDecoder(data).Decode(acct); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	return acct, nil
}

func EncodeAccount(acct *tokenprog.Account) ([]byte, error) {
	return encode(acct, AccountSize)
}

func encode(v interface{}, size int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBinEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	if buf.Len() != size {
		return nil, fmt.Errorf("encoded %d bytes, want %d", buf.Len(), size)
	}
	return buf.Bytes(), nil
}
