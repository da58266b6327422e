package runtime

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
)

// Account is the state the host keeps for one address.
type Account struct {
	Lamports   uint64
	Owner      solana.PublicKey
	Data       []byte
	Executable bool
}

func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Data = append([]byte(nil), a.Data...)
	return &out
}

// AccountInfo is an account as seen by a program for the duration of one
// instruction. Several infos share the same *Account when a key is repeated.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool

	*Account
}

// Meta returns the account meta the info was resolved from.
func (info *AccountInfo) Meta() *solana.AccountMeta {
	return &solana.AccountMeta{
		PublicKey:  info.Key,
		IsSigner:   info.IsSigner,
		IsWritable: info.IsWritable,
	}
}

type snapshot struct {
	lamports uint64
	owner    solana.PublicKey
	data     []byte
}

func takeSnapshot(a *Account) snapshot {
	return snapshot{
		lamports: a.Lamports,
		owner:    a.Owner,
		data:     append([]byte(nil), a.Data...),
	}
}

func (s snapshot) dataChanged(a *Account) bool {
	return !bytes.Equal(s.data, a.Data)
}

func (s snapshot) zeroed() bool {
	for _, b := range s.data {
		if b != 0 {
			return false
		}
	}
	return true
}
