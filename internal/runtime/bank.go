package runtime

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	DefaultMaxCallDepth    = 4
	DefaultBlockhashWindow = 150
)

// NativeLoaderID owns the accounts of programs registered with a Bank.
var NativeLoaderID = solana.MustPublicKeyFromBase58("NativeLoader1111111111111111111111111111111")

// Program is an on-chain program hosted by a Bank.
type Program interface {
	ID() solana.PublicKey
	Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error
}

// Receipt is the outcome of one processed transaction. Logs are kept for
// failed transactions too.
type Receipt struct {
	Signature solana.Signature
	Logs      []string
	Err       error
}

type Option func(*Bank)

func WithMaxCallDepth(depth int) Option {
	return func(b *Bank) {
		if depth > 0 {
			b.maxCallDepth = depth
		}
	}
}

func WithBlockhashWindow(window int) Option {
	return func(b *Bank) {
		if window > 0 {
			b.blockhashWindow = window
		}
	}
}

// Bank executes transactions against an in-memory account set.
//
// Transactions are processed one at a time under the bank lock, so two
// transactions touching the same account never interleave. A transaction is
// applied in full or not at all: instructions run against a private copy of
// the accounts that is committed only after the last instruction succeeds.
type Bank struct {
	mu sync.Mutex

	accounts map[solana.PublicKey]*Account
	programs map[solana.PublicKey]Program

	blockhashes []solana.Hash
	processed   map[solana.Hash]map[solana.Signature]struct{}
	height      uint64

	maxCallDepth    int
	blockhashWindow int
}

func NewBank(opts ...Option) *Bank {
	b := &Bank{
		accounts:        make(map[solana.PublicKey]*Account),
		programs:        make(map[solana.PublicKey]Program),
		processed:       make(map[solana.Hash]map[solana.Signature]struct{}),
		maxCallDepth:    DefaultMaxCallDepth,
		blockhashWindow: DefaultBlockhashWindow,
	}
	for _, opt := range opts {
		opt(b)
	}

	genesis := solana.Hash(sha256.Sum256([]byte("genesis")))
	b.blockhashes = []solana.Hash{genesis}
	b.processed[genesis] = make(map[solana.Signature]struct{})
	b.Register(SystemProgram{}, ComputeBudgetProgram{})
	return b
}

// Register installs programs and creates their executable accounts.
func (b *Bank) Register(programs ...Program) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range programs {
		b.programs[p.ID()] = p
		b.accounts[p.ID()] = &Account{
			Lamports:   1,
			Owner:      NativeLoaderID,
			Executable: true,
		}
	}
}

// Account returns a copy of the stored account.
func (b *Bank) Account(key solana.PublicKey) (*Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[key]
	if !ok {
		return nil, false
	}
	return acct.Clone(), true
}

// SetAccount overwrites the stored account. It is meant for genesis setup.
func (b *Bank) SetAccount(key solana.PublicKey, acct *Account) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.accounts[key] = acct.Clone()
}

// Airdrop credits lamports to key, creating a system account if needed.
func (b *Bank) Airdrop(key solana.PublicKey, lamports uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[key]
	if !ok {
		acct = &Account{}
		b.accounts[key] = acct
	}
	acct.Lamports += lamports
}

// Balance returns the lamports held by key.
func (b *Bank) Balance(key solana.PublicKey) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if acct, ok := b.accounts[key]; ok {
		return acct.Lamports
	}
	return 0
}

// Allocate creates a zeroed account of the given size owned by owner.
func (b *Bank) Allocate(key solana.PublicKey, owner solana.PublicKey, space uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if acct, ok := b.accounts[key]; ok && (len(acct.Data) > 0 || !acct.Owner.IsZero()) {
		return fmt.Errorf("%w: %s", ErrAccountInUse, key)
	}
	b.accounts[key] = &Account{
		Lamports: 1,
		Owner:    owner,
		Data:     make([]byte, space),
	}
	return nil
}

// LatestBlockhash returns the blockhash new transactions should reference.
func (b *Bank) LatestBlockhash() solana.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.blockhashes[len(b.blockhashes)-1]
}

// ProcessTransaction verifies and executes a signed transaction.
//
// On failure the returned receipt still carries the logs and the error is an
// *InstructionError when an instruction failed. Nothing is committed.
func (b *Bank) ProcessTransaction(ctx context.Context, tx *solana.Transaction) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tx == nil || len(tx.Signatures) == 0 {
		return nil, ErrMissingSignature
	}
	if err := verifySignatures(tx); err != nil {
		return nil, err
	}

	msg := &tx.Message
	receipt := &Receipt{Signature: tx.Signatures[0]}

	b.mu.Lock()
	defer b.mu.Unlock()

	seen, ok := b.processed[msg.RecentBlockhash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockhashNotFound, msg.RecentBlockhash)
	}
	if _, dup := seen[receipt.Signature]; dup {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyProcessed, receipt.Signature)
	}

	keys := resolveKeys(msg)
	ws := b.workingSet(keys)

	for i, ci := range msg.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) {
			receipt.Err = &InstructionError{Index: i, Err: ErrMissingAccount}
			return receipt, receipt.Err
		}
		metas := make([]*solana.AccountMeta, len(ci.Accounts))
		for j, idx := range ci.Accounts {
			if int(idx) >= len(keys) {
				receipt.Err = &InstructionError{Index: i, Err: ErrMissingAccount}
				return receipt, receipt.Err
			}
			meta := *keys[idx]
			metas[j] = &meta
		}

		err := b.invoke(ctx, ws, &receipt.Logs, 1, keys[ci.ProgramIDIndex].PublicKey, metas, ci.Data)
		if err != nil {
			receipt.Err = &InstructionError{Index: i, Err: err}
			logx.Debugf("transaction %s failed: %v", receipt.Signature, receipt.Err)
			return receipt, receipt.Err
		}
	}

	ws.commit(b.accounts)
	seen[receipt.Signature] = struct{}{}
	b.advanceBlockhash()
	return receipt, nil
}

func (b *Bank) workingSet(keys []*solana.AccountMeta) workingSet {
	ws := make(workingSet, len(keys))
	for _, k := range keys {
		if acct, ok := b.accounts[k.PublicKey]; ok {
			ws[k.PublicKey] = acct.Clone()
		} else {
			ws[k.PublicKey] = &Account{}
		}
	}
	return ws
}

// advanceBlockhash rolls the blockhash window forward. Signatures recorded
// under an expired blockhash are forgotten along with it, since a
// transaction referencing it can no longer be processed.
func (b *Bank) advanceBlockhash() {
	b.height++
	var seed [40]byte
	prev := b.blockhashes[len(b.blockhashes)-1]
	copy(seed[:32], prev[:])
	binary.LittleEndian.PutUint64(seed[32:], b.height)

	next := solana.Hash(sha256.Sum256(seed[:]))
	b.blockhashes = append(b.blockhashes, next)
	b.processed[next] = make(map[solana.Signature]struct{})

	for len(b.blockhashes) > b.blockhashWindow {
		delete(b.processed, b.blockhashes[0])
		b.blockhashes = b.blockhashes[1:]
	}
}

type workingSet map[solana.PublicKey]*Account

func (ws workingSet) load(key solana.PublicKey) *Account {
	acct, ok := ws[key]
	if !ok {
		acct = &Account{}
		ws[key] = acct
	}
	return acct
}

func (ws workingSet) commit(into map[solana.PublicKey]*Account) {
	for key, acct := range ws {
		if _, existed := into[key]; !existed && isEmpty(acct) {
			continue
		}
		into[key] = acct
	}
}

func isEmpty(a *Account) bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner.IsZero() && !a.Executable
}

func verifySignatures(tx *solana.Transaction) error {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 || len(tx.Signatures) != required || len(tx.Message.AccountKeys) < required {
		return ErrMissingSignature
	}

	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	for i := 0; i < required; i++ {
		if !tx.Signatures[i].Verify(tx.Message.AccountKeys[i], content) {
			return fmt.Errorf("%w: %s", ErrSignatureVerification, tx.Message.AccountKeys[i])
		}
	}
	return nil
}

// resolveKeys applies the message header to the account keys: signers come
// first, and the trailing keys of each group are read-only.
func resolveKeys(msg *solana.Message) []*solana.AccountMeta {
	var (
		h      = msg.Header
		total  = len(msg.AccountKeys)
		signed = int(h.NumRequiredSignatures)
		out    = make([]*solana.AccountMeta, total)
	)
	for i, key := range msg.AccountKeys {
		meta := &solana.AccountMeta{PublicKey: key, IsSigner: i < signed}
		if i < signed {
			meta.IsWritable = i < signed-int(h.NumReadonlySignedAccounts)
		} else {
			meta.IsWritable = i < total-int(h.NumReadonlyUnsignedAccounts)
		}
		out[i] = meta
	}
	return out
}
