package token

import (
	"context"
	"test-token/internal/runtime"
	"testing"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t    *testing.T
	bank *runtime.Bank
}

func newHarness(t *testing.T) *harness {
	bank := runtime.NewBank()
	bank.Register(NewProgram())
	return &harness{t: t, bank: bank}
}

func (h *harness) send(signers []solana.PrivateKey, instructions ...solana.Instruction) error {
	h.t.Helper()

	tx, err := solana.NewTransaction(instructions, h.bank.LatestBlockhash(), solana.TransactionPayer(signers[0].PublicKey()))
	require.NoError(h.t, err)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey() == key {
				return &signers[i]
			}
		}
		return nil
	})
	require.NoError(h.t, err)
	_, err = h.bank.ProcessTransaction(context.Background(), tx)
	return err
}

func (h *harness) createMint(payer solana.PrivateKey, authority solana.PublicKey) solana.PublicKey {
	h.t.Helper()

	mint := solana.NewWallet().PublicKey()
	require.NoError(h.t, h.bank.Allocate(mint, ProgramID, MintSize))
	require.NoError(h.t, h.send([]solana.PrivateKey{payer}, NewInitializeMint2Instruction(6, authority, solana.PublicKey{}, mint)))
	return mint
}

func (h *harness) createAccount(payer solana.PrivateKey, mint, owner solana.PublicKey) solana.PublicKey {
	h.t.Helper()

	acct := solana.NewWallet().PublicKey()
	require.NoError(h.t, h.bank.Allocate(acct, ProgramID, AccountSize))
	require.NoError(h.t, h.send([]solana.PrivateKey{payer}, NewInitializeAccount3Instruction(owner, acct, mint)))
	return acct
}

func (h *harness) mint(key solana.PublicKey) *tokenprog.Mint {
	h.t.Helper()

	acct, ok := h.bank.Account(key)
	require.True(h.t, ok)
	mint, err := DecodeMint(acct.Data)
	require.NoError(h.t, err)
	return mint
}

func (h *harness) account(key solana.PublicKey) *tokenprog.Account {
	h.t.Helper()

	acct, ok := h.bank.Account(key)
	require.True(h.t, ok)
	decoded, err := DecodeAccount(acct.Data)
	require.NoError(h.t, err)
	return decoded
}

func TestInitialize(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey
	authority := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	mint := h.createMint(payer, authority)
	m := h.mint(mint)
	assert.True(t, m.IsInitialized)
	assert.EqualValues(t, 6, m.Decimals)
	require.NotNil(t, m.MintAuthority)
	assert.Equal(t, authority, *m.MintAuthority)
	assert.Nil(t, m.FreezeAuthority)

	acct := h.createAccount(payer, mint, owner)
	a := h.account(acct)
	assert.Equal(t, mint, a.Mint)
	assert.Equal(t, owner, a.Owner)
	assert.Equal(t, tokenprog.Initialized, a.State)

	err := h.send([]solana.PrivateKey{payer}, NewInitializeMint2Instruction(6, authority, solana.PublicKey{}, mint))
	assert.ErrorIs(t, err, ErrAlreadyInUse)
}

func TestMintToAndBurn(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey
	authority := solana.NewWallet().PrivateKey
	owner := solana.NewWallet().PrivateKey

	mint := h.createMint(payer, authority.PublicKey())
	acct := h.createAccount(payer, mint, owner.PublicKey())

	require.NoError(t, h.send([]solana.PrivateKey{payer, authority},
		tokenprog.NewMintToInstruction(50, mint, acct, authority.PublicKey(), nil).Build()))
	assert.EqualValues(t, 50, h.account(acct).Amount)
	assert.EqualValues(t, 50, h.mint(mint).Supply)

	require.NoError(t, h.send([]solana.PrivateKey{owner},
		tokenprog.NewBurnInstruction(20, acct, mint, owner.PublicKey(), nil).Build()))
	assert.EqualValues(t, 30, h.account(acct).Amount)
	assert.EqualValues(t, 30, h.mint(mint).Supply)

	err := h.send([]solana.PrivateKey{owner},
		tokenprog.NewBurnInstruction(31, acct, mint, owner.PublicKey(), nil).Build())
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestMintToRequiresAuthority(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey
	authority := solana.NewWallet().PublicKey()
	mint := h.createMint(payer, authority)
	acct := h.createAccount(payer, mint, payer.PublicKey())

	err := h.send([]solana.PrivateKey{payer},
		tokenprog.NewMintToInstruction(1, mint, acct, payer.PublicKey(), nil).Build())
	assert.ErrorIs(t, err, ErrOwnerMismatch)
}

func TestMintToFixedSupply(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey
	mint := solana.NewWallet().PublicKey()
	data, err := EncodeMint(&tokenprog.Mint{Decimals: 0, IsInitialized: true})
	require.NoError(t, err)
	h.bank.SetAccount(mint, &runtime.Account{Lamports: 1, Owner: ProgramID, Data: data})
	acct := h.createAccount(payer, mint, payer.PublicKey())

	err = h.send([]solana.PrivateKey{payer},
		tokenprog.NewMintToInstruction(1, mint, acct, payer.PublicKey(), nil).Build())
	assert.ErrorIs(t, err, ErrFixedSupply)
}

func TestFrozenAccount(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey
	mint := h.createMint(payer, payer.PublicKey())
	acct := solana.NewWallet().PublicKey()
	data, err := EncodeAccount(&tokenprog.Account{Mint: mint, Owner: payer.PublicKey(), State: tokenprog.Frozen})
	require.NoError(t, err)
	h.bank.SetAccount(acct, &runtime.Account{Lamports: 1, Owner: ProgramID, Data: data})

	err = h.send([]solana.PrivateKey{payer},
		tokenprog.NewMintToInstruction(1, mint, acct, payer.PublicKey(), nil).Build())
	assert.ErrorIs(t, err, ErrAccountFrozen)
}

func TestDelegatedBurn(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey
	owner := solana.NewWallet().PrivateKey
	delegate := solana.NewWallet().PrivateKey
	mint := h.createMint(payer, payer.PublicKey())
	acct := h.createAccount(payer, mint, owner.PublicKey())
	require.NoError(t, h.send([]solana.PrivateKey{payer},
		tokenprog.NewMintToInstruction(10, mint, acct, payer.PublicKey(), nil).Build()))

	require.NoError(t, h.send([]solana.PrivateKey{owner},
		tokenprog.NewApproveInstruction(3, acct, delegate.PublicKey(), owner.PublicKey(), nil).Build()))

	err := h.send([]solana.PrivateKey{delegate},
		tokenprog.NewBurnInstruction(4, acct, mint, delegate.PublicKey(), nil).Build())
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, h.send([]solana.PrivateKey{delegate},
		tokenprog.NewBurnInstruction(3, acct, mint, delegate.PublicKey(), nil).Build()))
	a := h.account(acct)
	assert.EqualValues(t, 7, a.Amount)
	assert.Nil(t, a.Delegate)
	assert.Zero(t, a.DelegatedAmount)
}

func TestInvalidInstruction(t *testing.T) {
	h := newHarness(t)
	payer := solana.NewWallet().PrivateKey

	err := h.send([]solana.PrivateKey{payer}, solana.NewInstruction(ProgramID, solana.AccountMetaSlice{}, []byte{99}))
	assert.ErrorIs(t, err, ErrInvalidInstruction)

	err = h.send([]solana.PrivateKey{payer}, solana.NewInstruction(ProgramID, solana.AccountMetaSlice{}, []byte{instructionMintTo, 1}))
	assert.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestStateSizes(t *testing.T) {
	data, err := EncodeMint(&tokenprog.Mint{IsInitialized: true})
	require.NoError(t, err)
	assert.Len(t, data, MintSize)

	data, err = EncodeAccount(&tokenprog.Account{State: tokenprog.Initialized})
	require.NoError(t, err)
	assert.Len(t, data, AccountSize)

	_, err = DecodeMint(make([]byte, AccountSize))
	assert.ErrorIs(t, err, ErrInvalidAccount)
	_, err = DecodeAccount(make([]byte, MintSize))
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestErrorFromCode(t *testing.T) {
	assert.ErrorIs(t, ErrorFromCode(1), ErrInsufficientFunds)
	assert.ErrorIs(t, ErrorFromCode(3), ErrInvalidAccount)
	assert.ErrorIs(t, ErrorFromCode(14), ErrOverflow)
	assert.ErrorIs(t, ErrorFromCode(9), ErrUninitialized)
	assert.ErrorIs(t, ErrorFromCode(9), ErrInvalidAccount)
	assert.Nil(t, ErrorFromCode(42))
}
