package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptProgram struct {
	id  solana.PublicKey
	run func(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error
}

func (p *scriptProgram) ID() solana.PublicKey {
	return p.id
}

func (p *scriptProgram) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	return p.run(ctx, accounts, data)
}

func newScript(run func(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error) *scriptProgram {
	return &scriptProgram{id: solana.NewWallet().PublicKey(), run: run}
}

// writer stores data[0] into the first byte of its first account and fails
// when data[0] is 0xff.
var errScript = errors.New("script failed")

func newWriter() *scriptProgram {
	return newScript(func(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
		if data[0] == 0xff {
			return errScript
		}
		accounts[0].Data[0] = data[0]
		ctx.Logf("wrote %d", data[0])
		return nil
	})
}

func buildTx(t *testing.T, blockhash solana.Hash, signers []solana.PrivateKey, instructions ...solana.Instruction) *solana.Transaction {
	t.Helper()

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(signers[0].PublicKey()))
	require.NoError(t, err)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey() == key {
				return &signers[i]
			}
		}
		return nil
	})
	require.NoError(t, err)
	return tx
}

func send(t *testing.T, bank *Bank, signers []solana.PrivateKey, instructions ...solana.Instruction) (*Receipt, error) {
	t.Helper()
	return bank.ProcessTransaction(context.Background(), buildTx(t, bank.LatestBlockhash(), signers, instructions...))
}

func write(program solana.PublicKey, account *solana.AccountMeta, value byte) solana.Instruction {
	return solana.NewInstruction(program, solana.AccountMetaSlice{account}, []byte{value})
}

func TestProcessCommitsOwnedWrite(t *testing.T) {
	bank := NewBank()
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, writer.ID(), 4))

	receipt, err := send(t, bank, []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key).WRITE(), 7))
	require.NoError(t, err)

	acct, ok := bank.Account(key)
	require.True(t, ok)
	assert.Equal(t, []byte{7, 0, 0, 0}, acct.Data)
	assert.Equal(t, []string{
		"Program " + writer.ID().String() + " invoke [1]",
		"Program log: wrote 7",
		"Program " + writer.ID().String() + " success",
	}, receipt.Logs)
}

func TestProcessRollsBackFailedTransaction(t *testing.T) {
	bank := NewBank()
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, writer.ID(), 1))

	receipt, err := send(t, bank, []solana.PrivateKey{payer},
		write(writer.ID(), solana.Meta(key).WRITE(), 9),
		write(writer.ID(), solana.Meta(key).WRITE(), 0xff),
	)
	var ierr *InstructionError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 1, ierr.Index)
	assert.ErrorIs(t, err, errScript)
	require.NotNil(t, receipt)
	assert.Contains(t, receipt.Logs, "Program log: wrote 9")

	acct, _ := bank.Account(key)
	assert.Equal(t, []byte{0}, acct.Data)
}

func TestProcessRejectsForeignWrite(t *testing.T) {
	bank := NewBank()
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, solana.NewWallet().PublicKey(), 1))

	_, err := send(t, bank, []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key).WRITE(), 1))
	assert.ErrorIs(t, err, ErrExternalDataModified)
}

func TestProcessRejectsReadonlyWrite(t *testing.T) {
	bank := NewBank()
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, writer.ID(), 1))

	_, err := send(t, bank, []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key), 1))
	assert.ErrorIs(t, err, ErrReadonlyDataModified)
}

func TestProcessRejectsOwnerChange(t *testing.T) {
	bank := NewBank()
	thief := newScript(func(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
		accounts[0].Owner = ctx.ProgramID()
		return nil
	})
	bank.Register(thief)
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, solana.NewWallet().PublicKey(), 1))

	_, err := send(t, bank, []solana.PrivateKey{solana.NewWallet().PrivateKey},
		solana.NewInstruction(thief.ID(), solana.AccountMetaSlice{solana.Meta(key).WRITE()}, nil))
	assert.ErrorIs(t, err, ErrOwnerModified)
}

func TestProcessUnknownProgram(t *testing.T) {
	bank := NewBank()
	_, err := send(t, bank, []solana.PrivateKey{solana.NewWallet().PrivateKey},
		solana.NewInstruction(solana.NewWallet().PublicKey(), solana.AccountMetaSlice{}, nil))
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestProcessReplay(t *testing.T) {
	bank := NewBank()
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, writer.ID(), 1))

	tx := buildTx(t, bank.LatestBlockhash(), []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key).WRITE(), 1))
	_, err := bank.ProcessTransaction(context.Background(), tx)
	require.NoError(t, err)
	_, err = bank.ProcessTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestProcessExpiredBlockhash(t *testing.T) {
	bank := NewBank(WithBlockhashWindow(2))
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, writer.ID(), 1))

	stale := buildTx(t, bank.LatestBlockhash(), []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key).WRITE(), 5))
	for i := byte(1); i <= 2; i++ {
		_, err := send(t, bank, []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key).WRITE(), i))
		require.NoError(t, err)
	}

	_, err := bank.ProcessTransaction(context.Background(), stale)
	assert.ErrorIs(t, err, ErrBlockhashNotFound)
}

func TestProcessSignatures(t *testing.T) {
	bank := NewBank()
	writer := newWriter()
	bank.Register(writer)
	payer := solana.NewWallet().PrivateKey
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, writer.ID(), 1))

	tx := buildTx(t, bank.LatestBlockhash(), []solana.PrivateKey{payer}, write(writer.ID(), solana.Meta(key).WRITE(), 1))
	tx.Message.Instructions[0].Data = []byte{2}
	_, err := bank.ProcessTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, ErrSignatureVerification)

	unsigned, err := solana.NewTransaction(
		[]solana.Instruction{write(writer.ID(), solana.Meta(key).WRITE(), 1)},
		bank.LatestBlockhash(),
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)
	_, err = bank.ProcessTransaction(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrMissingSignature)

	acct, _ := bank.Account(key)
	assert.Equal(t, []byte{0}, acct.Data)
}

func TestProcessCanceledContext(t *testing.T) {
	bank := NewBank()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bank.ProcessTransaction(ctx, &solana.Transaction{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAllocateInUse(t *testing.T) {
	bank := NewBank()
	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Allocate(key, solana.SystemProgramID, 1))
	assert.ErrorIs(t, bank.Allocate(key, solana.SystemProgramID, 1), ErrAccountInUse)
}
