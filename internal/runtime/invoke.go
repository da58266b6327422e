package runtime

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// InvokeContext is handed to a program for one instruction. It gives access
// to the program logs and to cross-program invocation.
type InvokeContext struct {
	ctx       context.Context
	bank      *Bank
	accounts  workingSet
	logs      *[]string
	programID solana.PublicKey
	depth     int

	infos     []*AccountInfo
	snapshots map[solana.PublicKey]snapshot
}

func (c *InvokeContext) Context() context.Context {
	return c.ctx
}

// ProgramID is the id of the program currently executing.
func (c *InvokeContext) ProgramID() solana.PublicKey {
	return c.programID
}

// Depth is 1 for a top-level instruction and grows by one per CPI.
func (c *InvokeContext) Depth() int {
	return c.depth
}

func (c *InvokeContext) Logf(format string, args ...interface{}) {
	appendLog(c.logs, "Program log: "+fmt.Sprintf(format, args...))
}

// EmitData records structured program output, base64 encoded, the way
// events are surfaced to off-chain listeners.
func (c *InvokeContext) EmitData(chunks ...[]byte) {
	encoded := make([]string, len(chunks))
	for i, chunk := range chunks {
		encoded[i] = base64.StdEncoding.EncodeToString(chunk)
	}
	appendLog(c.logs, "Program data: "+strings.Join(encoded, " "))
}

// Invoke calls another program with the caller's privileges.
func (c *InvokeContext) Invoke(instruction solana.Instruction) error {
	return c.InvokeSigned(instruction)
}

// InvokeSigned calls another program. Every seed set must derive a program
// address of the calling program; those addresses count as signers for this
// call only. No key material is involved.
func (c *InvokeContext) InvokeSigned(instruction solana.Instruction, signerSeeds ...[][]byte) error {
	if c.depth >= c.bank.maxCallDepth {
		return ErrCallDepth
	}

	data, err := instruction.Data()
	if err != nil {
		return fmt.Errorf("encode instruction: %w", err)
	}

	derived := make(map[solana.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := solana.CreateProgramAddress(seeds, c.programID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
		}
		derived[addr] = true
	}

	signer := make(map[solana.PublicKey]bool, len(c.infos))
	writable := make(map[solana.PublicKey]bool, len(c.infos))
	for _, info := range c.infos {
		signer[info.Key] = signer[info.Key] || info.IsSigner
		writable[info.Key] = writable[info.Key] || info.IsWritable
	}
	if _, ok := c.snapshots[instruction.ProgramID()]; !ok {
		return fmt.Errorf("%w: program %s", ErrMissingAccount, instruction.ProgramID())
	}

	requested := instruction.Accounts()
	metas := make([]*solana.AccountMeta, len(requested))
	for i, m := range requested {
		if _, ok := c.snapshots[m.PublicKey]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingAccount, m.PublicKey)
		}
		if m.IsSigner && !signer[m.PublicKey] && !derived[m.PublicKey] {
			return fmt.Errorf("%w: %s is not a signer", ErrPrivilegeEscalation, m.PublicKey)
		}
		if m.IsWritable && !writable[m.PublicKey] {
			return fmt.Errorf("%w: %s is not writable", ErrPrivilegeEscalation, m.PublicKey)
		}
		meta := *m
		metas[i] = &meta
	}

	// The callee starts from the caller's current state, which has to be
	// legal at this point.
	if err := c.verify(); err != nil {
		return err
	}
	if err := c.bank.invoke(c.ctx, c.accounts, c.logs, c.depth+1, instruction.ProgramID(), metas, data); err != nil {
		return err
	}
	c.rebase()
	return nil
}

func (b *Bank) invoke(
	ctx context.Context,
	ws workingSet,
	logs *[]string,
	depth int,
	programID solana.PublicKey,
	metas []*solana.AccountMeta,
	data []byte,
) error {
	appendLog(logs, fmt.Sprintf("Program %s invoke [%d]", programID, depth))

	program, ok := b.programs[programID]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
		appendLog(logs, fmt.Sprintf("Program %s failed: %v", programID, err))
		return err
	}

	infos := make([]*AccountInfo, len(metas))
	for i, m := range metas {
		infos[i] = &AccountInfo{
			Key:        m.PublicKey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    ws.load(m.PublicKey),
		}
	}

	ic := &InvokeContext{
		ctx:       ctx,
		bank:      b,
		accounts:  ws,
		logs:      logs,
		programID: programID,
		depth:     depth,
		infos:     infos,
	}
	ic.rebase()

	err := program.Process(ic, infos, data)
	if err == nil {
		err = ic.verify()
	}
	if err != nil {
		appendLog(logs, fmt.Sprintf("Program %s failed: %v", programID, err))
		return err
	}
	appendLog(logs, fmt.Sprintf("Program %s success", programID))
	return nil
}

// rebase records the current state of every account in the frame as the
// baseline for verify.
func (c *InvokeContext) rebase() {
	c.snapshots = make(map[solana.PublicKey]snapshot, len(c.infos))
	for _, info := range c.infos {
		c.snapshots[info.Key] = takeSnapshot(info.Account)
	}
}

// verify checks that every change since the baseline was made by the owning
// program on a writable account.
func (c *InvokeContext) verify() error {
	writable := make(map[solana.PublicKey]bool, len(c.infos))
	for _, info := range c.infos {
		writable[info.Key] = writable[info.Key] || info.IsWritable
	}

	for key, before := range c.snapshots {
		acct := c.accounts[key]
		// Only the owner may reassign a writable account, and only while
		// its data is still zeroed.
		if acct.Owner != before.owner &&
			(!writable[key] || before.owner != c.programID || !before.zeroed()) {
			return fmt.Errorf("%w: %s", ErrOwnerModified, key)
		}
		if before.dataChanged(acct) {
			if !writable[key] {
				return fmt.Errorf("%w: %s", ErrReadonlyDataModified, key)
			}
			if before.owner != c.programID {
				return fmt.Errorf("%w: %s", ErrExternalDataModified, key)
			}
		}
		// Anyone may credit a writable account; only the owner may debit it.
		if acct.Lamports != before.lamports &&
			(!writable[key] || (acct.Lamports < before.lamports && before.owner != c.programID)) {
			return fmt.Errorf("%w: %s", ErrExternalLamportsChange, key)
		}
	}
	return nil
}

func appendLog(logs *[]string, line string) {
	*logs = append(*logs, line)
}
