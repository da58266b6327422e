package runtime

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// ComputeBudgetProgram accepts compute budget requests so that transactions
// built for a cluster also run on a Bank. Budgets are not metered here.
type ComputeBudgetProgram struct{}

func (ComputeBudgetProgram) ID() solana.PublicKey {
	return computebudget.ProgramID
}

func (ComputeBudgetProgram) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	if len(data) == 0 || data[0] > 4 {
		return fmt.Errorf("%w: compute budget request", ErrInvalidInstructionData)
	}
	return nil
}
