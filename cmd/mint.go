package cmd

import (
	"test-token/internal/ledger"
	"test-token/internal/svc"

	"github.com/spf13/cobra"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "mint faucet tokens to a token account",
	Long: `mint asks the faucet for --amount tokens of --mint paid into --to.
No permission is needed; the configured keypair only pays the fee.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mintStr, _ := cmd.Flags().GetString("mint")
		toStr, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetUint64("amount")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		mint, err := parseKeyFlag("mint", mintStr)
		if err != nil {
			return err
		}
		to, err := parseKeyFlag("to", toStr)
		if err != nil {
			return err
		}

		c := loadConfig()
		if dryRun {
			program, err := svc.NewProgram(c.Faucet)
			if err != nil {
				return err
			}
			inst, err := program.MintTokensInstruction(amount, mint, to).ValidateAndBuild()
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), inst)
			return nil
		}

		cl, err := newCluster(c)
		if err != nil {
			return err
		}
		receipt, err := ledger.MintTokens(cmd.Context(), cl.client, cl.payer, cl.program, mint, to, amount, cl.txOptions()...)
		if err != nil {
			return err
		}
		printReceipt(cmd.OutOrStdout(), receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().String("mint", "", "faucet mint address")
	mintCmd.Flags().String("to", "", "token account to credit")
	mintCmd.Flags().Uint64("amount", 0, "amount in base units")
	mintCmd.Flags().Bool("dry-run", false, "print the instruction instead of sending it")
	_ = mintCmd.MarkFlagRequired("mint")
	_ = mintCmd.MarkFlagRequired("to")
}
