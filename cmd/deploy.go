package cmd

import (
	"fmt"
	"test-token/internal/ledger"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "create a mint controlled by the faucet",
	Long: `deploy creates a new mint whose mint and freeze authority are the
faucet's derived address, so only the faucet program can mint it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := loadConfig()
		if cmd.Flags().Changed("decimals") {
			c.Faucet.Decimals, _ = cmd.Flags().GetUint8("decimals")
		}
		cl, err := newCluster(c)
		if err != nil {
			return err
		}

		authority, bump := cl.program.Authority()
		fmt.Fprintf(cmd.OutOrStdout(), "authority: %s (bump %d)\n", authority, bump)

		mint, receipt, err := ledger.CreateMint(cmd.Context(), cl.client, cl.payer, c.Faucet.Decimals, authority, authority, cl.txOptions()...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mint:      %s\ndecimals:  %d\nsignature: %s\n", mint, c.Faucet.Decimals, receipt.Signature)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().Uint8("decimals", 9, "mint decimals")
}
