package cmd

import (
	"errors"
	"test-token/internal/faucet"
	"test-token/internal/ledger"
	"test-token/internal/svc"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "burn tokens from a token account",
	Long: `burn destroys --amount tokens of --mint held in --from. The --authority
keypair signs the burn and must own the account or be its delegate. Without
--authority the fee payer keypair signs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mintStr, _ := cmd.Flags().GetString("mint")
		fromStr, _ := cmd.Flags().GetString("from")
		authorityPath, _ := cmd.Flags().GetString("authority")
		amount, _ := cmd.Flags().GetUint64("amount")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		mint, err := parseKeyFlag("mint", mintStr)
		if err != nil {
			return err
		}
		from, err := parseKeyFlag("from", fromStr)
		if err != nil {
			return err
		}

		c := loadConfig()
		if authorityPath == "" {
			authorityPath = c.Solana.Keypair
		}
		if authorityPath == "" {
			return errors.New("a burn authority keypair is required, set --authority or Solana.Keypair")
		}
		authority, err := solana.PrivateKeyFromSolanaKeygenFile(authorityPath)
		if err != nil {
			return err
		}

		if dryRun {
			program, err := svc.NewProgram(c.Faucet)
			if err != nil {
				return err
			}
			inst, err := faucet.NewBurnTokensInstruction(program.ID(), amount, mint, from, authority.PublicKey()).ValidateAndBuild()
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
		receipt, err := ledger.BurnTokens(cmd.Context(), cl.client, cl.payer, authority, cl.program.ID(), mint, from, amount, cl.txOptions()...)
		if err != nil {
			return err
		}
		printReceipt(cmd.OutOrStdout(), receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().String("mint", "", "faucet mint address")
	burnCmd.Flags().String("from", "", "token account to debit")
	burnCmd.Flags().String("authority", "", "keypair file of the account owner or delegate")
	burnCmd.Flags().Uint64("amount", 0, "amount in base units")
	burnCmd.Flags().Bool("dry-run", false, "print the instruction instead of sending it")
	_ = burnCmd.MarkFlagRequired("mint")
	_ = burnCmd.MarkFlagRequired("from")
}
