package cmd

import (
	"fmt"
	"test-token/internal/svc"

	"github.com/spf13/cobra"
)

var authorityCmd = &cobra.Command{
	Use:   "authority",
	Short: "print the derived mint authority",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := loadConfig()
		program, err := svc.NewProgram(c.Faucet)
		if err != nil {
			return err
		}
		address, bump := program.Authority()
		fmt.Fprintf(cmd.OutOrStdout(), "program:   %s\nlabel:     %s\nauthority: %s\nbump:      %d\n",
			program.ID(), program.Label(), address, bump)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authorityCmd)
}
