package cmd

import (
	"os"
	"test-token/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/conf"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "test-token",
	Short: "test-token open faucet",
	Long: `test-token runs a faucet whose mint authority is a program derived
address. Anyone may mint any amount to any token account of a faucet mint.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "etc/etc.yaml", "config file")
}

// loadConfig reads etc/.env and then the config file, which may reference the
// environment.
func loadConfig() config.Config {
	_ = godotenv.Load("etc/.env")

	var c config.Config
	conf.MustLoad(cfgFile, &c, conf.UseEnv())
	config.C = c
	return c
}
