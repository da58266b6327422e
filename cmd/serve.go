package cmd

import (
	"context"
	"test-token/internal/config"
	"test-token/internal/handler"
	"test-token/internal/svc"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the faucet http server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Start(loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func Start(c config.Config) error {
	logx.MustSetup(c.Log.LogConf)
	defer logx.Close()

	svcCtx, err := svc.NewServiceContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svcCtx.Start(ctx)

	server := rest.MustNewServer(c.Rest.RestConf)
	handler.RegisterHandlers(server, svcCtx)

	group := service.NewServiceGroup()
	defer group.Stop()
	group.Add(server)

	printBanner(c.Banner)
	authority, bump := svcCtx.Program.Authority()
	logx.Infof("faucet %s on %s, mint authority %s (bump %d), fee payer %s",
		svcCtx.Program.ID(), c.Faucet.Backend, authority, bump, svcCtx.Payer.PublicKey())
	logx.Infof("Starting rest server at %s:%d...", c.Rest.Host, c.Rest.Port)
	group.Start()
	return nil
}

func printBanner(c config.BannerConf) {
	figure.NewColorFigure(c.Text, c.FontName, c.Color, true).Print()
}
