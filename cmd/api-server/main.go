package main

import (
	"Omnisell/config"
	"Omnisell/migrations"
	"Omnisell/pkg/log"
	"Omnisell/pkg/server"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	log.Setup(cfg.Log)

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "omnisell order management",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					app, cleanup, err := InitServer(cfg)
					if err != nil {
						return err
					}
					defer cleanup()
					return server.Run(ctx, app)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update database tables",
				Action: func(ctx *cli.Context) error {
					if err := migrations.Run(InitDB(cfg)); err != nil {
						return err
					}
					log.L.Info("migrate done")
					return nil
				},
			},
			{
				Name:  "reconcile",
				Usage: "compare product stock with the inventory ledger",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "strict", Usage: "exit non-zero when drift is found"},
				},
				Action: func(ctx *cli.Context) error {
					inventory, cleanup, err := InitInventory(cfg)
					if err != nil {
						return err
					}
					defer cleanup()

					drifts, err := inventory.Reconcile(ctx.Context)
					if err != nil {
						return err
					}
					log.L.Info("reconcile done", zap.Int("drifts", len(drifts)))
					if len(drifts) > 0 && ctx.Bool("strict") {
						return cli.Exit(fmt.Sprintf("%d products drifted from the ledger", len(drifts)), 2)
					}
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("command failed", zap.Error(err))
	}
}
