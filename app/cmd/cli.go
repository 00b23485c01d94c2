package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Rakhulsr/mellomelt/app/configs"
	"github.com/Rakhulsr/mellomelt/app/db/seeders"
	"github.com/Rakhulsr/mellomelt/app/models/migrations"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/Rakhulsr/mellomelt/app/utils/format"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// RunCli runs the mellomelt command line. Without a subcommand it serves
// the API.
func RunCli(ctx context.Context, args []string) error {
	env := configs.LoadEnv()
	logger, err := configs.NewLogger(env.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	serveCmd := &cli.Command{
		Name:  "serve",
		Usage: "Run the storefront API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "run database migrations before serving"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, env, logger, c.Bool("migrate"))
		},
	}

	cmd := &cli.Command{
		Name:   "mellomelt",
		Usage:  "Mello Melt storefront backend",
		Action: serveCmd.Action,
		Flags:  serveCmd.Flags,
		Commands: []*cli.Command{
			serveCmd,
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					logger.Info("migrate: migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: ".env.new_keys", Usage: "file to write the keys to, empty to only print them"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateSessionKeys(os.Stdout, c.String("out"))
				},
			},
			{
				Name:  "catalog",
				Usage: "Validate and print the product catalog",
				Action: func(ctx context.Context, c *cli.Command) error {
					return printCatalog(ctx, logger)
				},
			},
		},
	}

	return cmd.Run(ctx, args)
}

func printCatalog(ctx context.Context, logger *zap.Logger) error {
	catalog, err := repositories.NewProductRepository(seeders.Products(), seeders.Categories())
	if err != nil {
		return err
	}
	products, err := catalog.GetProducts(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tMRP\tOFF")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\n",
			p.ID, p.Name, p.Category, format.FormatRupee(p.Price), format.FormatRupee(p.MRP), p.DiscountPercent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	logger.Info("catalog: catalog is valid", zap.Int("products", len(products)))
	return nil
}
