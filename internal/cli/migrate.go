package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chative-ordering/orderbot/internal/restaurant/postgres"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded catalog and order schema",
	}
	cmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", postgres.MigrateUp),
		migrateStep("down", "Roll back all migrations", postgres.MigrateDown),
	)
	return cmd
}

func migrateStep(use, short string, run func(string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("POSTGRES_URL is not set")
			}
			if err := run(cfg.Postgres.URL); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", use)
			return nil
		},
	}
}
