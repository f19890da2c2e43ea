package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "orderbot",
	Short: "Conversational ordering assistant for Momo House",
	Long: `orderbot turns chat messages into restaurant actions: browsing the menu,
building a cart, checkout, service selection and payment method choice.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(newChatCmd(), newMigrateCmd())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logx.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
