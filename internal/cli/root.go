// Package cli implements the alogctl command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/database"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
)

const tabPadding = 2

// NewRootCmd creates the root command for alogctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alogctl",
		Short: "Store operator tools for Alog",
		Long:  "alogctl seeds the product catalog and inspects customer impact and levels.",
		Example: `  # Load products from a catalog file
  alogctl seed --file catalog.yaml

  # Show a customer's environmental stats
  alogctl stats --customer 42

  # Print the level ladder up to level 20
  alogctl levels --through 20

  # Hash the admin password
  echo 'counter-secret' | alogctl hash-password`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}
			config.InitLogger(level)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newSeedCmd(), newStatsCmd(), newLevelsCmd(), newHashPasswordCmd())

	return cmd
}

// openDatabase connects using the same environment as the server.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func levelTable(cfg *config.Config) *loyalty.Table {
	return loyalty.NewTable(loyalty.WithLevelCap(cfg.LevelCap))
}
