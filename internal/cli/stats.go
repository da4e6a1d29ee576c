package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/impact"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

func newStatsCmd() *cobra.Command {
	var customerID int64
	var from, to string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a customer's environmental stats and level progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if customerID <= 0 {
				return errors.New("--customer is required")
			}

			r, err := utils.ParseDateRange(from, to, impact.KST)
			if err != nil {
				return err
			}

			cfg := config.LoadTool()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			history := services.NewHistoryService(db, levelTable(cfg))
			h, err := history.CustomerHistory(cmd.Context(), customerID, r)
			if err != nil {
				return err
			}
			progress, err := history.Progress(cmd.Context(), customerID)
			if err != nil {
				return err
			}

			return renderStats(cmd.OutOrStdout(), h.Stats.Rounded(), len(h.Items), progress)
		},
	}

	cmd.Flags().Int64Var(&customerID, "customer", 0, "customer id")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")

	return cmd
}

func renderStats(out io.Writer, stats impact.EnvironmentStats, purchases int, p loyalty.CharacterProgress) error {
	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintf(w, "Purchases\t%d\n", purchases)
	fmt.Fprintf(w, "Refills\t%d\n", stats.RefillCount)
	fmt.Fprintf(w, "Plastic saved\t%s g\n", utils.FormatDecimal(stats.PlasticReductionG, 1))
	fmt.Fprintf(w, "CO2 saved\t%s kg\n", utils.FormatDecimal(stats.CO2ReductionKg, 2))
	fmt.Fprintf(w, "Trees\t%s\n", utils.FormatDecimal(stats.TreeReduction, 2))
	fmt.Fprintf(w, "Spent\t%s\n", utils.FormatWon(p.AccumulatedAmount))
	fmt.Fprintf(w, "Level\t%s %s Lv.%d\n", p.CurrentLevel.Emoji, p.CurrentLevel.GradeName, p.CurrentLevel.Level)
	if p.NextLevel != nil {
		fmt.Fprintf(w, "Next level\t%s to go (%s%%)\n",
			utils.FormatWon(p.AmountToNextLevel), utils.FormatDecimal(p.ProgressPercentage, 1))
	} else {
		fmt.Fprintf(w, "Next level\tmax level reached\n")
	}

	return w.Flush()
}
