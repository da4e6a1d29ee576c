package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

func newLevelsCmd() *cobra.Command {
	var through int
	var grades bool

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the grade and level ladder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := levelTable(config.LoadTool())
			if grades {
				return renderGrades(cmd.OutOrStdout(), table.Grades())
			}

			n := through
			if n <= 0 {
				n = table.MaxLevel()
			}
			if n <= 0 {
				n = loyalty.DefaultLevelCap
			}
			return renderLevels(cmd.OutOrStdout(), table.Levels(n))
		},
	}

	cmd.Flags().IntVar(&through, "through", 0, "last level to print (default: the level cap)")
	cmd.Flags().BoolVar(&grades, "grades", false, "print grades instead of levels")

	return cmd
}

func formatUpper(limit *int64) string {
	if limit == nil {
		return "-"
	}
	return utils.FormatWon(*limit)
}

func renderLevels(out io.Writer, levels []loyalty.LevelDefinition) error {
	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tGRADE\tFROM\tTO")
	for _, lv := range levels {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\n",
			lv.Level, lv.Emoji, lv.GradeName, utils.FormatWon(lv.MinAmount), formatUpper(lv.MaxAmount))
	}
	return w.Flush()
}

func renderGrades(out io.Writer, grades []loyalty.GradeDefinition) error {
	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(w, "GRADE\tNAME\tFROM\tTO")
	for _, g := range grades {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\n",
			g.Grade, g.Emoji, g.Name, utils.FormatWon(g.MinAmount), formatUpper(g.MaxAmount))
	}
	return w.Flush()
}
