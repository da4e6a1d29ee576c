package cli

import (
	"github.com/spf13/cobra"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var file string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert products from a YAML catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			if dryRun {
				cmd.Printf("catalog %s is valid: %d products\n", file, len(catalog.Products))
				return nil
			}

			db, err := openDatabase(config.LoadTool())
			if err != nil {
				return err
			}

			res, err := seed.Apply(cmd.Context(), db, catalog)
			if err != nil {
				return err
			}

			cmd.Printf("created %d, updated %d products\n", res.Created, res.Updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "catalog file to load")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the catalog without touching the database")

	return cmd
}
