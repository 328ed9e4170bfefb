package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiocat/site/internal/bootstrap"
	"github.com/audiocat/site/internal/database"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|status]",
		Short:     "Apply or list schema migrations (SQL store only)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			db, err := bootstrap.OpenSQL(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer db.Close()

			switch action {
			case "status":
				return database.Status(cmd.Context(), db)
			default:
				if err := database.Migrate(cmd.Context(), db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			}
		},
	}
}
