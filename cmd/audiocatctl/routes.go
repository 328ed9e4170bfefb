package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/audiocat/site/internal/handler"
	"github.com/audiocat/site/internal/routing"
)

// newRoutesCmd prints the table cmd/web would build from the current
// configuration.  Handlers are not exercised, so no store is opened.
func newRoutesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the active route table in dispatch order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := routing.Build(routing.Deps{App: &handler.AppContent{}}, c.cfg.Routes.Disabled)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATTERN\tMETHODS")
			for _, rt := range tbl.Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Name, rt.Matcher.Pattern(), strings.Join(rt.Methods, ","))
			}
			return tw.Flush()
		},
	}
}
