package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/audiocat/site/internal/config"
	"github.com/audiocat/site/internal/logger"
)

// cli carries state shared by subcommands.
type cli struct {
	logLevel string
	cfg      *config.Config
	log      *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "audiocatctl",
		Short:         "Operator tasks for the audiocat site",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.log = logger.Console(c.logLevel)
			zap.ReplaceGlobals(c.log.Desugar())
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.logLevel, "log-level", "l", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCmd(c),
		newLicenseKeyCmd(c),
		newRoutesCmd(c),
	)
	return root
}
