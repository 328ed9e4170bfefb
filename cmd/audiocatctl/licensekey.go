package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiocat/site/internal/bootstrap"
	"github.com/audiocat/site/internal/model"
)

func newLicenseKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licensekey",
		Short: "License-key submissions",
	}
	cmd.AddCommand(newLicenseKeyAddCmd(c))
	return cmd
}

func newLicenseKeyAddCmd(c *cli) *cobra.Command {
	var (
		name, email, key, comments string
		amount                     int64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record one license-key submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec := &model.LicenseKeySubmission{PersonName: name}
			flags := cmd.Flags()
			if flags.Changed("email") {
				rec.Email = &email
			}
			if flags.Changed("key") {
				rec.LicenseKey = &key
			}
			if flags.Changed("amount") {
				rec.Amount = &amount
			}
			if flags.Changed("comments") {
				rec.Comments = &comments
			}
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("invalid submission: %w", err)
			}

			st, err := bootstrap.OpenStore(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.CreateLicenseKey(cmd.Context(), rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.ID, rec.DateCreated.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "person name")
	f.StringVar(&email, "email", "", "contact email")
	f.StringVar(&key, "key", "", "license key text (may span lines)")
	f.Int64Var(&amount, "amount", 0, "amount paid")
	f.StringVar(&comments, "comments", "", "free-text comments")
	return cmd
}
