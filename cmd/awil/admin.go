package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielk69/AWIL/auth"
	"github.com/danielk69/AWIL/models"
)

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newSetPasswordCmd(opts))
	return cmd
}

func newSetPasswordCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Create an admin or replace its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.close()

			// Tokens are not issued here, so no signing secret is needed.
			svc := auth.NewService(models.NewAdminRepository(e.db), nil, e.logger)
			if err := svc.SetPassword(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Printf("Password set for %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
