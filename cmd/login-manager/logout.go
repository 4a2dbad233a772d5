package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, closeStore, err := buildLoginState(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if !state.IsLoggedIn() {
				log.Info().Msg("not signed in")
				return nil
			}
			if !state.LogOut(!force) {
				return errors.New("sign-out was cancelled")
			}

			log.Info().Msg("signed out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "sign out without asking for confirmation")
	return cmd
}
