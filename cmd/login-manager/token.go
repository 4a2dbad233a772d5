package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print an access token that is valid now",
		Long: `token prints the cached access token, refreshing it first when it
has expired. The output carries nothing else, so it can be substituted
into other commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, closeStore, err := buildLoginState(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if !state.IsLoggedIn() {
				return errors.New(`not signed in, run "login-manager login" first`)
			}

			accessToken, err := state.FetchAccessToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to obtain an access token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), accessToken)
			return nil
		},
	}
}
