package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var useOOB bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the OAuth2 provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, closeStore, err := buildLoginState(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if state.IsLoggedIn() {
				log.Info().Str("email", state.Email()).Msg("already signed in")
				return nil
			}

			displayAppname(cfg.GetAppName())

			var ok bool
			if useOOB {
				ok = state.LogIn(cmd.Context(), "")
			} else {
				ok = state.LogInWithLocalServer(cmd.Context(), "")
			}
			if !ok {
				return errors.New("sign-in was not completed")
			}

			log.Info().Str("email", state.Email()).Msg("signed in")
			return nil
		},
	}
	cmd.Flags().BoolVar(&useOOB, "oob", false,
		"paste the verification code instead of running a local redirect listener")
	return cmd
}
