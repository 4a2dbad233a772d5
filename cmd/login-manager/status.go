package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current sign-in state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, closeStore, err := buildLoginState(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			if !state.IsLoggedIn() {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}

			if email := state.Email(); email != "" {
				fmt.Fprintf(out, "Signed in as %s\n", email)
			} else {
				fmt.Fprintln(out, "Signed in.")
			}
			fmt.Fprintf(out, "Scopes: %s\n", state.Scopes())

			token := state.Token()
			switch {
			case token.Expiry.IsZero():
				fmt.Fprintln(out, "Access token expiry: unknown")
			case token.Expiry.After(time.Now()):
				fmt.Fprintf(out, "Access token valid until %s\n", token.Expiry.Format(time.RFC1123))
			default:
				fmt.Fprintf(out, "Access token expired %s, it will be refreshed on next use\n",
					token.Expiry.Format(time.RFC1123))
			}
			return nil
		},
	}
}
