// Package userinfo resolves the signed-in user's email address after a
// successful token exchange. Providers expose identity in different
// shapes, so each shape is a separate Fetcher implementation and the
// login machinery stays free of provider-specific parsing.
package userinfo

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// ErrNoEmail is returned when the provider's response carried no email.
var ErrNoEmail = errors.New("no email in userinfo response")

// Fetcher looks up the email address belonging to the tokens the given
// source yields. Failures are reported to the caller, which treats email
// resolution as best effort.
type Fetcher interface {
	FetchEmail(ctx context.Context, source oauth2.TokenSource) (string, error)
}
