package login

import (
	"time"

	"github.com/jrsteele09/go-login-manager/credentials"
)

// session is the payload of the logged-in state. A nil *session means
// logged out, so a partially populated login can never be observed.
type session struct {
	accessToken  string // Current OAuth2 access token
	refreshToken string // Long-lived token used for refresh grants
	expiryTime   int64  // Access token expiry in epoch seconds, 0 when unknown
	email        string // Account email, "" when the lookup failed
}

// expired reports whether the access token must be refreshed before use.
// An unknown expiry counts as expired.
func (s *session) expired(now time.Time) bool {
	return s.expiryTime == 0 || now.Unix() >= s.expiryTime
}

// credentials snapshots the session into a persistable record for the
// given scope set.
func (s *session) credentials(scopes credentials.Scopes) credentials.Credentials {
	return credentials.New(s.accessToken, s.refreshToken, s.email, scopes, s.expiryTime)
}

func sessionFromCredentials(creds credentials.Credentials) *session {
	return &session{
		accessToken:  creds.AccessToken(),
		refreshToken: creds.RefreshToken(),
		expiryTime:   creds.ExpiryTime(),
		email:        creds.Email(),
	}
}
