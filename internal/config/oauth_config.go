package config

import "time"

type OAuthConfig interface {
	GetRedirectTimeout() time.Duration
	GetUserinfoURL() string
	GetEmailSource() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetRedirectTimeout bounds how long the loopback listener waits for
// the provider to redirect back.
func (OAuth) GetRedirectTimeout() time.Duration {
	return 5 * time.Minute
}

// GetUserinfoURL overrides the endpoint the legacy email lookup
// queries. Empty means the built-in default.
func (OAuth) GetUserinfoURL() string {
	return GetEnv("LOGIN_USERINFO_URL", "")
}

// GetEmailSource selects how the account email is resolved after
// sign-in: "userinfo", "oidc", or "idtoken".
func (OAuth) GetEmailSource() string {
	return GetEnv("LOGIN_EMAIL_SOURCE", "userinfo")
}
