package userinfo

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var _ Fetcher = (*OIDCFetcher)(nil)

// OIDCFetcher resolves the email through the provider's standard OIDC
// UserInfo endpoint.
type OIDCFetcher struct {
	provider *oidc.Provider
}

// NewOIDCFetcher discovers the provider behind the issuer URL and returns
// a fetcher bound to its UserInfo endpoint.
func NewOIDCFetcher(ctx context.Context, issuer string) (*OIDCFetcher, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer %q: %w", issuer, err)
	}
	return &OIDCFetcher{provider: provider}, nil
}

func (of *OIDCFetcher) FetchEmail(ctx context.Context, source oauth2.TokenSource) (string, error) {
	info, err := of.provider.UserInfo(ctx, source)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	if info.Email == "" {
		return "", ErrNoEmail
	}
	return info.Email, nil
}
