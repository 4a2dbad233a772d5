// Package oauth wraps the authorization-code and refresh-token grant
// mechanics of golang.org/x/oauth2 behind the small client surface the
// login machinery needs, keeping the transport an injectable dependency.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// OOBRedirectURL is the fixed out-of-band redirect target used when no
// local listener is available. The provider displays the authorization
// code for the user to copy into the application by hand.
const OOBRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// DefaultEndpoint is the provider endpoint assumed when none is
// configured. Use DiscoverEndpoint to resolve any OIDC provider's.
var DefaultEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// ErrNoRefreshToken is returned by Refresh when no refresh token is
// available to exchange.
var ErrNoRefreshToken = errors.New("no refresh token to exchange")

// TokenClient performs token-endpoint grants for a single OAuth2 client
// application against a fixed provider endpoint.
type TokenClient struct {
	config     oauth2.Config
	httpClient *http.Client
}

// TokenClientOption defines a function type to modify the TokenClient instance.
type TokenClientOption func(*TokenClient)

// WithHTTPClient routes all token-endpoint traffic through the given
// client. Tests point this at an httptest server.
func WithHTTPClient(client *http.Client) TokenClientOption {
	return func(tc *TokenClient) {
		tc.httpClient = client
	}
}

// NewTokenClient builds a client for the given application identity,
// provider endpoint, and scope set.
func NewTokenClient(clientID, clientSecret string, endpoint oauth2.Endpoint, scopes []string, options ...TokenClientOption) *TokenClient {
	tc := &TokenClient{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
	}
	for _, opt := range options {
		opt(tc)
	}
	return tc
}

// AuthCodeURL builds the authorization-request URL for the given redirect
// target. state may be empty for flows with no redirect to validate, such
// as the out-of-band flow.
func (tc *TokenClient) AuthCodeURL(state, redirectURL string, extra ...oauth2.AuthCodeOption) string {
	cfg := tc.config
	cfg.RedirectURL = redirectURL
	return cfg.AuthCodeURL(state, extra...)
}

// ExchangeCode exchanges an authorization code for tokens. redirectURL
// must match the redirect target the code was issued against.
func (tc *TokenClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*oauth2.Token, error) {
	cfg := tc.config
	cfg.RedirectURL = redirectURL
	token, err := cfg.Exchange(tc.clientContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// Refresh exchanges a refresh token for a fresh access token. The
// returned token carries a rotated refresh token when the provider
// issues one.
func (tc *TokenClient) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	source := tc.config.TokenSource(tc.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return token, nil
}

// TokenSource returns a source seeded with the given token that renews
// it through the refresh grant when it expires.
func (tc *TokenClient) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return tc.config.TokenSource(tc.clientContext(ctx), token)
}

// HTTPClient returns a client whose requests carry the given token and
// which refreshes it transparently when the provider allows.
func (tc *TokenClient) HTTPClient(ctx context.Context, token *oauth2.Token) *http.Client {
	return oauth2.NewClient(tc.clientContext(ctx), tc.TokenSource(ctx, token))
}

// Scopes returns the scope set the client requests on authorization.
func (tc *TokenClient) Scopes() []string {
	return append([]string(nil), tc.config.Scopes...)
}

func (tc *TokenClient) clientContext(ctx context.Context) context.Context {
	if tc.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, tc.httpClient)
}
