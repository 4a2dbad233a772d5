package oauth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-login-manager/oauth"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type tokenRequest struct {
	grantType    string
	code         string
	redirectURI  string
	refreshToken string
}

// newTestClient wires a TokenClient at an httptest token endpoint that
// answers with the given response body and records the requests it sees.
func newTestClient(t *testing.T, status int, responseBody string) (*oauth.TokenClient, *[]tokenRequest) {
	t.Helper()

	requests := &[]tokenRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		*requests = append(*requests, tokenRequest{
			grantType:    r.FormValue("grant_type"),
			code:         r.FormValue("code"),
			redirectURI:  r.FormValue("redirect_uri"),
			refreshToken: r.FormValue("refresh_token"),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, responseBody)
	}))
	t.Cleanup(server.Close)

	endpoint := oauth2.Endpoint{
		AuthURL:   server.URL + "/auth",
		TokenURL:  server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	client := oauth.NewTokenClient("client-id", "client-secret", endpoint,
		[]string{"email", "profile"}, oauth.WithHTTPClient(server.Client()))
	return client, requests
}

func TestTokenClient_ExchangeCode(t *testing.T) {
	client, requests := newTestClient(t, http.StatusOK,
		`{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600}`)

	token, err := client.ExchangeCode(context.Background(), "the-code", oauth.OOBRedirectURL)
	require.NoError(t, err)
	require.Len(t, *requests, 1)

	sent := (*requests)[0]
	require.Equal(t, "authorization_code", sent.grantType)
	require.Equal(t, "the-code", sent.code)
	require.Equal(t, oauth.OOBRedirectURL, sent.redirectURI)

	require.Equal(t, "at-1", token.AccessToken)
	require.Equal(t, "rt-1", token.RefreshToken)
	require.WithinDuration(t, time.Now().Add(time.Hour), token.Expiry, 10*time.Second)
}

func TestTokenClient_ExchangeCodeFails(t *testing.T) {
	client, _ := newTestClient(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)

	_, err := client.ExchangeCode(context.Background(), "bad-code", oauth.OOBRedirectURL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exchange authorization code")
}

func TestTokenClient_Refresh(t *testing.T) {
	t.Run("returns a fresh access token", func(t *testing.T) {
		client, requests := newTestClient(t, http.StatusOK,
			`{"access_token":"at-2","token_type":"Bearer","expires_in":1800}`)

		token, err := client.Refresh(context.Background(), "rt-1")
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Equal(t, "refresh_token", (*requests)[0].grantType)
		require.Equal(t, "rt-1", (*requests)[0].refreshToken)
		require.Equal(t, "at-2", token.AccessToken)
		require.Equal(t, "rt-1", token.RefreshToken)
	})

	t.Run("surfaces a rotated refresh token", func(t *testing.T) {
		client, _ := newTestClient(t, http.StatusOK,
			`{"access_token":"at-3","refresh_token":"rt-2","token_type":"Bearer","expires_in":1800}`)

		token, err := client.Refresh(context.Background(), "rt-1")
		require.NoError(t, err)
		require.Equal(t, "rt-2", token.RefreshToken)
	})

	t.Run("fails without a refresh token", func(t *testing.T) {
		client, requests := newTestClient(t, http.StatusOK, `{}`)

		_, err := client.Refresh(context.Background(), "")
		require.ErrorIs(t, err, oauth.ErrNoRefreshToken)
		require.Empty(t, *requests)
	})

	t.Run("propagates provider failures", func(t *testing.T) {
		client, _ := newTestClient(t, http.StatusUnauthorized, `{"error":"invalid_client"}`)

		_, err := client.Refresh(context.Background(), "rt-1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "refresh access token")
	})
}

func TestTokenClient_AuthCodeURL(t *testing.T) {
	client := oauth.NewTokenClient("client-id", "client-secret", oauth2.Endpoint{
		AuthURL:  "https://provider.example.com/auth",
		TokenURL: "https://provider.example.com/token",
	}, []string{"email", "profile"})

	t.Run("includes identity, scopes and redirect target", func(t *testing.T) {
		parsed, err := url.Parse(client.AuthCodeURL("", oauth.OOBRedirectURL))
		require.NoError(t, err)

		query := parsed.Query()
		require.Equal(t, "client-id", query.Get("client_id"))
		require.Equal(t, "code", query.Get("response_type"))
		require.Equal(t, oauth.OOBRedirectURL, query.Get("redirect_uri"))
		require.Equal(t, "email profile", query.Get("scope"))
		require.False(t, query.Has("state"))
	})

	t.Run("carries the state parameter when given", func(t *testing.T) {
		parsed, err := url.Parse(client.AuthCodeURL("csrf-state", "http://127.0.0.1:8123"))
		require.NoError(t, err)

		query := parsed.Query()
		require.Equal(t, "csrf-state", query.Get("state"))
		require.Equal(t, "http://127.0.0.1:8123", query.Get("redirect_uri"))
	})
}

func TestTokenClient_Scopes(t *testing.T) {
	client := oauth.NewTokenClient("client-id", "", oauth2.Endpoint{}, []string{"email"})

	scopes := client.Scopes()
	scopes[0] = "mutated"
	require.Equal(t, []string{"email"}, client.Scopes())
}
