package consoleui_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-login-manager/consoleui"
	"github.com/jrsteele09/go-login-manager/login"
	"github.com/stretchr/testify/require"
)

// startRedirectFlow runs ObtainVerificationCodeFromRedirect in the
// background and returns the authorization URL it would have opened,
// parsed for the redirect target and state parameter.
func startRedirectFlow(t *testing.T, ctx context.Context) (result chan *login.VerificationCode, redirectURI, state string) {
	t.Helper()

	opened := make(chan string, 1)
	ui, _, _ := newTestUI(strings.NewReader(""),
		consoleui.WithBrowserOpener(func(u string) error {
			opened <- u
			return nil
		}),
		consoleui.WithRedirectTimeout(10*time.Second),
	)

	result = make(chan *login.VerificationCode, 1)
	go func() {
		result <- ui.ObtainVerificationCodeFromRedirect(ctx, "Sign in")
	}()

	select {
	case authURL := <-opened:
		parsed, err := url.Parse(authURL)
		require.NoError(t, err)
		redirectURI = parsed.Query().Get("redirect_uri")
		state = parsed.Query().Get("state")
		require.NotEmpty(t, redirectURI)
		require.NotEmpty(t, state)
	case <-time.After(5 * time.Second):
		t.Fatal("authorization URL was never opened")
	}
	return result, redirectURI, state
}

func redirect(t *testing.T, redirectURI string, params url.Values) *http.Response {
	t.Helper()

	resp, err := http.Get(redirectURI + "?" + params.Encode())
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestUI_ObtainVerificationCodeFromRedirect(t *testing.T) {
	t.Run("captures the redirected code", func(t *testing.T) {
		result, redirectURI, state := startRedirectFlow(t, context.Background())

		resp := redirect(t, redirectURI, url.Values{"state": {state}, "code": {"test-code"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "Sign-in complete")

		verification := <-result
		require.NotNil(t, verification)
		require.Equal(t, "test-code", verification.Code)
		require.Equal(t, redirectURI, verification.RedirectURL)
	})

	t.Run("refuses a state mismatch and keeps waiting", func(t *testing.T) {
		result, redirectURI, state := startRedirectFlow(t, context.Background())

		resp := redirect(t, redirectURI, url.Values{"state": {"forged"}, "code": {"attacker-code"}})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = redirect(t, redirectURI, url.Values{"state": {state}, "code": {"test-code"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		verification := <-result
		require.NotNil(t, verification)
		require.Equal(t, "test-code", verification.Code)
	})

	t.Run("returns nil when authorization is denied", func(t *testing.T) {
		result, redirectURI, state := startRedirectFlow(t, context.Background())

		resp := redirect(t, redirectURI, url.Values{"state": {state}, "error": {"access_denied"}})
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "not completed")

		require.Nil(t, <-result)
	})

	t.Run("returns nil when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		result, _, _ := startRedirectFlow(t, ctx)

		cancel()

		require.Nil(t, <-result)
	})
}
