package consoleui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-login-manager/login"
	"golang.org/x/sync/errgroup"
)

const callbackPath = "/oauth2/callback"

const completedPage = `<html><body><h3>Sign-in complete.</h3><p>You can close this window and return to the application.</p></body></html>`

const deniedPage = `<html><body><h3>Sign-in was not completed.</h3><p>You can close this window.</p></body></html>`

// ObtainVerificationCodeFromRedirect runs a loopback HTTP listener,
// sends the user to the authorization URL with the listener as redirect
// target, and captures the code from the provider's redirect. Redirects
// carrying the wrong state parameter are refused and the wait
// continues. It returns nil when the user denies authorization, the
// context ends, or the redirect never arrives.
func (ui *UI) ObtainVerificationCodeFromRedirect(ctx context.Context, title string) *login.VerificationCode {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		ui.ShowErrorDialog("Error while signing in",
			fmt.Sprintf("could not start the local redirect listener: %s", err))
		return nil
	}

	state := uuid.NewString()
	redirectURL := fmt.Sprintf("http://%s%s", listener.Addr(), callbackPath)
	authURL := ui.client.AuthCodeURL(state, redirectURL)

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		code := query.Get("code")
		if query.Get("error") != "" || code == "" {
			fmt.Fprint(w, deniedPage)
		} else {
			fmt.Fprint(w, completedPage)
		}

		select {
		case codeCh <- code:
		default:
		}
	})
	server := &http.Server{Handler: mux}

	waitCtx, cancel := context.WithTimeout(ctx, ui.redirectTimeout)
	defer cancel()

	var code string
	g, gctx := errgroup.WithContext(waitCtx)
	g.Go(func() error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		select {
		case code = <-codeCh:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	ui.showAuthorizationURL(title, authURL)

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(ui.errOut, "Timed out waiting for the authorization redirect.")
		}
		return nil
	}
	if code == "" {
		return nil
	}
	return &login.VerificationCode{Code: code, RedirectURL: redirectURL}
}
