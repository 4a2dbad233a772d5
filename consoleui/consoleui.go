// Package consoleui implements the login.UI contract for terminal
// sessions. Verification codes are read from standard input, or
// captured by a short-lived loopback redirect listener so the user
// never handles the code.
package consoleui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/go-login-manager/login"
	"github.com/jrsteele09/go-login-manager/oauth"
)

const defaultRedirectTimeout = 5 * time.Minute

var _ login.UI = (*UI)(nil)

// UI drives the sign-in conversation over a terminal.
type UI struct {
	client          *oauth.TokenClient
	reader          *bufio.Reader
	out             io.Writer
	errOut          io.Writer
	openBrowser     func(url string) error
	redirectTimeout time.Duration
}

// Option defines a function type to modify the UI instance.
type Option func(*UI)

// WithInput sets the reader used for prompts. Defaults to stdin.
func WithInput(in io.Reader) Option {
	return func(ui *UI) {
		ui.reader = bufio.NewReader(in)
	}
}

// WithOutput sets the writer for prompts and instructions. Defaults to
// stdout.
func WithOutput(out io.Writer) Option {
	return func(ui *UI) {
		ui.out = out
	}
}

// WithErrorOutput sets the writer for error dialogs. Defaults to
// stderr.
func WithErrorOutput(errOut io.Writer) Option {
	return func(ui *UI) {
		ui.errOut = errOut
	}
}

// WithBrowserOpener sets a launcher for authorization URLs. Without
// one, the URL is printed for the user to open themselves.
func WithBrowserOpener(open func(url string) error) Option {
	return func(ui *UI) {
		ui.openBrowser = open
	}
}

// WithRedirectTimeout bounds how long the loopback listener waits for
// the provider redirect. Defaults to five minutes.
func WithRedirectTimeout(timeout time.Duration) Option {
	return func(ui *UI) {
		ui.redirectTimeout = timeout
	}
}

// New creates a terminal UI. The client builds authorization URLs for
// the loopback redirect flow.
func New(client *oauth.TokenClient, options ...Option) *UI {
	ui := &UI{
		client:          client,
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
		errOut:          os.Stderr,
		redirectTimeout: defaultRedirectTimeout,
	}
	for _, opt := range options {
		opt(ui)
	}
	return ui
}

// ObtainVerificationCode shows the authorization URL and prompts for
// the code the provider displays after the user authorizes. An empty
// answer, closed input, or cancelled context reads as cancellation.
func (ui *UI) ObtainVerificationCode(ctx context.Context, title, authURL string) string {
	ui.showAuthorizationURL(title, authURL)
	fmt.Fprint(ui.out, "Enter the verification code: ")

	line, err := ui.readLine(ctx)
	if err != nil {
		return ""
	}
	return line
}

// AskYesOrNo prompts for confirmation. Anything but an explicit yes is
// a no.
func (ui *UI) AskYesOrNo(title, message string) bool {
	if title != "" {
		fmt.Fprintln(ui.out, title)
	}
	fmt.Fprintf(ui.out, "%s [y/N]: ", message)

	line, err := ui.reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ShowErrorDialog writes the error to the error stream.
func (ui *UI) ShowErrorDialog(title, message string) {
	fmt.Fprintf(ui.errOut, "%s: %s\n", title, message)
}

// NotifyStatusIndicator is a no-op. A terminal has no status indicator
// to refresh.
func (ui *UI) NotifyStatusIndicator() {}

// readLine reads one line, abandoning the wait when ctx ends. The
// blocked read stays behind on cancellation; its result is discarded.
func (ui *UI) readLine(ctx context.Context) (string, error) {
	lineCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		line, err := ui.reader.ReadString('\n')
		if err != nil && line == "" {
			errCh <- err
			return
		}
		lineCh <- strings.TrimSpace(line)
	}()

	select {
	case line := <-lineCh:
		return line, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// showAuthorizationURL hands the URL to the browser launcher when one
// is configured, falling back to printing it.
func (ui *UI) showAuthorizationURL(title, authURL string) {
	if title != "" {
		fmt.Fprintln(ui.out, title)
	}
	if ui.openBrowser != nil {
		if err := ui.openBrowser(authURL); err == nil {
			fmt.Fprintln(ui.out, "Complete the sign-in in your browser.")
			return
		}
	}
	fmt.Fprintf(ui.out, "Open the following URL in your browser and authorize the application:\n\n  %s\n\n", authURL)
}
