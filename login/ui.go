package login

import "context"

// VerificationCode pairs an authorization code with the redirect URL it
// was delivered to. The token exchange must present the same redirect URL
// the provider redirected to, so the two travel together.
type VerificationCode struct {
	Code        string
	RedirectURL string
}

// UI is the user-interaction provider the login machinery drives.
// Implementations may use browsers, platform dialogs, or a terminal.
//
// ObtainVerificationCode directs the user to authURL and returns the code
// they bring back, or "" if they cancelled. The redirect target is the
// fixed out-of-band URL, so no redirect URL is returned.
//
// ObtainVerificationCodeFromRedirect runs the alternate flow in which the
// implementation listens on a local redirect URL of its own choosing. It
// returns the code together with that redirect URL, or nil on
// cancellation.
//
// AskYesOrNo poses a yes/no question and reports the answer.
// ShowErrorDialog surfaces a failure to the user.
// NotifyStatusIndicator pokes any logged-in indicator the platform shows.
type UI interface {
	ObtainVerificationCode(ctx context.Context, title, authURL string) string
	ObtainVerificationCodeFromRedirect(ctx context.Context, title string) *VerificationCode
	AskYesOrNo(title, message string) bool
	ShowErrorDialog(title, message string)
	NotifyStatusIndicator()
}
