// Package login tracks whether a user is signed in to an OAuth2 provider,
// drives the authorization-code and refresh-token flows, persists
// credentials across process restarts, and notifies listeners of login
// and logout transitions.
//
// The package is platform independent. An instance is constructed with
// implementations of the credentials.Store, UI, and Logger contracts that
// bind it to the embedding application's storage, user interaction, and
// logging.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/jrsteele09/go-login-manager/oauth"
	"github.com/jrsteele09/go-login-manager/userinfo"
	"golang.org/x/oauth2"
)

// Collaborators holds the external dependencies a LoginState drives.
type Collaborators struct {
	Store  credentials.Store // Persists credentials between processes
	UI     UI                // Obtains codes and confirmations from the user
	Logger Logger            // Receives warnings and errors
}

// LoginState is the login state machine. It is either logged out or
// logged in; an interactive login either fully succeeds or leaves the
// state untouched.
//
// A LoginState has a single logical owner and makes no scheduling
// decisions: all network operations run synchronously on the caller's
// goroutine. Only listener registration is safe to call concurrently
// with other methods.
type LoginState struct {
	clientID     string
	clientSecret string
	scopes       credentials.Scopes

	collab       Collaborators
	tokenClient  *oauth.TokenClient
	emailFetcher userinfo.Fetcher
	nowTime      func() time.Time

	session   *session // nil while logged out
	listeners listenerList
}

// Option defines a function type to modify the LoginState instance.
type Option func(*LoginState)

// WithTokenClient sets the token-endpoint client. The default client
// talks to oauth.DefaultEndpoint with the construction-time identity.
func WithTokenClient(client *oauth.TokenClient) Option {
	return func(ls *LoginState) {
		ls.tokenClient = client
	}
}

// WithEmailFetcher sets the collaborator that resolves the account email
// after a successful exchange. The default queries the legacy userinfo
// endpoint.
func WithEmailFetcher(fetcher userinfo.Fetcher) Option {
	return func(ls *LoginState) {
		ls.emailFetcher = fetcher
	}
}

// WithNowTime sets the now time function (primarily for testing expiry).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(ls *LoginState) {
		ls.nowTime = nowFunc
	}
}

// New builds a LoginState for the given client application identity and
// authorization scopes, then restores any credentials the store holds.
// Stored credentials are adopted only when they carry a refresh token and
// their scope set matches scopes exactly; anything else is cleared and
// the machine starts logged out. No network traffic happens here.
func New(clientID, clientSecret string, scopes credentials.Scopes, collab Collaborators, options ...Option) (*LoginState, error) {
	if clientID == "" {
		return nil, errors.New("[login.New] clientID is required")
	}
	if collab.Store == nil {
		return nil, errors.New("[login.New] Store collaborator is required")
	}
	if collab.UI == nil {
		return nil, errors.New("[login.New] UI collaborator is required")
	}
	if collab.Logger == nil {
		return nil, errors.New("[login.New] Logger collaborator is required")
	}

	ls := &LoginState{
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       credentials.NewScopes(scopes...),
		collab:       collab,
		nowTime:      time.Now,
	}

	for _, opt := range options {
		opt(ls)
	}

	if ls.tokenClient == nil {
		ls.tokenClient = oauth.NewTokenClient(clientID, clientSecret, oauth.DefaultEndpoint, ls.scopes.Sorted())
	}
	if ls.emailFetcher == nil {
		ls.emailFetcher = userinfo.NewLegacyFetcher("")
	}

	ls.restoreSavedCredentials()
	return ls, nil
}

// AddLoginListener registers a listener to be notified of changes to the
// logged-in state. Safe to call concurrently with notification.
func (ls *LoginState) AddLoginListener(listener LoginListener) {
	ls.listeners.add(listener)
}

// IsLoggedIn reports whether a user is currently signed in.
func (ls *LoginState) IsLoggedIn() bool {
	return ls.session != nil
}

// Email returns the signed-in account's email, or "" when logged out or
// when the lookup after sign-in failed.
func (ls *LoginState) Email() string {
	if ls.session == nil {
		return ""
	}
	return ls.session.email
}

// ClientID returns the OAuth2 client ID fixed at construction.
func (ls *LoginState) ClientID() string {
	return ls.clientID
}

// ClientSecret returns the OAuth2 client secret fixed at construction.
func (ls *LoginState) ClientSecret() string {
	return ls.clientSecret
}

// Scopes returns the authorization scopes fixed at construction.
func (ls *LoginState) Scopes() credentials.Scopes {
	return append(credentials.Scopes(nil), ls.scopes...)
}

// RefreshToken returns the session's refresh token. It panics when no
// user is signed in.
func (ls *LoginState) RefreshToken() string {
	ls.checkLoggedIn()
	return ls.session.refreshToken
}

// Token derives an OAuth2 token from the session's current tokens. It is
// a snapshot, not a live handle. It panics when no user is signed in.
func (ls *LoginState) Token() *oauth2.Token {
	ls.checkLoggedIn()
	token := &oauth2.Token{
		AccessToken:  ls.session.accessToken,
		RefreshToken: ls.session.refreshToken,
	}
	if ls.session.expiryTime != 0 {
		token.Expiry = time.Unix(ls.session.expiryTime, 0)
	}
	return token
}

// HTTPClient returns a client whose requests are signed with the
// session's tokens. Requests fail with the provider's usual unauthorized
// response once the tokens are revoked. It panics when no user is signed
// in.
func (ls *LoginState) HTTPClient(ctx context.Context) *http.Client {
	ls.checkLoggedIn()
	return ls.tokenClient.HTTPClient(ctx, ls.Token())
}

// LogIn conducts an interactive sign-in using the out-of-band flow: the
// user visits the authorization URL and pastes the verification code back
// into the UI collaborator. It returns true if the user signed in or was
// already signed in, false on cancellation or failure.
//
// title is shown at the top of the interaction if the platform supports
// it, for flows started by an action other than plain sign-in.
func (ls *LoginState) LogIn(ctx context.Context, title string) bool {
	if ls.session != nil {
		return true
	}

	authURL := ls.tokenClient.AuthCodeURL("", oauth.OOBRedirectURL)
	code := ls.collab.UI.ObtainVerificationCode(ctx, title, authURL)
	if code == "" {
		return false
	}

	return ls.completeLogIn(ctx, code, oauth.OOBRedirectURL)
}

// LogInWithLocalServer conducts an interactive sign-in in which the UI
// collaborator runs a local redirect listener and captures the
// verification code from the provider's redirect, so the user never
// handles the code. Same results as LogIn.
func (ls *LoginState) LogInWithLocalServer(ctx context.Context, title string) bool {
	if ls.session != nil {
		return true
	}

	verification := ls.collab.UI.ObtainVerificationCodeFromRedirect(ctx, title)
	if verification == nil || verification.Code == "" {
		return false
	}

	return ls.completeLogIn(ctx, verification.Code, verification.RedirectURL)
}

func (ls *LoginState) completeLogIn(ctx context.Context, code, redirectURL string) bool {
	token, err := ls.tokenClient.ExchangeCode(ctx, code, redirectURL)
	if err != nil {
		ls.collab.UI.ShowErrorDialog("Error while signing in",
			fmt.Sprintf("An error occurred while trying to sign in: %s", err))
		ls.collab.Logger.Error("could not sign in, check that the verification code was correct", err)
		return false
	}

	ls.session = &session{
		accessToken:  token.AccessToken,
		refreshToken: token.RefreshToken,
		expiryTime:   tokenExpiry(token),
	}
	ls.session.email = ls.fetchEmail(ctx)
	ls.persistCredentials()
	ls.collab.UI.NotifyStatusIndicator()
	ls.listeners.notify(true)
	return true
}

// LogOut signs the user out: the session is dropped, the persisted
// credentials are cleared, and listeners are notified. With showPrompt
// the UI collaborator asks for confirmation first, and a negative answer
// leaves everything untouched. It returns true if the user was logged
// out or was already logged out, false if the user declined.
func (ls *LoginState) LogOut(showPrompt bool) bool {
	if ls.session == nil {
		return true
	}

	if showPrompt && !ls.collab.UI.AskYesOrNo("Sign out?", "Are you sure you want to sign out?") {
		return false
	}

	ls.session = nil
	ls.clearStore()
	ls.listeners.notify(false)
	ls.collab.UI.NotifyStatusIndicator()
	return true
}

// LogOutPrompting signs the user out after asking for confirmation.
func (ls *LoginState) LogOutPrompting() bool {
	return ls.LogOut(true)
}

// FetchAccessToken returns an access token that is valid now, performing
// a refresh-token grant first if the cached token has expired or its
// expiry was never recorded. A successful refresh is persisted. Refresh
// failures are logged and returned; the caller decides whether to retry.
// It panics when no user is signed in.
func (ls *LoginState) FetchAccessToken(ctx context.Context) (string, error) {
	ls.checkLoggedIn()

	if !ls.session.expired(ls.nowTime()) {
		return ls.session.accessToken, nil
	}
	return ls.refreshAccessToken(ctx)
}

// SimulateLoginStatusChange performs the listener and status-indicator
// updates of a real transition, and on a simulated login restores
// persistently stored credentials with the same validation as
// construction, without any OAuth traffic. Provided for tests of
// embedding applications.
func (ls *LoginState) SimulateLoginStatusChange(loggedIn bool) {
	if loggedIn {
		ls.restoreSavedCredentials()
	}
	ls.listeners.notify(loggedIn)
	ls.collab.UI.NotifyStatusIndicator()
}

// restoreSavedCredentials adopts the store's record as the live session
// when it is usable. Records without a refresh token or with a scope set
// different from the requested one are cleared, so stale grants are
// never silently reused.
func (ls *LoginState) restoreSavedCredentials() {
	if ls.session != nil {
		panic("login: credentials must only be restored while logged out")
	}

	saved := ls.collab.Store.Load()

	if saved.RefreshToken() == "" || saved.Scopes().IsEmpty() {
		ls.clearStore()
		return
	}

	if !ls.scopes.Equal(saved.Scopes()) {
		ls.collab.Logger.Warning(fmt.Sprintf(
			"OAuth scope set for stored credentials no longer valid, logging out: requested %s vs. stored %s",
			ls.scopes, saved.Scopes()))
		ls.clearStore()
		return
	}

	ls.session = sessionFromCredentials(saved)
}

func (ls *LoginState) refreshAccessToken(ctx context.Context) (string, error) {
	token, err := ls.tokenClient.Refresh(ctx, ls.session.refreshToken)
	if err != nil {
		ls.collab.Logger.Error("could not obtain an OAuth2 access token", err)
		return "", err
	}

	ls.session.accessToken = token.AccessToken
	ls.session.expiryTime = tokenExpiry(token)
	if token.RefreshToken != "" {
		ls.session.refreshToken = token.RefreshToken
	}
	ls.persistCredentials()
	return ls.session.accessToken, nil
}

// fetchEmail resolves the account email for a fresh session. Email is
// best effort: on failure the session keeps an empty email and a warning
// is logged.
func (ls *LoginState) fetchEmail(ctx context.Context) string {
	source := ls.tokenClient.TokenSource(ctx, ls.Token())
	email, err := ls.emailFetcher.FetchEmail(ctx, source)
	if err != nil {
		ls.collab.Logger.Warning(fmt.Sprintf("could not retrieve email after sign-in: %v", err))
		return ""
	}
	return email
}

// persistCredentials saves the live session to the store. Persistence is
// best effort: a failing store logs a warning and the session stays
// signed in.
func (ls *LoginState) persistCredentials() {
	if ls.session == nil {
		panic("login: persisting credentials requires a signed-in user")
	}
	if err := ls.collab.Store.Save(ls.session.credentials(ls.scopes)); err != nil {
		ls.collab.Logger.Warning(fmt.Sprintf("could not save credentials: %v", err))
	}
}

func (ls *LoginState) clearStore() {
	if err := ls.collab.Store.Clear(); err != nil {
		ls.collab.Logger.Warning(fmt.Sprintf("could not clear stored credentials: %v", err))
	}
}

func (ls *LoginState) checkLoggedIn() {
	if ls.session == nil {
		panic("login: no user is signed in")
	}
}

func tokenExpiry(token *oauth2.Token) int64 {
	if token.Expiry.IsZero() {
		return 0
	}
	return token.Expiry.Unix()
}
