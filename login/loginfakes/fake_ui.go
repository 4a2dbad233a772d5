package loginfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-login-manager/login"
)

var _ login.UI = (*FakeUI)(nil)

// FakeUI scripts the user interaction contract for tests: the answers it
// returns are set up front, and every call is recorded.
type FakeUI struct {
	verificationCode string
	redirectResult   *login.VerificationCode
	yesOrNoAnswer    bool

	obtainCodeCalls     []ObtainCodeCall
	obtainRedirectCalls int
	askYesOrNoCalls     int
	errorDialogs        []ErrorDialog
	statusIndicator     int
	lock                sync.RWMutex
}

// ObtainCodeCall records one ObtainVerificationCode invocation.
type ObtainCodeCall struct {
	Title   string
	AuthURL string
}

// ErrorDialog records one ShowErrorDialog invocation.
type ErrorDialog struct {
	Title   string
	Message string
}

func NewFakeUI() *FakeUI {
	return &FakeUI{}
}

func (ui *FakeUI) ObtainVerificationCode(_ context.Context, title, authURL string) string {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.obtainCodeCalls = append(ui.obtainCodeCalls, ObtainCodeCall{Title: title, AuthURL: authURL})
	return ui.verificationCode
}

func (ui *FakeUI) ObtainVerificationCodeFromRedirect(_ context.Context, title string) *login.VerificationCode {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.obtainRedirectCalls++
	return ui.redirectResult
}

func (ui *FakeUI) AskYesOrNo(title, message string) bool {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.askYesOrNoCalls++
	return ui.yesOrNoAnswer
}

func (ui *FakeUI) ShowErrorDialog(title, message string) {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.errorDialogs = append(ui.errorDialogs, ErrorDialog{Title: title, Message: message})
}

func (ui *FakeUI) NotifyStatusIndicator() {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.statusIndicator++
}

// SetVerificationCode sets the code ObtainVerificationCode returns. An
// empty code simulates the user cancelling.
func (ui *FakeUI) SetVerificationCode(code string) {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.verificationCode = code
}

// SetRedirectResult sets what ObtainVerificationCodeFromRedirect
// returns. nil simulates the user cancelling before the redirect.
func (ui *FakeUI) SetRedirectResult(result *login.VerificationCode) {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.redirectResult = result
}

// SetYesOrNoAnswer sets the answer AskYesOrNo returns.
func (ui *FakeUI) SetYesOrNoAnswer(answer bool) {
	ui.lock.Lock()
	defer ui.lock.Unlock()
	ui.yesOrNoAnswer = answer
}

func (ui *FakeUI) ObtainCodeCalls() []ObtainCodeCall {
	ui.lock.RLock()
	defer ui.lock.RUnlock()
	return append([]ObtainCodeCall(nil), ui.obtainCodeCalls...)
}

func (ui *FakeUI) ObtainRedirectCalls() int {
	ui.lock.RLock()
	defer ui.lock.RUnlock()
	return ui.obtainRedirectCalls
}

func (ui *FakeUI) AskYesOrNoCalls() int {
	ui.lock.RLock()
	defer ui.lock.RUnlock()
	return ui.askYesOrNoCalls
}

func (ui *FakeUI) ErrorDialogs() []ErrorDialog {
	ui.lock.RLock()
	defer ui.lock.RUnlock()
	return append([]ErrorDialog(nil), ui.errorDialogs...)
}

func (ui *FakeUI) StatusIndicatorCalls() int {
	ui.lock.RLock()
	defer ui.lock.RUnlock()
	return ui.statusIndicator
}
