package loginfakes

import (
	"sync"

	"github.com/jrsteele09/go-login-manager/login"
)

var _ login.Logger = (*FakeLogger)(nil)

// FakeLogger records warnings and errors for assertion.
type FakeLogger struct {
	warnings []string
	errors   []LoggedError
	lock     sync.RWMutex
}

// LoggedError records one Error invocation.
type LoggedError struct {
	Message string
	Err     error
}

func NewFakeLogger() *FakeLogger {
	return &FakeLogger{}
}

func (l *FakeLogger) Warning(message string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.warnings = append(l.warnings, message)
}

func (l *FakeLogger) Error(message string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.errors = append(l.errors, LoggedError{Message: message, Err: err})
}

func (l *FakeLogger) Warnings() []string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return append([]string(nil), l.warnings...)
}

func (l *FakeLogger) Errors() []LoggedError {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return append([]LoggedError(nil), l.errors...)
}
