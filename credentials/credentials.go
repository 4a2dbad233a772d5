// Package credentials defines the immutable credential record a login
// session persists between process restarts, and the Store contract that
// persistence backends implement.
package credentials

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Scopes is a set of OAuth2 authorization scopes. Equality is
// order-insensitive and ignores duplicates, since a grant for
// {"a", "b"} and one for {"b", "a"} are the same grant.
type Scopes []string

// NewScopes builds a scope set from the given scope strings, dropping
// duplicates. The result is never nil, even for zero scopes.
func NewScopes(scopes ...string) Scopes {
	return Scopes(lo.Uniq(scopes))
}

// Equal reports whether both sets contain exactly the same scopes,
// regardless of order or duplication.
func (s Scopes) Equal(other Scopes) bool {
	a := lo.Uniq(s)
	b := lo.Uniq(other)
	if len(a) != len(b) {
		return false
	}
	return lo.Every(a, b)
}

// Contains reports whether the set includes the given scope.
func (s Scopes) Contains(scope string) bool {
	return lo.Contains(s, scope)
}

// IsEmpty reports whether no scopes are recorded.
func (s Scopes) IsEmpty() bool {
	return len(s) == 0
}

// Sorted returns the scopes in lexical order without modifying the set.
func (s Scopes) Sorted() []string {
	sorted := append([]string(nil), s...)
	sort.Strings(sorted)
	return sorted
}

// String renders the set in lexical order for log messages.
func (s Scopes) String() string {
	return "[" + strings.Join(s.Sorted(), ", ") + "]"
}

// Credentials is an immutable snapshot of a user's stored OAuth state:
// the tokens, the email they resolved to, the scope set they were granted
// for, and the access token's expiry. The empty string means the value is
// absent. ExpiryTime is in epoch seconds, with 0 meaning no known expiry.
type Credentials struct {
	accessToken  string
	refreshToken string
	email        string
	scopes       Scopes
	expiryTime   int64
}

// New builds a credential record. The scope set is copied and deduplicated
// through NewScopes, so the record is detached from the caller's slice and
// Scopes never returns nil.
func New(accessToken, refreshToken, email string, scopes Scopes, expiryTime int64) Credentials {
	return Credentials{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		email:        email,
		scopes:       NewScopes(scopes...),
		expiryTime:   expiryTime,
	}
}

// AccessToken returns the stored access token, or "" if absent.
func (c Credentials) AccessToken() string {
	return c.accessToken
}

// RefreshToken returns the stored refresh token, or "" if absent.
func (c Credentials) RefreshToken() string {
	return c.refreshToken
}

// Email returns the stored account email, or "" if absent.
func (c Credentials) Email() string {
	return c.email
}

// Scopes returns the scope set the credentials were granted for. The
// result is a copy and is never nil.
func (c Credentials) Scopes() Scopes {
	if c.scopes == nil {
		return NewScopes()
	}
	return append(Scopes(nil), c.scopes...)
}

// ExpiryTime returns the access token expiry in epoch seconds, or 0 when
// no expiry has been recorded.
func (c Credentials) ExpiryTime() int64 {
	return c.expiryTime
}

// IsZero reports whether the record holds no stored state at all.
func (c Credentials) IsZero() bool {
	return c.accessToken == "" && c.refreshToken == "" && c.email == "" &&
		len(c.scopes) == 0 && c.expiryTime == 0
}
