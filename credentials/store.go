package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ScopeDelimiter separates individual scopes when a backend stores the
// scope set as a single delimited string.
const ScopeDelimiter = " "

// ErrScopeDelimiter is returned by Save when a scope string contains the
// storage delimiter and therefore cannot be round-tripped.
var ErrScopeDelimiter = errors.New("scope must not contain the delimiter character")

// Store persists a single user's Credentials. Implementations live with
// the embedding application (file, database, OS keychain); the login
// machinery only relies on this contract.
//
// Load never fails. A backend that cannot read its state returns the zero
// record, which the caller treats as "nothing stored". Save must reject
// records whose scopes contain ScopeDelimiter before mutating anything,
// so a failed save leaves the previous state readable.
type Store interface {
	Load() Credentials
	Save(Credentials) error
	Clear() error
}

// JoinScopes serializes a scope set for a delimited-string backend. It
// fails with ErrScopeDelimiter if any scope embeds the delimiter, before
// producing any output, so callers can validate prior to touching storage.
func JoinScopes(scopes Scopes) (string, error) {
	for _, scope := range scopes {
		if strings.Contains(scope, ScopeDelimiter) {
			return "", fmt.Errorf("scope %q: %w", scope, ErrScopeDelimiter)
		}
	}
	return strings.Join(scopes, ScopeDelimiter), nil
}

// SplitScopes parses a delimited scope string back into a set, dropping
// empty tokens. The empty string parses to the empty set.
func SplitScopes(joined string) Scopes {
	parts := lo.Filter(strings.Split(joined, ScopeDelimiter), func(part string, _ int) bool {
		return part != ""
	})
	return NewScopes(parts...)
}
