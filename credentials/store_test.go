package credentials_test

import (
	"testing"

	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/stretchr/testify/require"
)

func TestJoinScopes(t *testing.T) {
	t.Run("joins with single space", func(t *testing.T) {
		joined, err := credentials.JoinScopes(credentials.NewScopes("email", "profile"))
		require.NoError(t, err)
		require.Equal(t, "email profile", joined)
	})

	t.Run("empty set joins to empty string", func(t *testing.T) {
		joined, err := credentials.JoinScopes(credentials.NewScopes())
		require.NoError(t, err)
		require.Empty(t, joined)
	})

	t.Run("rejects scope containing the delimiter", func(t *testing.T) {
		_, err := credentials.JoinScopes(credentials.NewScopes("email", "scope 1"))
		require.ErrorIs(t, err, credentials.ErrScopeDelimiter)
	})
}

func TestSplitScopes(t *testing.T) {
	t.Run("splits on single space", func(t *testing.T) {
		scopes := credentials.SplitScopes("email profile")
		require.True(t, scopes.Equal(credentials.NewScopes("email", "profile")))
	})

	t.Run("empty string yields empty set", func(t *testing.T) {
		scopes := credentials.SplitScopes("")
		require.NotNil(t, scopes)
		require.True(t, scopes.IsEmpty())
	})

	t.Run("drops empty tokens", func(t *testing.T) {
		scopes := credentials.SplitScopes("  email   profile ")
		require.True(t, scopes.Equal(credentials.NewScopes("email", "profile")))
	})

	t.Run("round trips a join", func(t *testing.T) {
		original := credentials.NewScopes("openid", "email", "profile")
		joined, err := credentials.JoinScopes(original)
		require.NoError(t, err)
		require.True(t, credentials.SplitScopes(joined).Equal(original))
	})
}
