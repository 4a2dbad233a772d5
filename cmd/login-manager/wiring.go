package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-manager/consoleui"
	"github.com/jrsteele09/go-login-manager/credentials"
	"github.com/jrsteele09/go-login-manager/credentials/prefstore"
	"github.com/jrsteele09/go-login-manager/credentials/sqlitestore"
	"github.com/jrsteele09/go-login-manager/login"
	"github.com/jrsteele09/go-login-manager/oauth"
	"github.com/jrsteele09/go-login-manager/userinfo"
)

// buildLoginState assembles the state machine from the configured
// provider endpoint, store backend, email source, and terminal UI. The
// returned close function releases the store.
func buildLoginState(ctx context.Context) (*login.LoginState, func(), error) {
	if clientID == "" {
		return nil, nil, errors.New("a client ID is required (--client-id or LOGIN_CLIENT_ID)")
	}

	tokenClient, err := buildTokenClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := buildStore()
	if err != nil {
		return nil, nil, err
	}

	fetcher, err := buildEmailFetcher(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	ui := consoleui.New(tokenClient, consoleui.WithRedirectTimeout(cfg.GetRedirectTimeout()))

	state, err := login.New(clientID, clientSecret, credentials.NewScopes(scopes...),
		login.Collaborators{Store: store, UI: ui, Logger: login.NewZerologLogger(log.Logger)},
		login.WithTokenClient(tokenClient),
		login.WithEmailFetcher(fetcher),
	)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return state, closeStore, nil
}

func buildTokenClient(ctx context.Context) (*oauth.TokenClient, error) {
	endpoint := oauth.DefaultEndpoint
	if issuer != "" {
		discovered, err := oauth.DiscoverEndpoint(ctx, issuer)
		if err != nil {
			return nil, err
		}
		endpoint = discovered
	}
	return oauth.NewTokenClient(clientID, clientSecret, endpoint,
		credentials.NewScopes(scopes...).Sorted()), nil
}

func buildStore() (credentials.Store, func(), error) {
	switch storeBackend {
	case "file":
		path := credentialsFile
		if path == "" {
			defaultPath, err := prefstore.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = defaultPath
		}
		return prefstore.New(path), func() {}, nil

	case "sqlite":
		path := dbPath
		if path == "" {
			path = filepath.Join(cfg.GetDataFolder(), "credentials.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("failed to create data folder: %w", err)
		}
		store, err := sqlitestore.New(path, sqlitestore.DeriveKey(dbPassphrase))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("could not close credentials database")
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", storeBackend)
	}
}

func buildEmailFetcher(ctx context.Context) (userinfo.Fetcher, error) {
	switch emailSource {
	case "userinfo":
		return userinfo.NewLegacyFetcher(cfg.GetUserinfoURL()), nil
	case "oidc":
		if issuer == "" {
			return nil, errors.New("--issuer is required for the oidc email source")
		}
		return userinfo.NewOIDCFetcher(ctx, issuer)
	case "idtoken":
		return userinfo.IDTokenFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown email source %q", emailSource)
	}
}
