package config

import (
	"os"

	"github.com/jrsteele09/go-login-manager/credentials"
)

const (
	appNameVar      = "LOGIN_APP_NAME"
	folderEnvVar    = "LOGIN_DATA_FOLDER"
	clientIDVar     = "LOGIN_CLIENT_ID"
	clientSecretVar = "LOGIN_CLIENT_SECRET"
	scopesVar       = "LOGIN_SCOPES"
	issuerVar       = "LOGIN_ISSUER"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Login Manager")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (EnvVars) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

// GetScopes returns the authorization scopes, space separated in the
// environment.
func (EnvVars) GetScopes() []string {
	return credentials.SplitScopes(GetEnv(scopesVar, "email profile"))
}

// GetIssuer returns the OIDC issuer whose endpoints should be
// discovered. Empty means the built-in default endpoint.
func (EnvVars) GetIssuer() string {
	return GetEnv(issuerVar, "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
