package config

type Config interface {
	EnvConfig
	OAuthConfig
	StoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetClientID() string
	GetClientSecret() string
	GetScopes() []string
	GetIssuer() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Store
}

func New() Config {
	return mainConfig{}
}
