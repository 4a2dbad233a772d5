package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jrsteele09/go-login-manager/internal/config"
)

const envPrefix = "LOGIN"

var (
	cfg = config.New()

	cfgFile         string
	clientID        string
	clientSecret    string
	scopes          []string
	issuer          string
	emailSource     string
	storeBackend    string
	credentialsFile string
	dbPath          string
	dbPassphrase    string
	debugLog        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "login-manager",
	Short: "Manage OAuth2 sign-in state for command-line tools",
	Long: `login-manager signs a user in to an OAuth2 provider, keeps the
credentials across runs, and hands out access tokens that are refreshed
when they expire.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugLog {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.login-manager.yml)")

	rootCmd.PersistentFlags().StringVar(&clientID, "client-id", cfg.GetClientID(),
		"OAuth2 client ID")
	rootCmd.PersistentFlags().StringVar(&clientSecret, "client-secret", cfg.GetClientSecret(),
		"OAuth2 client secret")
	rootCmd.PersistentFlags().StringSliceVar(&scopes, "scopes", cfg.GetScopes(),
		"authorization scopes to request")
	rootCmd.PersistentFlags().StringVar(&issuer, "issuer", cfg.GetIssuer(),
		"OIDC issuer to discover endpoints from (built-in default endpoint when empty)")
	rootCmd.PersistentFlags().StringVar(&emailSource, "email-source", cfg.GetEmailSource(),
		"where the account email is resolved after sign-in: userinfo, oidc, or idtoken")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", cfg.GetStoreBackend(),
		"credentials store backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials-file", cfg.GetCredentialsFile(),
		"path of the JSON credentials file (per-user default when empty)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", cfg.GetDatabasePath(),
		"path of the sqlite credentials database")
	rootCmd.PersistentFlags().StringVar(&dbPassphrase, "db-passphrase", cfg.GetDatabasePassphrase(),
		"passphrase protecting the sqlite credentials database")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newTokenCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".login-manager")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to
		// their equivalent keys with underscores, e.g. --client-id to
		// LOGIN_CLIENT_ID
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set
		// and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				// Set parses its argument as CSV, which would fold a
				// space-separated "email profile" into a single scope.
				if err := sv.Replace(v.GetStringSlice(f.Name)); err != nil {
					fmt.Fprintf(os.Stderr, "Could not set flag value for %s: %v", f.Name, err)
				}
				return
			}
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
