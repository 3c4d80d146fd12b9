package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "TESTWALLET"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "testwallet",
		Short: "In-process test double for a browser wallet",
		Long: `testwallet drives a wallet adapter backed by a local ed25519 key pair.

It exercises the connect, sign message, sign transaction, sign batch and
disconnect flows that wallet integrations depend on, deterministically and
without a real wallet. Keys handled here are for testing only.`,
		SilenceUsage: true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.testwallet/config.yaml)")
	flags.String("data-dir", defaultDataDir(), "Directory for stored keys and session logs")
	flags.String("keypair", "", "Keypair file (JSON byte array); a key is generated on first use when empty")
	flags.String("name", "", "Wallet name shown to applications")
	flags.String("url", "", "Wallet URL")
	flags.String("icon", "", "Wallet icon")
	flags.String("ready-state", "Loadable", "Ready state: Installed, NotDetected, Loadable or Unsupported")
	flags.String("strategy", "static", "Signing strategy: static (auto-approve) or confirm (prompt)")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	flags.Bool("session-log", false, "Record wallet events to a JSONL file under the data dir")

	for _, name := range []string{"data-dir", "keypair", "name", "url", "icon", "ready-state", "strategy", "log-level", "session-log"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(defaultDataDir())
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Silently ignore missing config file - it's optional
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".testwallet"
	}
	return filepath.Join(home, ".testwallet")
}
