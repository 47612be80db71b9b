package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	profileName string
	verbose     bool
)

var RootCmd = &cobra.Command{
	Use:   "green2",
	Short: "Membership management of a club",
	Long: `
   ____                     ____
  / ___|_ __ _   _  ___ _ _|___ \
 | |  _| '__| | | |/ _ \ '_ \__) |
 | |_| | |  | |_| |  __/ | | / __/
  \____|_|   \__,_|\___|_| |_|_____|

Green2 - Membership database and SEPA direct debits
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./green2.yaml)")
	RootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile to use instead of the active one")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("settings.default_count", 100)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// executable directory first, then the working directory
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")

		viper.SetConfigName("green2")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("green2")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

func setupLogging() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
