package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFormat  string
	configPath string
	host       string
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley chat services",
	Long:  `Parley serves the chat API and web UI and runs its supporting jobs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json",
		"log output, json or console")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the YAML config file (defaults are used when empty)")
}

// setLogging applies the --log level and --log-format to the global logger.
// Unknown levels fall back to warn.
func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if logFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
