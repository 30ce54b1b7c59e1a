package main

import (
	"fmt"
	"os"
	"time"

	"lens-agent/internal/di"
	"lens-agent/internal/infrastructure/env"
	"lens-agent/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	logConsole bool
	envDir     string

	log *logger.LoggerAdapter
)

var rootCmd = &cobra.Command{
	Use:   "lensagent",
	Short: "Lens Agent - chat with an LLM that holds a Lens Network wallet",
	Long: `Lens Agent answers prompts with an OpenAI model that can call on-chain
tools for a single wallet on the Lens Network: read the address and balance,
sign messages, send the native token and look up transactions.

Configuration is read from the environment and from .env files in --env-dir.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.NewLoggerAdapter(logger.Config{Verbose: verbose, Console: logConsole})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "human readable logs instead of JSON")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding .env files")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&accessLog, "access-log", true, "log every HTTP request")
	serveCmd.Flags().DurationVar(&sessionTTL, "session-ttl", 30*time.Minute, "close chat sessions idle for this long")

	rootCmd.AddCommand(serveCmd, chatCmd)
}

func loadConfig() di.Config {
	return di.LoadConfig(env.NewEnvService(envDir, log))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
