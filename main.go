package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe/internal"
	"github.com/rocketscienceinc/tictactoe/internal/config"
)

var configPath string

// main - is the entry point of the application. It builds the command tree and runs the chosen command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Single-session tic-tac-toe with an AI opponent and an audit log",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.yml", "path to the config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the game over a local HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf := initConfig()

			if err := app.RunApp(initLogger(conf, os.Stdout), conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "play",
		Short: "Play the game in this terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig()

			if err := app.RunTerminal(initLogger(conf, os.Stderr), conf, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	})

	return rootCmd
}

// initialize config.
func initConfig() *config.Config {
	return config.MustLoad(configPath)
}

// initialize logger.
func initLogger(conf *config.Config, out io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
