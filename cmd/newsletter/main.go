package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deusflow/newsletter/internal/app"
	"github.com/deusflow/newsletter/internal/config"
	"github.com/deusflow/newsletter/internal/logger"
)

var version = "dev"

var (
	configFile string
	port       int
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:          "newsletter",
	Short:        "Keyword news digest service",
	Long:         `Searches news for a keyword, scrapes and deduplicates articles, and summarizes them into a newsletter.`,
	Version:      version,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port > 0 {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, version)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest [keyword...]",
	Short: "Build one newsletter and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, version)
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.Digest(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("digest failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if debugMode {
		cfg.Log.Level = "debug"
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	serveCmd.Flags().IntVar(&port, "port", 0, "Override the listen port")

	rootCmd.AddCommand(serveCmd, digestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
