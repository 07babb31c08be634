/*
Package cmd implements the command line interface for motionheic.

Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/ma-tf/motionheic/internal/cli/inspect"
	"github.com/ma-tf/motionheic/internal/cli/jpeg"
	"github.com/ma-tf/motionheic/internal/cli/merge"
	"github.com/ma-tf/motionheic/internal/cli/sync"
	"github.com/ma-tf/motionheic/internal/cli/transfer"
	"github.com/ma-tf/motionheic/internal/cli/walk"
	"github.com/ma-tf/motionheic/internal/container"
	"github.com/ma-tf/motionheic/internal/service/osexec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//nolint:gochecknoglobals // cobra boilerplate
var (
	cfgFile  string
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	rootCmd  = &cobra.Command{
		Use:   "motionheic",
		Short: "Merges a HEIC still and a movie into a Motion Photo.",
		Long: `motionheic is a command line tool that merges a HEIC still image and a
companion QuickTime/MP4 movie into a single HEIF file carrying a
Google-Photos-compatible Motion Photo payload.

It can merge a single pair, walk a folder of pairs, inspect an existing
Motion Photo's metadata, and sync a macOS Photos library's Live Photos to an
Android device over adb.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := initialiseConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to initialise configuration: %w", err)
			}

			cfgLogLevel := viper.GetString("log.level")
			level := slog.LevelInfo
			switch strings.ToLower(cfgLogLevel) {
			case "debug":
				level = slog.LevelDebug
			case "warn", "warning":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			}

			logLevel.Set(level)

			//nolint:sloglint // global logger is fine here
			logger.DebugContext(
				cmd.Context(),
				"Configuration initialised. Using config file:",
				slog.String("cfgFile", viper.ConfigFileUsed()),
			)

			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// Root returns the application's root command, for tooling (docgen) that
// needs to walk the full command tree without going through Execute.
func Root() *cobra.Command { return rootCmd }

//nolint:gochecknoinits // cobra boilerplate
func init() {
	//nolint:exhaustruct // slog boilerplate
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger = slog.New(handler)

	// walk runs across many files; a colourised level-coded reporter reads
	// easier than the plain handler every other verb uses.
	batchLogger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: logLevel}))

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.motionheic/config)")

	ctr := container.New(logger, batchLogger, osexec.NewLookPath())

	rootCmd.AddCommand(merge.NewCommand(logger, ctr.MergeUseCase))
	rootCmd.AddCommand(inspect.NewCommand(logger, ctr.InspectUseCase))
	rootCmd.AddCommand(walk.NewCommand(logger, ctr.WalkUseCase))
	rootCmd.AddCommand(transfer.NewCommand(logger, ctr.TransferUseCase))
	rootCmd.AddCommand(sync.NewCommand(logger, ctr.SyncUseCase))
	rootCmd.AddCommand(jpeg.NewCommand(logger, ctr.JpegUseCase))
}

func initialiseConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("MOTIONHEIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "*", "-", "*"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("log.level", "MOTIONHEIC_LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind env variable: %w", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for a config file in default locations.
		home, err := os.UserHomeDir()
		// Only panic if we can't get the home directory.
		cobra.CheckErr(err)

		// Search config in home directory with name "config" (without extension).
		viper.AddConfigPath(".")
		viper.AddConfigPath(home + "/.motionheic")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to initialise config: %w", err)
		}
	}

	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to bind config flags: %w", err)
	}

	return nil
}
