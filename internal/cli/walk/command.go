//go:generate mockgen -destination=./mocks/usecase_mock.go -package=walk_test github.com/ma-tf/motionheic/internal/cli/walk UseCase

// Package walk provides the CLI command for batch-merging every still/movie
// pair found in a folder.
package walk

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

const requiredArgsCount = 1

// UseCase defines the business logic for batch-merging a folder of still
// images with their companion movies.
type UseCase interface {
	// Walk pairs every still image in dir with a same-named movie and
	// merges each pair, logging and continuing past individual failures.
	// It returns an error if any pair failed.
	Walk(ctx context.Context, dir string, legacyMicroVideo bool) error
}

func NewCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	var legacyMicroVideo bool

	cmd := &cobra.Command{
		Use:   "walk <directory>",
		Short: "Merge every still/movie pair found in a folder",
		Long: `Walk a directory, pair each .heic/.jpeg still with a same-named .mov or
.mp4 movie, and merge every pair found. A failure on one pair is logged and
the walk continues; the command exits non-zero if any pair failed.`,
		Args: cobra.ExactArgs(requiredArgsCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.DebugContext(ctx, "walk arguments:",
				slog.String("directory", args[0]),
				slog.Bool("legacy_microvideo", legacyMicroVideo))

			return uc.Walk(ctx, args[0], legacyMicroVideo)
		},
	}

	cmd.Flags().BoolVar(&legacyMicroVideo, "legacy-microvideo", false,
		"use the legacy MicroVideo recipe instead of mpv2 Motion Photo")

	return cmd
}
