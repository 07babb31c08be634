//go:generate mockgen -destination=./mocks/usecase_mock.go -package=sync_test github.com/ma-tf/motionheic/internal/cli/sync UseCase

// Package sync provides the CLI command that drives a full Photos library
// export: find assets awaiting upload, merge Live Photo pairs into Motion
// Photos, push everything to a connected Android device, and record what
// was exported so the next run skips it.
package sync

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

const requiredArgsCount = 2

// UseCase defines the business logic for a full library sync run.
type UseCase interface {
	// Run exports every pending asset in the library at libraryPath to
	// outputDir, merging Live Photos, pushing to the device, and marking
	// each asset exported.
	Run(ctx context.Context, libraryPath string, outputDir string) error
}

func NewCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <photos_library_path> <output_directory>",
		Short: "Export pending Photos library assets to a device",
		Long: `Query the Photos library package's database for assets not yet
exported, merge every Live Photo pair into a Motion Photo, copy everything
else as-is, push the results to the connected Android device's camera roll,
and record each asset as exported so the next run skips it.`,
		Args: cobra.ExactArgs(requiredArgsCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.DebugContext(ctx, "sync arguments:",
				slog.String("library_path", args[0]),
				slog.String("output_dir", args[1]))

			return uc.Run(ctx, args[0], args[1])
		},
	}
}
