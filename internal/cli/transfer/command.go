//go:generate mockgen -destination=./mocks/usecase_mock.go -package=transfer_test github.com/ma-tf/motionheic/internal/cli/transfer UseCase

// Package transfer provides the CLI command for pushing every file in a
// folder onto a connected Android device's camera roll via adb.
package transfer

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

const requiredArgsCount = 1

// UseCase defines the business logic for pushing a folder's files to a
// device over adb.
type UseCase interface {
	// TransferAll pushes every regular file in dir to the device, skipping
	// entries like .DS_Store that are never camera-roll media.
	TransferAll(ctx context.Context, dir string) error
}

func NewCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <directory>",
		Short: "Push every file in a folder to the device's camera roll",
		Long: `Push each file in the given folder to /sdcard/DCIM/Camera on a
connected Android device via adb, then trigger a media-scanner broadcast so
it shows up in the gallery immediately.`,
		Args: cobra.ExactArgs(requiredArgsCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.DebugContext(ctx, "transfer arguments:", slog.String("directory", args[0]))

			return uc.TransferAll(ctx, args[0])
		},
	}
}
