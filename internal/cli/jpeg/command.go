//go:generate mockgen -destination=./mocks/usecase_mock.go -package=jpeg_test github.com/ma-tf/motionheic/internal/cli/jpeg UseCase

// Package jpeg provides the CLI command for printing a JPEG file's marker
// table, the JPEG-side counterpart to inspect's HEIF item-info listing.
package jpeg

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

const requiredArgsCount = 1

// UseCase defines the business logic for describing a JPEG file's markers.
type UseCase interface {
	// Describe writes a human-readable listing of every marker found in
	// jpegFile.
	Describe(ctx context.Context, jpegFile string) error
}

func NewCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "jpeg <jpeg_file>",
		Short: "Print a JPEG file's marker table",
		Long: `Walk a JPEG file's marker sequence (SOI, SOFn, DHT, DQT, DRI, APPn,
COM, RSTn, SOS) and print each marker's type, offset and size.`,
		Args: cobra.ExactArgs(requiredArgsCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.DebugContext(ctx, "jpeg arguments:", slog.String("jpeg_file", args[0]))

			return uc.Describe(ctx, args[0])
		},
	}
}
