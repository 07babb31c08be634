//go:generate mockgen -destination=./mocks/usecase_mock.go -package=inspect_test github.com/ma-tf/motionheic/internal/cli/inspect UseCase

// Package inspect provides the CLI command for printing a HEIF file's
// item-info table and XMP payload without modifying it.
package inspect

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

const requiredArgsCount = 1

// UseCase defines the business logic for describing a HEIF file.
type UseCase interface {
	// Describe writes a human-readable report of heicFile's item-info
	// table and XMP payload to w.
	Describe(ctx context.Context, heicFile string) error
}

func NewCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <heic_file>",
		Short: "Print a HEIF file's item-info table and XMP payload",
		Long: `Describe a HEIC/HEIF file: list every iinf entry, flag the XMP item, and
print its reserialized XMP payload, without mutating the file.`,
		Args: cobra.ExactArgs(requiredArgsCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.DebugContext(ctx, "inspect arguments:", slog.String("heic_file", args[0]))

			return uc.Describe(ctx, args[0])
		},
	}
}
