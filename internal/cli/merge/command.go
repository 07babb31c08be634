//go:generate mockgen -destination=./mocks/usecase_mock.go -package=merge_test github.com/ma-tf/motionheic/internal/cli/merge UseCase

// Package merge provides the CLI command for assembling a Motion Photo out
// of a still image and a companion movie.
package merge

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

const requiredArgsCount = 3

// UseCase defines the business logic for merging a still image and a movie
// into a Motion Photo.
type UseCase interface {
	// Merge writes a Motion Photo combining stillFile and movieFile to
	// outputFile.
	Merge(
		ctx context.Context,
		stillFile string,
		movieFile string,
		outputFile string,
		opts Options,
	) error
}

// Options controls how the merge is performed.
type Options struct {
	// LegacyMicroVideo selects the pre-mpv2 MicroVideo recipe instead of
	// the standard Motion Photo one.
	LegacyMicroVideo bool
	// Force overwrites outputFile if it already exists.
	Force bool
	// CopyTags runs exiftool to copy orientation/GPS/capture-time tags
	// from the still image onto the merged output.
	CopyTags bool
}

func NewCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "merge <still_file> <movie_file> <output_file>",
		Short: "Merge a still image and a movie into a Motion Photo",
		Long: `Assemble a Google-Photos-compatible Motion Photo by appending a
QuickTime/MP4 movie to a HEIC still image and grafting the GCamera XMP
metadata that tells Google Photos where the still ends and the movie
begins.`,
		Args: cobra.ExactArgs(requiredArgsCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.DebugContext(ctx, "merge arguments:",
				slog.String("still_file", args[0]),
				slog.String("movie_file", args[1]),
				slog.String("output_file", args[2]),
				slog.Bool("legacy_microvideo", opts.LegacyMicroVideo),
				slog.Bool("force", opts.Force),
				slog.Bool("copy_tags", opts.CopyTags))

			return uc.Merge(ctx, args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.LegacyMicroVideo, "legacy-microvideo", false,
		"use the legacy MicroVideo recipe instead of mpv2 Motion Photo")
	cmd.Flags().BoolVarP(&opts.Force, "force", "F", false,
		"overwrite output file if it exists")
	cmd.Flags().BoolVar(&opts.CopyTags, "copy-tags", true,
		"copy orientation/GPS/capture-time tags from the still image via exiftool")

	return cmd
}
