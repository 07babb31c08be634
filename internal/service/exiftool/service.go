//go:generate mockgen -destination=./mocks/service_mock.go -package=exiftool_test github.com/ma-tf/motionheic/internal/service/exiftool Service

// Package exiftool shells out to exiftool to copy still-image metadata onto
// a merged Motion Photo output, since the ISOBMFF box surgery in
// internal/motionphoto never touches EXIF/GPS tags.
package exiftool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// copiedTags are the still image's tags worth preserving on the merged
// output: orientation (the movie has none of its own), the full GPS group,
// and the original capture time.
var copiedTags = []string{
	"Orientation",
	"GPS:All",
	"DateTimeOriginal",
	"CreateDate",
}

var ErrCopyTags = errors.New("failed to copy tags onto merged file")

// Service copies metadata from a still image onto the file that replaces it.
type Service interface {
	// CopyTags copies orientation, GPS, and capture-time tags from
	// sourceFile onto targetFile, overwriting targetFile in place.
	CopyTags(ctx context.Context, sourceFile, targetFile string) error
}

type service struct {
	log    *slog.Logger
	runner Runner
}

func NewService(log *slog.Logger, runner Runner) Service {
	return &service{
		log:    log,
		runner: runner,
	}
}

func (s service) CopyTags(ctx context.Context, sourceFile, targetFile string) error {
	s.log.InfoContext(ctx, "copying tags onto merged file",
		slog.String("source_file", sourceFile),
		slog.String("target_file", targetFile))

	var args strings.Builder

	fmt.Fprintf(&args, "-TagsFromFile\n%s\n", sourceFile)

	for _, tag := range copiedTags {
		fmt.Fprintf(&args, "-%s\n", tag)
	}

	args.WriteString("-overwrite_original\n")

	if err := s.runner.Run(ctx, targetFile, args.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyTags, err)
	}

	s.log.InfoContext(ctx, "tags copied", slog.String("target_file", targetFile))

	return nil
}
