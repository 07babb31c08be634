package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ma-tf/motionheic/internal/cli"
	"github.com/ma-tf/motionheic/internal/heif"
	"github.com/ma-tf/motionheic/internal/motionphoto"
	"github.com/ma-tf/motionheic/internal/qt"
	"github.com/ma-tf/motionheic/internal/service/exiftool"
	"github.com/ma-tf/motionheic/internal/service/osfs"
)

const outputPermission = 0o644

var (
	ErrOpenStillFile       = errors.New("failed to open still image file")
	ErrOpenMovieFile       = errors.New("failed to open movie file")
	ErrAssembleMotionPhoto = errors.New("failed to assemble motion photo")
	ErrCreateOutputFile    = errors.New("failed to create output file")
	ErrCommitOutput        = errors.New("failed to write merged output")
	ErrCopyTags            = errors.New("failed to copy tags onto merged output")
)

type useCase struct {
	log         *slog.Logger
	fs          osfs.FileSystem
	exifService exiftool.Service
}

// NewUseCase creates the merge UseCase. exifService may be nil; when it is,
// Options.CopyTags is ignored so merge keeps working on systems without
// exiftool installed.
func NewUseCase(log *slog.Logger, fs osfs.FileSystem, exifService exiftool.Service) UseCase {
	return useCase{
		log:         log,
		fs:          fs,
		exifService: exifService,
	}
}

func (uc useCase) Merge(
	ctx context.Context,
	stillFile string,
	movieFile string,
	outputFile string,
	opts Options,
) error {
	uc.log.InfoContext(ctx, "starting motion photo merge",
		slog.String("still_file", stillFile),
		slog.String("movie_file", movieFile),
		slog.String("output_file", outputFile),
		slog.Bool("legacy_microvideo", opts.LegacyMicroVideo))

	stillHandle, err := uc.fs.Open(stillFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenStillFile, stillFile, err)
	}
	defer stillHandle.Close()

	stillInfo, err := uc.fs.Stat(stillFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenStillFile, stillFile, err)
	}

	image, err := heif.Open(stillHandle, stillInfo.Size())
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenStillFile, stillFile, err)
	}

	movieHandle, err := uc.fs.Open(movieFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenMovieFile, movieFile, err)
	}
	defer movieHandle.Close()

	movieInfo, err := uc.fs.Stat(movieFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenMovieFile, movieFile, err)
	}

	movie, err := qt.Open(movieHandle, movieInfo.Size())
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenMovieFile, movieFile, err)
	}

	mode := motionphoto.ModeMotionPhoto
	if opts.LegacyMicroVideo {
		mode = motionphoto.ModeMicroVideo
	}

	if err := motionphoto.Assemble(image, movie, mode); err != nil {
		return fmt.Errorf("%w: %w", ErrAssembleMotionPhoto, err)
	}

	uc.log.DebugContext(ctx, "motion photo assembled",
		slog.Int64("output_size", image.CurrentSize()))

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	out, err := uc.fs.OpenFile(outputFile, flags, outputPermission)
	if err != nil {
		if !opts.Force && errors.Is(err, os.ErrExist) {
			return cli.ErrOutputFileAlreadyExists
		}

		return fmt.Errorf("%w %q: %w", ErrCreateOutputFile, outputFile, err)
	}
	defer out.Close()

	if err := image.Commit(out); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitOutput, err)
	}

	uc.log.InfoContext(ctx, "motion photo written", slog.String("output_file", outputFile))

	if opts.CopyTags && uc.exifService != nil {
		if err := uc.exifService.CopyTags(ctx, stillFile, outputFile); err != nil {
			return fmt.Errorf("%w: %w", ErrCopyTags, err)
		}
	}

	uc.log.InfoContext(ctx, "merge completed successfully")

	return nil
}
