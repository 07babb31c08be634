package walk

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ma-tf/motionheic/internal/cli/merge"
	"github.com/ma-tf/motionheic/internal/domain"
	"github.com/ma-tf/motionheic/internal/service/osfs"
)

var stillExtensions = map[string]bool{
	".heic": true,
	".jpeg": true,
	".jpg":  true,
}

var movieExtensions = map[string]bool{
	".mov": true,
	".mp4": true,
}

const outputSuffix = "_motion"

type useCase struct {
	log    *slog.Logger
	fs     osfs.FileSystem
	merger merge.UseCase
}

func NewUseCase(log *slog.Logger, fs osfs.FileSystem, merger merge.UseCase) UseCase {
	return useCase{log: log, fs: fs, merger: merger}
}

func (uc useCase) Walk(ctx context.Context, dir string, legacyMicroVideo bool) error {
	entries, err := uc.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("walk: read directory %q: %w", dir, err)
	}

	byStem := make(map[string]string, len(entries))
	movieByStem := make(map[string]string, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		stem := strings.TrimSuffix(name, filepath.Ext(name))

		switch {
		case stillExtensions[ext]:
			byStem[stem] = name
		case movieExtensions[ext]:
			movieByStem[stem] = name
		}
	}

	var pairs []domain.Pair

	for stem, stillName := range byStem {
		movieName, ok := movieByStem[stem]
		if !ok {
			uc.log.WarnContext(ctx, "no companion movie, skipping", slog.String("still", stillName))

			continue
		}

		pairs = append(pairs, domain.Pair{
			StillPath: filepath.Join(dir, stillName),
			MoviePath: filepath.Join(dir, movieName),
		})
	}

	var failures int

	for _, pair := range pairs {
		outputPath := outputPathFor(pair)

		uc.log.InfoContext(ctx, "merging pair",
			slog.String("still", pair.StillPath),
			slog.String("movie", pair.MoviePath))

		err := uc.merger.Merge(ctx, pair.StillPath, pair.MoviePath, outputPath, merge.Options{
			LegacyMicroVideo: legacyMicroVideo,
			CopyTags:         true,
		})
		if err != nil {
			failures++

			uc.log.ErrorContext(ctx, "merge failed, continuing",
				slog.String("still", pair.Name()),
				slog.Any("error", err))

			continue
		}
	}

	if failures > 0 {
		return fmt.Errorf("walk: %d pair(s) failed to merge", failures)
	}

	return nil
}

func outputPathFor(pair domain.Pair) string {
	dir := filepath.Dir(pair.StillPath)
	ext := filepath.Ext(pair.StillPath)
	stem := strings.TrimSuffix(pair.Name(), ext)

	return filepath.Join(dir, stem+outputSuffix+ext)
}
