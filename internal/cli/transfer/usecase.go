package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ma-tf/motionheic/internal/service/adbtransfer"
	"github.com/ma-tf/motionheic/internal/service/osfs"
)

const skipName = ".DS_Store"

type useCase struct {
	log    *slog.Logger
	fs     osfs.FileSystem
	pusher adbtransfer.Service
}

func NewUseCase(log *slog.Logger, fs osfs.FileSystem, pusher adbtransfer.Service) UseCase {
	return useCase{log: log, fs: fs, pusher: pusher}
}

func (uc useCase) TransferAll(ctx context.Context, dir string) error {
	entries, err := uc.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("transfer: read directory %q: %w", dir, err)
	}

	var failures int

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == skipName {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		uc.log.InfoContext(ctx, "pushing file", slog.String("path", path))

		if err := uc.pusher.Push(ctx, path); err != nil {
			failures++

			uc.log.ErrorContext(ctx, "push failed, continuing",
				slog.String("path", path), slog.Any("error", err))

			continue
		}
	}

	if failures > 0 {
		return fmt.Errorf("transfer: %d file(s) failed to push", failures)
	}

	return nil
}
