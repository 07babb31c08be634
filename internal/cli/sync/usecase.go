package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ma-tf/motionheic/internal/cli/merge"
	"github.com/ma-tf/motionheic/internal/domain"
	"github.com/ma-tf/motionheic/internal/service/adbtransfer"
	"github.com/ma-tf/motionheic/internal/service/osfs"
	"github.com/ma-tf/motionheic/internal/service/photolibrary"
)

const copyPermission = 0o644

var ErrOpenLibrary = errors.New("failed to open photos library")

// OpenStore opens the export-bookkeeping-aware database at dbPath. It is a
// function value rather than an interface method so tests can substitute a
// fake without standing up a real sqlite file.
type OpenStore func(ctx context.Context, dbPath string) (photolibrary.Store, error)

type useCase struct {
	log       *slog.Logger
	fs        osfs.FileSystem
	merger    merge.UseCase
	pusher    adbtransfer.Service
	openStore OpenStore
}

func NewUseCase(
	log *slog.Logger,
	fs osfs.FileSystem,
	merger merge.UseCase,
	pusher adbtransfer.Service,
	openStore OpenStore,
) UseCase {
	return useCase{log: log, fs: fs, merger: merger, pusher: pusher, openStore: openStore}
}

func (uc useCase) Run(ctx context.Context, libraryPath string, outputDir string) error {
	dbPath := filepath.Join(libraryPath, "database", "Photos.sqlite")

	store, err := uc.openStore(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenLibrary, dbPath, err)
	}
	defer store.Close()

	library := photolibrary.NewLibrary(libraryPath)

	assets, err := store.PendingAssets(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	uc.log.InfoContext(ctx, "found pending assets", slog.Int("count", len(assets)))

	var failures int

	for _, asset := range assets {
		if err := uc.exportOne(ctx, library, store, asset, outputDir); err != nil {
			failures++

			uc.log.ErrorContext(ctx, "export failed, continuing",
				slog.Int64("pk", asset.PK), slog.Any("error", err))

			continue
		}
	}

	if failures > 0 {
		return fmt.Errorf("sync: %d asset(s) failed to export", failures)
	}

	return nil
}

func (uc useCase) exportOne(
	ctx context.Context,
	library *photolibrary.Library,
	store photolibrary.Store,
	asset photolibrary.Asset,
	outputDir string,
) error {
	resolved, err := library.Resolve(asset)
	if err != nil {
		return fmt.Errorf("resolve asset: %w", err)
	}

	outputPath := filepath.Join(outputDir, resolved.OutputFilename)

	switch {
	case resolved.Subtype == domain.AssetLivePhoto && strings.EqualFold(filepath.Ext(resolved.OriginalPath), ".heic"):
		err = uc.merger.Merge(ctx, resolved.OriginalPath, resolved.MoviePath, outputPath, merge.Options{CopyTags: true})
	case resolved.Subtype == domain.AssetLivePhoto:
		// JPEG Live Photos aren't merged yet; fall through to a plain copy
		// the way photo_sync.py's copy_to_output did before giving up on them.
		uc.log.WarnContext(ctx, "jpeg live photo export not supported, copying still only",
			slog.Int64("pk", asset.PK))

		err = uc.copyFile(resolved.OriginalPath, outputPath)
	default:
		err = uc.copyFile(resolved.OriginalPath, outputPath)
	}

	if err != nil {
		return fmt.Errorf("produce output for pk=%d: %w", asset.PK, err)
	}

	if err := uc.pusher.Push(ctx, outputPath); err != nil {
		return fmt.Errorf("push output for pk=%d: %w", asset.PK, err)
	}

	if err := store.MarkExported(ctx, asset.PK); err != nil {
		return fmt.Errorf("mark exported for pk=%d: %w", asset.PK, err)
	}

	uc.log.InfoContext(ctx, "asset exported",
		slog.Int64("pk", asset.PK), slog.String("output", outputPath))

	return nil
}

func (uc useCase) copyFile(src, dst string) error {
	in, err := uc.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source %q: %w", src, err)
	}
	defer in.Close()

	out, err := uc.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, copyPermission)
	if err != nil {
		return fmt.Errorf("create destination %q: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %q to %q: %w", src, dst, err)
	}

	return nil
}
