package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ma-tf/motionheic/internal/heif"
	"github.com/ma-tf/motionheic/internal/service/osfs"
)

var ErrOpenFile = errors.New("failed to open heic file")

type useCase struct {
	log *slog.Logger
	fs  osfs.FileSystem
}

func NewUseCase(log *slog.Logger, fs osfs.FileSystem) UseCase {
	return useCase{log: log, fs: fs}
}

func (uc useCase) Describe(ctx context.Context, heicFile string) error {
	handle, err := uc.fs.Open(heicFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, heicFile, err)
	}
	defer handle.Close()

	info, err := uc.fs.Stat(heicFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, heicFile, err)
	}

	image, err := heif.Open(handle, info.Size())
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, heicFile, err)
	}

	uc.log.InfoContext(ctx, "describing heic file", slog.String("heic_file", heicFile))

	entries := image.Meta.IINF.Entries()

	fmt.Fprintf(os.Stdout, "iinf: %d item(s)\n", len(entries))

	var mimeIDs []uint16

	for _, entry := range entries {
		fmt.Fprintf(os.Stdout, "  id=0x%04x inf=%q", entry.ID, entry.Inf)

		if entry.Inf == "mime" {
			fmt.Fprintf(os.Stdout, " mime=%q", entry.Mime)
			mimeIDs = append(mimeIDs, entry.ID)
		}

		fmt.Fprintln(os.Stdout)
	}

	fmt.Fprintf(os.Stdout, "found %d xmp-kind item(s): %v\n", len(mimeIDs), mimeIDs)

	for _, chunk := range image.Content.Chunks() {
		xmpChunk, ok := image.Content.XMP(chunk.ID)
		if !ok {
			continue
		}

		doc, err := xmpChunk.Document()
		if err != nil {
			return fmt.Errorf("inspect: xmp chunk 0x%04x: %w", chunk.ID, err)
		}

		fmt.Fprintf(os.Stdout, "--- xmp chunk 0x%04x ---\n", chunk.ID)
		os.Stdout.Write(doc.Serialize())
		fmt.Fprintln(os.Stdout)
	}

	return nil
}
