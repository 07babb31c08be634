package jpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ma-tf/motionheic/internal/jpeg"
	"github.com/ma-tf/motionheic/internal/service/osfs"
)

var ErrOpenFile = errors.New("failed to open jpeg file")

type useCase struct {
	log *slog.Logger
	fs  osfs.FileSystem
}

func NewUseCase(log *slog.Logger, fs osfs.FileSystem) UseCase {
	return useCase{log: log, fs: fs}
}

func (uc useCase) Describe(ctx context.Context, jpegFile string) error {
	handle, err := uc.fs.Open(jpegFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, jpegFile, err)
	}
	defer handle.Close()

	info, err := uc.fs.Stat(jpegFile)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, jpegFile, err)
	}

	file, err := jpeg.Open(handle, info.Size())
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, jpegFile, err)
	}

	uc.log.InfoContext(ctx, "describing jpeg file", slog.String("jpeg_file", jpegFile))

	fmt.Fprintf(os.Stdout, "%d marker(s)\n", len(file.Markers))

	for _, marker := range file.Markers {
		fmt.Fprintf(os.Stdout, "  offset=%-8d type=%#02x (%s) size=%d\n",
			marker.Offset, marker.Type, markerName(marker.Type), marker.Size)
	}

	return nil
}

func markerName(t uint8) string {
	switch {
	case t == jpeg.TypeSOI:
		return "SOI"
	case t == jpeg.TypeEOI:
		return "EOI"
	case t == jpeg.TypeSOF0:
		return "SOF0"
	case t == jpeg.TypeSOF2:
		return "SOF2"
	case t == jpeg.TypeDHT:
		return "DHT"
	case t == jpeg.TypeDQT:
		return "DQT"
	case t == jpeg.TypeDRI:
		return "DRI"
	case t == jpeg.TypeSOS:
		return "SOS"
	case t == jpeg.TypeCOM:
		return "COM"
	case t >= 0xd0 && t < 0xd8:
		return "RSTn"
	case t >= 0xe0 && t <= 0xef:
		return "APPn"
	default:
		return "unknown"
	}
}
