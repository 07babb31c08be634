//go:generate mockgen -destination=./mocks/service_mock.go -package=adbtransfer_test github.com/ma-tf/motionheic/internal/service/adbtransfer Service,CommandFactory

// Package adbtransfer pushes a file to an Android device's camera roll over
// adb and triggers a media-scanner broadcast so the new file shows up
// immediately, the way original_source/transfer.py does for a whole folder.
package adbtransfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/ma-tf/motionheic/internal/service/osexec"
)

const cameraRollDir = "/sdcard/DCIM/Camera"

var (
	ErrADBBinaryNotFound  = errors.New("adb binary not found in PATH")
	ErrPush               = errors.New("adb push failed")
	ErrMediaScanBroadcast = errors.New("adb media-scanner broadcast failed")
)

// CommandFactory creates adb command instances, mirroring the
// exiftool.CommandFactory split so adb invocations stay mockable.
type CommandFactory interface {
	// CreateCommand builds an adb command for the given subcommand
	// arguments.
	CreateCommand(ctx context.Context, args ...string) osexec.Command
}

type adbCommandFactory struct{}

// NewCommandFactory creates a CommandFactory that shells out to the real adb
// binary found via lookPath. Panics if adb is not on PATH.
func NewCommandFactory(lookPath osexec.LookPath) CommandFactory {
	if _, err := lookPath.LookPath("adb"); err != nil {
		panic(ErrADBBinaryNotFound)
	}

	return adbCommandFactory{}
}

func (adbCommandFactory) CreateCommand(ctx context.Context, args ...string) osexec.Command {
	return osexec.NewCommand(exec.CommandContext(ctx, "adb", args...))
}

// Service pushes merged Motion Photo files to a connected Android device.
type Service interface {
	// Push copies localPath onto the device's camera roll and asks the
	// media scanner to index it, so it appears in Google Photos' upload
	// queue without a reboot.
	Push(ctx context.Context, localPath string) error
}

type service struct {
	log     *slog.Logger
	factory CommandFactory
}

func NewService(log *slog.Logger, factory CommandFactory) Service {
	return &service{
		log:     log,
		factory: factory,
	}
}

func (s service) Push(ctx context.Context, localPath string) error {
	fileName := filepath.Base(localPath)

	s.log.InfoContext(ctx, "pushing file to device",
		slog.String("local_path", localPath),
		slog.String("camera_roll_dir", cameraRollDir))

	pushCmd := s.factory.CreateCommand(ctx, "push", localPath, cameraRollDir)
	if err := runToCompletion(pushCmd); err != nil {
		return fmt.Errorf("%w: %w", ErrPush, err)
	}

	deviceURI := fmt.Sprintf("file://%s/%s", cameraRollDir, fileName)

	s.log.DebugContext(ctx, "broadcasting media scan", slog.String("uri", deviceURI))

	broadcastCmd := s.factory.CreateCommand(ctx, "shell", "am", "broadcast",
		"-a", "android.intent.action.MEDIA_SCANNER_SCAN_FILE",
		"-d", deviceURI,
	)
	if err := runToCompletion(broadcastCmd); err != nil {
		return fmt.Errorf("%w: %w", ErrMediaScanBroadcast, err)
	}

	s.log.InfoContext(ctx, "file pushed and scanned", slog.String("local_path", localPath))

	return nil
}

func runToCompletion(cmd osexec.Command) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	return cmd.Wait()
}
