//go:generate mockgen -destination=./mocks/factory_mock.go -package=exiftool_test github.com/ma-tf/motionheic/internal/service/exiftool CommandFactory
package exiftool

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/ma-tf/motionheic/internal/service/osexec"
)

var ErrExifToolBinaryNotFound = errors.New("exiftool binary not found in PATH")

// CommandFactory creates configured exiftool command instances.
type CommandFactory interface {
	// CreateCommand builds an exiftool command with all necessary arguments,
	// pipes, and file descriptors configured.
	CreateCommand(
		ctx context.Context,
		targetFile string,
		out *bytes.Buffer,
		args string,
		rPipe *os.File,
	) osexec.Command
}

type exiftoolCommandFactory struct {
	lookPath osexec.LookPath
}

// NewCommandFactory creates a CommandFactory.
// Panics if the exiftool binary is not found in PATH.
func NewCommandFactory(lookPath osexec.LookPath) CommandFactory {
	if _, err := lookPath.LookPath("exiftool"); err != nil {
		panic(ErrExifToolBinaryNotFound)
	}

	return &exiftoolCommandFactory{
		lookPath: lookPath,
	}
}

func (f *exiftoolCommandFactory) CreateCommand(
	ctx context.Context,
	targetFile string,
	out *bytes.Buffer,
	args string,
	rPipe *os.File,
) osexec.Command {
	cmd := exec.CommandContext(ctx, "exiftool",
		"-config", "/proc/self/fd/3",
		"-m",
		"-@", "-",
		targetFile,
	)

	cmd.Stderr = out
	cmd.Stdout = out
	cmd.Stdin = bytes.NewBufferString(args)
	cmd.ExtraFiles = []*os.File{rPipe}

	return osexec.NewCommand(cmd)
}
