// Package container provides dependency injection for motionheic's services.
//
// It wires together all the services and CLI use cases needed by the
// application, making them available through a single Container struct.
package container

import (
	"log/slog"

	"github.com/ma-tf/motionheic/internal/cli/inspect"
	"github.com/ma-tf/motionheic/internal/cli/jpeg"
	"github.com/ma-tf/motionheic/internal/cli/merge"
	"github.com/ma-tf/motionheic/internal/cli/sync"
	"github.com/ma-tf/motionheic/internal/cli/transfer"
	"github.com/ma-tf/motionheic/internal/cli/walk"
	"github.com/ma-tf/motionheic/internal/service/adbtransfer"
	"github.com/ma-tf/motionheic/internal/service/exiftool"
	"github.com/ma-tf/motionheic/internal/service/osexec"
	"github.com/ma-tf/motionheic/internal/service/osfs"
	"github.com/ma-tf/motionheic/internal/service/photolibrary"
)

// Container holds all application dependencies and services.
// It provides a centralized location for dependency management and injection.
type Container struct {
	Logger          *slog.Logger
	FileSystem      osfs.FileSystem
	LookPath        osexec.LookPath
	ExifToolService exiftool.Service
	AdbService      adbtransfer.Service

	MergeUseCase    merge.UseCase
	InspectUseCase  inspect.UseCase
	WalkUseCase     walk.UseCase
	TransferUseCase transfer.UseCase
	SyncUseCase     sync.UseCase
	JpegUseCase     jpeg.UseCase
}

// New creates and initializes a Container with all required services and
// dependencies. lookPath is consulted eagerly for every shelled-out binary
// (exiftool, adb); missing binaries panic the same way the teacher's
// exif.NewExiftoolCommandFactory does, since there is no way to run the tool
// without them. batchLogger is used for the folder-walk use case, which
// benefits from a colourised level-coded reporter the way a long-running
// multi-file tool does; every other use case gets the plain logger.
func New(logger *slog.Logger, batchLogger *slog.Logger, lookPath osexec.LookPath) *Container {
	fs := osfs.NewFileSystem()

	exifToolService := exiftool.NewService(
		logger,
		exiftool.NewRunner(fs, exiftool.NewCommandFactory(lookPath)),
	)

	adbService := adbtransfer.NewService(
		logger,
		adbtransfer.NewCommandFactory(lookPath),
	)

	mergeUseCase := merge.NewUseCase(logger, fs, exifToolService)

	return &Container{
		Logger:          logger,
		FileSystem:      fs,
		LookPath:        lookPath,
		ExifToolService: exifToolService,
		AdbService:      adbService,

		MergeUseCase:    mergeUseCase,
		InspectUseCase:  inspect.NewUseCase(logger, fs),
		WalkUseCase:     walk.NewUseCase(batchLogger, fs, mergeUseCase),
		TransferUseCase: transfer.NewUseCase(logger, fs, adbService),
		SyncUseCase:     sync.NewUseCase(logger, fs, mergeUseCase, adbService, photolibrary.Open),
		JpegUseCase:     jpeg.NewUseCase(logger, fs),
	}
}
