package container_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ma-tf/motionheic/internal/container"
	osexec_test "github.com/ma-tf/motionheic/internal/service/osexec/mocks"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	mockLookPath := osexec_test.NewMockLookPath(ctrl)
	mockLookPath.EXPECT().
		LookPath("exiftool").
		Return("/usr/bin/exiftool", nil)
	mockLookPath.EXPECT().
		LookPath("adb").
		Return("/usr/bin/adb", nil)

	ctr := container.New(logger, logger, mockLookPath)

	if ctr == nil {
		t.Fatal("expected container to be non-nil")
	}

	if ctr.MergeUseCase == nil {
		t.Fatal("expected MergeUseCase to be wired")
	}

	if ctr.SyncUseCase == nil {
		t.Fatal("expected SyncUseCase to be wired")
	}
}
