package exiftool_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ma-tf/motionheic/internal/service/exiftool"
	exiftool_test "github.com/ma-tf/motionheic/internal/service/exiftool/mocks"
	"go.uber.org/mock/gomock"
)

func Test_Service_CopyTags(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := exiftool_test.NewMockRunner(ctrl)

	mockRunner.EXPECT().
		Run(gomock.Any(), "out.heic", gomock.Any()).
		DoAndReturn(func(_ interface{}, _ string, args string) error {
			for _, want := range []string{
				"-TagsFromFile",
				"src.heic",
				"-Orientation",
				"-GPS:All",
				"-DateTimeOriginal",
				"-overwrite_original",
			} {
				if !strings.Contains(args, want) {
					t.Errorf("args missing %q:\n%s", want, args)
				}
			}

			return nil
		})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := exiftool.NewService(log, mockRunner)

	if err := svc.CopyTags(t.Context(), "src.heic", "out.heic"); err != nil {
		t.Fatalf("CopyTags: %v", err)
	}
}

func Test_Service_CopyTags_RunnerFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := exiftool_test.NewMockRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(errExample)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := exiftool.NewService(log, mockRunner)

	err := svc.CopyTags(t.Context(), "src.heic", "out.heic")
	if err == nil {
		t.Fatal("expected error")
	}
}
