package exiftool_test

import (
	"errors"
	"testing"

	"github.com/ma-tf/motionheic/internal/service/exiftool"
	osexec_test "github.com/ma-tf/motionheic/internal/service/osexec/mocks"
	"go.uber.org/mock/gomock"
)

func Test_CommandFactory_CreateCommand(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLookPath := osexec_test.NewMockLookPath(ctrl)
	mockLookPath.EXPECT().
		LookPath("exiftool").
		Return("/usr/bin/exiftool", nil)

	factory := exiftool.NewCommandFactory(mockLookPath)

	// expect this to not panic
	_ = factory.CreateCommand(
		t.Context(),
		"test.heic",
		nil,
		"args",
		nil,
	)
}

func Test_CommandFactory_LookPathFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLookPath := osexec_test.NewMockLookPath(ctrl)
	mockLookPath.EXPECT().
		LookPath("exiftool").
		Return("", errExample)

	defer func() {
		r := recover()

		err, ok := r.(error)
		if !ok {
			t.Errorf("expected panic with error, got: %v", r)

			return
		}

		if !errors.Is(err, exiftool.ErrExifToolBinaryNotFound) {
			t.Errorf("unexpected result or panic: %v", r)
		}
	}()

	_ = exiftool.NewCommandFactory(mockLookPath)
}
