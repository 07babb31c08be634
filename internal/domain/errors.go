package domain

import "errors"

var (
	ErrNoCompanionMovie = errors.New("no companion movie found for still image")
	ErrUnsupportedStillExtension = errors.New(
		"unsupported still image extension (want .heic or .jpeg)",
	)
	ErrLivePhotoRequiresHEIC = errors.New(
		"live photo export is only supported for HEIC stills",
	)
	ErrAssetAlreadyExported = errors.New("asset already exported to device")
	ErrUnknownAssetSubtype  = errors.New("unknown photo library asset subtype")
)
