package cli

import "errors"

var (
	ErrStillFileMustBeProvided  = errors.New("still image file must be specified")
	ErrMovieFileMustBeProvided  = errors.New("movie file must be specified")
	ErrOutputFileMustBeProvided = errors.New("output file must be specified")
	ErrTooManyArguments         = errors.New("too many arguments provided")
	ErrFailedToGetForceFlag     = errors.New("failed to get force flag")
	ErrOutputFileAlreadyExists  = errors.New("output file already exists")
)
