package vectorize

import "errors"

var (
	// ErrInputUnreadable is returned when the input image cannot be loaded.
	ErrInputUnreadable = errors.New("no image file found at specified input path")

	// ErrOutputNotWritable is returned when the output file cannot be written.
	ErrOutputNotWritable = errors.New("cannot create output file")
)
