package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when an image or viewport dimension
	// is zero or negative.
	ErrInvalidDimensions = errors.New("layout: invalid dimensions")

	// ErrInvalidFitMode is returned for a FitMode value or name that is not
	// recognized.
	ErrInvalidFitMode = errors.New("layout: invalid fit mode")
)

// DimensionsError reports the offending sizes of a rejected layout request.
// It matches ErrInvalidDimensions with errors.Is.
type DimensionsError struct {
	ImageWidth, ImageHeight       int
	ViewportWidth, ViewportHeight int
}

func (e *DimensionsError) Error() string {
	return fmt.Sprintf("layout: invalid dimensions: image %dx%d, viewport %dx%d",
		e.ImageWidth, e.ImageHeight, e.ViewportWidth, e.ViewportHeight)
}

// Unwrap returns ErrInvalidDimensions.
func (e *DimensionsError) Unwrap() error { return ErrInvalidDimensions }
