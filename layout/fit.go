package layout

import (
	"fmt"
	"strings"
)

// FitMode selects how an image is mapped onto the viewport.
type FitMode uint8

const (
	// FitContain preserves the aspect ratio and keeps the whole image
	// visible, centered. This is the default.
	FitContain FitMode = iota

	// FitStretch fills the whole viewport, distorting the image when the
	// aspect ratios differ.
	FitStretch
)

// String returns the lowercase name of the mode.
func (m FitMode) String() string {
	switch m {
	case FitContain:
		return "contain"
	case FitStretch:
		return "stretch"
	default:
		return fmt.Sprintf("FitMode(%d)", uint8(m))
	}
}

// Valid reports whether m is a known mode.
func (m FitMode) Valid() bool {
	return m == FitContain || m == FitStretch
}

// ParseFitMode converts a mode name ("contain" or "stretch", case
// insensitive) to a FitMode.
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contain", "":
		return FitContain, nil
	case "stretch":
		return FitStretch, nil
	default:
		return FitContain, fmt.Errorf("%w: %q", ErrInvalidFitMode, s)
	}
}
