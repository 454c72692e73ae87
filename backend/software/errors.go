package software

import "errors"

// Package errors for the software provider.
var (
	// ErrPerformanceCaveat is returned when a context is requested with
	// FailOnPerformanceCaveat, which a CPU rasterizer always trips.
	ErrPerformanceCaveat = errors.New("software: major performance caveat")

	// ErrInvalidBufferSize is returned by CreateBuffer for a size <= 0.
	ErrInvalidBufferSize = errors.New("software: invalid buffer size")
)
