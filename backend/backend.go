package backend

import "errors"

// Well-known provider names.
const (
	NameWebGL    = "webgl"
	NameWGPU     = "wgpu"
	NameSoftware = "software"
)

// Common backend errors.
var (
	// ErrNoProvider is returned when no provider is registered.
	ErrNoProvider = errors.New("backend: no provider registered")
)

// ProviderNotFoundError indicates a named provider is not registered.
type ProviderNotFoundError struct {
	Name string
}

func (e *ProviderNotFoundError) Error() string {
	return "backend: provider not found: " + e.Name
}
