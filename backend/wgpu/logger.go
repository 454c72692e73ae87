//go:build !(js && wasm)

package wgpu

import (
	"log/slog"

	"github.com/gogpu/wgpu/hal"
)

// SetLogger routes HAL diagnostics (device errors, validation, driver
// messages) to l. Pass nil to silence them again. Provider logging goes
// through imageview.SetLogger.
func SetLogger(l *slog.Logger) {
	hal.SetLogger(l)
}
