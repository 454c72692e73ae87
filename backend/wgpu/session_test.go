//go:build !(js && wasm)

package wgpu_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/imageview"
	"github.com/gogpu/imageview/backend/wgpu"
	"github.com/gogpu/imageview/gpucore"
)

func TestSessionOnNoopDevice(t *testing.T) {
	s := imageview.NewSession(wgpu.New(wgpu.WithBackend(gputypes.BackendEmpty)))
	defer s.Close()

	if err := s.Initialize("canvas", 80, 60); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s.State() != imageview.StateReady {
		t.Fatalf("State() = %v, want Ready", s.State())
	}

	pix := make([]byte, 40*30*4)
	if err := s.Present(pix, 40, 30); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if err := s.PresentViewport(make([]byte, 80*60*4)); err != nil {
		t.Fatalf("PresentViewport: %v", err)
	}

	img, err := s.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Errorf("ReadPixels bounds = %v, want 80x60", img.Bounds())
	}

	// Re-initialize at a different size on the same session.
	if err := s.Initialize("canvas", 32, 32); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
	if err := s.Present(pix, 40, 30); err != nil {
		t.Fatalf("Present after re-Initialize: %v", err)
	}
}

func TestSessionNoopWithoutAntialias(t *testing.T) {
	s := imageview.NewSession(
		wgpu.New(wgpu.WithBackend(gputypes.BackendEmpty)),
		imageview.WithAntialias(false),
		imageview.WithFilter(gpucore.FilterNearest),
	)
	defer s.Close()

	if err := s.Initialize("canvas", 16, 16); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.Present(make([]byte, 4), 1, 1); err != nil {
		t.Fatalf("Present: %v", err)
	}
}

func TestSessionUnavailableBackend(t *testing.T) {
	s := imageview.NewSession(wgpu.New(wgpu.WithBackend(gputypes.BackendMetal)))
	err := s.Initialize("canvas", 16, 16)
	if !errors.Is(err, imageview.ErrContextCreationFailed) {
		t.Fatalf("err = %v, want ErrContextCreationFailed", err)
	}
	if s.State() != imageview.StateUninitialized {
		t.Errorf("State() = %v, want Uninitialized", s.State())
	}
}
