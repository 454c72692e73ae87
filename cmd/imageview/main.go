//go:build !(js && wasm)

// Command imageview fits an image file into a viewport offscreen and writes
// the rendered viewport as PNG.
//
// Usage:
//
//	imageview -in photo.jpg -out view.png -width 800 -height 600
//	imageview -in scan.tiff -fit stretch -backend software -filter nearest
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/imageview"
	"github.com/gogpu/imageview/backend"
	_ "github.com/gogpu/imageview/backend/software"
	"github.com/gogpu/imageview/backend/wgpu"
	"github.com/gogpu/imageview/gpucore"
	"github.com/gogpu/imageview/layout"
)

type config struct {
	in, out       string
	width, height int
	fit           string
	backend       string
	filter        string
	power         string
	noAntialias   bool
	verbose       bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
	flag.StringVar(&cfg.out, "out", "imageview.png", "output PNG file")
	flag.IntVar(&cfg.width, "width", 800, "viewport width")
	flag.IntVar(&cfg.height, "height", 600, "viewport height")
	flag.StringVar(&cfg.fit, "fit", "contain", "fit mode: contain or stretch")
	flag.StringVar(&cfg.backend, "backend", "", "provider name (default: best available)")
	flag.StringVar(&cfg.filter, "filter", "linear", "texture filter: linear or nearest")
	flag.StringVar(&cfg.power, "power", "default", "power preference: default, low-power or high-performance")
	flag.BoolVar(&cfg.noAntialias, "no-antialias", false, "disable multisampling")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	flag.Parse()

	if cfg.in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.verbose {
		l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		imageview.SetLogger(l)
		wgpu.SetLogger(l)
	}

	if err := run(&cfg); err != nil {
		log.Fatalf("imageview: %v", err)
	}
	log.Printf("Viewport saved to %s (%dx%d)\n", cfg.out, cfg.width, cfg.height)
}

func run(cfg *config) error {
	opts, err := sessionOptions(cfg)
	if err != nil {
		return err
	}
	frame, err := decodeFrame(cfg.in)
	if err != nil {
		return err
	}

	s, err := openSession(cfg, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.PresentFrame(frame); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	img, err := s.ReadPixels()
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}

	f, err := os.Create(cfg.out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", cfg.out, err)
	}
	return f.Close()
}

func sessionOptions(cfg *config) ([]imageview.Option, error) {
	mode, err := layout.ParseFitMode(cfg.fit)
	if err != nil {
		return nil, err
	}
	filter, err := parseFilter(cfg.filter)
	if err != nil {
		return nil, err
	}
	power, err := parsePower(cfg.power)
	if err != nil {
		return nil, err
	}
	return []imageview.Option{
		imageview.WithFitMode(mode),
		imageview.WithFilter(filter),
		imageview.WithAntialias(!cfg.noAntialias),
		imageview.WithPowerPreference(power),
	}, nil
}

// openSession initializes a session on the named provider, or on the first
// registered provider that succeeds.
func openSession(cfg *config, opts []imageview.Option) (*imageview.Session, error) {
	names := []string{cfg.backend}
	if cfg.backend == "" {
		names = backend.Available()
	}
	if len(names) == 0 {
		return nil, backend.ErrNoProvider
	}

	var errs []error
	for _, name := range names {
		p, err := backend.Get(name)
		if err != nil {
			return nil, err
		}
		s := imageview.NewSession(p, opts...)
		if err := s.Initialize(cfg.out, cfg.width, cfg.height); err != nil {
			if errors.Is(err, imageview.ErrInvalidDimensions) {
				return nil, err
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		imageview.Logger().Info("imageview: provider selected", "name", name)
		return s, nil
	}
	return nil, errors.Join(errs...)
}

func parseFilter(s string) (gpucore.FilterMode, error) {
	switch s {
	case "linear", "":
		return gpucore.FilterLinear, nil
	case "nearest":
		return gpucore.FilterNearest, nil
	default:
		return 0, fmt.Errorf("unknown filter %q", s)
	}
}

func parsePower(s string) (gpucore.PowerPreference, error) {
	for _, p := range []gpucore.PowerPreference{gpucore.PowerDefault, gpucore.PowerLowPower, gpucore.PowerHighPerformance} {
		if p.String() == s {
			return p, nil
		}
	}
	if s == "" {
		return gpucore.PowerDefault, nil
	}
	return 0, fmt.Errorf("unknown power preference %q", s)
}
