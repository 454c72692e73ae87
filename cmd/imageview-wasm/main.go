//go:build js && wasm

// Command imageview-wasm exposes an imageview session to JavaScript.
//
// It installs a global imageview object:
//
//	imageview.initialize(canvasId, width, height)
//	imageview.present(rgba, width, height)
//	imageview.presentFrame(rgba)
//	imageview.setFitMode("contain" | "stretch")
//	imageview.destroy()
//
// rgba is a Uint8Array of tightly packed RGBA8 rows. Every method returns
// null on success or an error message string.
package main

import (
	"errors"
	"fmt"
	"math"
	"syscall/js"

	"github.com/gogpu/imageview"
	"github.com/gogpu/imageview/backend/webgl"
	"github.com/gogpu/imageview/layout"
)

type viewer struct {
	session *imageview.Session
	mode    layout.FitMode
	funcs   []js.Func
}

func main() {
	v := &viewer{mode: layout.FitContain}
	api := js.Global().Get("Object").New()
	v.export(api, "initialize", v.initialize)
	v.export(api, "present", v.present)
	v.export(api, "presentFrame", v.presentFrame)
	v.export(api, "setFitMode", v.setFitMode)
	v.export(api, "destroy", v.destroy)
	js.Global().Set("imageview", api)

	select {}
}

func (v *viewer) export(obj js.Value, name string, fn func(args []js.Value) error) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if err := fn(args); err != nil {
			return err.Error()
		}
		return nil
	})
	obj.Set(name, f)
	v.funcs = append(v.funcs, f)
}

var errArgs = errors.New("imageview: wrong arguments")

func (v *viewer) initialize(args []js.Value) error {
	if len(args) < 3 || args[0].Type() != js.TypeString {
		return errArgs
	}
	w, err := intArg(args[1])
	if err != nil {
		return err
	}
	h, err := intArg(args[2])
	if err != nil {
		return err
	}
	if v.session == nil {
		v.session = imageview.NewSession(webgl.New(), imageview.WithFitMode(v.mode))
	}
	return v.session.Initialize(args[0].String(), w, h)
}

func (v *viewer) present(args []js.Value) error {
	if len(args) < 3 {
		return errArgs
	}
	pix, err := bytesArg(args[0])
	if err != nil {
		return err
	}
	w, err := intArg(args[1])
	if err != nil {
		return err
	}
	h, err := intArg(args[2])
	if err != nil {
		return err
	}
	if v.session == nil {
		return imageview.ErrSessionNotInitialized
	}
	return v.session.Present(pix, w, h)
}

func (v *viewer) presentFrame(args []js.Value) error {
	if len(args) < 1 {
		return errArgs
	}
	pix, err := bytesArg(args[0])
	if err != nil {
		return err
	}
	if v.session == nil {
		return imageview.ErrSessionNotInitialized
	}
	return v.session.PresentViewport(pix)
}

// setFitMode applies to sessions created by the next initialize call after
// destroy.
func (v *viewer) setFitMode(args []js.Value) error {
	if len(args) < 1 {
		return errArgs
	}
	mode, err := layout.ParseFitMode(args[0].String())
	if err != nil {
		return err
	}
	v.mode = mode
	return nil
}

func (v *viewer) destroy([]js.Value) error {
	if v.session == nil {
		return nil
	}
	err := v.session.Close()
	v.session = nil
	return err
}

// intArg accepts a finite integral JS number.
func intArg(arg js.Value) (int, error) {
	if arg.Type() != js.TypeNumber {
		return 0, fmt.Errorf("%w: want a number, got %s", errArgs, arg.Type())
	}
	f := arg.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v is not a valid dimension", errArgs, f)
	}
	return int(f), nil
}

// bytesArg copies a Uint8Array or Uint8ClampedArray (ImageData.data) into
// Go memory.
func bytesArg(arg js.Value) ([]byte, error) {
	if arg.Type() != js.TypeObject ||
		!(arg.InstanceOf(js.Global().Get("Uint8Array")) || arg.InstanceOf(js.Global().Get("Uint8ClampedArray"))) {
		return nil, fmt.Errorf("%w: pixels must be a Uint8Array", errArgs)
	}
	buf := make([]byte, arg.Get("length").Int())
	js.CopyBytesToGo(buf, arg)
	return buf, nil
}
