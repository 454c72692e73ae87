//go:build js && wasm

package main

import (
	"errors"
	"math"
	"syscall/js"
	"testing"

	"github.com/gogpu/imageview"
)

func TestIntArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     js.Value
		want    int
		wantErr bool
	}{
		{"integer", js.ValueOf(640), 640, false},
		{"integral float", js.ValueOf(480.0), 480, false},
		{"fraction", js.ValueOf(1.5), 0, true},
		{"nan", js.ValueOf(math.NaN()), 0, true},
		{"infinity", js.ValueOf(math.Inf(1)), 0, true},
		{"too large", js.ValueOf(math.Pow(2, 31)), 0, true},
		{"string", js.ValueOf("640"), 0, true},
		{"undefined", js.Undefined(), 0, true},
	}
	for _, tt := range tests {
		got, err := intArg(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: intArg() error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errArgs) {
			t.Errorf("%s: error %v does not match errArgs", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: intArg() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestBytesArg(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	for _, ctor := range []string{"Uint8Array", "Uint8ClampedArray"} {
		arr := js.Global().Get(ctor).New(len(src))
		js.CopyBytesToJS(arr, src)
		got, err := bytesArg(arr)
		if err != nil {
			t.Fatalf("%s: bytesArg() error = %v", ctor, err)
		}
		if string(got) != string(src) {
			t.Errorf("%s: bytesArg() = %v, want %v", ctor, got, src)
		}
	}

	for name, arg := range map[string]js.Value{
		"ArrayBuffer": js.Global().Get("ArrayBuffer").New(4),
		"Array":       js.ValueOf([]any{1, 2, 3, 4}),
		"number":      js.ValueOf(4),
		"null":        js.Null(),
	} {
		if _, err := bytesArg(arg); !errors.Is(err, errArgs) {
			t.Errorf("%s: bytesArg() error = %v, want errArgs", name, err)
		}
	}
}

func TestViewerRejectsBadArguments(t *testing.T) {
	v := &viewer{}
	if err := v.present([]js.Value{js.Global().Get("ArrayBuffer").New(16), js.ValueOf(2), js.ValueOf(2)}); !errors.Is(err, errArgs) {
		t.Errorf("present(ArrayBuffer) error = %v, want errArgs", err)
	}
	if err := v.initialize([]js.Value{js.ValueOf(1), js.ValueOf(2), js.ValueOf(2)}); !errors.Is(err, errArgs) {
		t.Errorf("initialize(number id) error = %v, want errArgs", err)
	}
	if v.session != nil {
		t.Error("rejected initialize created a session")
	}

	pix := js.Global().Get("Uint8Array").New(0)
	if err := v.presentFrame([]js.Value{pix}); !errors.Is(err, imageview.ErrSessionNotInitialized) {
		t.Errorf("presentFrame() error = %v, want ErrSessionNotInitialized", err)
	}
}
