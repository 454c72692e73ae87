package backend

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/imageview/gpucore"
)

type stubProvider struct{ name string }

func (p stubProvider) Name() string { return p.name }

func (p stubProvider) CreateContext(string, gpucore.ContextOptions) (gpucore.Context, error) {
	return nil, gpucore.ErrContextCreationFailed
}

func register(t *testing.T, name string) {
	t.Helper()
	Register(name, func() gpucore.Provider { return stubProvider{name: name} })
	t.Cleanup(func() { Unregister(name) })
}

func TestRegisterAndGet(t *testing.T) {
	register(t, "test-stub")

	if !IsRegistered("test-stub") {
		t.Fatal("IsRegistered(test-stub) = false")
	}
	p, err := Get("test-stub")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Name() != "test-stub" {
		t.Errorf("Name() = %q, want test-stub", p.Name())
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("no-such-provider")
	var nf *ProviderNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Get() error = %v, want *ProviderNotFoundError", err)
	}
	if nf.Name != "no-such-provider" {
		t.Errorf("Name = %q", nf.Name)
	}
}

func TestUnregister(t *testing.T) {
	Register("temp", func() gpucore.Provider { return stubProvider{name: "temp"} })
	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("provider should not exist after unregister")
	}
}

func TestAvailablePriority(t *testing.T) {
	register(t, "zz-custom")
	register(t, NameSoftware)
	register(t, NameWGPU)

	names := Available()
	iw := slices.Index(names, NameWGPU)
	is := slices.Index(names, NameSoftware)
	ic := slices.Index(names, "zz-custom")
	if iw < 0 || is < 0 || ic < 0 {
		t.Fatalf("Available() = %v, missing registered names", names)
	}
	if !(iw < is && is < ic) {
		t.Errorf("Available() = %v, want wgpu before software before custom", names)
	}

	p, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if IsRegistered(NameWebGL) {
		t.Skip("webgl registered in this build")
	}
	if p.Name() != NameWGPU {
		t.Errorf("Default() = %q, want %q", p.Name(), NameWGPU)
	}
}

func TestAvailableUnrankedLexical(t *testing.T) {
	register(t, "zz-beta")
	register(t, "zz-alpha")
	register(t, "zz-gamma")

	var got []string
	for _, name := range Available() {
		if strings.HasPrefix(name, "zz-") {
			got = append(got, name)
		}
	}
	want := []string{"zz-alpha", "zz-beta", "zz-gamma"}
	if !slices.Equal(got, want) {
		t.Errorf("unranked order = %v, want %v", got, want)
	}
}
