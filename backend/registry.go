package backend

import (
	"cmp"
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/imageview/gpucore"
)

// priority lists providers from most to least preferred.
var priority = []string{NameWebGL, NameWGPU, NameSoftware}

var providers = gpucontext.NewRegistry[gpucore.Provider](
	gpucontext.WithPriority(priority...),
)

// Register registers a provider factory with the given name.
// This is typically called from init() functions in backend packages.
// If a provider with the same name is already registered, it is replaced.
func Register(name string, factory func() gpucore.Provider) {
	providers.Register(name, factory)
	gpucore.Logger().Debug("backend: provider registered", "name", name)
}

// Unregister removes a provider from the registry.
// This is useful for testing.
func Unregister(name string) {
	providers.Unregister(name)
}

// IsRegistered checks if a provider with the given name is registered.
func IsRegistered(name string) bool {
	return providers.Has(name)
}

// Available returns the registered provider names, most preferred first.
// Names outside the priority list follow in lexical order.
func Available() []string {
	names := providers.Available()
	slices.SortFunc(names, func(a, b string) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		return cmp.Compare(a, b)
	})
	return names
}

// Get returns a new provider instance by name.
func Get(name string) (gpucore.Provider, error) {
	if !providers.Has(name) {
		return nil, &ProviderNotFoundError{Name: name}
	}
	p := providers.Get(name)
	if p == nil {
		return nil, &ProviderNotFoundError{Name: name}
	}
	return p, nil
}

// Default returns the best registered provider based on priority.
func Default() (gpucore.Provider, error) {
	names := Available()
	if len(names) == 0 {
		return nil, ErrNoProvider
	}
	return Get(names[0])
}

func rank(name string) int {
	if i := slices.Index(priority, name); i >= 0 {
		return i
	}
	return len(priority)
}
