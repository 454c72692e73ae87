// Package cache provides a small thread-safe LRU cache.
//
// The wgpu provider keeps compiled SPIR-V modules here so that recreating a
// session does not run the WGSL compiler again:
//
//	c := cache.New[string, []uint32](16)
//	code, err := c.GetOrCreate(src, func() ([]uint32, error) { return compile(src) })
//
// A Cache must not be copied after first use.
package cache
