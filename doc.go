// Package rsxcache provides a content-addressed cache for compiled GPU
// program objects inside an RSX graphics-command emulator.
//
// # Overview
//
// The emulated machine delivers vertex and fragment shader microcode as
// raw instruction words in its own address space. Recompiling and
// relinking that microcode into native pipeline objects is expensive, so
// the cache deduplicates programs by content and reuses compiled
// artifacts across draw calls and frames.
//
// Caching happens at two levels:
//
//   - Program level: vertex and fragment microcode is resolved to a
//     backend-compiled program, keyed by content. Each distinct program
//     receives a process-unique, monotonically increasing id.
//   - Pipeline level: (vertex id, fragment id, pipeline properties)
//     triples are resolved to a backend-linked pipeline object.
//
// Embedded immediate constants in fragment microcode sit inside the
// program's occupied byte range and therefore inside its content
// identity. The cache records their locations at first compilation and
// re-reads their current values from live guest memory on every draw, so
// extraction never requires recompiling or rescanning the program.
//
// # Quick Start
//
//	import "github.com/gogpu/rsxcache"
//
//	cache := rsxcache.New(backend, mem)
//
//	// Per draw: resolve (and build on first sight) the pipeline.
//	pipeline, err := cache.GetOrBuildPipeline(vp, fp, props, extra)
//
//	// Per draw: refresh the shader constants from guest memory.
//	dst := make([]float32, cache.FragmentConstantsBufferSize(fp)/4)
//	err = cache.FillFragmentConstants(dst, fp)
//
// # Concurrency
//
// The cache is single-threaded by design: it lives on the thread that
// owns the emulated GPU command stream. Concurrent use must be
// serialized by the caller.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Cache, Backend, AddressSpace, program descriptors
//   - ucode: microcode classification and content hashing
//   - Backends: backend/wgpu (gogpu/naga + gogpu/wgpu)
package rsxcache
