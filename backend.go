package rsxcache

// Backend supplies the compile and link operations the cache invokes on
// a miss. The cache core is generic over this capability set and never
// depends on a concrete graphics backend.
//
// Type parameters:
//   - V: compiled vertex program representation
//   - F: compiled fragment program representation
//   - S: linked pipeline representation
//   - P: pipeline properties (raster/blend/topology state); must support
//     equality, it is part of the pipeline cache key
//   - E: extra backend-specific build arguments passed through
//     GetOrBuildPipeline
//
// Compile and build operations may block (native shader compiler
// invocation); the cache calls them synchronously and propagates their
// errors unmasked.
type Backend[V, F, S any, P comparable, E any] interface {
	// CompileVertexProgram recompiles vertex microcode into the backend's
	// representation. id is the freshly assigned program identity.
	CompileVertexProgram(prog *VertexProgram, id uint32) (V, error)

	// CompileFragmentProgram recompiles fragment microcode into the
	// backend's representation. ucode is the cache's private copy of the
	// program bytes, valid for the cache's lifetime; id is the freshly
	// assigned program identity.
	CompileFragmentProgram(prog *FragmentProgram, ucode []byte, id uint32) (F, error)

	// BuildPipeline links a compiled vertex and fragment program with
	// fixed pipeline state into a ready-to-bind pipeline object.
	BuildPipeline(vertex *VertexEntry[V], fragment *FragmentEntry[F], props P, extra E) (S, error)
}
