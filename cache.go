package rsxcache

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/rsxcache/ucode"
)

// Cache deduplicates compiled GPU programs and linked pipelines by
// microcode content.
//
// Program entries and pipeline objects are created lazily on first miss
// and kept for the cache's lifetime; there is no eviction. Memory grows
// monotonically with the number of distinct programs and pipeline
// combinations — bounding it is the caller's responsibility.
//
// Thread Safety:
// Cache is NOT safe for concurrent use. It is designed for the single
// execution context that owns the emulated GPU command stream; callers
// needing cross-thread access must serialize externally.
type Cache[V, F, S any, P comparable, E any] struct {
	backend Backend[V, F, S, P, E]
	mem     AddressSpace
	log     *slog.Logger

	// nextID is the monotonic identity counter shared by the vertex and
	// fragment spaces. Every new program of either kind advances it.
	nextID uint32

	// vertexPrograms maps vertex content hash to entries. Buckets hold
	// the colliding entries; equality is over the full word sequence.
	vertexPrograms map[uint64][]vertexSlot[V]
	vertexCount    int

	// fragmentPrograms maps fragment content hash to entries. Buckets
	// hold the colliding entries; equality dereferences each entry's
	// private microcode copy and compares occupied bytes.
	fragmentPrograms map[uint64][]*FragmentEntry[F]
	fragmentCount    int

	// pipelines maps (vertex id, fragment id, properties) to linked
	// pipeline objects.
	pipelines map[pipelineKey[P]]S

	programHits    uint64
	programMisses  uint64
	pipelineHits   uint64
	pipelineMisses uint64
}

// vertexSlot pairs a vertex entry with the word sequence that keys it.
// The words stay owned by the descriptor that first presented them.
type vertexSlot[V any] struct {
	words []uint32
	entry *VertexEntry[V]
}

// Option configures a Cache during creation.
type Option func(*options)

// options holds optional configuration for Cache creation.
type options struct {
	logger *slog.Logger
}

// WithLogger sets a dedicated logger for this cache instead of the
// package logger configured via SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates an empty cache over the given backend and guest address
// space. The address space is only consulted for fragment program
// operations; it may be nil for vertex-only use.
func New[V, F, S any, P comparable, E any](
	backend Backend[V, F, S, P, E],
	mem AddressSpace,
	opts ...Option,
) *Cache[V, F, S, P, E] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V, F, S, P, E]{
		backend:          backend,
		mem:              mem,
		log:              o.logger,
		vertexPrograms:   make(map[uint64][]vertexSlot[V]),
		fragmentPrograms: make(map[uint64][]*FragmentEntry[F]),
		pipelines:        make(map[pipelineKey[P]]S),
	}
}

// logger returns the cache's dedicated logger if one was configured,
// otherwise the package logger.
func (c *Cache[V, F, S, P, E]) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return Logger()
}

// allocID returns the next program identity. The counter is shared by
// the vertex and fragment spaces, so ids are unique across both even
// though each map only ever holds ids of its own kind.
func (c *Cache[V, F, S, P, E]) allocID() uint32 {
	id := c.nextID
	c.nextID++
	return id
}

// GetOrCompileVertexProgram resolves vertex microcode to its compiled
// entry, invoking the backend on first sight of the content.
//
// The returned bool reports whether the program was already present.
func (c *Cache[V, F, S, P, E]) GetOrCompileVertexProgram(prog *VertexProgram) (*VertexEntry[V], bool, error) {
	key := ucode.VertexHash(prog.Data)
	for _, slot := range c.vertexPrograms[key] {
		if ucode.VertexEqual(slot.words, prog.Data) {
			c.programHits++
			return slot.entry, true, nil
		}
	}
	c.programMisses++

	id := c.allocID()
	compiled, err := c.backend.CompileVertexProgram(prog, id)
	if err != nil {
		return nil, false, fmt.Errorf("rsxcache: compile vertex program: %w", err)
	}

	entry := &VertexEntry[V]{ID: id, Program: compiled}
	c.vertexPrograms[key] = append(c.vertexPrograms[key], vertexSlot[V]{words: prog.Data, entry: entry})
	c.vertexCount++

	c.logger().Debug("program compiled",
		"kind", KindVertex, "id", id, "words", len(prog.Data))
	return entry, false, nil
}

// GetOrCompileFragmentProgram resolves fragment microcode to its
// compiled entry, invoking the backend on first sight of the content.
//
// On a miss the cache scans the live guest bytes to determine the
// program's occupied size, takes a private copy of exactly that many
// bytes, and keys the new entry with the copy. Later mutation of the
// guest source bytes does not affect the entry.
//
// The returned bool reports whether the program was already present.
func (c *Cache[V, F, S, P, E]) GetOrCompileFragmentProgram(prog *FragmentProgram) (*FragmentEntry[F], bool, error) {
	src := c.mem.Base(prog.Addr)
	key := ucode.FragmentHash(src)
	if entry := c.findFragment(key, src); entry != nil {
		c.programHits++
		return entry, true, nil
	}
	c.programMisses++

	size, offsets := ucode.ScanFragmentProgram(src)
	private := make([]byte, size)
	copy(private, src[:size])

	id := c.allocID()
	compiled, err := c.backend.CompileFragmentProgram(prog, private, id)
	if err != nil {
		return nil, false, fmt.Errorf("rsxcache: compile fragment program: %w", err)
	}

	entry := &FragmentEntry[F]{
		ID:              id,
		Program:         compiled,
		ConstantOffsets: offsets,
		ucode:           private,
	}
	c.fragmentPrograms[key] = append(c.fragmentPrograms[key], entry)
	c.fragmentCount++

	c.logger().Debug("program compiled",
		"kind", KindFragment, "id", id, "size", size, "constants", len(offsets))
	return entry, false, nil
}

// findFragment returns the cached entry whose content matches the live
// program bytes at src, or nil.
func (c *Cache[V, F, S, P, E]) findFragment(key uint64, src []byte) *FragmentEntry[F] {
	for _, entry := range c.fragmentPrograms[key] {
		if ucode.FragmentEqual(entry.ucode, src) {
			return entry
		}
	}
	return nil
}

// TransformProgram returns the compiled entry for previously seen vertex
// microcode without compiling. It fails with [ErrNotFound] if no program
// was ever compiled for the given content.
func (c *Cache[V, F, S, P, E]) TransformProgram(prog *VertexProgram) (*VertexEntry[V], error) {
	key := ucode.VertexHash(prog.Data)
	for _, slot := range c.vertexPrograms[key] {
		if ucode.VertexEqual(slot.words, prog.Data) {
			return slot.entry, nil
		}
	}
	return nil, fmt.Errorf("transform program lookup: %w", ErrNotFound)
}

// ShaderProgram returns the compiled entry for previously seen fragment
// microcode without compiling. It fails with [ErrNotFound] if no program
// was ever compiled for the given content.
func (c *Cache[V, F, S, P, E]) ShaderProgram(prog *FragmentProgram) (*FragmentEntry[F], error) {
	src := c.mem.Base(prog.Addr)
	if entry := c.findFragment(ucode.FragmentHash(src), src); entry != nil {
		return entry, nil
	}
	return nil, fmt.Errorf("shader program lookup: %w", ErrNotFound)
}

// VertexProgramCount returns the number of distinct vertex programs
// compiled so far.
func (c *Cache[V, F, S, P, E]) VertexProgramCount() int { return c.vertexCount }

// FragmentProgramCount returns the number of distinct fragment programs
// compiled so far.
func (c *Cache[V, F, S, P, E]) FragmentProgramCount() int { return c.fragmentCount }

// ProgramStats returns program-level cache hits and misses.
func (c *Cache[V, F, S, P, E]) ProgramStats() (hits, misses uint64) {
	return c.programHits, c.programMisses
}

// PipelineStats returns pipeline-level cache hits and misses.
func (c *Cache[V, F, S, P, E]) PipelineStats() (hits, misses uint64) {
	return c.pipelineHits, c.pipelineMisses
}
