package rsxcache

// ProgramKind identifies which shader stage a program belongs to.
type ProgramKind int

// Program kinds.
const (
	KindVertex ProgramKind = iota
	KindFragment
)

// String returns the kind's name for log output.
func (k ProgramKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// AddressSpace resolves emulated guest addresses to host-readable bytes.
//
// It is an injected, session-scoped accessor over the emulated process's
// memory; the cache never owns or mutates it. Base must return a window
// starting at addr that covers at least the complete program or constant
// quadword being read.
type AddressSpace interface {
	Base(addr uint32) []byte
}

// VertexProgram describes vertex microcode presented by a draw request:
// an ordered sequence of 32-bit instruction words.
//
// The word slice stays owned by the descriptor; the cache keys its map
// with the slice contents without copying. Two descriptors denote the
// same program iff their words are bit-identical.
type VertexProgram struct {
	// Data holds the program's instruction words.
	Data []uint32
}

// FragmentProgram describes fragment microcode by its guest address.
//
// The program's length is not known a priori; the cache derives it by
// scanning instruction slots to the end-of-program flag. The guest may
// overwrite the bytes after the draw, so the cache captures a private
// copy at first compilation.
type FragmentProgram struct {
	// Addr is the guest address of the first instruction slot.
	Addr uint32
}

// VertexEntry is a cached, backend-compiled vertex program.
//
// Entries are created on first compilation and never updated or removed
// for the cache's lifetime.
type VertexEntry[V any] struct {
	// ID is the program's process-unique monotonic identity.
	ID uint32

	// Program is the backend's compiled representation.
	Program V
}

// FragmentEntry is a cached, backend-compiled fragment program.
//
// Entries are created on first compilation and never updated or removed
// for the cache's lifetime.
type FragmentEntry[F any] struct {
	// ID is the program's process-unique monotonic identity.
	ID uint32

	// Program is the backend's compiled representation.
	Program F

	// ConstantOffsets lists the byte offsets, in microcode space, of
	// every embedded constant quadword, in program order. Recorded at
	// compilation and used for per-draw constant extraction.
	ConstantOffsets []uint32

	// ucode is the cache's private copy of the program bytes, sized to
	// the classifier's scan result. It is the entry's content key and
	// stays valid even after the guest overwrites the source bytes.
	ucode []byte
}

// Ucode returns the cache's private copy of the program's microcode.
// Callers must not modify the returned bytes.
func (e *FragmentEntry[F]) Ucode() []byte { return e.ucode }
