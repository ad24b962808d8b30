package rsxcache

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/rsxcache/ucode"
)

// constantEnv places a fragment program with two embedded constant
// quadwords into guest memory and compiles it.
func constantEnv(t *testing.T) (*testCache, *fakeMemory, *FragmentProgram) {
	t.Helper()

	// Layout: [const-ref instr][constant A][const-ref end instr][constant B]
	p := appendInstr(nil, 0, srcConstRef, srcRegRef, srcRegRef)
	p = appendConstant(p, 0x00000001, 0x00000002, 0x00000003, 0x00000004)
	p = appendInstr(p, opEnd, srcRegRef, srcConstRef, srcRegRef)
	p = appendConstant(p, 0x3F800000, 0x40000000, 0x40400000, 0x40800000) // 1, 2, 3, 4

	mem := &fakeMemory{data: make([]byte, 1024)}
	copy(mem.data[0x20:], p)

	cache, _ := newTestCache(mem)
	prog := &FragmentProgram{Addr: 0x20}
	if _, _, err := cache.GetOrCompileFragmentProgram(prog); err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cache, mem, prog
}

func TestFragmentConstantsBufferSize(t *testing.T) {
	cache, _, prog := constantEnv(t)

	// Two recorded constants, 16 bytes each.
	if got := cache.FragmentConstantsBufferSize(prog); got != 2*ucode.InstructionSize {
		t.Errorf("FragmentConstantsBufferSize() = %d, want %d", got, 2*ucode.InstructionSize)
	}
}

func TestFragmentConstantsBufferSize_Unknown(t *testing.T) {
	mem := &fakeMemory{data: make([]byte, 1024)}
	copy(mem.data, simpleFragmentUcode(1))
	cache, _ := newTestCache(mem)

	if got := cache.FragmentConstantsBufferSize(&FragmentProgram{Addr: 0}); got != 0 {
		t.Errorf("size query for unknown program = %d, want 0", got)
	}
}

func TestFillFragmentConstants_RoundTrip(t *testing.T) {
	cache, _, prog := constantEnv(t)

	dst := make([]float32, 8)
	if err := cache.FillFragmentConstants(dst, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First quadword: raw big-endian word patterns 1..4.
	wantBits := []uint32{1, 2, 3, 4}
	for i, bits := range wantBits {
		if math.Float32bits(dst[i]) != bits {
			t.Errorf("dst[%d] bits = %#x, want %#x", i, math.Float32bits(dst[i]), bits)
		}
	}

	// Second quadword: the float values 1, 2, 3, 4.
	wantFloats := []float32{1, 2, 3, 4}
	for i, want := range wantFloats {
		if dst[4+i] != want {
			t.Errorf("dst[%d] = %v, want %v", 4+i, dst[4+i], want)
		}
	}
}

func TestFillFragmentConstants_ReadsLiveMemory(t *testing.T) {
	// Two content-identical programs at different addresses share one
	// cache entry. Filling through the second address must read the
	// constant bytes at that address, not the private cached copy.
	p := appendInstr(nil, opEnd, srcConstRef, srcRegRef, srcRegRef)
	p = appendConstant(p, 0x3F800000, 0x3F800000, 0x3F800000, 0x3F800000) // all 1.0

	mem := &fakeMemory{data: make([]byte, 1024)}
	copy(mem.data[0x20:], p)
	copy(mem.data[0x120:], p)

	cache, _ := newTestCache(mem)
	if _, _, err := cache.GetOrCompileFragmentProgram(&FragmentProgram{Addr: 0x20}); err != nil {
		t.Fatalf("compile: %v", err)
	}

	dst := make([]float32, 4)
	if err := cache.FillFragmentConstants(dst, &FragmentProgram{Addr: 0x120}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range dst {
		if v != 1.0 {
			t.Errorf("dst[%d] = %v, want 1.0", i, v)
		}
	}
}

func TestFillFragmentConstants_ExactWriteExtent(t *testing.T) {
	cache, _, prog := constantEnv(t)

	// Destination deliberately larger than needed: bytes past the
	// recorded constants must stay untouched.
	dst := make([]float32, 12)
	sentinel := float32(math.Inf(1))
	for i := range dst {
		dst[i] = sentinel
	}

	if err := cache.FillFragmentConstants(dst, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 8; i < len(dst); i++ {
		if dst[i] != sentinel {
			t.Errorf("dst[%d] overwritten: fill must write exactly 4 floats per constant", i)
		}
	}
}

func TestFillFragmentConstants_Unknown(t *testing.T) {
	mem := &fakeMemory{data: make([]byte, 1024)}
	copy(mem.data, simpleFragmentUcode(1))
	cache, _ := newTestCache(mem)

	dst := make([]float32, 4)
	err := cache.FillFragmentConstants(dst, &FragmentProgram{Addr: 0})
	if !errors.Is(err, ErrUnknownFragmentProgram) {
		t.Fatalf("expected ErrUnknownFragmentProgram, got %v", err)
	}
}

func TestFillFragmentConstants_BufferTooSmall(t *testing.T) {
	cache, _, prog := constantEnv(t)

	dst := make([]float32, 7) // needs 8
	err := cache.FillFragmentConstants(dst, prog)
	if !errors.Is(err, ErrConstantBufferTooSmall) {
		t.Fatalf("expected ErrConstantBufferTooSmall, got %v", err)
	}
}

func TestSizeAndFillConsistency(t *testing.T) {
	cache, _, prog := constantEnv(t)

	size := cache.FragmentConstantsBufferSize(prog)
	dst := make([]float32, size/4)
	if err := cache.FillFragmentConstants(dst, prog); err != nil {
		t.Fatalf("a buffer sized by the size query must satisfy fill: %v", err)
	}
}
