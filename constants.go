package rsxcache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/rsxcache/ucode"
)

// FragmentConstantsBufferSize returns the byte size a destination buffer
// needs to hold every embedded constant of the given fragment program:
// one 16-byte quadword per recorded constant offset.
//
// If no program was ever compiled for the given content, the query
// returns 0 and logs a warning.
func (c *Cache[V, F, S, P, E]) FragmentConstantsBufferSize(prog *FragmentProgram) int {
	src := c.mem.Base(prog.Addr)
	entry := c.findFragment(ucode.FragmentHash(src), src)
	if entry == nil {
		c.logger().Warn("constant size query for unknown fragment program",
			"addr", prog.Addr)
		return 0
	}
	return len(entry.ConstantOffsets) * ucode.InstructionSize
}

// FillFragmentConstants reads the current value of every embedded
// constant of the given fragment program and writes them into dst,
// contiguously and in recorded offset order.
//
// Values are read from the draw's live bytes at prog.Addr, not from the
// cached microcode copy, so the fill always reflects the program the
// guest presented for this draw regardless of where it was first
// compiled from. Each 16-byte quadword is repacked from guest big-endian
// to four host-native floats.
//
// dst must hold at least four floats per recorded constant (see
// FragmentConstantsBufferSize); exactly that many floats are written.
// The call fails with [ErrUnknownFragmentProgram] if no program was ever
// compiled for the given content.
func (c *Cache[V, F, S, P, E]) FillFragmentConstants(dst []float32, prog *FragmentProgram) error {
	src := c.mem.Base(prog.Addr)
	entry := c.findFragment(ucode.FragmentHash(src), src)
	if entry == nil {
		return fmt.Errorf("fill constants at addr %#x: %w", prog.Addr, ErrUnknownFragmentProgram)
	}
	if len(dst) < len(entry.ConstantOffsets)*4 {
		return fmt.Errorf("fill constants: need %d floats, have %d: %w",
			len(entry.ConstantOffsets)*4, len(dst), ErrConstantBufferTooSmall)
	}

	for i, offset := range entry.ConstantOffsets {
		quad := src[offset : offset+ucode.InstructionSize]
		for lane := range 4 {
			bits := binary.BigEndian.Uint32(quad[lane*4:])
			dst[i*4+lane] = math.Float32frombits(bits)
		}
	}
	return nil
}
