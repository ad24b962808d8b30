// Package ucode classifies and fingerprints RSX shader microcode.
//
// Fragment microcode arrives as fixed-size 16-byte instruction slots with
// no length prefix: the occupied size is only known after walking the
// instruction stream to the end-of-program flag. Instructions that
// reference an embedded immediate constant are followed by one extra slot
// holding the constant data. That slot counts toward the program's total
// size and its bytes participate in the program's content identity; its
// recorded offset additionally lets callers re-read current values from
// guest memory at draw time.
//
// The package provides the scan that derives program length and constant
// locations, plus the content hash and equality functions the program
// cache keys its maps with.
package ucode

import (
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"slices"
)

// InstructionSize is the size in bytes of one fragment instruction slot.
// Embedded constants occupy one full slot each.
const InstructionSize = 16

// Source operand encoding. The register type field sits at bits 8..9 of
// each encoded operand word; a value of srcTypeConstant marks a reference
// to an embedded immediate constant.
const (
	srcTypeShift    = 8
	srcTypeMask     = 0x3
	srcTypeConstant = 2
)

// endFlag is the end-of-program bit in an instruction's opcode word.
const endFlag = 1 << 8

// IsConstant reports whether an encoded source operand references an
// embedded immediate constant rather than a register or input.
func IsConstant(sourceOperand uint32) bool {
	return (sourceOperand>>srcTypeShift)&srcTypeMask == srcTypeConstant
}

// FragmentProgramSize walks fragment microcode from the start of p and
// returns the total occupied byte length, embedded constants included.
//
// p must contain a complete program: the walk only stops at an
// instruction with the end-of-program flag set.
func FragmentProgramSize(p []byte) int {
	off := 0
	for {
		op := binary.LittleEndian.Uint32(p[off:])
		hasConstant := IsConstant(binary.LittleEndian.Uint32(p[off+4:])) ||
			IsConstant(binary.LittleEndian.Uint32(p[off+8:])) ||
			IsConstant(binary.LittleEndian.Uint32(p[off+12:]))

		off += InstructionSize
		if hasConstant {
			off += InstructionSize
		}
		if op&endFlag != 0 {
			return off
		}
	}
}

// ScanFragmentProgram walks fragment microcode from the start of p and
// returns its total occupied byte length together with the byte offsets
// of every embedded constant quadword, in program order.
//
// The offsets address the constant data slots themselves, so callers can
// re-read current constant values from guest memory without re-scanning.
func ScanFragmentProgram(p []byte) (size int, constantOffsets []uint32) {
	off := 0
	for {
		op := binary.LittleEndian.Uint32(p[off:])
		hasConstant := IsConstant(binary.LittleEndian.Uint32(p[off+4:])) ||
			IsConstant(binary.LittleEndian.Uint32(p[off+8:])) ||
			IsConstant(binary.LittleEndian.Uint32(p[off+12:]))

		off += InstructionSize
		if hasConstant {
			constantOffsets = append(constantOffsets, uint32(off))
			off += InstructionSize
		}
		if op&endFlag != 0 {
			return off, constantOffsets
		}
	}
}

// VertexHash returns a content hash over a vertex program's instruction
// words. The word count is mixed in ahead of the words so that programs
// sharing a prefix hash differently.
func VertexHash(words []uint32) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(words)))
	_, _ = h.Write(buf[:])
	for _, w := range words {
		binary.LittleEndian.PutUint32(buf[:], w)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// VertexEqual reports whether two vertex programs have identical length
// and bit-identical instruction words.
func VertexEqual(a, b []uint32) bool {
	return slices.Equal(a, b)
}

// FragmentHash returns a content hash over the occupied bytes of the
// fragment program starting at p. The hashed range is exactly
// FragmentProgramSize(p) bytes, so physically distinct buffers with the
// same program content hash identically.
func FragmentHash(p []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(p[:FragmentProgramSize(p)])
	return h.Sum64()
}

// FragmentEqual reports whether the fragment programs starting at a and b
// are content-identical. Equality is over occupied bytes, independent of
// where the buffers live or how much trailing memory follows them.
func FragmentEqual(a, b []byte) bool {
	n := FragmentProgramSize(a)
	if FragmentProgramSize(b) != n {
		return false
	}
	return bytes.Equal(a[:n], b[:n])
}
