package rsxcache

import "errors"

// Cache errors.
var (
	// ErrNotFound is returned by direct lookups when no program was ever
	// compiled for the given microcode content.
	ErrNotFound = errors.New("rsxcache: program not found")

	// ErrUnknownFragmentProgram is returned when constants are requested
	// for a fragment program that was never compiled.
	ErrUnknownFragmentProgram = errors.New("rsxcache: unknown fragment program")

	// ErrConstantBufferTooSmall is returned when the destination passed to
	// FillFragmentConstants cannot hold every recorded constant.
	ErrConstantBufferTooSmall = errors.New("rsxcache: constant buffer too small")
)
