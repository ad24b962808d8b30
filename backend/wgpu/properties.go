package wgpu

import "github.com/gogpu/gputypes"

// BlendComponent describes one blend equation (color or alpha).
type BlendComponent struct {
	// SrcFactor is the source blend factor.
	SrcFactor gputypes.BlendFactor

	// DstFactor is the destination blend factor.
	DstFactor gputypes.BlendFactor

	// Operation is the blend operation.
	Operation gputypes.BlendOperation
}

// BlendState describes the fixed color blending configuration.
type BlendState struct {
	// Enabled turns blending on. When false the source replaces the
	// destination and the component fields are ignored.
	Enabled bool

	// Color is the color channel blend equation.
	Color BlendComponent

	// Alpha is the alpha channel blend equation.
	Alpha BlendComponent
}

// Properties captures the fixed raster, depth and blend state baked into
// a linked pipeline. It is a plain value type: two draws with equal
// Properties and content-equal programs share one pipeline object.
type Properties struct {
	// Topology is the primitive type (triangles, lines, points).
	Topology gputypes.PrimitiveTopology

	// FrontFace defines which winding is considered front-facing.
	FrontFace gputypes.FrontFace

	// CullMode defines which faces to cull.
	CullMode gputypes.CullMode

	// ColorFormat is the format of the color attachment.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the format of the depth attachment, or
	// TextureFormatUndefined for none.
	DepthFormat gputypes.TextureFormat

	// DepthWriteEnabled enables depth buffer writes.
	DepthWriteEnabled bool

	// DepthCompare is the depth comparison function.
	DepthCompare gputypes.CompareFunction

	// Blend is the color blending configuration.
	Blend BlendState
}

// DefaultProperties returns the raster state an RSX draw starts from:
// triangle list, no culling, no blending, color and depth attachments in
// the emulator's standard formats.
func DefaultProperties() Properties {
	return Properties{
		Topology:     gputypes.PrimitiveTopologyTriangleList,
		CullMode:     gputypes.CullModeNone,
		ColorFormat:  gputypes.TextureFormatBGRA8Unorm,
		DepthFormat:  gputypes.TextureFormatDepth24PlusStencil8,
		DepthCompare: gputypes.CompareFunctionAlways,
	}
}
