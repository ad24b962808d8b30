package wgpu

import (
	"fmt"
	"strings"
)

// The translators below emit the WGSL scaffolding for a decoded RSX
// program: entry point, vertex inputs, and the uniform block the cache's
// constant extractor fills each draw. Instruction-by-instruction opcode
// translation lives behind these and is deliberately conservative.
//
// TODO: translate RSX arithmetic and texture opcodes into WGSL statement
// bodies; today the bodies pass inputs through unchanged.

// translateVertexProgram emits WGSL for vertex microcode.
func translateVertexProgram(words []uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// rsx vertex program, %d words\n", len(words))
	b.WriteString(`@vertex
fn vs_main(@location(0) position: vec4<f32>) -> @builtin(position) vec4<f32> {
    return position;
}
`)
	return b.String()
}

// translateFragmentProgram emits WGSL for fragment microcode with the
// given number of embedded constants. The constants surface as one
// uniform array of vec4<f32>, in the same order the cache extracts them.
func translateFragmentProgram(ucodeSize, constantCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// rsx fragment program, %d bytes, %d constants\n", ucodeSize, constantCount)
	if constantCount > 0 {
		fmt.Fprintf(&b, "@group(0) @binding(0) var<uniform> fragment_constants: array<vec4<f32>, %d>;\n\n", constantCount)
		b.WriteString(`@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return fragment_constants[0];
}
`)
	} else {
		b.WriteString(`@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`)
	}
	return b.String()
}
