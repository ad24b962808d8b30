package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rsxcache"
	"github.com/gogpu/rsxcache/ucode"
)

// VertexShader is a compiled vertex program: the emitted WGSL, its
// SPIR-V translation, and the uploaded HAL module in device mode.
type VertexShader struct {
	// ID is the program's cache identity.
	ID uint32

	// WGSL is the emitted shader source.
	WGSL string

	// SPIRV is the compiled shader code.
	SPIRV []uint32

	// Module is the uploaded shader module; nil in deviceless mode.
	Module hal.ShaderModule
}

// FragmentShader is a compiled fragment program.
type FragmentShader struct {
	// ID is the program's cache identity.
	ID uint32

	// WGSL is the emitted shader source.
	WGSL string

	// SPIRV is the compiled shader code.
	SPIRV []uint32

	// Module is the uploaded shader module; nil in deviceless mode.
	Module hal.ShaderModule

	// ConstantCount is the number of embedded constant quadwords the
	// program's uniform block expects each draw.
	ConstantCount int
}

// Pipeline is a linked vertex/fragment pair with its fixed state,
// ready for draw submission.
type Pipeline struct {
	// Label is the debug name passed through BuildArgs.
	Label string

	// Vertex and Fragment are the linked program stages.
	Vertex   *VertexShader
	Fragment *FragmentShader

	// Properties is the raster/blend state baked into the pipeline.
	Properties Properties

	// SampleCount is the number of samples per pixel (1 for non-MSAA).
	SampleCount uint32
}

// BuildArgs carries per-build arguments that are not part of the
// pipeline's cache identity.
type BuildArgs struct {
	// Label is an optional debug name for the pipeline.
	Label string

	// SampleCount is the number of samples per pixel. 0 means 1.
	SampleCount uint32
}

// Backend compiles RSX microcode through naga and uploads the results to
// a wgpu HAL device.
//
// Backend satisfies the cache's backend contract; instantiate the cache
// with it:
//
//	b := wgpu.New(device)
//	cache := rsxcache.New[*wgpu.VertexShader, *wgpu.FragmentShader,
//	    *wgpu.Pipeline, wgpu.Properties, wgpu.BuildArgs](b, mem)
type Backend struct {
	// device is the HAL device shaders are uploaded to. May be nil:
	// deviceless mode compiles and validates but creates no GPU objects.
	device hal.Device
}

var _ rsxcache.Backend[*VertexShader, *FragmentShader, *Pipeline, Properties, BuildArgs] = (*Backend)(nil)

// New creates a backend over the given HAL device. A nil device selects
// deviceless mode.
func New(device hal.Device) *Backend {
	return &Backend{device: device}
}

// CompileVertexProgram translates vertex microcode to WGSL, compiles it
// to SPIR-V, and uploads it in device mode.
func (b *Backend) CompileVertexProgram(prog *rsxcache.VertexProgram, id uint32) (*VertexShader, error) {
	wgsl := translateVertexProgram(prog.Data)
	spirv, err := compileWGSL(wgsl)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile vertex program %d: %w", id, err)
	}

	shader := &VertexShader{ID: id, WGSL: wgsl, SPIRV: spirv}
	if b.device != nil {
		module, err := b.createModule(fmt.Sprintf("rsx_vp_%d", id), spirv)
		if err != nil {
			return nil, fmt.Errorf("wgpu: upload vertex program %d: %w", id, err)
		}
		shader.Module = module
	}

	rsxcache.Logger().Debug("vertex shader compiled",
		"id", id, "spirv_words", len(spirv))
	return shader, nil
}

// CompileFragmentProgram translates fragment microcode to WGSL, compiles
// it to SPIR-V, and uploads it in device mode. ucodeCopy is the cache's
// private copy of the program bytes.
func (b *Backend) CompileFragmentProgram(_ *rsxcache.FragmentProgram, ucodeCopy []byte, id uint32) (*FragmentShader, error) {
	_, offsets := ucode.ScanFragmentProgram(ucodeCopy)

	wgsl := translateFragmentProgram(len(ucodeCopy), len(offsets))
	spirv, err := compileWGSL(wgsl)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile fragment program %d: %w", id, err)
	}

	shader := &FragmentShader{ID: id, WGSL: wgsl, SPIRV: spirv, ConstantCount: len(offsets)}
	if b.device != nil {
		module, err := b.createModule(fmt.Sprintf("rsx_fp_%d", id), spirv)
		if err != nil {
			return nil, fmt.Errorf("wgpu: upload fragment program %d: %w", id, err)
		}
		shader.Module = module
	}

	rsxcache.Logger().Debug("fragment shader compiled",
		"id", id, "spirv_words", len(spirv), "constants", len(offsets))
	return shader, nil
}

// BuildPipeline links a compiled vertex and fragment program with fixed
// pipeline state.
func (b *Backend) BuildPipeline(
	vertex *rsxcache.VertexEntry[*VertexShader],
	fragment *rsxcache.FragmentEntry[*FragmentShader],
	props Properties,
	extra BuildArgs,
) (*Pipeline, error) {
	sampleCount := extra.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}

	return &Pipeline{
		Label:       extra.Label,
		Vertex:      vertex.Program,
		Fragment:    fragment.Program,
		Properties:  props,
		SampleCount: sampleCount,
	}, nil
}

// Destroy releases the HAL modules of the given shaders. The cache never
// destroys entries itself; emulator teardown calls this per program.
func (b *Backend) Destroy(modules ...hal.ShaderModule) {
	if b.device == nil {
		return
	}
	for _, m := range modules {
		if m != nil {
			b.device.DestroyShaderModule(m)
		}
	}
}

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// createModule uploads SPIR-V code as a HAL shader module.
func (b *Backend) createModule(label string, spirv []uint32) (hal.ShaderModule, error) {
	return b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
}
