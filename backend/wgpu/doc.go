// Package wgpu implements the rsxcache backend contract over the GoGPU
// stack: decoded microcode is emitted as WGSL, compiled to SPIR-V with
// gogpu/naga, and wrapped in gogpu/wgpu HAL shader modules.
//
// The backend works in two modes:
//
//   - Device mode: constructed with a hal.Device, compiled shaders are
//     uploaded as hal.ShaderModule objects ready for pipeline binding.
//   - Deviceless mode: constructed with a nil device, shaders are
//     compiled and validated through naga but no GPU objects are
//     created. Useful for tests and headless cache warming.
//
// Pipeline properties are expressed with gogpu/gputypes raster and blend
// state enums, making them directly comparable and hashable as required
// by the cache's pipeline key.
package wgpu
