package mandelbulb

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMandelbulbUniformSource is the canonical WGSL definition of the MandelbulbUniform struct.
// Matches GPUMandelbulbUniform layout exactly (48 bytes).
//
//go:embed assets/mandelbulb_uniform.wgsl
var GPUMandelbulbUniformSource string

// GPUMandelbulbUniformSize is the fixed byte size of the fractal parameter block.
const GPUMandelbulbUniformSize = 48

// GPUMandelbulbUniform is the GPU-aligned representation of the fractal parameter buffer.
// Size: 48 bytes.
type GPUMandelbulbUniform struct {
	Iterations            int32      // offset  0: estimator iteration cap
	MaxRayMarchIterations int32      // offset  4: raymarch step cap, read only by the shader
	CollisionDistance     float32    // offset  8: surface epsilon
	Power                 float32    // offset 12: fractal exponent
	ColorBlack            [4]float32 // offset 16: gradient start (vec4<f32>)
	ColorWhite            [4]float32 // offset 32: gradient end (vec4<f32>)
}

// Size returns the size of the GPUMandelbulbUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUMandelbulbUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMandelbulbUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUMandelbulbUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], uint32(g.Iterations))
	binary.LittleEndian.PutUint32(buf[4:], uint32(g.MaxRayMarchIterations))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.CollisionDistance))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Power))
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.ColorBlack[i]))
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.ColorWhite[i]))
	}
	return buf
}
