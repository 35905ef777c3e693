package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (80 bytes, uniform address space).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the fixed byte size of the camera parameter block.
const GPUCameraUniformSize = 80

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 80 bytes.
type GPUCameraUniform struct {
	RayDirMat [3][4]float32 // offset  0: rows -right, up, forward as [x, y, z, 0] (mat3x4<f32>)
	Position  [3]float32    // offset 48: world-space camera position (vec3<f32>)
	Ratio     float32       // offset 60: viewport width / height
	Depth     float32       // offset 64: screen depth (projection distance)
	_pad      [3]float32    // offset 68: padding to 80 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
// Identical field values always produce identical bytes; the padding is written as zero.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for row := range 3 {
		for col := range 4 {
			binary.LittleEndian.PutUint32(buf[(row*4+col)*4:], math.Float32bits(g.RayDirMat[row][col]))
		}
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[48+i*4:], math.Float32bits(g.Position[i]))
	}
	binary.LittleEndian.PutUint32(buf[60:], math.Float32bits(g.Ratio))
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(g.Depth))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[68+i*4:], 0) // _pad
	}
	return buf
}
