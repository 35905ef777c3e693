package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformBinding is the binding index every parameter block occupies inside its own bind group.
const UniformBinding = 0

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// UniformSource is a fixed-layout GPU record that can serialize itself.
// Marshal must always return exactly Size() bytes.
type UniformSource interface {
	// Size returns the fixed byte size of the record.
	Size() int

	// Marshal serializes the record into a freshly allocated byte buffer.
	Marshal() []byte
}

// Uploader allocates parameter blocks on the GPU and pushes snapshots into them.
// renderer.Renderer satisfies it; tests substitute a recording fake.
type Uploader interface {
	// InitBindGroup creates the buffers and bind group described by descriptor and stores them on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: extra usage flags keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if the GPU resources could not be created
	InitBindGroup(provider BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: the writes to perform, in order
	WriteBuffers(writes []BufferWrite)
}

// UniformLayoutDescriptor describes a bind group holding a single read-only uniform buffer of
// the given size at UniformBinding, visible to the fragment stage that performs the raymarch.
//
// Parameters:
//   - label: the debug label for the layout
//   - size: the exact byte size of the uniform record
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func UniformLayoutDescriptor(label string, size int) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label + " Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    UniformBinding,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   uint64(size),
				},
			},
		},
	}
}

// UniformWrite builds a whole-block write of src into the provider's uniform binding.
// Blocks are never partially patched, so the offset is always 0.
//
// Parameters:
//   - provider: the provider owning the destination buffer
//   - src: the record to serialize
//
// Returns:
//   - BufferWrite: the write to hand to an Uploader
func UniformWrite(provider BindGroupProvider, src UniformSource) BufferWrite {
	return BufferWrite{
		Provider: provider,
		Binding:  UniformBinding,
		Offset:   0,
		Data:     src.Marshal(),
	}
}
