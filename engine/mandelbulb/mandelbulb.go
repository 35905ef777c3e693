package mandelbulb

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// mandelbulbCount is an atomic counter used to generate unique bind group provider names.
var mandelbulbCount atomic.Uint64

type mandelbulbImpl struct {
	params Params

	// dirty is set whenever the GPU block no longer matches params.
	dirty bool

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Mandelbulb defines the interface for the fractal parameter set and its GPU block.
// Only the power changes after construction; every change marks the block for a full rewrite
// on the next SyncBuffers.
//
// A Mandelbulb is owned by the single frame-driving thread and is not safe for concurrent use.
type Mandelbulb interface {
	// Params returns a copy of the current parameters.
	//
	// Returns:
	//   - Params: the parameters
	Params() Params

	// Power returns the current fractal exponent.
	//
	// Returns:
	//   - float32: the power
	Power() float32

	// AdjustPower adds delta to the power. No bounds are enforced.
	//
	// Parameters:
	//   - delta: the amount to add (negative to lower)
	AdjustPower(delta float32)

	// EstimatedDistance evaluates the distance estimator with the current parameters.
	//
	// Parameters:
	//   - pos: the world-space sample point
	//
	// Returns:
	//   - float32: the estimated distance to the surface
	EstimatedDistance(pos mgl32.Vec3) float32

	// GenerateUniform builds the GPU fractal block from the current parameters.
	//
	// Returns:
	//   - GPUMandelbulbUniform: the block ready for upload
	GenerateUniform() GPUMandelbulbUniform

	// BindGroupLayoutDescriptor describes the fractal bind group for the shading stage.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: one fragment-visible uniform of GPUMandelbulbUniformSize bytes
	BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// BindGroupProvider returns the provider holding the fractal GPU block.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// InitGPU allocates the fractal block through the uploader and schedules the initial write.
	//
	// Parameters:
	//   - u: the uploader that owns the GPU device
	//
	// Returns:
	//   - error: an error if the block could not be allocated
	InitGPU(u bind_group_provider.Uploader) error

	// SyncBuffers overwrites the whole GPU block if the parameters changed since the last sync.
	//
	// Parameters:
	//   - u: the uploader that owns the GPU queue
	//
	// Returns:
	//   - bool: true if a write was issued
	SyncBuffers(u bind_group_provider.Uploader) bool

	// MarkDirty forces the next SyncBuffers to write, e.g. after the device was recreated.
	MarkDirty()
}

var _ Mandelbulb = &mandelbulbImpl{}

// NewMandelbulb creates a new Mandelbulb with DefaultParams, then applies options.
//
// Parameters:
//   - options: functional options to configure the parameters
//
// Returns:
//   - Mandelbulb: the newly created parameter set
func NewMandelbulb(options ...MandelbulbBuilderOption) Mandelbulb {
	m := &mandelbulbImpl{
		params: DefaultParams(),
		dirty:  true,
	}
	for _, option := range options {
		option(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(
			"mandelbulb_" + strconv.FormatUint(mandelbulbCount.Load(), 10),
		)
	}
	mandelbulbCount.Add(1)
	return m
}

func (m *mandelbulbImpl) Params() Params {
	return m.params
}

func (m *mandelbulbImpl) Power() float32 {
	return m.params.Power
}

func (m *mandelbulbImpl) AdjustPower(delta float32) {
	m.params.Power += delta
	m.dirty = true
}

func (m *mandelbulbImpl) EstimatedDistance(pos mgl32.Vec3) float32 {
	return m.params.EstimatedDistance(pos)
}

func (m *mandelbulbImpl) GenerateUniform() GPUMandelbulbUniform {
	return m.params.Uniform()
}

func (m *mandelbulbImpl) BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return bind_group_provider.UniformLayoutDescriptor(m.bindGroupProvider.Label(), GPUMandelbulbUniformSize)
}

func (m *mandelbulbImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *mandelbulbImpl) InitGPU(u bind_group_provider.Uploader) error {
	if err := u.InitBindGroup(m.bindGroupProvider, m.BindGroupLayoutDescriptor(), nil, nil); err != nil {
		return fmt.Errorf("mandelbulb: failed to allocate uniform block: %w", err)
	}
	m.dirty = true
	return nil
}

func (m *mandelbulbImpl) SyncBuffers(u bind_group_provider.Uploader) bool {
	if !m.dirty {
		return false
	}
	uniform := m.GenerateUniform()
	u.WriteBuffers([]bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(m.bindGroupProvider, &uniform),
	})
	m.dirty = false
	return true
}

func (m *mandelbulbImpl) MarkDirty() {
	m.dirty = true
}
