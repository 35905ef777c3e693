package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bulb/common"
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultDeviceLabel is the GPU device label used when WithDeviceLabel is not given.
const DefaultDeviceLabel = "oxy-bulb Device"

// SurfaceSource is anything that can describe a presentable surface and report its pixel size.
// window.Window satisfies it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	deviceLabel          string
	pendingPresentMode   *PresentMode
	pendingClearColor    *wgpu.Color
}

// Renderer owns the GPU device and the window surface, allocates the parameter blocks
// and pushes per-frame snapshots into them.
//
// The Renderer does not compile shaders or build pipelines. The raymarching stage obtains
// the device and the current frame pass from it and binds the camera and fractal blocks itself.
type Renderer interface {
	bind_group_provider.Uploader

	// Resize reconfigures the surface for a new framebuffer size.
	// Non-positive sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. A call to Resize is required for it to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the swapchain texture and begins a render pass that clears it.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: a *SurfaceError if the swapchain texture could not be acquired
	BeginFrame() error

	// Pass returns the render pass of the current frame, or nil outside BeginFrame/EndFrame.
	//
	// Returns:
	//   - *wgpu.RenderPassEncoder: the active pass
	Pass() *wgpu.RenderPassEncoder

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Device returns the GPU device for pipeline creation by the shading stage.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// Surface returns the presentable surface.
	//
	// Returns:
	//   - *wgpu.Surface: the surface
	Surface() *wgpu.Surface

	// SurfaceFormat returns the texture format the surface was configured with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the colour target format for the shading pipeline
	SurfaceFormat() wgpu.TextureFormat

	// Release frees the device, surface and every GPU object owned by the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given surface using the selected backend.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window (or other source) providing the surface descriptor and size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if no adapter or device could be obtained
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	var (
		backend RendererBackend
		err     error
	)
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err = newWGPURendererBackend(
			surface.SurfaceDescriptor(),
			r.forceFallbackAdapter,
			common.Coalesce(r.deviceLabel, DefaultDeviceLabel),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to create backend: %w", err)
	}

	r.attach(backend, surface.Width(), surface.Height())
	return r, nil
}

// attach applies pending configuration to a freshly created backend and configures the surface.
func (r *renderer) attach(backend RendererBackend, width, height int) {
	r.backend = backend
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
	r.Resize(width, height)
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Pass() *wgpu.RenderPassEncoder {
	return r.backend.Pass()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) Surface() *wgpu.Surface {
	return r.backend.Surface()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
