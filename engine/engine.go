package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-bulb/engine/camera"
	"github.com/Carmen-Shannon/oxy-bulb/engine/input"
	"github.com/Carmen-Shannon/oxy-bulb/engine/mandelbulb"
	"github.com/Carmen-Shannon/oxy-bulb/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bulb/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// FrameTarget is the GPU side the engine drives each frame. renderer.Renderer satisfies it.
type FrameTarget interface {
	bind_group_provider.Uploader
	Resize(width, height int)
	BeginFrame() error
	EndFrame()
	Present()
}

// Frame describes the frame handed to the render callback.
type Frame struct {
	// Index counts frames from 0.
	Index uint64
	// DeltaTime is the time since the previous frame in seconds.
	DeltaTime float32
	// FractalSynced reports whether the fractal block was rewritten this frame.
	FractalSynced bool
}

// engine implements the Engine interface.
// Everything runs on the window's message loop thread.
type engine struct {
	window window.Window
	target FrameTarget

	camera        camera.Camera
	fractal       mandelbulb.Mandelbulb
	router        input.Router
	routerOptions []input.RouterBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	adaptive *adaptiveSpeed

	renderCallback   func(frame Frame)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now         func() time.Time
	lastFrame   time.Time
	frameIndex  uint64
	initialized bool
	surfaceLost bool
	surfaceSlow bool
	fatalErr    error

	quitOnce sync.Once
}

// Engine drives the viewer: it routes window input into the camera and fractal, keeps
// both GPU parameter blocks current, and hands each frame to the render callback.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Camera returns the camera driven by input.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Fractal returns the fractal parameter set.
	//
	// Returns:
	//   - mandelbulb.Mandelbulb: the fractal
	Fractal() mandelbulb.Mandelbulb

	// Router returns the input router wired to the window.
	//
	// Returns:
	//   - input.Router: the router
	Router() input.Router

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers the function called inside each frame's render pass,
	// after both parameter blocks were written. This is where the shading stage draws.
	//
	// Parameters:
	//   - callback: function to call each frame
	SetRenderCallback(callback func(frame Frame))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Init allocates the camera and fractal blocks on the frame target.
	// Run calls it if it has not been called yet.
	//
	// Returns:
	//   - error: an error if either block could not be allocated
	Init() error

	// Step runs one frame: integrate and upload the camera, sync the fractal, render, present.
	// The window loop calls it once per iteration after dispatching pending events.
	Step()

	// Run initializes the GPU blocks and runs the window loop. Blocks until the window closes.
	//
	// Returns:
	//   - error: an error if initialization failed or the surface could not be recovered
	Run() error

	// Quit asks the window loop to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine over a window and a frame target.
// A camera and a fractal are created with defaults unless supplied through options.
// The window's input and resize callbacks are wired to the router here.
//
// Parameters:
//   - w: the window providing events and the message loop
//   - target: the GPU frame target, typically a renderer.Renderer
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(w window.Window, target FrameTarget, options ...EngineBuilderOption) Engine {
	if w == nil || target == nil {
		panic("engine: NewEngine requires a window and a frame target")
	}
	e := &engine{
		window:   w,
		target:   target,
		profiler: profiler.NewProfiler(),
		now:      time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.fractal == nil {
		e.fractal = mandelbulb.NewMandelbulb()
	}
	e.camera.SetSize(w.Width(), w.Height())

	// The caller's options come after the default exit so they can replace it.
	routerOptions := append([]input.RouterBuilderOption{input.WithExitCallback(e.Quit)}, e.routerOptions...)
	e.router = input.NewRouter(e.camera, e.fractal, routerOptions...)

	w.SetKeyDownCallback(func(keyCode uint32) {
		e.router.HandleKey(keyCode, input.Pressed)
	})
	w.SetKeyUpCallback(func(keyCode uint32) {
		e.router.HandleKey(keyCode, input.Released)
	})
	w.SetMouseMotionCallback(e.router.HandleMouseMotion)
	w.SetResizeCallback(func(width, height int) {
		e.router.HandleResize(width, height)
		e.target.Resize(width, height)
	})
	w.SetUpdateCallback(e.Step)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Fractal() mandelbulb.Mandelbulb {
	return e.fractal
}

func (e *engine) Router() input.Router {
	return e.router
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderCallback(callback func(frame Frame)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Init() error {
	if e.initialized {
		return nil
	}
	if err := e.camera.InitGPU(e.target); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := e.fractal.InitGPU(e.target); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.initialized = true
	e.lastFrame = e.now()
	log.Printf("[Engine] Initialized %dx%d, power %.2f", e.window.Width(), e.window.Height(), e.fractal.Power())
	return nil
}

func (e *engine) Run() error {
	if err := e.Init(); err != nil {
		return err
	}
	e.window.ProcessMessages()
	log.Printf("[Engine] Stopped after %d frames", e.frameIndex)
	if e.fatalErr != nil {
		return fmt.Errorf("engine: %w", e.fatalErr)
	}
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.window.RequestClose()
	})
}

func (e *engine) Step() {
	start := e.now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start

	if e.adaptive != nil {
		e.adaptive.apply(e.camera, e.fractal)
	}

	// Input for this frame was dispatched before Step; integration consumes it exactly once.
	e.camera.UpdateBuffers(e.target)
	synced := e.fractal.SyncBuffers(e.target)

	if err := e.target.BeginFrame(); err != nil {
		e.frameFailed(err)
	} else {
		e.surfaceLost = false
		e.surfaceSlow = false
		if e.renderCallback != nil {
			e.renderCallback(Frame{Index: e.frameIndex, DeltaTime: dt, FractalSynced: synced})
		}
		e.target.EndFrame()
		e.target.Present()
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	e.frameIndex++

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// frameFailed handles a frame whose surface texture could not be acquired.
// Lost and outdated surfaces are reconfigured at the current size, a timeout skips the frame,
// and running out of memory or losing the device stops the loop.
//
// Parameters:
//   - err: the error returned by BeginFrame
func (e *engine) frameFailed(err error) {
	switch renderer.SurfaceStatus(err) {
	case wgpu.SurfaceGetCurrentTextureStatusTimeout:
		if !e.surfaceSlow {
			log.Printf("[Engine] Frame %d skipped, surface timed out: %v", e.frameIndex, err)
		}
		e.surfaceSlow = true
	case wgpu.SurfaceGetCurrentTextureStatusOutOfMemory, wgpu.SurfaceGetCurrentTextureStatusDeviceLost:
		log.Printf("[Engine] Frame %d failed, stopping: %v", e.frameIndex, err)
		if e.fatalErr == nil {
			e.fatalErr = err
		}
		e.Quit()
	default:
		if !e.surfaceLost {
			log.Printf("[Engine] Frame %d skipped, reconfiguring surface: %v", e.frameIndex, err)
		}
		e.surfaceLost = true
		e.target.Resize(e.window.Width(), e.window.Height())
	}
}
