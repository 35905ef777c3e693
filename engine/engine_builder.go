package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-bulb/engine/camera"
	"github.com/Carmen-Shannon/oxy-bulb/engine/input"
	"github.com/Carmen-Shannon/oxy-bulb/engine/mandelbulb"
	"github.com/Carmen-Shannon/oxy-bulb/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to tick each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithCamera supplies a pre-configured camera instead of the default one.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithFractal supplies a pre-configured fractal instead of the default one.
//
// Parameters:
//   - m: the fractal parameters
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFractal(m mandelbulb.Mandelbulb) EngineBuilderOption {
	return func(e *engine) {
		e.fractal = m
	}
}

// WithRouterOptions passes options through to the input router, e.g. extra key bindings.
//
// Parameters:
//   - options: router options, applied after the engine's own exit binding
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRouterOptions(options ...input.RouterBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.routerOptions = append(e.routerOptions, options...)
	}
}

// WithAdaptiveSpeed makes movement speed proportional to the estimated distance to the
// fractal surface, clamped to [minSpeed, maxSpeed]. It overrides any fixed camera speed.
//
// Parameters:
//   - scale: speed per unit of distance
//   - minSpeed: lower bound
//   - maxSpeed: upper bound
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAdaptiveSpeed(scale, minSpeed, maxSpeed float32) EngineBuilderOption {
	return func(e *engine) {
		e.adaptive = &adaptiveSpeed{scale: scale, minSpeed: minSpeed, maxSpeed: maxSpeed}
	}
}

// WithRenderCallback registers the function called inside each frame's render pass.
//
// Parameters:
//   - callback: function to call each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderCallback(callback func(frame Frame)) EngineBuilderOption {
	return func(e *engine) {
		e.renderCallback = callback
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithClock replaces the frame clock.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}
