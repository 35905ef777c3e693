package mandelbulb

import "github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"

// MandelbulbBuilderOption is a functional option for configuring a Mandelbulb.
type MandelbulbBuilderOption func(*mandelbulbImpl)

// WithIterations sets the estimator iteration cap.
//
// Parameters:
//   - iterations: the iteration cap (8 by default, 20 for a sharper surface)
//
// Returns:
//   - MandelbulbBuilderOption: functional option to set the iteration cap
func WithIterations(iterations int32) MandelbulbBuilderOption {
	return func(m *mandelbulbImpl) {
		m.params.Iterations = iterations
	}
}

// WithMaxRayMarchIterations sets the raymarch step cap handed to the shading stage.
//
// Parameters:
//   - iterations: the step cap (150 by default)
//
// Returns:
//   - MandelbulbBuilderOption: functional option to set the raymarch cap
func WithMaxRayMarchIterations(iterations int32) MandelbulbBuilderOption {
	return func(m *mandelbulbImpl) {
		m.params.MaxRayMarchIterations = iterations
	}
}

// WithCollisionDistance sets the surface epsilon subtracted from every estimate.
//
// Parameters:
//   - distance: the collision distance
//
// Returns:
//   - MandelbulbBuilderOption: functional option to set the collision distance
func WithCollisionDistance(distance float32) MandelbulbBuilderOption {
	return func(m *mandelbulbImpl) {
		m.params.CollisionDistance = distance
	}
}

// WithPower sets the starting fractal exponent.
//
// Parameters:
//   - power: the exponent
//
// Returns:
//   - MandelbulbBuilderOption: functional option to set the power
func WithPower(power float32) MandelbulbBuilderOption {
	return func(m *mandelbulbImpl) {
		m.params.Power = power
	}
}

// WithColors sets the gradient endpoints.
//
// Parameters:
//   - black: the RGBA colour at the low end of the gradient
//   - white: the RGBA colour at the high end of the gradient
//
// Returns:
//   - MandelbulbBuilderOption: functional option to set the colours
func WithColors(black, white [4]float32) MandelbulbBuilderOption {
	return func(m *mandelbulbImpl) {
		m.params.ColorBlack = black
		m.params.ColorWhite = white
	}
}

// WithBindGroupProvider attaches a bind group provider for the fractal block.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - MandelbulbBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MandelbulbBuilderOption {
	return func(m *mandelbulbImpl) {
		m.bindGroupProvider = provider
	}
}
