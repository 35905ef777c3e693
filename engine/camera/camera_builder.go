package camera

import (
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's starting world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithYaw sets the starting horizontal angle in radians. It is wrapped into (0, 2π] once all options are applied.
//
// Parameters:
//   - yaw: horizontal angle in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the starting vertical angle in radians. It is clamped to [-π/2, π/2] once all options are applied.
//
// Parameters:
//   - pitch: vertical angle in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
	}
}

// WithScreenDepth sets the projection distance of the virtual screen.
//
// Parameters:
//   - depth: the screen depth
//
// Returns:
//   - CameraBuilderOption: a function that sets the screen depth
func WithScreenDepth(depth float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.screenDepth = depth
	}
}

// WithSpeed sets the initial translation speed multiplier.
//
// Parameters:
//   - speed: world units per frame at full axis intent
//
// Returns:
//   - CameraBuilderOption: a function that sets the movement speed
func WithSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.movement.Speed = speed
	}
}

// WithSize sets the initial viewport size. Non-positive values keep the default.
//
// Parameters:
//   - width, height: viewport dimensions in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport size
func WithSize(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetSize(width, height)
	}
}

// WithBindGroupProvider attaches a bind group provider to the camera.
// The provider holds the GPU camera block once InitGPU has run.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
