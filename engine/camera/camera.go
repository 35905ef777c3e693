package camera

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-bulb/common"
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// Default camera state at startup.
const (
	DefaultScreenDepth float32 = 2.0
	DefaultSpeed       float32 = 0.001
	DefaultWidth               = 1280
	DefaultHeight              = 720
)

// DefaultPosition is the camera's starting point, just outside the fractal on the -X axis.
var DefaultPosition = mgl32.Vec3{-1.5, 0, 0}

type cameraImpl struct {
	width  int
	height int

	position mgl32.Vec3
	yaw      float32 // (0, 2π]
	pitch    float32 // [-π/2, π/2]

	screenDepth float32

	movement *Movement

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the free-flying raymarch camera.
// The camera owns its orientation, position and the Movement accumulator, and publishes
// a ray-generation basis to the GPU once per frame through UpdateBuffers.
//
// A Camera is owned by the single frame-driving thread and is not safe for concurrent use.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the position from a slice of components.
	// It panics if the slice does not hold exactly 3 components; that is a caller bug.
	//
	// Parameters:
	//   - pos: the new position as [x, y, z]
	SetPosition(pos []float32)

	// SetPositionVec sets the position from a typed vector.
	//
	// Parameters:
	//   - pos: the new position
	SetPositionVec(pos mgl32.Vec3)

	// Yaw returns the horizontal view angle in radians, always in (0, 2π].
	//
	// Returns:
	//   - float32: the yaw in radians
	Yaw() float32

	// Pitch returns the vertical view angle in radians, always in [-π/2, π/2].
	//
	// Returns:
	//   - float32: the pitch in radians
	Pitch() float32

	// Forward returns the unit view direction.
	//
	// Returns:
	//   - mgl32.Vec3: (cos(yaw)cos(pitch), sin(pitch), sin(yaw)cos(pitch))
	Forward() mgl32.Vec3

	// Right returns the unit horizontal axis.
	//
	// Returns:
	//   - mgl32.Vec3: (cos(yaw-π/2), 0, sin(yaw-π/2))
	Right() mgl32.Vec3

	// Up returns the unit vertical axis of the view.
	//
	// Returns:
	//   - mgl32.Vec3: (-cos(yaw)sin(pitch), cos(pitch), -sin(yaw)sin(pitch))
	Up() mgl32.Vec3

	// Size returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: the viewport dimensions
	Size() (width, height int)

	// SetSize records a new viewport size. Non-positive dimensions (a minimized window) are ignored.
	//
	// Parameters:
	//   - width, height: the new viewport dimensions in pixels
	SetSize(width, height int)

	// AspectRatio returns width / height of the viewport.
	//
	// Returns:
	//   - float32: the aspect ratio
	AspectRatio() float32

	// ScreenDepth returns the projection distance of the virtual screen.
	//
	// Returns:
	//   - float32: the screen depth
	ScreenDepth() float32

	// SetScreenDepth sets the projection distance of the virtual screen.
	//
	// Parameters:
	//   - depth: the new screen depth
	SetScreenDepth(depth float32)

	// Movement returns the camera's input accumulator.
	// Input routing writes into it; IntegrateMovement consumes it.
	//
	// Returns:
	//   - *Movement: the owned movement state
	Movement() *Movement

	// SetSpeed sets the translation speed multiplier.
	//
	// Parameters:
	//   - speed: world units per frame at full axis intent
	SetSpeed(speed float32)

	// IntegrateMovement applies the accumulated movement to position and orientation, then clears
	// the yaw/pitch impulses. Called exactly once per frame.
	IntegrateMovement()

	// GenerateUniform builds the GPU camera block from the current state.
	//
	// Returns:
	//   - GPUCameraUniform: the block ready for upload
	GenerateUniform() GPUCameraUniform

	// BindGroupLayoutDescriptor describes the camera bind group for the shading stage.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: one fragment-visible uniform of GPUCameraUniformSize bytes
	BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// BindGroupProvider returns the provider holding the camera's GPU block.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// InitGPU allocates the camera block through the uploader.
	//
	// Parameters:
	//   - u: the uploader that owns the GPU device
	//
	// Returns:
	//   - error: an error if the block could not be allocated
	InitGPU(u bind_group_provider.Uploader) error

	// UpdateBuffers integrates movement, regenerates the uniform and overwrites the whole GPU block.
	//
	// Parameters:
	//   - u: the uploader that owns the GPU queue
	UpdateBuffers(u bind_group_provider.Uploader)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at DefaultPosition looking along +X with zero pitch.
// Any starting yaw is reduced into (0, 2π]; a yaw of 0 is stored as the equivalent 2π.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		width:       DefaultWidth,
		height:      DefaultHeight,
		position:    DefaultPosition,
		yaw:         0,
		pitch:       0,
		screenDepth: DefaultScreenDepth,
		movement:    &Movement{Speed: DefaultSpeed},
	}
	for _, option := range options {
		option(c)
	}
	c.yaw = common.NormalizeYaw(c.yaw)
	c.pitch = common.ClampPitch(c.pitch)
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		)
	}
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.position
}

func (c *cameraImpl) SetPosition(pos []float32) {
	if len(pos) != 3 {
		panic(fmt.Sprintf("camera: SetPosition expects 3 components, got %d", len(pos)))
	}
	c.position = mgl32.Vec3{pos[0], pos[1], pos[2]}
}

func (c *cameraImpl) SetPositionVec(pos mgl32.Vec3) {
	c.position = pos
}

func (c *cameraImpl) Yaw() float32 {
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	return c.pitch
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	sinYaw, cosYaw := math32.Sincos(c.yaw)
	sinPitch, cosPitch := math32.Sincos(c.pitch)
	return mgl32.Vec3{cosYaw * cosPitch, sinPitch, sinYaw * cosPitch}
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	sin, cos := math32.Sincos(c.yaw - common.HalfPi)
	return mgl32.Vec3{cos, 0, sin}
}

// Up is written out rather than derived from a cross product; the sign convention is what the shader expects.
func (c *cameraImpl) Up() mgl32.Vec3 {
	sinYaw, cosYaw := math32.Sincos(c.yaw)
	sinPitch, cosPitch := math32.Sincos(c.pitch)
	return mgl32.Vec3{-cosYaw * sinPitch, cosPitch, -sinYaw * sinPitch}
}

func (c *cameraImpl) Size() (width, height int) {
	return c.width, c.height
}

func (c *cameraImpl) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
}

func (c *cameraImpl) AspectRatio() float32 {
	return float32(c.width) / float32(c.height)
}

func (c *cameraImpl) ScreenDepth() float32 {
	return c.screenDepth
}

func (c *cameraImpl) SetScreenDepth(depth float32) {
	c.screenDepth = depth
}

func (c *cameraImpl) Movement() *Movement {
	return c.movement
}

func (c *cameraImpl) SetSpeed(speed float32) {
	c.movement.Speed = speed
}

func (c *cameraImpl) IntegrateMovement() {
	m := c.movement

	// Translation uses the basis from before this frame's rotation.
	c.position = c.position.Add(c.Right().Mul(m.Right * m.Speed))
	c.position = c.position.Add(c.Up().Mul(m.Up * m.Speed))
	c.position = c.position.Add(c.Forward().Mul(m.Forward * m.Speed))

	c.pitch = common.ClampPitch(c.pitch + m.Pitch)
	c.yaw = common.WrapYaw(c.yaw + m.Yaw)

	m.resetImpulses()
}

func (c *cameraImpl) GenerateUniform() GPUCameraUniform {
	left := c.Right().Mul(-1)
	up := c.Up()
	forward := c.Forward()
	return GPUCameraUniform{
		RayDirMat: [3][4]float32{
			{left[0], left[1], left[2], 0},
			{up[0], up[1], up[2], 0},
			{forward[0], forward[1], forward[2], 0},
		},
		Position: [3]float32{c.position[0], c.position[1], c.position[2]},
		Ratio:    c.AspectRatio(),
		Depth:    c.screenDepth,
	}
}

func (c *cameraImpl) BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return bind_group_provider.UniformLayoutDescriptor(c.bindGroupProvider.Label(), GPUCameraUniformSize)
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

func (c *cameraImpl) InitGPU(u bind_group_provider.Uploader) error {
	if err := u.InitBindGroup(c.bindGroupProvider, c.BindGroupLayoutDescriptor(), nil, nil); err != nil {
		return fmt.Errorf("camera: failed to allocate uniform block: %w", err)
	}
	return nil
}

func (c *cameraImpl) UpdateBuffers(u bind_group_provider.Uploader) {
	c.IntegrateMovement()
	uniform := c.GenerateUniform()
	u.WriteBuffers([]bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(c.bindGroupProvider, &uniform),
	})
}
