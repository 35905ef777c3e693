package mandelbulb

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// escapeRadius is the bailout radius; once |z| exceeds it the orbit is known to diverge.
const escapeRadius = 2.0

// DistanceSentinel is returned when the seed itself is the origin or no iteration runs, where the
// estimator formula would divide by zero and take the log of zero. It reads as "far away" to any
// caller stepping by it. An orbit that reaches the origin later is bounded and reports 0.
const DistanceSentinel float32 = math.MaxFloat32

// Params is the numeric configuration of the power-N Mandelbulb distance estimator.
type Params struct {
	// Iterations caps the escape-time loop.
	Iterations int32
	// MaxRayMarchIterations caps the raymarch in the shading stage. Unused on the CPU.
	MaxRayMarchIterations int32
	// CollisionDistance is subtracted from every estimate so surfaces are hit slightly early.
	CollisionDistance float32
	// Power is the fractal exponent. Zero or negative powers are not guarded against.
	Power float32
	// ColorBlack and ColorWhite are the gradient endpoints used by the shading stage.
	ColorBlack [4]float32
	ColorWhite [4]float32
}

// DefaultParams returns the startup configuration.
//
// Returns:
//   - Params: 8 iterations, 150 raymarch steps, 0.0001 collision distance, power 7
func DefaultParams() Params {
	return Params{
		Iterations:            8,
		MaxRayMarchIterations: 150,
		CollisionDistance:     0.0001,
		Power:                 7.0,
		ColorBlack:            [4]float32{0.1, 0.1, 0.05, 0},
		ColorWhite:            [4]float32{0.8, 0.3, 0.1, 0},
	}
}

// EstimatedDistance returns a lower bound on the distance from pos to the fractal surface,
// reduced by CollisionDistance and clamped at zero.
//
// Each iteration maps z to z^Power + pos in spherical coordinates and tracks the running
// derivative dr. The result is 0.5·ln(r)·r/dr, the usual escape-time estimate.
//
// Parameters:
//   - pos: the world-space sample point
//
// Returns:
//   - float32: the estimated distance, or DistanceSentinel for a zero-radius seed
func (p Params) EstimatedDistance(pos mgl32.Vec3) float32 {
	z := pos
	dr := float32(1)
	r := float32(0)

	for i := range p.Iterations {
		r = z.Len()
		if r > escapeRadius {
			break
		}
		if r == 0 {
			if i == 0 {
				return DistanceSentinel
			}
			// z = 0 maps back to pos, so the orbit cycles and never escapes.
			return 0
		}

		// Rounding can push z.z/r a hair past ±1.
		theta := math32.Acos(math32.Max(-1, math32.Min(1, z[2]/r)))
		phi := math32.Atan2(z[1], z[0])
		dr = math32.Pow(r, p.Power-1)*p.Power*dr + 1

		zr := math32.Pow(r, p.Power)
		theta *= p.Power
		phi *= p.Power

		sinTheta, cosTheta := math32.Sincos(theta)
		sinPhi, cosPhi := math32.Sincos(phi)
		z = mgl32.Vec3{
			zr * sinTheta * cosPhi,
			zr * sinPhi * sinTheta,
			zr * cosTheta,
		}.Add(pos)
	}

	if r == 0 {
		return DistanceSentinel
	}
	return math32.Max(0.5*math32.Log(r)*r/dr-p.CollisionDistance, 0)
}

// Uniform converts the parameters into their GPU layout.
//
// Returns:
//   - GPUMandelbulbUniform: the block ready for upload
func (p Params) Uniform() GPUMandelbulbUniform {
	return GPUMandelbulbUniform{
		Iterations:            p.Iterations,
		MaxRayMarchIterations: p.MaxRayMarchIterations,
		CollisionDistance:     p.CollisionDistance,
		Power:                 p.Power,
		ColorBlack:            p.ColorBlack,
		ColorWhite:            p.ColorWhite,
	}
}
