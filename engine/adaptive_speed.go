package engine

import (
	"github.com/Carmen-Shannon/oxy-bulb/engine/camera"
	"github.com/Carmen-Shannon/oxy-bulb/engine/mandelbulb"
	"github.com/chewxy/math32"
)

// adaptiveSpeed scales movement speed with the distance to the fractal surface,
// so the camera slows down as it approaches detail.
type adaptiveSpeed struct {
	scale    float32
	minSpeed float32
	maxSpeed float32
}

func (a *adaptiveSpeed) speedFor(distance float32) float32 {
	s := distance * a.scale
	if distance == mandelbulb.DistanceSentinel || math32.IsNaN(s) || s > a.maxSpeed {
		return a.maxSpeed
	}
	if s < a.minSpeed {
		return a.minSpeed
	}
	return s
}

func (a *adaptiveSpeed) apply(cam camera.Camera, fractal mandelbulb.Mandelbulb) {
	cam.SetSpeed(a.speedFor(fractal.EstimatedDistance(cam.Position())))
}
