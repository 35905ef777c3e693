package common

import (
	"github.com/chewxy/math32"
)

const (
	// HalfPi is the pitch limit in both directions (looking straight up or down).
	HalfPi = math32.Pi / 2

	// TwoPi is one full turn of yaw.
	TwoPi = math32.Pi * 2
)

// ClampPitch limits a pitch angle to [-π/2, π/2]. Angles beyond a pole stop at the pole;
// there is no wraparound over the top.
//
// Parameters:
//   - pitch: the pitch angle in radians
//
// Returns:
//   - float32: the clamped pitch in radians
func ClampPitch(pitch float32) float32 {
	if pitch > HalfPi {
		return HalfPi
	}
	if pitch < -HalfPi {
		return -HalfPi
	}
	return pitch
}

// NormalizeYaw reduces any finite yaw angle into (0, 2π].
// Use it for arbitrary input such as a starting angle; WrapYaw is the cheaper per-frame step.
//
// Parameters:
//   - yaw: the yaw angle in radians
//
// Returns:
//   - float32: the equivalent yaw in (0, 2π]
func NormalizeYaw(yaw float32) float32 {
	y := math32.Mod(yaw, TwoPi)
	if y <= 0 {
		y += TwoPi
	}
	// Mod of a value a hair below a multiple of 2π can round back up to it.
	if y > TwoPi {
		y = TwoPi
	}
	return y
}

// WrapYaw brings a yaw angle back into (0, 2π] with a single step.
// This is not a modulo: it is only correct when the angle is at most one turn outside the range,
// which holds when per-frame yaw deltas stay below 2π.
//
// Parameters:
//   - yaw: the yaw angle in radians
//
// Returns:
//   - float32: the wrapped yaw in radians
func WrapYaw(yaw float32) float32 {
	if yaw > TwoPi {
		return yaw - TwoPi
	}
	if yaw <= 0 {
		return yaw + TwoPi
	}
	return yaw
}
