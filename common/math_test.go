package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestClampPitch(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"inside", 0.5, 0.5},
		{"upper pole", HalfPi, HalfPi},
		{"past upper pole", HalfPi + 0.3, HalfPi},
		{"past lower pole", -HalfPi - 7, -HalfPi},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPitch(tt.in); got != tt.want {
				t.Errorf("ClampPitch(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrapYaw(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"inside", 1, 1},
		{"full turn stays", TwoPi, TwoPi},
		{"zero wraps to full turn", 0, TwoPi},
		{"negative", -0.25, TwoPi - 0.25},
		{"past full turn", TwoPi + 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapYaw(tt.in)
			if !mgl32.FloatEqualThreshold(got, tt.want, 1e-5) {
				t.Errorf("WrapYaw(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got <= 0 || got > TwoPi {
				t.Errorf("WrapYaw(%v) = %v, outside (0, 2π]", tt.in, got)
			}
		})
	}
}

func TestNormalizeYaw(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"inside", 1, 1},
		{"zero", 0, TwoPi},
		{"full turn", TwoPi, TwoPi},
		{"many turns", 100, 100 - 15*TwoPi},
		{"negative turns", -10, -10 + 2*TwoPi},
		{"exact multiple", 4 * TwoPi, TwoPi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeYaw(tt.in)
			if got <= 0 || got > TwoPi {
				t.Fatalf("NormalizeYaw(%v) = %v, outside (0, 2π]", tt.in, got)
			}
			// Angles equal modulo 2π; compare on the circle so 2π and a tiny residue agree.
			d := math32.Mod(math32.Abs(got-tt.want), TwoPi)
			if d > 1e-4 && TwoPi-d > 1e-4 {
				t.Errorf("NormalizeYaw(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "camera"); got != "camera" {
		t.Errorf("Coalesce = %q, want %q", got, "camera")
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce = %d, want 0", got)
	}
	if got := Coalesce[float32](0, 2, 3); got != 2 {
		t.Errorf("Coalesce = %v, want 2", got)
	}
}
