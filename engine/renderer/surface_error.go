package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceError reports why the surface texture for a frame could not be acquired.
// Lost and Outdated surfaces are recovered by reconfiguring, a Timeout only skips the frame,
// and OutOfMemory or DeviceLost are fatal.
type SurfaceError struct {
	Status wgpu.SurfaceGetCurrentTextureStatus
	Err    error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("renderer: surface %s: %v", e.Status, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the frame loop cannot continue.
//
// Returns:
//   - bool: true for OutOfMemory and DeviceLost
func (e *SurfaceError) Fatal() bool {
	return e.Status == wgpu.SurfaceGetCurrentTextureStatusOutOfMemory ||
		e.Status == wgpu.SurfaceGetCurrentTextureStatusDeviceLost
}

// SurfaceStatus extracts the acquisition status from a BeginFrame error.
// Errors that carry no status are treated as a lost surface.
//
// Parameters:
//   - err: the error returned by BeginFrame
//
// Returns:
//   - wgpu.SurfaceGetCurrentTextureStatus: the status, Success for a nil error
func SurfaceStatus(err error) wgpu.SurfaceGetCurrentTextureStatus {
	if err == nil {
		return wgpu.SurfaceGetCurrentTextureStatusSuccess
	}
	var se *SurfaceError
	if errors.As(err, &se) {
		return se.Status
	}
	return wgpu.SurfaceGetCurrentTextureStatusLost
}

// classifySurfaceError wraps an acquisition error with its status.
// The webgpu binding reports failures as message text only, so the status is read from it.
//
// Parameters:
//   - err: the error from Surface.GetCurrentTexture
//
// Returns:
//   - *SurfaceError: the classified error
func classifySurfaceError(err error) *SurfaceError {
	msg := strings.ToLower(err.Error())
	status := wgpu.SurfaceGetCurrentTextureStatusLost
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		status = wgpu.SurfaceGetCurrentTextureStatusTimeout
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		status = wgpu.SurfaceGetCurrentTextureStatusOutOfMemory
	case strings.Contains(msg, "device lost"), strings.Contains(msg, "device is lost"), strings.Contains(msg, "devicelost"):
		status = wgpu.SurfaceGetCurrentTextureStatusDeviceLost
	case strings.Contains(msg, "outdated"):
		status = wgpu.SurfaceGetCurrentTextureStatusOutdated
	}
	return &SurfaceError{Status: status, Err: err}
}
