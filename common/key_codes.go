package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW   = 87  // W key (ASCII), fly forward
	KeyA   = 65  // A key (ASCII), strafe along +right
	KeyS   = 83  // S key (ASCII), fly backward
	KeyD   = 68  // D key (ASCII), strafe along -right
	KeyQ   = 81  // Q key (ASCII), lower the fractal power
	KeyE   = 69  // E key (ASCII), raise the fractal power
	KeyC   = 67  // C key (ASCII), descend
	KeyEsc = 256 // Escape key (GLFW), exit
)

// Additional non-printable keys
const (
	KeyLeftShift = 340 // Left Shift (GLFW), ascend
)
