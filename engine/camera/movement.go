package camera

// Movement accumulates user input between two integration steps.
//
// Forward, Right and Up are level-triggered axis intents in [-1, 1]: input sets them on key press,
// clears them on release, and integration leaves them alone. Yaw and Pitch are edge-triggered
// angular impulses in radians: input sets them per pointer event and every integration consumes
// and zeroes them. Speed scales all three translation axes.
type Movement struct {
	Forward float32
	Right   float32
	Up      float32

	Yaw   float32
	Pitch float32

	Speed float32
}

// resetImpulses zeroes the one-frame angular deltas.
func (m *Movement) resetImpulses() {
	m.Yaw = 0
	m.Pitch = 0
}
