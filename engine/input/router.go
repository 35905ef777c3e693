package input

import (
	"log"

	"github.com/Carmen-Shannon/oxy-bulb/common"
	"github.com/Carmen-Shannon/oxy-bulb/engine/camera"
	"github.com/Carmen-Shannon/oxy-bulb/engine/mandelbulb"
)

// Transition is the edge of a key event.
type Transition uint8

const (
	Pressed Transition = iota
	Released
)

func (t Transition) String() string {
	switch t {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	}
	return "unknown"
}

// KeyEvent identifies one row of the binding table.
type KeyEvent struct {
	Key        uint32
	Transition Transition
}

// Target is what a bound action is allowed to touch.
type Target struct {
	Movement *camera.Movement
	Fractal  mandelbulb.Mandelbulb
	Exit     func()
}

// Action mutates the target in response to a key event.
type Action func(t Target)

// PowerStep is the power change applied by a single Q or E press.
const PowerStep float32 = 0.01

// DefaultMouseDivisor scales pointer motion in pixels to radians of yaw/pitch.
const DefaultMouseDivisor = 400.0

// SetForward returns an action that writes the forward axis intent.
func SetForward(v float32) Action {
	return func(t Target) { t.Movement.Forward = v }
}

// SetRight returns an action that writes the right axis intent.
func SetRight(v float32) Action {
	return func(t Target) { t.Movement.Right = v }
}

// SetUp returns an action that writes the up axis intent.
func SetUp(v float32) Action {
	return func(t Target) { t.Movement.Up = v }
}

// AdjustPower returns an action that adds delta to the fractal power.
func AdjustPower(delta float32) Action {
	return func(t Target) {
		t.Fractal.AdjustPower(delta)
		log.Printf("[Input] Power: %.2f", t.Fractal.Power())
	}
}

// RequestExit returns an action that invokes the exit callback, if any.
func RequestExit() Action {
	return func(t Target) {
		if t.Exit != nil {
			t.Exit()
		}
	}
}

// DefaultBindings returns a fresh copy of the viewer's key table.
// Movement keys write their axis on both edges; the power keys act on press only,
// so their releases stay unbound and are reported as not consumed.
//
// Returns:
//   - map[KeyEvent]Action: the default table
func DefaultBindings() map[KeyEvent]Action {
	axis := func(key uint32, set func(float32) Action, sign float32) map[KeyEvent]Action {
		return map[KeyEvent]Action{
			{key, Pressed}:  set(sign),
			{key, Released}: set(0),
		}
	}

	b := map[KeyEvent]Action{
		{common.KeyQ, Pressed}:   AdjustPower(-PowerStep),
		{common.KeyE, Pressed}:   AdjustPower(PowerStep),
		{common.KeyEsc, Pressed}: RequestExit(),
	}
	for _, m := range []map[KeyEvent]Action{
		axis(common.KeyA, SetRight, 1),
		axis(common.KeyD, SetRight, -1),
		axis(common.KeyW, SetForward, 1),
		axis(common.KeyS, SetForward, -1),
		axis(common.KeyLeftShift, SetUp, 1),
		axis(common.KeyC, SetUp, -1),
	} {
		for k, v := range m {
			b[k] = v
		}
	}
	return b
}

type routerImpl struct {
	cam     camera.Camera
	fractal mandelbulb.Mandelbulb

	bindings     map[KeyEvent]Action
	mouseDivisor float64
	onExit       func()
}

// Router translates window events into Movement, fractal and viewport changes.
// It runs on the frame-driving thread, strictly alternating with Camera.IntegrateMovement.
type Router interface {
	// HandleKey runs the action bound to (key, transition).
	//
	// Parameters:
	//   - key: the GLFW key code
	//   - transition: Pressed or Released
	//
	// Returns:
	//   - bool: true if a binding consumed the event
	HandleKey(key uint32, transition Transition) bool

	// HandleMouseMotion sets the yaw/pitch impulses from a relative pointer delta.
	// Vertical motion is inverted so moving the pointer up pitches the view up.
	//
	// Parameters:
	//   - dx, dy: pointer motion in pixels since the previous event
	HandleMouseMotion(dx, dy float64)

	// HandleResize forwards a new viewport size to the camera.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	HandleResize(width, height int)

	// Bound reports whether an action exists for the event.
	//
	// Parameters:
	//   - ev: the key event
	//
	// Returns:
	//   - bool: true if bound
	Bound(ev KeyEvent) bool
}

var _ Router = &routerImpl{}

// NewRouter creates a Router over the given camera and fractal with the default bindings.
//
// Parameters:
//   - cam: the camera whose Movement and viewport are driven
//   - fractal: the fractal whose power the Q/E keys edit
//   - options: functional options to configure the router
//
// Returns:
//   - Router: the configured router
func NewRouter(cam camera.Camera, fractal mandelbulb.Mandelbulb, options ...RouterBuilderOption) Router {
	if cam == nil || fractal == nil {
		panic("input: NewRouter requires a camera and a fractal")
	}
	r := &routerImpl{
		cam:          cam,
		fractal:      fractal,
		bindings:     DefaultBindings(),
		mouseDivisor: DefaultMouseDivisor,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *routerImpl) target() Target {
	return Target{
		Movement: r.cam.Movement(),
		Fractal:  r.fractal,
		Exit:     r.onExit,
	}
}

func (r *routerImpl) HandleKey(key uint32, transition Transition) bool {
	action, ok := r.bindings[KeyEvent{Key: key, Transition: transition}]
	if !ok {
		return false
	}
	action(r.target())
	return true
}

func (r *routerImpl) HandleMouseMotion(dx, dy float64) {
	m := r.cam.Movement()
	m.Yaw = float32(dx / r.mouseDivisor)
	m.Pitch = float32(-dy / r.mouseDivisor)
}

func (r *routerImpl) HandleResize(width, height int) {
	r.cam.SetSize(width, height)
}

func (r *routerImpl) Bound(ev KeyEvent) bool {
	_, ok := r.bindings[ev]
	return ok
}
