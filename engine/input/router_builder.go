package input

// RouterBuilderOption is a functional option for configuring a Router.
type RouterBuilderOption func(r *routerImpl)

// WithBinding binds or replaces the action for a key transition. A nil action removes the binding.
//
// Parameters:
//   - key: the GLFW key code
//   - transition: Pressed or Released
//   - action: the action to run
//
// Returns:
//   - RouterBuilderOption: option function to apply
func WithBinding(key uint32, transition Transition, action Action) RouterBuilderOption {
	return func(r *routerImpl) {
		ev := KeyEvent{Key: key, Transition: transition}
		if action == nil {
			delete(r.bindings, ev)
			return
		}
		r.bindings[ev] = action
	}
}

// WithMouseDivisor sets how many pixels of pointer motion make one radian of rotation.
// Non-positive values are ignored.
//
// Parameters:
//   - divisor: pixels per radian
//
// Returns:
//   - RouterBuilderOption: option function to apply
func WithMouseDivisor(divisor float64) RouterBuilderOption {
	return func(r *routerImpl) {
		if divisor > 0 {
			r.mouseDivisor = divisor
		}
	}
}

// WithExitCallback sets the function run by the exit binding.
//
// Parameters:
//   - callback: called when Esc is pressed
//
// Returns:
//   - RouterBuilderOption: option function to apply
func WithExitCallback(callback func()) RouterBuilderOption {
	return func(r *routerImpl) {
		r.onExit = callback
	}
}
