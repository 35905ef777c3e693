package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-bulb/common"
	"github.com/Carmen-Shannon/oxy-bulb/engine/camera"
	"github.com/Carmen-Shannon/oxy-bulb/engine/input"
	"github.com/Carmen-Shannon/oxy-bulb/engine/mandelbulb"
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
)

type fakeWindow struct {
	width, height int
	iterations    int
	closeRequests int
	closed        bool

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(uint32)
	onKeyUp   func(uint32)
	onMotion  func(dx, dy float64)
}

func (w *fakeWindow) SetUpdateCallback(cb func())                    { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int))   { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(uint32))             { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(uint32))               { w.onKeyUp = cb }
func (w *fakeWindow) SetMouseMotionCallback(cb func(dx, dy float64)) { w.onMotion = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor     { return nil }
func (w *fakeWindow) IsRunning() bool                                { return !w.closed }
func (w *fakeWindow) RequestClose()                                  { w.closeRequests++; w.closed = true }
func (w *fakeWindow) Close() error                                   { w.closed = true; return nil }
func (w *fakeWindow) Width() int                                     { return w.width }
func (w *fakeWindow) Height() int                                    { return w.height }

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && !w.closed; i++ {
		w.onUpdate()
	}
}

type fakeTarget struct {
	log      []string
	writes   []bind_group_provider.BufferWrite
	resizes  [][2]int
	beginErr error
	initErr  error
}

func (f *fakeTarget) InitBindGroup(p bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, _ map[int]uint64) error {
	f.log = append(f.log, "init "+p.Label())
	return f.initErr
}

func (f *fakeTarget) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		f.log = append(f.log, "write "+w.Provider.Label())
	}
	f.writes = append(f.writes, writes...)
}

func (f *fakeTarget) Resize(width, height int) {
	f.log = append(f.log, "resize")
	f.resizes = append(f.resizes, [2]int{width, height})
}

func (f *fakeTarget) BeginFrame() error {
	f.log = append(f.log, "begin")
	return f.beginErr
}

func (f *fakeTarget) EndFrame() { f.log = append(f.log, "end") }
func (f *fakeTarget) Present()  { f.log = append(f.log, "present") }

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, *fakeWindow, *fakeTarget) {
	t.Helper()
	w := &fakeWindow{width: 800, height: 400}
	target := &fakeTarget{}
	cam := camera.NewCamera(camera.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("cam")))
	frac := mandelbulb.NewMandelbulb(mandelbulb.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("frac")))
	options = append([]EngineBuilderOption{WithCamera(cam), WithFractal(frac)}, options...)
	e := NewEngine(w, target, options...)
	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	target.log = nil
	return e, w, target
}

func TestNewEngineSizesCamera(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if w, h := e.Camera().Size(); w != 800 || h != 400 {
		t.Errorf("camera size = %dx%d, want 800x400", w, h)
	}
}

func TestStepOrder(t *testing.T) {
	var rendered []Frame
	e, _, target := newTestEngine(t, WithRenderCallback(func(f Frame) {
		rendered = append(rendered, f)
	}))

	e.Step()
	e.Step()

	want := []string{
		"write cam", "write frac", "begin", "end", "present",
		"write cam", "begin", "end", "present",
	}
	if d := cmp.Diff(want, target.log); d != "" {
		t.Errorf("frame log (-want +got):\n%s", d)
	}
	if len(rendered) != 2 || !rendered[0].FractalSynced || rendered[1].FractalSynced || rendered[1].Index != 1 {
		t.Errorf("frames = %+v", rendered)
	}
}

func TestKeyInputReachesCameraAndFractal(t *testing.T) {
	e, w, target := newTestEngine(t)
	e.Step()
	target.writes = nil

	w.onKeyDown(common.KeyW)
	w.onKeyDown(common.KeyE)
	start := e.Camera().Position()
	e.Step()

	if got := e.Camera().Position(); got == start {
		t.Error("holding W did not move the camera")
	}
	if len(target.writes) != 2 {
		t.Errorf("got %d writes after a power edit, want camera + fractal", len(target.writes))
	}

	w.onKeyUp(common.KeyW)
	if e.Camera().Movement().Forward != 0 {
		t.Error("releasing W did not clear the forward intent")
	}
}

func TestMouseMotionIsConsumedOnce(t *testing.T) {
	e, w, _ := newTestEngine(t)
	yaw := e.Camera().Yaw()

	w.onMotion(40, 0)
	e.Step()
	turned := e.Camera().Yaw()
	if turned == yaw {
		t.Fatal("mouse motion did not turn the camera")
	}

	e.Step()
	if e.Camera().Yaw() != turned {
		t.Error("the impulse was applied twice")
	}
}

func TestEscapeQuits(t *testing.T) {
	e, w, _ := newTestEngine(t)
	w.onKeyDown(common.KeyEsc)
	e.Quit()
	if w.closeRequests != 1 {
		t.Errorf("close requested %d times, want 1", w.closeRequests)
	}
}

func TestRouterOptionsOverrideExit(t *testing.T) {
	custom := 0
	_, w, _ := newTestEngine(t, WithRouterOptions(input.WithExitCallback(func() { custom++ })))
	w.onKeyDown(common.KeyEsc)
	if custom != 1 || w.closeRequests != 0 {
		t.Errorf("custom exit = %d, close requests = %d; want 1, 0", custom, w.closeRequests)
	}
}

func TestResizeReachesCameraAndTarget(t *testing.T) {
	e, w, target := newTestEngine(t)
	w.width, w.height = 1000, 250
	w.onResize(1000, 250)

	if got := e.Camera().AspectRatio(); got != 4 {
		t.Errorf("aspect = %v, want 4", got)
	}
	if d := cmp.Diff([][2]int{{1000, 250}}, target.resizes); d != "" {
		t.Errorf("target resizes (-want +got):\n%s", d)
	}
}

func TestLostSurfaceReconfigures(t *testing.T) {
	called := false
	e, _, target := newTestEngine(t, WithRenderCallback(func(Frame) { called = true }))
	target.beginErr = errors.New("surface outdated")

	e.Step()

	if called {
		t.Error("render callback ran without a frame")
	}
	want := []string{"write cam", "write frac", "begin", "resize"}
	if d := cmp.Diff(want, target.log); d != "" {
		t.Errorf("frame log (-want +got):\n%s", d)
	}
	if d := cmp.Diff([][2]int{{800, 400}}, target.resizes); d != "" {
		t.Errorf("resizes (-want +got):\n%s", d)
	}

	target.beginErr = nil
	e.Step()
	if !called {
		t.Error("render callback did not run after recovery")
	}
}

func TestSurfaceTimeoutSkipsFrame(t *testing.T) {
	e, w, target := newTestEngine(t)
	target.beginErr = &renderer.SurfaceError{
		Status: wgpu.SurfaceGetCurrentTextureStatusTimeout,
		Err:    errors.New("acquire timed out"),
	}

	e.Step()

	want := []string{"write cam", "write frac", "begin"}
	if d := cmp.Diff(want, target.log); d != "" {
		t.Errorf("frame log (-want +got):\n%s", d)
	}
	if w.closeRequests != 0 {
		t.Errorf("timeout requested close %d times, want 0", w.closeRequests)
	}
}

func TestSurfaceOutOfMemoryStopsRun(t *testing.T) {
	oom := &renderer.SurfaceError{
		Status: wgpu.SurfaceGetCurrentTextureStatusOutOfMemory,
		Err:    errors.New("out of memory"),
	}
	w := &fakeWindow{width: 10, height: 10, iterations: 5}
	target := &fakeTarget{beginErr: oom}
	e := NewEngine(w, target)

	err := e.Run()
	if !errors.Is(err, oom) {
		t.Errorf("Run error = %v, want wrapped %v", err, oom)
	}
	if w.closeRequests != 1 {
		t.Errorf("close requests = %d, want 1", w.closeRequests)
	}
	if len(target.resizes) != 0 {
		t.Errorf("fatal surface error reconfigured %d times", len(target.resizes))
	}
}

func TestInitErrorIsWrapped(t *testing.T) {
	boom := errors.New("no memory")
	w := &fakeWindow{width: 10, height: 10}
	e := NewEngine(w, &fakeTarget{initErr: boom})
	if err := e.Run(); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want wrapped %v", err, boom)
	}
}

func TestRunDrivesWindowLoop(t *testing.T) {
	frames := 0
	w := &fakeWindow{width: 10, height: 10, iterations: 3}
	e := NewEngine(w, &fakeTarget{}, WithRenderCallback(func(Frame) { frames++ }))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if frames != 3 {
		t.Errorf("rendered %d frames, want 3", frames)
	}
}

func TestDeltaTimeFromClock(t *testing.T) {
	now := time.Unix(100, 0)
	var got []float32
	e, _, _ := newTestEngine(t,
		WithClock(func() time.Time { return now }),
		WithRenderCallback(func(f Frame) { got = append(got, f.DeltaTime) }),
	)
	now = now.Add(16 * time.Millisecond)
	e.Step()
	now = now.Add(32 * time.Millisecond)
	e.Step()
	if d := cmp.Diff([]float32{0.016, 0.032}, got); d != "" {
		t.Errorf("delta times (-want +got):\n%s", d)
	}
}

func TestNewEnginePanicsWithoutWindow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewEngine(nil, nil) did not panic")
		}
	}()
	NewEngine(nil, nil)
}

func TestAdaptiveSpeed(t *testing.T) {
	a := &adaptiveSpeed{scale: 0.5, minSpeed: 0.0001, maxSpeed: 0.01}
	tests := []struct {
		distance, want float32
	}{
		{0.015625, 0.0078125},
		{0, 0.0001},
		{5, 0.01},
		{mandelbulb.DistanceSentinel, 0.01},
	}
	for _, tt := range tests {
		if got := a.speedFor(tt.distance); got != tt.want {
			t.Errorf("speedFor(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}

	e, _, _ := newTestEngine(t, WithAdaptiveSpeed(0.1, 0.0001, 0.01))
	e.Camera().SetPositionVec(mgl32.Vec3{10, 10, 10})
	e.Step()
	if got := e.Camera().Movement().Speed; got != 0.01 {
		t.Errorf("speed far from the fractal = %v, want the 0.01 cap", got)
	}
}
