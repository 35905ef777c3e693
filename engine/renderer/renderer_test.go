package renderer

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-bulb/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/go-cmp/cmp"
)

type fakeBackend struct {
	calls       []string
	sizes       [][2]int
	presentMode *PresentMode
	clear       *wgpu.Color
	writes      []bind_group_provider.BufferWrite
	initErr     error
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.calls = append(f.calls, "configure")
	f.sizes = append(f.sizes, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.calls = append(f.calls, "present-mode")
	f.presentMode = &mode
}
func (f *fakeBackend) SetClearColor(color wgpu.Color) {
	f.calls = append(f.calls, "clear-color")
	f.clear = &color
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	f.calls = append(f.calls, "init")
	return f.initErr
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.calls = append(f.calls, "write")
	f.writes = append(f.writes, writes...)
}
func (f *fakeBackend) BeginFrame() error                 { f.calls = append(f.calls, "begin"); return nil }
func (f *fakeBackend) Pass() *wgpu.RenderPassEncoder     { return nil }
func (f *fakeBackend) EndFrame()                         { f.calls = append(f.calls, "end") }
func (f *fakeBackend) Present()                          { f.calls = append(f.calls, "present") }
func (f *fakeBackend) Device() *wgpu.Device              { return nil }
func (f *fakeBackend) Queue() *wgpu.Queue                { return nil }
func (f *fakeBackend) Surface() *wgpu.Surface            { return nil }
func (f *fakeBackend) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8UnormSrgb }
func (f *fakeBackend) Release()                          { f.calls = append(f.calls, "release") }

func newFakeRenderer(backend *fakeBackend, options ...RendererBuilderOption) *renderer {
	r := &renderer{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(r)
	}
	r.attach(backend, 640, 480)
	return r
}

func TestAttachAppliesPendingOptions(t *testing.T) {
	fb := &fakeBackend{}
	clear := wgpu.Color{R: 0.2, A: 1}
	newFakeRenderer(fb, WithPresentMode(PresentModeVSync), WithClearColor(clear))

	if d := cmp.Diff([]string{"present-mode", "clear-color", "configure"}, fb.calls); d != "" {
		t.Errorf("attach call order (-want +got):\n%s", d)
	}
	if fb.presentMode == nil || *fb.presentMode != PresentModeVSync {
		t.Errorf("present mode = %v, want VSync", fb.presentMode)
	}
	if fb.clear == nil || *fb.clear != clear {
		t.Errorf("clear colour = %v, want %v", fb.clear, clear)
	}
	if d := cmp.Diff([][2]int{{640, 480}}, fb.sizes); d != "" {
		t.Errorf("configured sizes (-want +got):\n%s", d)
	}
}

func TestResizeIgnoresMinimizedWindow(t *testing.T) {
	fb := &fakeBackend{}
	r := newFakeRenderer(fb)

	r.Resize(0, 0)
	r.Resize(800, -1)
	r.Resize(1024, 768)

	if d := cmp.Diff([][2]int{{640, 480}, {1024, 768}}, fb.sizes); d != "" {
		t.Errorf("configured sizes (-want +got):\n%s", d)
	}
}

func TestUploaderDelegates(t *testing.T) {
	boom := errors.New("out of memory")
	fb := &fakeBackend{initErr: boom}
	r := newFakeRenderer(fb)
	p := bind_group_provider.NewBindGroupProvider("test")

	if err := r.InitBindGroup(p, bind_group_provider.UniformLayoutDescriptor("test", 16), nil, nil); !errors.Is(err, boom) {
		t.Errorf("InitBindGroup error = %v, want %v", err, boom)
	}
	w := bind_group_provider.BufferWrite{Provider: p, Data: []byte{1, 2, 3, 4}}
	r.WriteBuffers([]bind_group_provider.BufferWrite{w})
	if len(fb.writes) != 1 || fb.writes[0].Provider != p {
		t.Errorf("writes = %+v, want the single staged write", fb.writes)
	}
}

func TestFrameSequenceDelegates(t *testing.T) {
	fb := &fakeBackend{}
	r := newFakeRenderer(fb)
	fb.calls = nil

	if err := r.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	r.EndFrame()
	r.Present()
	r.Release()

	if d := cmp.Diff([]string{"begin", "end", "present", "release"}, fb.calls); d != "" {
		t.Errorf("frame calls (-want +got):\n%s", d)
	}
	if r.SurfaceFormat() != wgpu.TextureFormatBGRA8UnormSrgb {
		t.Errorf("surface format = %v", r.SurfaceFormat())
	}
}

func TestPickSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
		wantErr bool
	}{
		{"none", nil, wgpu.TextureFormatUndefined, true},
		{"prefers srgb", []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}, wgpu.TextureFormatBGRA8UnormSrgb, false},
		{"rgba srgb", []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb}, wgpu.TextureFormatRGBA8UnormSrgb, false},
		{"first otherwise", []wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatBGRA8Unorm}, wgpu.TextureFormatRGBA16Float, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickSurfaceFormat(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPresentModes(t *testing.T) {
	if presentModeFor(PresentModeVSync) != wgpu.PresentModeFifo {
		t.Error("VSync should map to FIFO")
	}
	if presentModeFor(PresentModeUncapped) != wgpu.PresentModeImmediate {
		t.Error("Uncapped should map to Immediate")
	}

	fifoOnly := []wgpu.PresentMode{wgpu.PresentModeFifo}
	if got := pickPresentMode(wgpu.PresentModeImmediate, fifoOnly); got != wgpu.PresentModeFifo {
		t.Errorf("unsupported immediate fell back to %v, want FIFO", got)
	}
	both := []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate}
	if got := pickPresentMode(wgpu.PresentModeImmediate, both); got != wgpu.PresentModeImmediate {
		t.Errorf("supported immediate became %v", got)
	}
	if got := pickPresentMode(wgpu.PresentModeMailbox, nil); got != wgpu.PresentModeMailbox {
		t.Errorf("unknown capabilities changed the mode to %v", got)
	}
}

func TestBufferUsageFor(t *testing.T) {
	u, err := bufferUsageFor(wgpu.BufferBindingTypeUniform)
	if err != nil || u != wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst {
		t.Errorf("uniform usage = %v, %v", u, err)
	}
	if _, err := bufferUsageFor(wgpu.BufferBindingTypeUndefined); err == nil {
		t.Error("non-buffer binding accepted")
	}
}

func TestClassifySurfaceError(t *testing.T) {
	tests := []struct {
		msg   string
		want  wgpu.SurfaceGetCurrentTextureStatus
		fatal bool
	}{
		{"wgpu.(*Surface).GetCurrentTexture(): Surface timed out", wgpu.SurfaceGetCurrentTextureStatusTimeout, false},
		{"wgpu.(*Surface).GetCurrentTexture(): Surface is outdated, needs to be re-created", wgpu.SurfaceGetCurrentTextureStatusOutdated, false},
		{"wgpu.(*Surface).GetCurrentTexture(): Surface was lost", wgpu.SurfaceGetCurrentTextureStatusLost, false},
		{"wgpu.(*Surface).GetCurrentTexture(): Out of memory", wgpu.SurfaceGetCurrentTextureStatusOutOfMemory, true},
		{"wgpu.(*Surface).GetCurrentTexture(): Parent device is lost", wgpu.SurfaceGetCurrentTextureStatusDeviceLost, true},
		{"something else", wgpu.SurfaceGetCurrentTextureStatusLost, false},
	}
	for _, tt := range tests {
		cause := errors.New(tt.msg)
		se := classifySurfaceError(cause)
		if se.Status != tt.want {
			t.Errorf("%q classified as %v, want %v", tt.msg, se.Status, tt.want)
		}
		if se.Fatal() != tt.fatal {
			t.Errorf("%q fatal = %v, want %v", tt.msg, se.Fatal(), tt.fatal)
		}
		if !errors.Is(se, cause) {
			t.Errorf("%q does not unwrap to its cause", tt.msg)
		}
	}
}

func TestSurfaceStatus(t *testing.T) {
	if got := SurfaceStatus(nil); got != wgpu.SurfaceGetCurrentTextureStatusSuccess {
		t.Errorf("nil error status = %v, want success", got)
	}
	if got := SurfaceStatus(errors.New("plain")); got != wgpu.SurfaceGetCurrentTextureStatusLost {
		t.Errorf("plain error status = %v, want lost", got)
	}
	wrapped := fmt.Errorf("frame: %w", &SurfaceError{Status: wgpu.SurfaceGetCurrentTextureStatusTimeout, Err: errors.New("slow")})
	if got := SurfaceStatus(wrapped); got != wgpu.SurfaceGetCurrentTextureStatusTimeout {
		t.Errorf("wrapped status = %v, want timeout", got)
	}
}
