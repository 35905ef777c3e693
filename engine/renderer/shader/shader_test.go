package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/go-cmp/cmp"
)

const testSource = `
// Block comment below hides a struct that must not be parsed.
/* struct Hidden { a: f32, } /* nested */ */
struct Inner {
    a: vec3<f32>,
    b: f32,
};

struct Outer {
    scale: f32,
    inner: Inner,     // trailing comment
    taps: array<vec2<f32>, 3>,
    flag: u32,
};

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

struct Unsized {
    data: array<f32>,
};

@group(0) @binding(0) var<uniform> outer: Outer;
@group(1) @binding(1) var<storage, read> tail: Inner;
@group(1) @binding(0) var<storage, read_write> head: Inner;
@group(2) @binding(0) var tex: texture_2d<f32>;

@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> VertexOut {
    var out: VertexOut;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestStructLayouts(t *testing.T) {
	s := NewShader("test", testSource)

	if d := cmp.Diff([]string{"Inner", "Outer", "VertexOut"}, s.StructNames()); d != "" {
		t.Errorf("struct names (-want +got):\n%s", d)
	}

	inner, ok := s.StructLayout("Inner")
	if !ok {
		t.Fatal("Inner did not resolve")
	}
	want := StructLayout{
		Name:  "Inner",
		Size:  16,
		Align: 16,
		Fields: []FieldLayout{
			{Name: "a", Type: "vec3<f32>", Offset: 0, Size: 12},
			{Name: "b", Type: "f32", Offset: 12, Size: 4},
		},
	}
	if d := cmp.Diff(want, inner); d != "" {
		t.Errorf("Inner layout (-want +got):\n%s", d)
	}

	outer, _ := s.StructLayout("Outer")
	offsets := map[string]uint64{"scale": 0, "inner": 16, "taps": 32, "flag": 56}
	for name, off := range offsets {
		f, ok := outer.Field(name)
		if !ok {
			t.Errorf("Outer has no field %q", name)
			continue
		}
		if f.Offset != off {
			t.Errorf("Outer.%s offset = %d, want %d", name, f.Offset, off)
		}
	}
	if outer.Size != 64 {
		t.Errorf("Outer size = %d, want 64", outer.Size)
	}

	vo, _ := s.StructLayout("VertexOut")
	if len(vo.Fields) != 1 || vo.Fields[0].Name != "uv" {
		t.Errorf("VertexOut fields = %+v, want only uv", vo.Fields)
	}

	if _, ok := s.StructLayout("Unsized"); ok {
		t.Error("runtime-sized struct should not resolve")
	}
	if _, ok := s.StructLayout("Hidden"); ok {
		t.Error("commented-out struct was parsed")
	}
}

func TestEntryPoints(t *testing.T) {
	s := NewShader("test", testSource)
	if got := s.EntryPoint(ShaderTypeVertex); got != "vs_main" {
		t.Errorf("vertex entry = %q, want vs_main", got)
	}
	if got := s.EntryPoint(ShaderTypeFragment); got != "fs_main" {
		t.Errorf("fragment entry = %q, want fs_main", got)
	}
	if got := s.EntryPoint(ShaderTypeCompute); got != "" {
		t.Errorf("compute entry = %q, want none", got)
	}
}

func TestBindGroupLayouts(t *testing.T) {
	s := NewShader("test", testSource)

	g0 := s.BindGroupLayoutDescriptor(0)
	if len(g0.Entries) != 1 {
		t.Fatalf("group 0 has %d entries, want 1", len(g0.Entries))
	}
	e := g0.Entries[0]
	if e.Binding != 0 || e.Visibility != wgpu.ShaderStageFragment {
		t.Errorf("group 0 entry binding/visibility = %d/%v, want 0/fragment", e.Binding, e.Visibility)
	}
	if e.Buffer.Type != wgpu.BufferBindingTypeUniform || e.Buffer.MinBindingSize != 64 {
		t.Errorf("group 0 buffer = %+v, want a 64-byte uniform", e.Buffer)
	}

	g1 := s.BindGroupLayoutDescriptor(1)
	if len(g1.Entries) != 2 {
		t.Fatalf("group 1 has %d entries, want 2", len(g1.Entries))
	}
	if g1.Entries[0].Binding != 0 || g1.Entries[0].Buffer.Type != wgpu.BufferBindingTypeStorage {
		t.Errorf("group 1 binding 0 = %+v, want read_write storage", g1.Entries[0])
	}
	if g1.Entries[1].Binding != 1 || g1.Entries[1].Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage {
		t.Errorf("group 1 binding 1 = %+v, want read-only storage", g1.Entries[1])
	}

	if len(s.BindGroupLayoutDescriptor(2).Entries) != 0 {
		t.Error("texture binding should be skipped")
	}
	if got := s.BindGroupVarName(1, 1); got != "tail" {
		t.Errorf("var name = %q, want tail", got)
	}
	if got := s.BindGroupVarName(5, 0); got != "" {
		t.Errorf("var name for undeclared group = %q, want empty", got)
	}
}

func TestComputeVisibility(t *testing.T) {
	s := NewShader("compute", `
struct Params { n: u32, };
@group(0) @binding(0) var<uniform> params: Params;
@compute @workgroup_size(64)
fn main() {}
`)
	if got := s.EntryPoint(ShaderTypeCompute); got != "main" {
		t.Errorf("compute entry = %q, want main", got)
	}
	if v := s.BindGroupLayoutDescriptor(0).Entries[0].Visibility; v != wgpu.ShaderStageCompute {
		t.Errorf("visibility = %v, want compute", v)
	}
}

func TestNewShaderFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.wgsl")
	if err := os.WriteFile(path, []byte("@group(0) @binding(0) var<uniform> p: Prelude;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewShaderFromPath("body", path, "struct Prelude { x: f32, y: f32, };")
	if err != nil {
		t.Fatalf("NewShaderFromPath: %v", err)
	}
	if got := s.BindGroupLayoutDescriptor(0).Entries[0].Buffer.MinBindingSize; got != 8 {
		t.Errorf("min binding size = %d, want 8 from the prelude struct", got)
	}
	if s.Module().Label != "body" || s.Module().WGSLDescriptor.Code != s.Source() {
		t.Errorf("module descriptor does not carry key and source")
	}

	if _, err := NewShaderFromPath("missing", filepath.Join(dir, "nope.wgsl")); err == nil {
		t.Error("missing file did not error")
	}
	empty := filepath.Join(dir, "empty.wgsl")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewShaderFromPath("empty", empty); err == nil {
		t.Error("empty file did not error")
	}
}

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewShader with empty source did not panic")
		}
	}()
	NewShader("empty", "")
}

func TestRoundUpAlign(t *testing.T) {
	tests := []struct{ align, value, want uint64 }{
		{16, 0, 0}, {16, 1, 16}, {16, 16, 16}, {4, 13, 16}, {0, 7, 7},
	}
	for _, tt := range tests {
		if got := roundUpAlign(tt.align, tt.value); got != tt.want {
			t.Errorf("roundUpAlign(%d, %d) = %d, want %d", tt.align, tt.value, got, tt.want)
		}
	}
}
