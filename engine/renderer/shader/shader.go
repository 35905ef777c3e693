package shader

import (
	"fmt"
	"os"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies a pipeline stage entry point.
type ShaderType int

const (
	// ShaderTypeCompute indicates a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex indicates a @vertex entry point.
	ShaderTypeVertex

	// ShaderTypeFragment indicates a @fragment entry point.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	structLayouts              map[string]StructLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	entryPoints                map[ShaderType]string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL module. Besides the module descriptor it reflects the host-shareable
// struct layouts and buffer bindings the source declares, so CPU records can be checked against
// what the GPU will read.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source retrieves the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// EntryPoint returns the name of the first entry point declared for a stage.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - string: the function name, or empty if the source declares none for that stage
	EntryPoint(shaderType ShaderType) string

	// StructLayout returns the computed layout of a declared struct.
	//
	// Parameters:
	//   - name: the WGSL struct name
	//
	// Returns:
	//   - StructLayout: the layout
	//   - bool: false if the struct is not declared or uses a type that cannot be laid out
	StructLayout(name string) (StructLayout, bool)

	// StructNames lists every struct that resolved to a layout, sorted.
	//
	// Returns:
	//   - []string: struct names
	StructNames() []string

	// BindGroupLayoutDescriptor retrieves the buffer bindings declared for a group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty one if the group declares no buffers
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or empty if nothing is declared there
	BindGroupVarName(group, binding int) string

	// Module returns the descriptor used to compile this shader on a device.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the WGSL module descriptor labelled with Key
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses WGSL source. Buffer bindings are reported with compute visibility when
// the source declares a @compute entry point and fragment visibility otherwise.
// It panics on empty source; that is a caller bug.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s has no source", key))
	}
	s := &shader{
		key:         key,
		source:      source,
		entryPoints: make(map[ShaderType]string, 3),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
	s.parse()
	return s
}

// NewShaderFromPath reads a WGSL file and parses it with NewShader.
// Any prelude sources are prepended in order, separated by newlines, so shared struct
// declarations can be kept in their own files.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the WGSL file to read
//   - prelude: sources to prepend
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file could not be read or is empty
func NewShaderFromPath(key, path string, prelude ...string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("shader: source file %q is empty", path)
	}
	var source string
	for _, p := range prelude {
		source += p + "\n"
	}
	return NewShader(key, source+string(data)), nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(shaderType ShaderType) string {
	return s.entryPoints[shaderType]
}

func (s *shader) StructLayout(name string) (StructLayout, bool) {
	l, ok := s.structLayouts[name]
	return l, ok
}

func (s *shader) StructNames() []string {
	names := make([]string, 0, len(s.structLayouts))
	for name := range s.structLayouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parse extracts entry points, struct layouts and buffer bindings from the source.
func (s *shader) parse() {
	cleaned := stripComments(s.source)

	for _, t := range []ShaderType{ShaderTypeCompute, ShaderTypeVertex, ShaderTypeFragment} {
		if name := parseEntryPoint(cleaned, t); name != "" {
			s.entryPoints[t] = name
		}
	}

	s.structLayouts = computeStructLayouts(parseStructBlocks(cleaned))

	visibility := wgpu.ShaderStageFragment
	if s.entryPoints[ShaderTypeCompute] != "" {
		visibility = wgpu.ShaderStageCompute
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(cleaned, s.structLayouts, visibility)
}
