// Package gpu isolates the OpenGL calls used by the viewer behind a Device
// interface so the upload and draw logic can run against a recording device
// in tests.
package gpu

// ShaderStage selects the pipeline stage of a shader object.
type ShaderStage int

const (
	VertexShader ShaderStage = iota
	FragmentShader
)

// String returns the stage name used in diagnostics.
func (s ShaderStage) String() string {
	if s == FragmentShader {
		return "fragment"
	}
	return "vertex"
}

// BufferTarget is a buffer binding point.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Primitive is the topology of an indexed draw.
type Primitive int

const (
	Points Primitive = iota
	Lines
	Triangles
)

// String returns the primitive name used in diagnostics.
func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	default:
		return "triangles"
	}
}

// Color is an RGBA clear color.
type Color [4]float32

// Device is the subset of the graphics API the viewer needs.
// All methods must be called from the thread that owns the GL context.
type Device interface {
	// Shader objects and programs. Create* return 0 on failure.
	CreateShader(stage ShaderStage) uint32
	CompileShader(shader uint32, source string) (ok bool, infoLog string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) (ok bool, infoLog string)
	ValidateProgram(program uint32) (ok bool, infoLog string)
	DeleteProgram(program uint32)
	// AttribLocation returns -1 when the attribute is not an active input.
	AttribLocation(program uint32, name string) int32
	UseProgram(program uint32)

	// Vertex arrays and buffers.
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	DeleteBuffer(buffer uint32)
	// BufferFloats and BufferIndices upload data with static usage to the
	// buffer bound at target.
	BufferFloats(target BufferTarget, data []float32)
	BufferIndices(target BufferTarget, data []uint32)
	EnableVertexAttribArray(location uint32)
	// VertexAttribPointer describes tightly packed float components with no offset.
	VertexAttribPointer(location uint32, components int32)

	// Drawing state.
	DrawElements(mode Primitive, count int32, offset int)
	SetClearColor(c Color)
	Clear()
	EnableDepthTest()
	SetWireframe(enabled bool)
	Viewport(x, y, width, height int32)
	// ReadPixels returns the RGBA contents of the current framebuffer.
	ReadPixels(width, height int32) []byte

	// Errors drains and returns all pending error codes.
	Errors() []uint32
	// Info returns the API version and shading language version strings.
	Info() (version, shadingLanguage string)
}
