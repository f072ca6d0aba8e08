// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"strings"

	"github.com/Faultbox/wireview/internal/engine/gpu"
)

// Draw is one recorded DrawElements call.
type Draw struct {
	VAO    uint32
	Mode   gpu.Primitive
	Count  int32
	Offset int
}

// VertexArray is the recorded state of one vertex array object.
type VertexArray struct {
	ID uint32
	// ElementBuffer is the element array buffer bound while this VAO was bound.
	ElementBuffer uint32
	// Attribs maps an attribute location to the array buffer it reads from.
	Attribs map[uint32]uint32
	// Components maps an attribute location to its component count.
	Components map[uint32]int32
	Enabled    map[uint32]bool
}

// Recorder implements gpu.Device in memory.
type Recorder struct {
	// Calls lists every method invocation in order, e.g. "BindVertexArray(1)".
	Calls []string

	VertexArrays map[uint32]*VertexArray
	Floats       map[uint32][]float32
	Indices      map[uint32][]uint32
	Draws        []Draw
	Programs     map[uint32]bool
	Deleted      map[uint32]bool

	ClearColor  gpu.Color
	Clears      int
	Wireframe   bool
	DepthTest   bool
	ViewportWH  [2]int32
	UsedProgram uint32

	// Failure injection.
	FailCreateShader  bool
	FailCompile       gpu.ShaderStage
	FailCompileSet    bool
	FailCreateProgram bool
	FailLink          bool
	FailValidate      bool
	// Attribs lists the active attributes of every linked program.
	Attribs map[string]int32
	// PendingErrors is returned by the next Errors call.
	PendingErrors []uint32

	nextID       uint32
	shaderStages map[uint32]gpu.ShaderStage
	boundVAO     uint32
	boundArray   uint32
	boundElement uint32
}

// New returns a recorder whose programs expose attribute "vPos" at location 0.
func New() *Recorder {
	return &Recorder{
		VertexArrays: make(map[uint32]*VertexArray),
		Floats:       make(map[uint32][]float32),
		Indices:      make(map[uint32][]uint32),
		Programs:     make(map[uint32]bool),
		Deleted:      make(map[uint32]bool),
		Attribs:      map[string]int32{"vPos": 0},
		shaderStages: make(map[uint32]gpu.ShaderStage),
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// CallsWithPrefix returns the recorded calls starting with prefix.
func (r *Recorder) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls and draws but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

func (r *Recorder) CreateShader(stage gpu.ShaderStage) uint32 {
	r.record("CreateShader(%s)", stage)
	if r.FailCreateShader {
		return 0
	}
	id := r.id()
	r.shaderStages[id] = stage
	return id
}

func (r *Recorder) CompileShader(shader uint32, source string) (bool, string) {
	r.record("CompileShader(%d)", shader)
	if r.FailCompileSet && r.shaderStages[shader] == r.FailCompile {
		return false, "0:1(1): error: syntax error"
	}
	return true, ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader(%d)", shader)
	r.Deleted[shader] = true
}

func (r *Recorder) CreateProgram() uint32 {
	r.record("CreateProgram()")
	if r.FailCreateProgram {
		return 0
	}
	id := r.id()
	r.Programs[id] = true
	return id
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader(%d, %d)", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) (bool, string) {
	r.record("LinkProgram(%d)", program)
	if r.FailLink {
		return false, "error: vertex shader output not read"
	}
	return true, ""
}

func (r *Recorder) ValidateProgram(program uint32) (bool, string) {
	r.record("ValidateProgram(%d)", program)
	if r.FailValidate {
		return false, "validation failed"
	}
	// Core profile contexts validate against the bound vertex array.
	if _, ok := r.VertexArrays[r.boundVAO]; !ok {
		return false, "Validation Failed: No vertex array object bound."
	}
	return true, ""
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram(%d)", program)
	r.Deleted[program] = true
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	r.record("AttribLocation(%d, %s)", program, name)
	if loc, ok := r.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram(%d)", program)
	r.UsedProgram = program
}

func (r *Recorder) GenVertexArray() uint32 {
	id := r.id()
	r.record("GenVertexArray() = %d", id)
	r.VertexArrays[id] = &VertexArray{
		ID:         id,
		Attribs:    make(map[uint32]uint32),
		Components: make(map[uint32]int32),
		Enabled:    make(map[uint32]bool),
	}
	return id
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.record("BindVertexArray(%d)", vao)
	r.boundVAO = vao
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.record("DeleteVertexArray(%d)", vao)
	r.Deleted[vao] = true
	delete(r.VertexArrays, vao)
	if r.boundVAO == vao {
		r.boundVAO = 0
	}
}

func (r *Recorder) GenBuffer() uint32 {
	id := r.id()
	r.record("GenBuffer() = %d", id)
	return id
}

func (r *Recorder) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	if target == gpu.ElementArrayBuffer {
		r.record("BindBuffer(element, %d)", buffer)
		r.boundElement = buffer
		// Element bindings are part of vertex array state, including unbinding.
		if vao, ok := r.VertexArrays[r.boundVAO]; ok {
			vao.ElementBuffer = buffer
		}
		return
	}
	r.record("BindBuffer(array, %d)", buffer)
	r.boundArray = buffer
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer(%d)", buffer)
	r.Deleted[buffer] = true
}

func (r *Recorder) BufferFloats(target gpu.BufferTarget, data []float32) {
	r.record("BufferFloats(%d)", len(data))
	r.Floats[r.bound(target)] = append([]float32(nil), data...)
}

func (r *Recorder) BufferIndices(target gpu.BufferTarget, data []uint32) {
	r.record("BufferIndices(%d)", len(data))
	r.Indices[r.bound(target)] = append([]uint32(nil), data...)
}

func (r *Recorder) bound(target gpu.BufferTarget) uint32 {
	if target == gpu.ElementArrayBuffer {
		return r.boundElement
	}
	return r.boundArray
}

func (r *Recorder) EnableVertexAttribArray(location uint32) {
	r.record("EnableVertexAttribArray(%d)", location)
	if vao, ok := r.VertexArrays[r.boundVAO]; ok {
		vao.Enabled[location] = true
	}
}

func (r *Recorder) VertexAttribPointer(location uint32, components int32) {
	r.record("VertexAttribPointer(%d, %d)", location, components)
	if vao, ok := r.VertexArrays[r.boundVAO]; ok {
		vao.Attribs[location] = r.boundArray
		vao.Components[location] = components
	}
}

func (r *Recorder) DrawElements(mode gpu.Primitive, count int32, offset int) {
	r.record("DrawElements(%s, %d, %d)", mode, count, offset)
	r.Draws = append(r.Draws, Draw{VAO: r.boundVAO, Mode: mode, Count: count, Offset: offset})
}

func (r *Recorder) SetClearColor(c gpu.Color) {
	r.record("SetClearColor(%v)", c)
	r.ClearColor = c
}

func (r *Recorder) Clear() {
	r.record("Clear()")
	r.Clears++
}

func (r *Recorder) EnableDepthTest() {
	r.record("EnableDepthTest()")
	r.DepthTest = true
}

func (r *Recorder) SetWireframe(enabled bool) {
	r.record("SetWireframe(%v)", enabled)
	r.Wireframe = enabled
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
	r.ViewportWH = [2]int32{width, height}
}

func (r *Recorder) ReadPixels(width, height int32) []byte {
	r.record("ReadPixels(%d, %d)", width, height)
	if width <= 0 || height <= 0 {
		return nil
	}
	px := make([]byte, int(width)*int(height)*4)
	for i := range px {
		px[i] = 0xFF
	}
	return px
}

func (r *Recorder) Errors() []uint32 {
	errs := r.PendingErrors
	r.PendingErrors = nil
	return errs
}

func (r *Recorder) Info() (string, string) {
	return "4.1 recorder", "4.10"
}

// BoundVertexArray returns the currently bound vertex array.
func (r *Recorder) BoundVertexArray() uint32 { return r.boundVAO }

// BoundBuffers returns the current array and element buffer bindings.
func (r *Recorder) BoundBuffers() (array, element uint32) {
	return r.boundArray, r.boundElement
}

var _ gpu.Device = (*Recorder)(nil)
