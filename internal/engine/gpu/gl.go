package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GL is the OpenGL implementation of Device.
type GL struct{}

// NewGL loads the OpenGL function pointers.
// Must be called AFTER the OpenGL context is created and made current.
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &GL{}, nil
}

func (d *GL) CreateShader(stage ShaderStage) uint32 {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == FragmentShader {
		kind = gl.FRAGMENT_SHADER
	}
	return gl.CreateShader(kind)
}

func (d *GL) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		return false, readLog(logLength, func(log *uint8) {
			gl.GetShaderInfoLog(shader, logLength, nil, log)
		})
	}
	return true, ""
}

func (d *GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (d *GL) CreateProgram() uint32 { return gl.CreateProgram() }

func (d *GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (d *GL) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)
	return programStatus(program, gl.LINK_STATUS)
}

func (d *GL) ValidateProgram(program uint32) (bool, string) {
	gl.ValidateProgram(program)
	return programStatus(program, gl.VALIDATE_STATUS)
}

func programStatus(program uint32, pname uint32) (bool, string) {
	var status int32
	gl.GetProgramiv(program, pname, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		return false, readLog(logLength, func(log *uint8) {
			gl.GetProgramInfoLog(program, logLength, nil, log)
		})
	}
	return true, ""
}

func readLog(length int32, fill func(*uint8)) string {
	if length <= 0 {
		return ""
	}
	log := make([]byte, length)
	fill(&log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (d *GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (d *GL) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (d *GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (d *GL) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func glTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (d *GL) BindBuffer(target BufferTarget, buffer uint32) {
	gl.BindBuffer(glTarget(target), buffer)
}

func (d *GL) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (d *GL) BufferFloats(target BufferTarget, data []float32) {
	if len(data) == 0 {
		gl.BufferData(glTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(glTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *GL) BufferIndices(target BufferTarget, data []uint32) {
	if len(data) == 0 {
		gl.BufferData(glTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(glTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *GL) EnableVertexAttribArray(location uint32) { gl.EnableVertexAttribArray(location) }

func (d *GL) VertexAttribPointer(location uint32, components int32) {
	gl.VertexAttribPointerWithOffset(location, components, gl.FLOAT, false, 0, 0)
}

func glMode(p Primitive) uint32 {
	switch p {
	case Points:
		return gl.POINTS
	case Lines:
		return gl.LINES
	default:
		return gl.TRIANGLES
	}
}

func (d *GL) DrawElements(mode Primitive, count int32, offset int) {
	gl.DrawElementsWithOffset(glMode(mode), count, gl.UNSIGNED_INT, uintptr(offset))
}

func (d *GL) SetClearColor(c Color) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *GL) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (d *GL) EnableDepthTest() { gl.Enable(gl.DEPTH_TEST) }

func (d *GL) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (d *GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *GL) ReadPixels(width, height int32) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, int(width)*int(height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (d *GL) Errors() []uint32 {
	var errs []uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		errs = append(errs, code)
	}
	return errs
}

func (d *GL) Info() (string, string) {
	return gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
}
