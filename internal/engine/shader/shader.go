// Package shader builds the wireframe shader program.
package shader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/engine/gpu"
	"github.com/Faultbox/wireview/internal/logger"
)

var (
	ErrShaderCreate      = errors.New("shader object creation failed")
	ErrCompile           = errors.New("shader compilation failed")
	ErrProgramCreate     = errors.New("program creation failed")
	ErrLink              = errors.New("program link failed")
	ErrValidate          = errors.New("program validation failed")
	ErrAttributeNotFound = errors.New("attribute not found")
)

// PositionAttribute is the name of the vertex position input.
const PositionAttribute = "vPos"

// VertexSource passes the position through to clip space unchanged.
const VertexSource = `#version 330 core

in vec3 vPos;

void main() {
    gl_Position = vec4(vPos, 1.0);
}
`

// FragmentSource writes opaque black.
const FragmentSource = `#version 330 core

out vec4 FragColor;

void main() {
    FragColor = vec4(0.0, 0.0, 0.0, 1.0);
}
`

// Program is a linked and validated shader program.
type Program struct {
	ID          uint32
	PositionLoc uint32
}

// Build compiles the embedded sources, links and validates them, and resolves
// the position attribute.
func Build(dev gpu.Device) (Program, error) {
	return BuildFrom(dev, VertexSource, FragmentSource)
}

// BuildFrom is Build with caller supplied sources.
func BuildFrom(dev gpu.Device, vertexSrc, fragmentSrc string) (Program, error) {
	vert, err := compile(dev, gpu.VertexShader, vertexSrc)
	if err != nil {
		return Program{}, err
	}
	defer dev.DeleteShader(vert)

	frag, err := compile(dev, gpu.FragmentShader, fragmentSrc)
	if err != nil {
		return Program{}, err
	}
	defer dev.DeleteShader(frag)

	program := dev.CreateProgram()
	if program == 0 {
		return Program{}, ErrProgramCreate
	}
	dev.AttachShader(program, vert)
	dev.AttachShader(program, frag)

	if ok, log := dev.LinkProgram(program); !ok {
		dev.DeleteProgram(program)
		return Program{}, fmt.Errorf("%w: %s", ErrLink, log)
	}
	if ok, log := validate(dev, program); !ok {
		dev.DeleteProgram(program)
		return Program{}, fmt.Errorf("%w: %s", ErrValidate, log)
	}

	loc := dev.AttribLocation(program, PositionAttribute)
	if loc < 0 {
		dev.DeleteProgram(program)
		return Program{}, fmt.Errorf("%w: %s", ErrAttributeNotFound, PositionAttribute)
	}

	logger.Debug("shader program built",
		zap.Uint32("program", program),
		zap.Int32("position_location", loc),
	)
	return Program{ID: program, PositionLoc: uint32(loc)}, nil
}

func compile(dev gpu.Device, stage gpu.ShaderStage, source string) (uint32, error) {
	shader := dev.CreateShader(stage)
	if shader == 0 {
		return 0, fmt.Errorf("%w: %s", ErrShaderCreate, stage)
	}
	if ok, log := dev.CompileShader(shader, source); !ok {
		dev.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, stage, log)
	}
	return shader, nil
}

// validate checks program against a scratch vertex array. Core profiles fail
// validation when no vertex array is bound.
func validate(dev gpu.Device, program uint32) (bool, string) {
	vao := dev.GenVertexArray()
	dev.BindVertexArray(vao)
	ok, log := dev.ValidateProgram(program)
	dev.BindVertexArray(0)
	dev.DeleteVertexArray(vao)
	return ok, log
}

// Delete releases the program.
func (p Program) Delete(dev gpu.Device) {
	if p.ID != 0 {
		dev.DeleteProgram(p.ID)
	}
}
