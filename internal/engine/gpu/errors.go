package gpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/logger"
)

// OpenGL error codes.
const (
	errInvalidEnum                 = 0x0500
	errInvalidValue                = 0x0501
	errInvalidOperation            = 0x0502
	errStackOverflow               = 0x0503
	errStackUnderflow              = 0x0504
	errOutOfMemory                 = 0x0505
	errInvalidFramebufferOperation = 0x0506
)

// ErrorName returns the symbolic name of an OpenGL error code.
func ErrorName(code uint32) string {
	switch code {
	case errInvalidEnum:
		return "GL_INVALID_ENUM"
	case errInvalidValue:
		return "GL_INVALID_VALUE"
	case errInvalidOperation:
		return "GL_INVALID_OPERATION"
	case errStackOverflow:
		return "GL_STACK_OVERFLOW"
	case errStackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case errOutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case errInvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("0x%04X", code)
	}
}

// CheckErrors logs every pending device error under the given stage name and
// returns how many were found. Errors are not fatal.
func CheckErrors(dev Device, stage string) int {
	errs := dev.Errors()
	for _, code := range errs {
		logger.Warn("OpenGL error",
			zap.String("stage", stage),
			zap.String("error", ErrorName(code)),
		)
	}
	return len(errs)
}
