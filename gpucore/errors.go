package gpucore

import (
	"errors"
	"fmt"
)

var (
	// ErrContextCreationFailed is returned when no usable graphics context
	// can be created for a target.
	ErrContextCreationFailed = errors.New("gpucore: context creation failed")

	// ErrShaderCompileFailed is returned when a shader stage fails to
	// compile.
	ErrShaderCompileFailed = errors.New("gpucore: shader compile failed")

	// ErrShaderLinkFailed is returned when compiled stages fail to link
	// into a program.
	ErrShaderLinkFailed = errors.New("gpucore: shader link failed")

	// ErrContextReleased is returned by calls on a released context.
	ErrContextReleased = errors.New("gpucore: context released")
)

// ShaderStage identifies where a shader error occurred.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageLink
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("ShaderStage(%d)", uint8(s))
	}
}

// ShaderError carries the compiler or linker log of a failed program.
type ShaderError struct {
	Program string
	Stage   ShaderStage
	Log     string
}

func (e *ShaderError) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("gpucore: program %q link failed: %s", e.Program, e.Log)
	}
	return fmt.Sprintf("gpucore: program %q %s shader compile failed: %s", e.Program, e.Stage, e.Log)
}

// Unwrap returns ErrShaderLinkFailed for link errors and
// ErrShaderCompileFailed otherwise.
func (e *ShaderError) Unwrap() error {
	if e.Stage == StageLink {
		return ErrShaderLinkFailed
	}
	return ErrShaderCompileFailed
}

// ErrorCode is a graphics API error value. The values match the GL error
// enumeration so WebGL codes pass through unchanged.
type ErrorCode uint32

const (
	NoError                     ErrorCode = 0
	InvalidEnum                 ErrorCode = 0x0500
	InvalidValue                ErrorCode = 0x0501
	InvalidOperation            ErrorCode = 0x0502
	OutOfMemory                 ErrorCode = 0x0505
	InvalidFramebufferOperation ErrorCode = 0x0506
	ContextLost                 ErrorCode = 0x9242
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case ContextLost:
		return "CONTEXT_LOST"
	default:
		return fmt.Sprintf("0x%04X", uint32(c))
	}
}

// ErrorQueue records error codes in order for contexts that emulate GL
// error semantics. The zero value is ready to use.
type ErrorQueue struct {
	codes []ErrorCode
}

// Record appends code unless it is NoError.
func (q *ErrorQueue) Record(code ErrorCode) {
	if code != NoError {
		q.codes = append(q.codes, code)
	}
}

// Pop returns and removes the oldest code, or NoError when empty.
func (q *ErrorQueue) Pop() ErrorCode {
	if len(q.codes) == 0 {
		return NoError
	}
	c := q.codes[0]
	q.codes = q.codes[1:]
	return c
}

// Len returns the number of pending codes.
func (q *ErrorQueue) Len() int { return len(q.codes) }

// Reset drops all pending codes.
func (q *ErrorQueue) Reset() { q.codes = q.codes[:0] }
