package uniform

import "strconv"

// Driver is the GL binding surface consumed by a [Binder]. Implementations
// live in package gldriver; tests use the recorder in package uniformtest.
// All methods are called from the goroutine owning the GL context.
type Driver interface {
	Introspector
	BoundUniforms
	ProgramUniforms
}

// Introspector resolves uniform locations and reports driver state.
type Introspector interface {
	// GetUniformLocation returns the location of name in a linked program or -1 if absent.
	GetUniformLocation(program uint32, name string) int32
	// UseProgram makes program current (glUseProgram).
	UseProgram(program uint32)
	// CurrentProgram returns the current program, glGetIntegerv(GL_CURRENT_PROGRAM).
	CurrentProgram() uint32
	// ActiveUniform returns the metadata of the active uniform at index (glGetActiveUniform).
	ActiveUniform(program, index uint32) (name string, size int32, xtype uint32)
	// GetError returns and clears the last driver error enum (glGetError).
	GetError() uint32
	// ProgramUniformSupported reports whether the ProgramUniform family is available,
	// i.e. GL 4.1 or the ARB_separate_shader_objects extension.
	ProgramUniformSupported() bool
}

// BoundUniforms is the glUniform* family acting on the current program.
// Vector forms receive count elements packed contiguously in v.
type BoundUniforms interface {
	Uniform1i(loc int32, v0 int32)
	Uniform2i(loc int32, v0, v1 int32)
	Uniform3i(loc int32, v0, v1, v2 int32)
	Uniform4i(loc int32, v0, v1, v2, v3 int32)
	Uniform1f(loc int32, v0 float32)
	Uniform2f(loc int32, v0, v1 float32)
	Uniform3f(loc int32, v0, v1, v2 float32)
	Uniform4f(loc int32, v0, v1, v2, v3 float32)
	Uniform1iv(loc int32, count int32, v []int32)
	Uniform2iv(loc int32, count int32, v []int32)
	Uniform3iv(loc int32, count int32, v []int32)
	Uniform4iv(loc int32, count int32, v []int32)
	Uniform1fv(loc int32, count int32, v []float32)
	Uniform2fv(loc int32, count int32, v []float32)
	Uniform3fv(loc int32, count int32, v []float32)
	Uniform4fv(loc int32, count int32, v []float32)
	UniformMatrix3fv(loc int32, count int32, transpose bool, v []float32)
	UniformMatrix4fv(loc int32, count int32, transpose bool, v []float32)
}

// ProgramUniforms is the glProgramUniform* family. It does not require the program to be current.
type ProgramUniforms interface {
	ProgramUniform1i(program uint32, loc int32, v0 int32)
	ProgramUniform2i(program uint32, loc int32, v0, v1 int32)
	ProgramUniform3i(program uint32, loc int32, v0, v1, v2 int32)
	ProgramUniform4i(program uint32, loc int32, v0, v1, v2, v3 int32)
	ProgramUniform1f(program uint32, loc int32, v0 float32)
	ProgramUniform2f(program uint32, loc int32, v0, v1 float32)
	ProgramUniform3f(program uint32, loc int32, v0, v1, v2 float32)
	ProgramUniform4f(program uint32, loc int32, v0, v1, v2, v3 float32)
	ProgramUniform1iv(program uint32, loc int32, count int32, v []int32)
	ProgramUniform2iv(program uint32, loc int32, count int32, v []int32)
	ProgramUniform3iv(program uint32, loc int32, count int32, v []int32)
	ProgramUniform4iv(program uint32, loc int32, count int32, v []int32)
	ProgramUniform1fv(program uint32, loc int32, count int32, v []float32)
	ProgramUniform2fv(program uint32, loc int32, count int32, v []float32)
	ProgramUniform3fv(program uint32, loc int32, count int32, v []float32)
	ProgramUniform4fv(program uint32, loc int32, count int32, v []float32)
	ProgramUniformMatrix3fv(program uint32, loc int32, count int32, transpose bool, v []float32)
	ProgramUniformMatrix4fv(program uint32, loc int32, count int32, transpose bool, v []float32)
}

// DispatchMode selects the uniform update entry points of a [Binder].
type DispatchMode uint8

const (
	// CurrentlyBound makes the program current with glUseProgram before
	// every glUniform* call. The previously current program is not restored.
	CurrentlyBound DispatchMode = iota
	// ProgramScoped updates through glProgramUniform* and never binds the program.
	ProgramScoped
)

func (m DispatchMode) String() string {
	switch m {
	case CurrentlyBound:
		return "currently-bound"
	case ProgramScoped:
		return "program-scoped"
	}
	return "DispatchMode(" + strconv.Itoa(int(m)) + ")"
}

// ProbeMode returns ProgramScoped when the driver supports program scoped uniform updates.
func ProbeMode(d Introspector) DispatchMode {
	if d.ProgramUniformSupported() {
		return ProgramScoped
	}
	return CurrentlyBound
}

// GL enums reported by Introspector. Values match the OpenGL and WebGL2 headers.
const (
	NoError                     = 0
	InvalidEnum                 = 0x0500
	InvalidValue                = 0x0501
	InvalidOperation            = 0x0502
	StackOverflow               = 0x0503
	StackUnderflow              = 0x0504
	OutOfMemory                 = 0x0505
	InvalidFramebufferOperation = 0x0506

	typeInt             = 0x1404
	typeUnsignedInt     = 0x1405
	typeFloat           = 0x1406
	typeDouble          = 0x140A
	typeFloatVec2       = 0x8B50
	typeFloatVec3       = 0x8B51
	typeFloatVec4       = 0x8B52
	typeIntVec2         = 0x8B53
	typeIntVec3         = 0x8B54
	typeIntVec4         = 0x8B55
	typeBool            = 0x8B56
	typeBoolVec2        = 0x8B57
	typeBoolVec3        = 0x8B58
	typeBoolVec4        = 0x8B59
	typeFloatMat2       = 0x8B5A
	typeFloatMat3       = 0x8B5B
	typeFloatMat4       = 0x8B5C
	typeSampler2D       = 0x8B5E
	typeSampler3D       = 0x8B5F
	typeSamplerCube     = 0x8B60
	typeSampler2DArray  = 0x8DC1
	typeUnsignedIntVec2 = 0x8DC6
	typeUnsignedIntVec3 = 0x8DC7
	typeUnsignedIntVec4 = 0x8DC8
)

// ErrorString returns the name of a GL error enum, i.e. "GL_INVALID_OPERATION".
func ErrorString(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case StackOverflow:
		return "GL_STACK_OVERFLOW"
	case StackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return "GL_ERROR(0x" + strconv.FormatUint(uint64(code), 16) + ")"
}

// TypeLiteral returns the GLSL type name of an active uniform type enum, i.e. "vec4".
func TypeLiteral(xtype uint32) string {
	switch xtype {
	case typeFloat:
		return "float"
	case typeFloatVec2:
		return "vec2"
	case typeFloatVec3:
		return "vec3"
	case typeFloatVec4:
		return "vec4"
	case typeDouble:
		return "double"
	case typeInt:
		return "int"
	case typeIntVec2:
		return "ivec2"
	case typeIntVec3:
		return "ivec3"
	case typeIntVec4:
		return "ivec4"
	case typeUnsignedInt:
		return "uint"
	case typeUnsignedIntVec2:
		return "uvec2"
	case typeUnsignedIntVec3:
		return "uvec3"
	case typeUnsignedIntVec4:
		return "uvec4"
	case typeBool:
		return "bool"
	case typeBoolVec2:
		return "bvec2"
	case typeBoolVec3:
		return "bvec3"
	case typeBoolVec4:
		return "bvec4"
	case typeFloatMat2:
		return "mat2"
	case typeFloatMat3:
		return "mat3"
	case typeFloatMat4:
		return "mat4"
	case typeSampler2D:
		return "sampler2D"
	case typeSampler3D:
		return "sampler3D"
	case typeSamplerCube:
		return "samplerCube"
	case typeSampler2DArray:
		return "sampler2DArray"
	}
	return "0x" + strconv.FormatUint(uint64(xtype), 16)
}
