// Package gldriver implements [uniform.Driver] on top of real GL bindings:
// desktop OpenGL 4.1 core through cgo and WebGL2 through syscall/js.
// Both drivers also compile and link the programs produced by package glbuild.
//
// All driver methods must be called from the goroutine that owns the GL context.
// On desktop that goroutine must be locked to its OS thread.
package gldriver

import (
	"errors"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/uniform"
)

// ErrNoDriver is returned when the build target has no GL bindings, i.e. a cgo disabled non-wasm build.
var ErrNoDriver = errors.New("gldriver: no GL driver available for this build")

// Device is a GL context able to link programs and set their uniforms.
type Device interface {
	uniform.Driver
	// CompileProgram compiles and links a vertex and fragment shader pair and returns the program handle.
	CompileProgram(vertex, fragment string) (program uint32, err error)
	// DeleteProgram releases a program returned by CompileProgram.
	DeleteProgram(program uint32)
	// Dialect is the GLSL dialect accepted by CompileProgram.
	Dialect() glshade.Dialect
}

// hasExtension reports whether ext is present in a list of extension names.
func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if strings.TrimSpace(e) == ext {
			return true
		}
	}
	return false
}

// atLeast reports whether version major.minor is at least wantMajor.wantMinor.
func atLeast(major, minor, wantMajor, wantMinor int) bool {
	return major > wantMajor || (major == wantMajor && minor >= wantMinor)
}

const (
	separateShaderObjects = "GL_ARB_separate_shader_objects"
	maxUniformNameLength  = 256
)
