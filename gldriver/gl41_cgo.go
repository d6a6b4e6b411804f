//go:build !tinygo && cgo

package gldriver

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/soypat/glgl/v4.1-core/glgl"
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/uniform"
)

var _ Device = (*GL41)(nil)

// GL41 is a [Device] backed by the OpenGL 4.1 core bindings.
type GL41 struct {
	version        [2]int
	programUniform bool
}

// NewGL41 loads the GL function pointers of the current context and probes
// its capabilities. A context must be current on the calling thread.
func NewGL41() (*GL41, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gldriver: initializing GL: %w", err)
	}
	var major, minor, numExt int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &numExt)
	extensions := make([]string, 0, numExt)
	for i := int32(0); i < numExt; i++ {
		extensions = append(extensions, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))))
	}
	d := &GL41{
		version: [2]int{int(major), int(minor)},
	}
	d.programUniform = atLeast(d.version[0], d.version[1], 4, 1) || hasExtension(extensions, separateShaderObjects)
	return d, nil
}

// Desktop initializes the GL 4.1 driver for the current context.
func Desktop() (Device, error) { return NewGL41() }

// Version returns the major and minor version of the context.
func (d *GL41) Version() (major, minor int) { return d.version[0], d.version[1] }

func (d *GL41) Dialect() glshade.Dialect { return glshade.DialectDesktop }

func (d *GL41) CompileProgram(vertex, fragment string) (uint32, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   terminate(vertex),
		Fragment: terminate(fragment),
	})
	if err != nil {
		return 0, err
	}
	return prog.ID(), nil
}

func (d *GL41) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

// terminate null terminates a source string as required by the C bindings.
func terminate(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func (d *GL41) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(terminate(name)))
}

func (d *GL41) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *GL41) CurrentProgram() uint32 {
	var p int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &p)
	return uint32(p)
}

func (d *GL41) ActiveUniform(program, index uint32) (string, int32, uint32) {
	var (
		buf    [maxUniformNameLength]uint8
		length int32
		size   int32
		xtype  uint32
	)
	gl.GetActiveUniform(program, index, int32(len(buf)), &length, &size, &xtype, &buf[0])
	return string(buf[:length]), size, xtype
}

func (d *GL41) GetError() uint32 { return gl.GetError() }

func (d *GL41) ProgramUniformSupported() bool { return d.programUniform }

func (d *GL41) Uniform1i(loc int32, v0 int32)             { gl.Uniform1i(loc, v0) }
func (d *GL41) Uniform2i(loc int32, v0, v1 int32)         { gl.Uniform2i(loc, v0, v1) }
func (d *GL41) Uniform3i(loc int32, v0, v1, v2 int32)     { gl.Uniform3i(loc, v0, v1, v2) }
func (d *GL41) Uniform4i(loc int32, v0, v1, v2, v3 int32) { gl.Uniform4i(loc, v0, v1, v2, v3) }
func (d *GL41) Uniform1f(loc int32, v0 float32)           { gl.Uniform1f(loc, v0) }
func (d *GL41) Uniform2f(loc int32, v0, v1 float32)       { gl.Uniform2f(loc, v0, v1) }
func (d *GL41) Uniform3f(loc int32, v0, v1, v2 float32)   { gl.Uniform3f(loc, v0, v1, v2) }
func (d *GL41) Uniform4f(loc int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(loc, v0, v1, v2, v3)
}

func (d *GL41) Uniform1iv(loc, count int32, v []int32)   { gl.Uniform1iv(loc, count, &v[0]) }
func (d *GL41) Uniform2iv(loc, count int32, v []int32)   { gl.Uniform2iv(loc, count, &v[0]) }
func (d *GL41) Uniform3iv(loc, count int32, v []int32)   { gl.Uniform3iv(loc, count, &v[0]) }
func (d *GL41) Uniform4iv(loc, count int32, v []int32)   { gl.Uniform4iv(loc, count, &v[0]) }
func (d *GL41) Uniform1fv(loc, count int32, v []float32) { gl.Uniform1fv(loc, count, &v[0]) }
func (d *GL41) Uniform2fv(loc, count int32, v []float32) { gl.Uniform2fv(loc, count, &v[0]) }
func (d *GL41) Uniform3fv(loc, count int32, v []float32) { gl.Uniform3fv(loc, count, &v[0]) }
func (d *GL41) Uniform4fv(loc, count int32, v []float32) { gl.Uniform4fv(loc, count, &v[0]) }

func (d *GL41) UniformMatrix3fv(loc, count int32, transpose bool, v []float32) {
	gl.UniformMatrix3fv(loc, count, transpose, &v[0])
}

func (d *GL41) UniformMatrix4fv(loc, count int32, transpose bool, v []float32) {
	gl.UniformMatrix4fv(loc, count, transpose, &v[0])
}

func (d *GL41) ProgramUniform1i(p uint32, loc int32, v0 int32) { gl.ProgramUniform1i(p, loc, v0) }
func (d *GL41) ProgramUniform2i(p uint32, loc int32, v0, v1 int32) {
	gl.ProgramUniform2i(p, loc, v0, v1)
}
func (d *GL41) ProgramUniform3i(p uint32, loc int32, v0, v1, v2 int32) {
	gl.ProgramUniform3i(p, loc, v0, v1, v2)
}
func (d *GL41) ProgramUniform4i(p uint32, loc int32, v0, v1, v2, v3 int32) {
	gl.ProgramUniform4i(p, loc, v0, v1, v2, v3)
}
func (d *GL41) ProgramUniform1f(p uint32, loc int32, v0 float32) { gl.ProgramUniform1f(p, loc, v0) }
func (d *GL41) ProgramUniform2f(p uint32, loc int32, v0, v1 float32) {
	gl.ProgramUniform2f(p, loc, v0, v1)
}
func (d *GL41) ProgramUniform3f(p uint32, loc int32, v0, v1, v2 float32) {
	gl.ProgramUniform3f(p, loc, v0, v1, v2)
}
func (d *GL41) ProgramUniform4f(p uint32, loc int32, v0, v1, v2, v3 float32) {
	gl.ProgramUniform4f(p, loc, v0, v1, v2, v3)
}

func (d *GL41) ProgramUniform1iv(p uint32, loc, count int32, v []int32) {
	gl.ProgramUniform1iv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform2iv(p uint32, loc, count int32, v []int32) {
	gl.ProgramUniform2iv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform3iv(p uint32, loc, count int32, v []int32) {
	gl.ProgramUniform3iv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform4iv(p uint32, loc, count int32, v []int32) {
	gl.ProgramUniform4iv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform1fv(p uint32, loc, count int32, v []float32) {
	gl.ProgramUniform1fv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform2fv(p uint32, loc, count int32, v []float32) {
	gl.ProgramUniform2fv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform3fv(p uint32, loc, count int32, v []float32) {
	gl.ProgramUniform3fv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniform4fv(p uint32, loc, count int32, v []float32) {
	gl.ProgramUniform4fv(p, loc, count, &v[0])
}
func (d *GL41) ProgramUniformMatrix3fv(p uint32, loc, count int32, transpose bool, v []float32) {
	gl.ProgramUniformMatrix3fv(p, loc, count, transpose, &v[0])
}
func (d *GL41) ProgramUniformMatrix4fv(p uint32, loc, count int32, transpose bool, v []float32) {
	gl.ProgramUniformMatrix4fv(p, loc, count, transpose, &v[0])
}

// Compile-time check that the uniform error enums agree with the bindings.
var _ = [1]struct{}{}[uniform.InvalidOperation-gl.INVALID_OPERATION]
