// Package glbuild generates GLSL vertex and fragment shader sources for the
// drawer's primitives. A [Generator] splices the snippets of a
// [glshade.ShadeStructure] into a fixed template per primitive kind and stage.
package glbuild

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"golang.org/x/image/math/f32"
)

// MinDesktopVersion is the lowest GLSL version the desktop dialect emits.
const MinDesktopVersion = 330

// Generator implements [glshade.ShaderGenerator] for one dialect.
// Generation is pure: a Generator holds no state besides its configuration
// and may be shared between binders and goroutines once configured.
type Generator struct {
	dialect glshade.Dialect
	version int
}

var _ glshade.ShaderGenerator = (*Generator)(nil) // Interface implementation compile-time check.

// NewGenerator returns a Generator for the dialect. Desktop generators emit
// "#version 330 core" until configured otherwise with [Generator.SetGLSLVersion].
func NewGenerator(dialect glshade.Dialect) *Generator {
	if dialect != glshade.DialectDesktop && dialect != glshade.DialectWebGL2 {
		panic("glbuild: invalid dialect " + dialect.String())
	}
	return &Generator{dialect: dialect, version: MinDesktopVersion}
}

// Dialect returns the dialect the generator was created for.
func (g *Generator) Dialect() glshade.Dialect { return g.dialect }

// SetGLSLVersion sets the desktop #version directive, i.e. 410 for OpenGL 4.1.
// It panics for versions below 330 or when called on a WebGL2 generator.
func (g *Generator) SetGLSLVersion(version int) {
	if g.dialect != glshade.DialectDesktop {
		panic("glbuild: GLSL version is fixed to 300 es in WebGL2 dialect")
	} else if version < MinDesktopVersion {
		panic("glbuild: desktop GLSL version must be 330 or higher")
	}
	g.version = version
}

// GLSLVersion returns the number in the #version directive emitted by the generator.
func (g *Generator) GLSLVersion() int {
	if g.dialect == glshade.DialectWebGL2 {
		return 300
	}
	return g.version
}

// Supports reports whether the generator implements the primitive kind.
func (g *Generator) Supports(kind glshade.PrimitiveKind) bool {
	t := g.template(kind)
	return t.vertex != nil && t.fragment != nil
}

// Vertex returns the vertex shader source for kind. It fails only with
// a [*glshade.UnsupportedPrimitiveError].
func (g *Generator) Vertex(kind glshade.PrimitiveKind, s *glshade.ShadeStructure) (string, error) {
	b, err := g.AppendVertex(nil, kind, s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Fragment returns the fragment shader source for kind. It fails only with
// a [*glshade.UnsupportedPrimitiveError].
func (g *Generator) Fragment(kind glshade.PrimitiveKind, s *glshade.ShadeStructure) (string, error) {
	b, err := g.AppendFragment(nil, kind, s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AppendVertex appends the vertex shader source for kind to dst. On error dst is returned unmodified.
func (g *Generator) AppendVertex(dst []byte, kind glshade.PrimitiveKind, s *glshade.ShadeStructure) ([]byte, error) {
	return g.appendStage(dst, kind, glshade.StageVertex, s)
}

// AppendFragment appends the fragment shader source for kind to dst. On error dst is returned unmodified.
func (g *Generator) AppendFragment(dst []byte, kind glshade.PrimitiveKind, s *glshade.ShadeStructure) ([]byte, error) {
	return g.appendStage(dst, kind, glshade.StageFragment, s)
}

// WriteProgram writes the vertex and fragment sources of kind to vs and fs.
// n is the total number of bytes written to both writers.
func (g *Generator) WriteProgram(vs, fs io.Writer, kind glshade.PrimitiveKind, s *glshade.ShadeStructure) (n int, err error) {
	buf, err := g.AppendVertex(nil, kind, s)
	if err != nil {
		return 0, err
	}
	n, err = vs.Write(buf)
	if err != nil {
		return n, err
	}
	buf, err = g.AppendFragment(buf[:0], kind, s)
	if err != nil {
		return n, err
	}
	ngot, err := fs.Write(buf)
	n += ngot
	return n, err
}

func (g *Generator) appendStage(dst []byte, kind glshade.PrimitiveKind, stage glshade.Stage, s *glshade.ShadeStructure) ([]byte, error) {
	t := g.template(kind)
	fn := t.vertex
	if stage == glshade.StageFragment {
		fn = t.fragment
	}
	if fn == nil {
		return dst, &glshade.UnsupportedPrimitiveError{Kind: kind, Stage: stage, Dialect: g.dialect}
	}
	if s == nil {
		s = &glshade.ShadeStructure{}
	}
	c := composer{
		dialect: g.dialect,
		version: g.version,
		kind:    kind,
		stage:   stage,
		s:       s,
	}
	return fn(dst, &c), nil
}

// AppendDefineDecl appends a preprocessor definition:
//
//	#define <aliasToDefine> <aliasReplace>
func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	b = append(b, ' ')
	b = append(b, aliasReplace...)
	b = append(b, '\n')
	return b
}

// AppendFloatDecl appends a float local declaration, i.e: "float x = 2.5;".
func AppendFloatDecl(b []byte, floatVarname string, v float32) []byte {
	b = append(b, "float "...)
	b = append(b, floatVarname...)
	b = append(b, " = "...)
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ';', '\n')
	return b
}

const decimalDigits = 9

// AppendFloat appends a GLSL float literal with trailing zeroes trimmed.
// The literal always has a decimal separator so it never parses as an int.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes, keeping one after the separator.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

// AppendFloats appends a sep separated list of float literals.
func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

// AppendBufferDecl appends an interface block with a single array member.
// Storage blocks (SSBO) require GLSL 4.30, uniform blocks are available in all dialects.
// A length of zero declares an unsized array, only valid for storage blocks.
//
//	layout(std430, binding = <binding>) buffer <blockName> {
//		<typename> <member>[];
//	} <instanceName>;
func AppendBufferDecl(dst []byte, storage bool, binding int, blockName, instanceName, typename, member string, length int) ([]byte, error) {
	if blockName == "" {
		return dst, errors.New("buffer declaration requires a block name")
	} else if member == "" || typename == "" {
		return dst, fmt.Errorf("buffer %q requires member name and type", blockName)
	} else if length < 0 || (!storage && length == 0) {
		return dst, fmt.Errorf("buffer %q has invalid length %d", blockName, length)
	}
	if storage {
		dst = append(dst, "layout(std430, binding = "...)
		dst = strconv.AppendInt(dst, int64(binding), 10)
		dst = append(dst, ") buffer "...)
	} else {
		dst = append(dst, "layout(std140) uniform "...)
	}
	dst = append(dst, blockName...)
	dst = append(dst, " {\n    "...)
	dst = append(dst, typename...)
	dst = append(dst, ' ')
	dst = append(dst, member...)
	dst = append(dst, '[')
	if length > 0 {
		dst = strconv.AppendInt(dst, int64(length), 10)
	}
	dst = append(dst, "];\n}"...)
	if len(instanceName) > 0 {
		dst = append(dst, ' ')
		dst = append(dst, instanceName...)
	}
	dst = append(dst, ";\n"...)
	return dst, nil
}

// GLSLType returns the GLSL type name of a Go uniform value type, i.e. "vec3" for [ms3.Vec].
// Double precision types map to their single precision counterpart since
// uniforms are downcast before upload.
func GLSLType(tp reflect.Type) (typename string, err error) {
	switch tp {
	case reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)):
		typename = "float"
	case reflect.TypeOf(int32(0)), reflect.TypeOf(int(0)):
		typename = "int"
	case reflect.TypeOf(false):
		typename = "bool"
	case reflect.TypeOf(ms2.Vec{}), reflect.TypeOf(f32.Vec2{}), reflect.TypeOf(mgl32.Vec2{}):
		typename = "vec2"
	case reflect.TypeOf(ms3.Vec{}), reflect.TypeOf(f32.Vec3{}), reflect.TypeOf(mgl32.Vec3{}):
		typename = "vec3"
	case reflect.TypeOf(f32.Vec4{}), reflect.TypeOf(mgl32.Vec4{}), reflect.TypeOf(glshade.ColorRGBa{}):
		typename = "vec4"
	case reflect.TypeOf([2]int32{}):
		typename = "ivec2"
	case reflect.TypeOf([3]int32{}):
		typename = "ivec3"
	case reflect.TypeOf([4]int32{}):
		typename = "ivec4"
	case reflect.TypeOf(ms3.Mat3{}), reflect.TypeOf(f32.Mat3{}), reflect.TypeOf(mgl32.Mat3{}):
		typename = "mat3"
	case reflect.TypeOf(ms3.Mat4{}), reflect.TypeOf(f32.Mat4{}), reflect.TypeOf(mgl32.Mat4{}):
		typename = "mat4"
	case nil:
		err = errors.New("nil element type")
	default:
		err = fmt.Errorf("equivalent GLSL type not implemented for %s", tp.String())
	}
	return typename, err
}

// Hash returns a 64 bit hash of b mixed with in. Used to deduplicate generated programs.
func Hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
