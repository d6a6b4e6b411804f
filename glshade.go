// Package glshade holds the data model shared by the GLSL shader generator
// ([github.com/soypat/glshade/glbuild]) and the uniform binder
// ([github.com/soypat/glshade/uniform]).
//
// A rendering engine projects a user shade style and the primitive being drawn
// into a [ShadeStructure], asks a [ShaderGenerator] for vertex and fragment
// sources, links them and then pushes per-draw values through a uniform binder.
package glshade

import (
	"errors"
	"strconv"
)

// ShadeStructure is the set of GLSL fragments spliced into a primitive's
// shader template. Absent (empty) fields are legal everywhere.
// Declaration fields are emitted in the header region of the stage, statement
// fields inside a braced block owned by the template.
type ShadeStructure struct {
	// Attributes are vertex input declarations, i.e: "in vec3 a_position;".
	Attributes string
	// Uniforms are user uniform declarations.
	Uniforms string
	// Buffers are shader storage or uniform buffer block declarations.
	Buffers string
	// VaryingIn are fragment stage inputs matching VaryingOut.
	VaryingIn string
	// VaryingOut are vertex stage outputs.
	VaryingOut string
	// VaryingBridge assigns attributes to varyings in the vertex stage, i.e: "va_position = a_position;".
	VaryingBridge string
	// Outputs are extra fragment outputs besides o_color.
	Outputs string

	VertexPreamble   string
	FragmentPreamble string
	// VertexTransform runs with x_position and x_normal in scope.
	VertexTransform string
	// FragmentTransform runs with x_fill and x_stroke in scope
	// (and x_strokeWeight for circles and rectangles).
	FragmentTransform string

	// SuppressDefaultOutput omits the template's terminal write to o_color.
	// The user snippets are then responsible for writing all outputs.
	SuppressDefaultOutput bool
}

// ShaderGenerator produces GLSL source for a primitive kind and stage.
// Implementations are pure: the same input always yields the same source.
type ShaderGenerator interface {
	Dialect() Dialect
	Vertex(kind PrimitiveKind, s *ShadeStructure) (string, error)
	Fragment(kind PrimitiveKind, s *ShadeStructure) (string, error)
}

// PrimitiveKind identifies the drawable class a shader is generated for.
type PrimitiveKind uint8

const (
	KindVertexBuffer PrimitiveKind = iota
	KindImage
	KindImageArrayTexture
	KindPoint
	KindCircle
	KindRectangle
	KindFontImageMap
	KindExpansion
	KindFastLine
	KindMeshLine
	KindFilter
	numKinds
)

// Kinds returns all primitive kinds in declaration order.
func Kinds() []PrimitiveKind {
	kinds := make([]PrimitiveKind, numKinds)
	for i := range kinds {
		kinds[i] = PrimitiveKind(i)
	}
	return kinds
}

var kindNames = [numKinds]string{
	KindVertexBuffer:      "vertexBuffer",
	KindImage:             "image",
	KindImageArrayTexture: "imageArrayTexture",
	KindPoint:             "point",
	KindCircle:            "circle",
	KindRectangle:         "rectangle",
	KindFontImageMap:      "fontImageMap",
	KindExpansion:         "expansion",
	KindFastLine:          "fastLine",
	KindMeshLine:          "meshLine",
	KindFilter:            "filter",
}

// String returns the camel-cased name of the kind, i.e: "vertexBuffer".
func (k PrimitiveKind) String() string {
	if k >= numKinds {
		return "PrimitiveKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind parses a kind by its [PrimitiveKind.String] name.
func ParseKind(s string) (PrimitiveKind, error) {
	for i, name := range kindNames {
		if name == s {
			return PrimitiveKind(i), nil
		}
	}
	return 0, errors.New("unknown primitive kind " + strconv.Quote(s))
}

// Define returns the GLSL preprocessor tag user snippets branch on
// through d_primitive. Filters have no tag and return "d_custom".
func (k PrimitiveKind) Define() string {
	switch k {
	case KindVertexBuffer:
		return "d_vertex_buffer"
	case KindImage:
		return "d_image"
	case KindImageArrayTexture:
		return "d_image_array_texture"
	case KindPoint:
		return "d_point"
	case KindCircle:
		return "d_circle"
	case KindRectangle:
		return "d_rectangle"
	case KindFontImageMap:
		return "d_font_image_map"
	case KindExpansion:
		return "d_expansion"
	case KindFastLine:
		return "d_fast_line"
	case KindMeshLine:
		return "d_mesh_line"
	}
	return "d_custom"
}

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "Stage(" + strconv.Itoa(int(s)) + ")"
}

// Dialect is the GLSL variant targeted by a generator.
type Dialect uint8

const (
	// DialectDesktop targets OpenGL core profile, GLSL 3.30 and above.
	DialectDesktop Dialect = iota
	// DialectWebGL2 targets GLSL ES 3.00.
	DialectWebGL2
)

func (d Dialect) String() string {
	switch d {
	case DialectDesktop:
		return "gl"
	case DialectWebGL2:
		return "webgl"
	}
	return "Dialect(" + strconv.Itoa(int(d)) + ")"
}

// ParseDialect parses "gl" or "webgl".
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "gl", "desktop", "opengl":
		return DialectDesktop, nil
	case "webgl", "webgl2", "gles":
		return DialectWebGL2, nil
	}
	return 0, errors.New("unknown dialect " + strconv.Quote(s))
}

// ErrUnsupportedPrimitive is matched by [errors.Is] for every [*UnsupportedPrimitiveError].
var ErrUnsupportedPrimitive = errors.New("unsupported primitive")

// UnsupportedPrimitiveError is returned by a generator asked for a shader it
// does not implement in its dialect. Callers must not fall back to another primitive.
type UnsupportedPrimitiveError struct {
	Kind    PrimitiveKind
	Stage   Stage
	Dialect Dialect
}

func (e *UnsupportedPrimitiveError) Error() string {
	return e.Kind.String() + " " + e.Stage.String() + " shader not supported in " + e.Dialect.String() + " dialect"
}

func (e *UnsupportedPrimitiveError) Is(target error) bool {
	return target == ErrUnsupportedPrimitive
}
