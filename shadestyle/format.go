package shadestyle

import (
	"fmt"
	"strings"

	"github.com/soypat/glshade"
)

// VertexElement is a single vertex attribute.
type VertexElement struct {
	Name string
	// Type is the GLSL type of the attribute, i.e. "vec3".
	Type string
	// ArraySize declares an array attribute when greater than zero.
	ArraySize int
}

// VertexFormat is an ordered list of attributes sourced from one vertex buffer.
type VertexFormat struct {
	Elements []VertexElement
}

// Attribute appends an attribute to the format and returns the format.
func (f *VertexFormat) Attribute(name, glslType string, arraySize int) *VertexFormat {
	f.Elements = append(f.Elements, VertexElement{Name: name, Type: glslType, ArraySize: arraySize})
	return f
}

// Stride returns the size in bytes of one vertex of the format, assuming tightly packed 32 bit components.
func (f *VertexFormat) Stride() (int, error) {
	stride := 0
	for _, e := range f.Elements {
		n, err := componentCount(e.Type)
		if err != nil {
			return 0, fmt.Errorf("attribute %q: %w", e.Name, err)
		}
		stride += 4 * n * max(1, e.ArraySize)
	}
	return stride, nil
}

func componentCount(glslType string) (int, error) {
	switch glslType {
	case "float", "int", "uint", "bool":
		return 1, nil
	case "vec2", "ivec2", "uvec2":
		return 2, nil
	case "vec3", "ivec3", "uvec3":
		return 3, nil
	case "vec4", "ivec4", "uvec4", "mat2":
		return 4, nil
	case "mat3":
		return 9, nil
	case "mat4":
		return 16, nil
	}
	return 0, fmt.Errorf("unsupported attribute type %q", glslType)
}

// isInteger reports whether varyings of the type require flat interpolation.
func isInteger(glslType string) bool {
	return strings.HasPrefix(glslType, "int") || strings.HasPrefix(glslType, "uint") ||
		strings.HasPrefix(glslType, "ivec") || strings.HasPrefix(glslType, "uvec")
}

func format(elems ...VertexElement) VertexFormat { return VertexFormat{Elements: elems} }

func attr(name, glslType string) VertexElement { return VertexElement{Name: name, Type: glslType} }

// StandardFormats returns the vertex and instance attribute formats the
// drawer supplies to the primitive templates of kind. The filter template
// declares its own quad attributes and has no standard formats.
func StandardFormats(kind glshade.PrimitiveKind) (vertex, instance []VertexFormat) {
	quad := format(attr("position", "vec3"), attr("normal", "vec3"), attr("texCoord0", "vec2"))
	switch kind {
	case glshade.KindVertexBuffer:
		return []VertexFormat{quad}, nil
	case glshade.KindImage:
		return []VertexFormat{quad}, []VertexFormat{format(attr("target", "vec4"), attr("source", "vec4"))}
	case glshade.KindImageArrayTexture:
		return []VertexFormat{quad}, []VertexFormat{format(attr("target", "vec4"), attr("source", "vec4"), attr("layer", "int"))}
	case glshade.KindPoint:
		return []VertexFormat{format(attr("position", "vec3"))},
			[]VertexFormat{format(attr("offset", "vec3"), attr("fill", "vec4"), attr("stroke", "vec4"))}
	case glshade.KindCircle:
		return []VertexFormat{quad}, []VertexFormat{format(
			attr("offset", "vec3"), attr("radius", "vec2"),
			attr("fill", "vec4"), attr("stroke", "vec4"), attr("strokeWeight", "float"),
		)}
	case glshade.KindRectangle:
		return []VertexFormat{quad}, []VertexFormat{format(
			attr("offset", "vec3"), attr("dimensions", "vec2"), attr("rotation", "float"),
			attr("fill", "vec4"), attr("stroke", "vec4"), attr("strokeWeight", "float"),
		)}
	case glshade.KindFontImageMap:
		return []VertexFormat{format(attr("position", "vec3"), attr("texCoord0", "vec2"), attr("bounds", "vec4"))}, nil
	case glshade.KindExpansion:
		return []VertexFormat{format(attr("position", "vec2"), attr("texCoord0", "vec2"), attr("vertexOffset", "float"))}, nil
	case glshade.KindFastLine:
		return []VertexFormat{format(attr("position", "vec3"))}, nil
	case glshade.KindMeshLine:
		return []VertexFormat{format(
			attr("previous", "vec3"), attr("position", "vec3"), attr("next", "vec3"),
			attr("side", "float"), attr("width", "float"), attr("element", "float"),
		)}, nil
	}
	return nil, nil
}
