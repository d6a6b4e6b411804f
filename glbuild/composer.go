package glbuild

import (
	"strconv"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild/glsllib"
)

// template holds the stage generators of a primitive kind. A nil stage is unsupported.
type template struct {
	vertex   func(b []byte, c *composer) []byte
	fragment func(b []byte, c *composer) []byte
}

func (g *Generator) template(kind glshade.PrimitiveKind) template {
	switch kind {
	case glshade.KindVertexBuffer:
		return template{vertexBufferVertex, vertexBufferFragment}
	case glshade.KindImage:
		return template{imageVertex, imageFragment}
	case glshade.KindPoint:
		return template{pointVertex, pointFragment}
	case glshade.KindCircle:
		return template{circleVertex, circleFragment}
	case glshade.KindRectangle:
		return template{rectangleVertex, rectangleFragment}
	case glshade.KindExpansion:
		return template{expansionVertex, expansionFragment}
	case glshade.KindFilter:
		return template{filterVertex, filterFragment}
	}
	if g.dialect == glshade.DialectWebGL2 {
		return template{}
	}
	switch kind {
	case glshade.KindImageArrayTexture:
		return template{imageArrayTextureVertex, imageArrayTextureFragment}
	case glshade.KindFontImageMap:
		return template{fontImageMapVertex, fontImageMapFragment}
	case glshade.KindFastLine:
		return template{fastLineVertex, fastLineFragment}
	case glshade.KindMeshLine:
		return template{meshLineVertex, meshLineFragment}
	}
	return template{}
}

// composer carries the per call state of a template expansion.
// Helpers append a trailing newline after every snippet so that
// absent snippets leave an empty line and never join adjacent declarations.
type composer struct {
	dialect glshade.Dialect
	version int
	kind    glshade.PrimitiveKind
	stage   glshade.Stage
	s       *glshade.ShadeStructure
}

func (c *composer) webgl() bool { return c.dialect == glshade.DialectWebGL2 }

// header appends the #version directive and precision statements.
func (c *composer) header(b []byte) []byte {
	if c.webgl() {
		b = append(b, "#version 300 es\nprecision highp float;\nprecision highp int;\nprecision highp sampler2DArray;\n"...)
	} else {
		b = append(b, "#version "...)
		b = strconv.AppendInt(b, int64(c.version), 10)
		b = append(b, " core\n"...)
	}
	b = append(b, "// -- "...)
	b = append(b, c.kind.String()...)
	b = append(b, ' ')
	b = append(b, c.stage.String()...)
	b = append(b, " shader\n"...)
	return b
}

// primitiveTypes appends the d_* tag table and defines d_primitive as the composer's kind.
func (c *composer) primitiveTypes(b []byte) []byte {
	b = append(b, glsllib.PrimitiveTypes()...)
	return AppendDefineDecl(b, "d_primitive", c.kind.Define())
}

// drawerUniforms declares the drawer context and style uniforms. Desktop
// shaders receive them through shared uniform blocks.
func (c *composer) drawerUniforms(b []byte, context, style bool) []byte {
	block := !c.webgl()
	if context {
		b = append(b, glsllib.ContextUniforms(block)...)
	}
	if style {
		b = append(b, glsllib.StyleUniforms(block)...)
	}
	return b
}

// snippet appends a user snippet followed by a newline. Absent snippets yield an empty line.
func snippet(b []byte, s string) []byte {
	b = append(b, s...)
	return append(b, '\n')
}

// userBlock appends a user statement snippet inside a template owned scope.
func userBlock(b []byte, s string) []byte {
	b = append(b, "    {\n"...)
	b = snippet(b, s)
	return append(b, "    }\n"...)
}

func line(b []byte, s string) []byte {
	b = append(b, "    "...)
	b = append(b, s...)
	return append(b, '\n')
}

const colorOutput = "layout(location = 0) out vec4 o_color;\n"

// instanceDecl declares the instance varying. WebGL2 draws are not instanced.
func (c *composer) instanceDecl(b []byte) []byte {
	if c.webgl() {
		return b
	}
	if c.stage == glshade.StageVertex {
		return append(b, "flat out int v_instance;\n"...)
	}
	return append(b, "flat in int v_instance;\n"...)
}

// instanceInit binds v_instance at the start of main.
func (c *composer) instanceInit(b []byte) []byte {
	if c.webgl() {
		return line(b, "int v_instance = 0;")
	}
	if c.stage == glshade.StageVertex {
		return line(b, "v_instance = gl_InstanceID;")
	}
	return b
}

func vertexMainConstants(b []byte, instance, element string) []byte {
	b = line(b, "int c_instance = "+instance+";")
	return line(b, "int c_element = "+element+";")
}

// fragmentConstants are the expressions bound to the c_* constants of a fragment shader.
// Empty fields take the drawer defaults.
type fragmentConstants struct {
	instance        string
	element         string
	screenPosition  string
	contourPosition string
	boundsPosition  string
	boundsSize      string
}

func (fc fragmentConstants) append(b []byte) []byte {
	b = line(b, "int c_instance = "+orDefault(fc.instance, "v_instance")+";")
	b = line(b, "int c_element = "+orDefault(fc.element, "0")+";")
	b = line(b, "vec2 c_screenPosition = "+orDefault(fc.screenPosition, "gl_FragCoord.xy / u_contentScale")+";")
	b = line(b, "float c_contourPosition = "+orDefault(fc.contourPosition, "0.0")+";")
	b = line(b, "vec3 c_boundsPosition = "+orDefault(fc.boundsPosition, "vec3(0.0)")+";")
	return line(b, "vec3 c_boundsSize = "+orDefault(fc.boundsSize, "vec3(0.0)")+";")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// defaultOutput appends the terminal o_color statements unless suppressed.
func (c *composer) defaultOutput(b []byte, stmts ...string) []byte {
	if c.s.SuppressDefaultOutput {
		return b
	}
	for _, stmt := range stmts {
		b = line(b, stmt)
	}
	return b
}

// hasAttribute reports whether the structure declares a vertex attribute, i.e: "vec3 a_normal".
func (c *composer) hasAttribute(decl string) bool {
	return strings.Contains(c.s.Attributes, decl+";")
}

// vertexHead appends the declarations shared by the drawer's vertex shaders up to the vertex preamble.
func (c *composer) vertexHead(b []byte, style bool) []byte {
	b = c.header(b)
	b = c.primitiveTypes(b)
	b = snippet(b, c.s.Buffers)
	b = c.drawerUniforms(b, true, style)
	b = snippet(b, c.s.Attributes)
	b = snippet(b, c.s.Uniforms)
	b = snippet(b, c.s.VaryingOut)
	b = append(b, glsllib.TransformVaryingOut()...)
	b = c.instanceDecl(b)
	return snippet(b, c.s.VertexPreamble)
}

// fragmentHead appends the declarations shared by the drawer's fragment shaders up to the fragment preamble.
func (c *composer) fragmentHead(b []byte, style bool) []byte {
	b = c.header(b)
	b = c.primitiveTypes(b)
	b = snippet(b, c.s.Buffers)
	b = snippet(b, c.s.Uniforms)
	b = c.drawerUniforms(b, true, style)
	b = snippet(b, c.s.VaryingIn)
	b = append(b, glsllib.TransformVaryingIn()...)
	b = c.instanceDecl(b)
	b = append(b, colorOutput...)
	b = snippet(b, c.s.Outputs)
	return snippet(b, c.s.FragmentPreamble)
}

// vertexTransform appends the pre-transform locals, the user vertex
// transform, and the post-transform varyings followed by the gl_Position write.
func (c *composer) vertexTransform(b []byte) []byte {
	b = append(b, glsllib.PreVertexTransform()...)
	b = userBlock(b, c.s.VertexTransform)
	b = append(b, glsllib.PostVertexTransform()...)
	return b
}

// positionTransform is like vertexTransform but forwards the transformed
// x_position to va_position when the structure declares that varying.
func (c *composer) positionTransform(b []byte) []byte {
	b = append(b, glsllib.PreVertexTransform()...)
	b = userBlock(b, c.s.VertexTransform)
	if strings.Contains(c.s.VaryingOut, "vec3 va_position;") {
		b = line(b, "va_position = x_position;")
	}
	b = append(b, glsllib.PostVertexTransform()...)
	return b
}

func mainStart(b []byte) []byte { return append(b, "void main() {\n"...) }

func mainEnd(b []byte) []byte { return append(b, "}\n"...) }
