package glbuild_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

var dialects = []glshade.Dialect{glshade.DialectDesktop, glshade.DialectWebGL2}

var webglUnsupported = map[glshade.PrimitiveKind]bool{
	glshade.KindImageArrayTexture: true,
	glshade.KindFontImageMap:      true,
	glshade.KindFastLine:          true,
	glshade.KindMeshLine:          true,
}

// markedStructure has every snippet set to a unique comment so injection points can be located.
func markedStructure() *glshade.ShadeStructure {
	return &glshade.ShadeStructure{
		Attributes:        "// @attributes",
		Uniforms:          "// @uniforms",
		Buffers:           "// @buffers",
		VaryingIn:         "// @varyingIn",
		VaryingOut:        "// @varyingOut",
		VaryingBridge:     "// @varyingBridge",
		Outputs:           "// @outputs",
		VertexPreamble:    "// @vertexPreamble",
		FragmentPreamble:  "// @fragmentPreamble",
		VertexTransform:   "// @vertexTransform",
		FragmentTransform: "// @fragmentTransform",
	}
}

type stageFunc func(kind glshade.PrimitiveKind, s *glshade.ShadeStructure) (string, error)

func forEachSupported(t *testing.T, fn func(t *testing.T, g *glbuild.Generator, kind glshade.PrimitiveKind, stage glshade.Stage, gen stageFunc)) {
	for _, d := range dialects {
		g := glbuild.NewGenerator(d)
		for _, kind := range glshade.Kinds() {
			if d == glshade.DialectWebGL2 && webglUnsupported[kind] {
				continue
			}
			fn(t, g, kind, glshade.StageVertex, g.Vertex)
			fn(t, g, kind, glshade.StageFragment, g.Fragment)
		}
	}
}

func TestWebGLCircleDefaultStyle(t *testing.T) {
	g := glbuild.NewGenerator(glshade.DialectWebGL2)
	fs, err := g.Fragment(glshade.KindCircle, &glshade.ShadeStructure{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fs, "#version 300 es\nprecision highp float;\n"))
	assert.Contains(t, fs, "smoothstep")
	assert.Contains(t, fs, "fwidth")
	last := strings.LastIndex(fs, "o_color = final;")
	require.Positive(t, last)
	assert.Equal(t, "}", strings.TrimSpace(fs[last+len("o_color = final;"):]))

	vs, err := g.Vertex(glshade.KindCircle, nil)
	require.NoError(t, err)
	assert.Contains(t, vs, "v_boundsSize = vec3(i_radius.xy, 0.0);")
	assert.Contains(t, vs, "gl_Position = v_clipPosition;")
}

func TestUnsupportedPrimitiveWebGL(t *testing.T) {
	g := glbuild.NewGenerator(glshade.DialectWebGL2)
	for kind := range webglUnsupported {
		assert.False(t, g.Supports(kind))
		src, err := g.Fragment(kind, &glshade.ShadeStructure{})
		assert.Empty(t, src)
		require.Error(t, err)
		assert.True(t, errors.Is(err, glshade.ErrUnsupportedPrimitive))
		var upe *glshade.UnsupportedPrimitiveError
		require.True(t, errors.As(err, &upe))
		assert.Equal(t, glshade.UnsupportedPrimitiveError{Kind: kind, Stage: glshade.StageFragment, Dialect: glshade.DialectWebGL2}, *upe)

		src, err = g.Vertex(kind, nil)
		assert.Empty(t, src)
		assert.ErrorIs(t, err, glshade.ErrUnsupportedPrimitive)

		dst := []byte("keep")
		got, err := g.AppendFragment(dst, kind, nil)
		assert.Error(t, err)
		assert.Equal(t, "keep", string(got))
	}
	// Desktop implements every kind.
	desktop := glbuild.NewGenerator(glshade.DialectDesktop)
	for _, kind := range glshade.Kinds() {
		assert.True(t, desktop.Supports(kind), kind.String())
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	forEachSupported(t, func(t *testing.T, g *glbuild.Generator, kind glshade.PrimitiveKind, stage glshade.Stage, gen stageFunc) {
		s := markedStructure()
		first, err := gen(kind, s)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := gen(kind, s)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
		// Input is not modified.
		assert.Equal(t, markedStructure(), s)
	})
}

func TestEmptyStructureWellFormed(t *testing.T) {
	forEachSupported(t, func(t *testing.T, g *glbuild.Generator, kind glshade.PrimitiveKind, stage glshade.Stage, gen stageFunc) {
		name := g.Dialect().String() + "/" + kind.String() + "/" + stage.String()
		fromNil, err := gen(kind, nil)
		require.NoError(t, err, name)
		src, err := gen(kind, &glshade.ShadeStructure{})
		require.NoError(t, err, name)
		require.Equal(t, fromNil, src, name)

		lines := strings.Split(src, "\n")
		if g.Dialect() == glshade.DialectWebGL2 {
			assert.Equal(t, "#version 300 es", lines[0], name)
			assert.Equal(t, "precision highp float;", lines[1], name)
			// GLSL ES 3.00 has no default precision for sampler2DArray.
			assert.Contains(t, lines[:5], "precision highp sampler2DArray;", name)
		} else {
			assert.Equal(t, "#version 330 core", lines[0], name)
			assert.NotContains(t, src, "precision ", name)
		}
		assert.Equal(t, 1, strings.Count(src, "#version"), name)
		assert.Equal(t, 1, strings.Count(src, "void main()"), name)
		assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"), name)
		assert.Equal(t, strings.Count(src, "("), strings.Count(src, ")"), name)
		assertBalanced(t, name, src)
		if stage == glshade.StageFragment {
			assert.Equal(t, 1, strings.Count(src, "out vec4 o_color;"), name)
		} else {
			assert.Contains(t, src, "gl_Position = ", name)
		}
		if kind != glshade.KindFilter {
			assert.Contains(t, src, "#define d_primitive "+kind.Define()+"\n", name)
		}
	})
}

func assertBalanced(t *testing.T, name, src string) {
	t.Helper()
	depth := 0
	for i, c := range src {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			t.Fatalf("%s: unbalanced braces at offset %d", name, i)
		}
	}
	assert.Zero(t, depth, name)
}

func TestSuppressDefaultOutput(t *testing.T) {
	forEachSupported(t, func(t *testing.T, g *glbuild.Generator, kind glshade.PrimitiveKind, stage glshade.Stage, gen stageFunc) {
		if stage != glshade.StageFragment {
			return
		}
		name := g.Dialect().String() + "/" + kind.String()
		src, err := gen(kind, &glshade.ShadeStructure{})
		require.NoError(t, err)
		assert.Contains(t, src, "o_color = ", name)

		src, err = gen(kind, &glshade.ShadeStructure{SuppressDefaultOutput: true})
		require.NoError(t, err)
		assert.NotContains(t, src, "o_color = ", name)
		assert.NotContains(t, src, "o_color.rgb", name)
		// Declaration is kept for user snippets to write.
		assert.Contains(t, src, "out vec4 o_color;", name)
	})
}

func TestPremultipliedDefaultOutput(t *testing.T) {
	forEachSupported(t, func(t *testing.T, g *glbuild.Generator, kind glshade.PrimitiveKind, stage glshade.Stage, gen stageFunc) {
		if stage != glshade.StageFragment {
			return
		}
		src, err := gen(kind, nil)
		require.NoError(t, err)
		premul := strings.Contains(src, "o_color.rgb *= o_color.a;") ||
			strings.Contains(src, "final.rgb *= final.a;") ||
			strings.Contains(src, "x_fill.rgb *= x_fill.a;") ||
			strings.Contains(src, "final.rgb = x_fill.rgb * x_fill.a;")
		assert.True(t, premul, g.Dialect().String()+"/"+kind.String())
	})
}

func TestInjectionPoints(t *testing.T) {
	forEachSupported(t, func(t *testing.T, g *glbuild.Generator, kind glshade.PrimitiveKind, stage glshade.Stage, gen stageFunc) {
		name := g.Dialect().String() + "/" + kind.String() + "/" + stage.String()
		src, err := gen(kind, markedStructure())
		require.NoError(t, err)
		mainIdx := strings.Index(src, "void main()")
		require.Positive(t, mainIdx, name)
		declarations := []string{"// @buffers", "// @uniforms"}
		if stage == glshade.StageVertex {
			declarations = append(declarations, "// @vertexPreamble")
			if kind != glshade.KindFilter {
				declarations = append(declarations, "// @attributes", "// @varyingOut")
			}
		} else {
			declarations = append(declarations, "// @fragmentPreamble", "// @outputs")
			if kind != glshade.KindFilter {
				declarations = append(declarations, "// @varyingIn")
			}
		}
		for _, decl := range declarations {
			idx := strings.Index(src, decl)
			assert.True(t, idx >= 0 && idx < mainIdx, "%s: %s must be declared before main", name, decl)
			assert.Equal(t, 1, strings.Count(src, decl), name)
		}
		if stage == glshade.StageVertex {
			assert.NotContains(t, src, "// @fragmentTransform", name)
			tf := strings.Index(src, "// @vertexTransform")
			require.Greater(t, tf, mainIdx, name)
			assert.Less(t, strings.Index(src, "vec3 x_position"), tf, name)
			assert.Less(t, strings.Index(src, "vec3 x_normal"), tf, name)
			assert.Less(t, tf, strings.LastIndex(src, "gl_Position = "), name)
			if kind != glshade.KindFilter {
				assert.Less(t, strings.Index(src, "mat4 x_modelMatrix = u_modelMatrix;"), tf, name)
				assert.Greater(t, strings.Index(src, "v_clipPosition = x_projectionMatrix"), tf, name)
				bridge := strings.Index(src, "// @varyingBridge")
				assert.True(t, bridge > mainIdx && bridge < tf, name)
			}
		} else {
			assert.NotContains(t, src, "// @vertexTransform", name)
			tf := strings.Index(src, "// @fragmentTransform")
			require.Greater(t, tf, mainIdx, name)
			assert.Less(t, strings.Index(src, "vec4 x_fill"), tf, name)
			assert.Less(t, strings.Index(src, "vec4 x_stroke"), tf, name)
			// User statements are scoped by a template block.
			open := strings.LastIndex(src[:tf], "{")
			assert.Equal(t, "{", strings.TrimSpace(src[open:tf]), name)
			assert.Less(t, tf, strings.LastIndex(src, "o_color = "), name)
		}
	})
}

func TestMaskOrdering(t *testing.T) {
	for _, d := range dialects {
		g := glbuild.NewGenerator(d)
		s := markedStructure()

		rect, err := g.Fragment(glshade.KindRectangle, s)
		require.NoError(t, err)
		tf := strings.Index(rect, "// @fragmentTransform")
		assert.Less(t, strings.Index(rect, "float x_strokeWeight = vi_strokeWeight;"), strings.Index(rect, "float irx"))
		assert.Less(t, strings.Index(rect, "float ir = irx * iry;"), tf)
		assert.Greater(t, strings.Index(rect, "float sa ="), tf)
		assert.Contains(t, rect, "wd.x * 2.5")

		circle, err := g.Fragment(glshade.KindCircle, s)
		require.NoError(t, err)
		tf = strings.Index(circle, "// @fragmentTransform")
		assert.Less(t, strings.Index(circle, "float x_strokeWeight = vi_strokeWeight;"), tf)
		assert.Greater(t, strings.Index(circle, "float b = x_strokeWeight / vi_radius.x;"), tf)
		assert.Greater(t, strings.Index(circle, "float d = length(va_texCoord0 - vec2(0.5)) * 2.0;"), tf)
		assert.Contains(t, circle, "float smoothFactor = 3.0;")

		exp, err := g.Fragment(glshade.KindExpansion, s)
		require.NoError(t, err)
		tf = strings.Index(exp, "// @fragmentTransform")
		assert.Less(t, strings.Index(exp, "float strokeAlpha = strokeMask();"), tf)
		discard := strings.Index(exp, "discard;")
		assert.Greater(t, discard, tf)
		assert.Less(t, discard, strings.Index(exp, "final.rgb *= final.a;"))
		assert.Contains(t, exp, "mix(x_stroke, x_fill, strokeFillFactor) * vec4(1.0, 1.0, 1.0, strokeAlpha)")
	}
}

func TestGeometryContracts(t *testing.T) {
	for _, d := range dialects {
		g := glbuild.NewGenerator(d)
		img, err := g.Vertex(glshade.KindImage, nil)
		require.NoError(t, err)
		assert.Contains(t, img, "uniform int u_flipV;")
		assert.Contains(t, img, "x_position.xy = a_position.xy * i_target.zw + i_target.xy;")
		assert.Contains(t, img, "va_texCoord0.xy = a_texCoord0.xy * i_source.zw + i_source.xy;")

		rect, err := g.Vertex(glshade.KindRectangle, nil)
		require.NoError(t, err)
		assert.Contains(t, rect, "mat2 rotate2(float rotationInDegrees)")
		assert.Contains(t, rect, "rotate2(i_rotation)")
		assert.Contains(t, rect, "+ i_offset;")

		filterV, err := g.Vertex(glshade.KindFilter, nil)
		require.NoError(t, err)
		assert.Contains(t, filterV, "a_position * (targetSize - 2.0 * padding) + padding")
		assert.Contains(t, filterV, "gl_Position = projectionMatrix * vec4(x_position, 1.0);")

		filterF, err := g.Fragment(glshade.KindFilter, nil)
		require.NoError(t, err)
		assert.Contains(t, filterF, "vec4 x_fill = texture(tex0, v_texCoord0);")

		point, err := g.Fragment(glshade.KindPoint, nil)
		require.NoError(t, err)
		assert.Contains(t, point, "#define d_primitive d_point\n")
	}
}

func TestTransformedPositionVarying(t *testing.T) {
	const transform = "x_position.x += 1.0;"
	for _, dialect := range dialects {
		gen := glbuild.NewGenerator(dialect)
		for _, kind := range []glshade.PrimitiveKind{glshade.KindPoint, glshade.KindCircle} {
			s := &glshade.ShadeStructure{
				VaryingOut:      "out vec3 va_position;",
				VaryingBridge:   "    va_position = a_position;",
				VertexTransform: transform,
			}
			vs, err := gen.Vertex(kind, s)
			require.NoError(t, err)
			user := strings.Index(vs, transform)
			forward := strings.Index(vs, "    va_position = x_position;")
			post := strings.Index(vs, "v_worldPosition =")
			require.True(t, user >= 0 && forward >= 0 && post >= 0, "%s %s", dialect, kind)
			assert.Less(t, user, forward, "%s %s", dialect, kind)
			assert.Less(t, forward, post, "%s %s", dialect, kind)

			vs, err = gen.Vertex(kind, &glshade.ShadeStructure{VertexTransform: transform})
			require.NoError(t, err)
			assert.NotContains(t, vs, "va_position", "%s %s", dialect, kind)
		}
	}
}

func TestVertexBufferNormal(t *testing.T) {
	g := glbuild.NewGenerator(glshade.DialectDesktop)
	src, err := g.Vertex(glshade.KindVertexBuffer, &glshade.ShadeStructure{Attributes: "in vec3 a_position;\nin vec3 a_normal;"})
	require.NoError(t, err)
	assert.Contains(t, src, "x_normal = a_normal;")
	src, err = g.Vertex(glshade.KindVertexBuffer, &glshade.ShadeStructure{Attributes: "in vec3 a_position;"})
	require.NoError(t, err)
	assert.NotContains(t, src, "x_normal = a_normal;")
}

func TestDesktopInstancing(t *testing.T) {
	g := glbuild.NewGenerator(glshade.DialectDesktop)
	vs, err := g.Vertex(glshade.KindCircle, nil)
	require.NoError(t, err)
	assert.Contains(t, vs, "flat out int v_instance;")
	assert.Contains(t, vs, "v_instance = gl_InstanceID;")
	fs, err := g.Fragment(glshade.KindCircle, nil)
	require.NoError(t, err)
	assert.Contains(t, fs, "flat in int v_instance;")
	assert.Contains(t, fs, "layout(shared) uniform ContextBlock")

	web := glbuild.NewGenerator(glshade.DialectWebGL2)
	vs, err = web.Vertex(glshade.KindCircle, nil)
	require.NoError(t, err)
	assert.NotContains(t, vs, "gl_InstanceID")
	assert.NotContains(t, vs, "layout(shared)")
	assert.Contains(t, vs, "int v_instance = 0;")
}

func TestSetGLSLVersion(t *testing.T) {
	g := glbuild.NewGenerator(glshade.DialectDesktop)
	g.SetGLSLVersion(410)
	assert.Equal(t, 410, g.GLSLVersion())
	src, err := g.Vertex(glshade.KindImage, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src, "#version 410 core\n"))
	assert.Panics(t, func() { g.SetGLSLVersion(150) })
	assert.Panics(t, func() { glbuild.NewGenerator(glshade.DialectWebGL2).SetGLSLVersion(410) })
	assert.Equal(t, 300, glbuild.NewGenerator(glshade.DialectWebGL2).GLSLVersion())
}

func TestWriteProgram(t *testing.T) {
	g := glbuild.NewGenerator(glshade.DialectWebGL2)
	var vs, fs bytes.Buffer
	n, err := g.WriteProgram(&vs, &fs, glshade.KindRectangle, markedStructure())
	require.NoError(t, err)
	assert.Equal(t, vs.Len()+fs.Len(), n)
	wantV, _ := g.Vertex(glshade.KindRectangle, markedStructure())
	wantF, _ := g.Fragment(glshade.KindRectangle, markedStructure())
	assert.Equal(t, wantV, vs.String())
	assert.Equal(t, wantF, fs.String())

	vs.Reset()
	fs.Reset()
	n, err = g.WriteProgram(&vs, &fs, glshade.KindMeshLine, nil)
	assert.ErrorIs(t, err, glshade.ErrUnsupportedPrimitive)
	assert.Zero(t, n)
	assert.Zero(t, vs.Len())
}

func TestAppendFloat(t *testing.T) {
	for _, tc := range []struct {
		v    float32
		want string
	}{
		{v: 3, want: "3.0"},
		{v: 2.5, want: "2.5"},
		{v: -0.25, want: "-0.25"},
		{v: 0, want: "0.0"},
	} {
		assert.Equal(t, tc.want, string(glbuild.AppendFloat(nil, '-', '.', tc.v)))
	}
	assert.Equal(t, "1.0,2.0", string(glbuild.AppendFloats(nil, ',', '-', '.', 1, 2)))
	assert.Equal(t, "float k = 0.5;\n", string(glbuild.AppendFloatDecl(nil, "k", 0.5)))
	assert.Equal(t, "#define d_primitive d_image\n", string(glbuild.AppendDefineDecl(nil, "d_primitive", "d_image")))
}

func TestAppendBufferDecl(t *testing.T) {
	got, err := glbuild.AppendBufferDecl(nil, true, 2, "B_points", "", "vec4", "b_points", 0)
	require.NoError(t, err)
	assert.Equal(t, "layout(std430, binding = 2) buffer B_points {\n    vec4 b_points[];\n};\n", string(got))

	got, err = glbuild.AppendBufferDecl(nil, false, 0, "B_weights", "weights", "float", "values", 16)
	require.NoError(t, err)
	assert.Equal(t, "layout(std140) uniform B_weights {\n    float values[16];\n} weights;\n", string(got))

	_, err = glbuild.AppendBufferDecl(nil, false, 0, "B_weights", "", "float", "values", 0)
	assert.Error(t, err)
	_, err = glbuild.AppendBufferDecl(nil, true, 0, "", "", "float", "values", 0)
	assert.Error(t, err)
}

func TestGLSLType(t *testing.T) {
	for _, tc := range []struct {
		v    any
		want string
	}{
		{float32(1), "float"},
		{float64(1), "float"},
		{int32(1), "int"},
		{true, "bool"},
		{ms2.Vec{}, "vec2"},
		{mgl32.Vec2{}, "vec2"},
		{ms3.Vec{}, "vec3"},
		{f32.Vec3{}, "vec3"},
		{f32.Vec4{}, "vec4"},
		{glshade.White, "vec4"},
		{[3]int32{}, "ivec3"},
		{ms3.Mat3{}, "mat3"},
		{ms3.Mat4{}, "mat4"},
		{mgl32.Mat4{}, "mat4"},
	} {
		got, err := glbuild.GLSLType(reflect.TypeOf(tc.v))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%T", tc.v)
	}
	_, err := glbuild.GLSLType(reflect.TypeOf("string"))
	assert.Error(t, err)
	_, err = glbuild.GLSLType(nil)
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	a := glbuild.Hash([]byte("void main() {}"), 0)
	assert.Equal(t, a, glbuild.Hash([]byte("void main() {}"), 0))
	assert.NotEqual(t, a, glbuild.Hash([]byte("void main() { }"), 0))
	assert.NotEqual(t, a, glbuild.Hash([]byte("void main() {}"), 1))
}
