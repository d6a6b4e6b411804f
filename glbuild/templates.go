package glbuild

import (
	"github.com/soypat/glshade/glbuild/glsllib"
)

func vertexBufferVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, true)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 0.0);")
	if c.hasAttribute("vec3 a_normal") {
		b = line(b, "x_normal = a_normal;")
	}
	b = line(b, "vec3 x_position = a_position;")
	b = c.vertexTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

func vertexBufferFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, true)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{}.append(b)
	b = line(b, "vec4 x_fill = u_fill;")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b,
		"o_color = x_fill;",
		"o_color.rgb *= o_color.a;",
	)
	return mainEnd(b)
}

func imageVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, true)
	b = append(b, "uniform int u_flipV;\nout vec3 v_boundsPosition;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "vec3 x_normal = a_normal;")
	b = line(b, "vec3 x_position = a_position;")
	b = line(b, "x_position.xy = a_position.xy * i_target.zw + i_target.xy;")
	b = line(b, "v_boundsPosition = vec3(a_texCoord0.xy, 1.0);")
	b = line(b, "va_texCoord0.xy = a_texCoord0.xy * i_source.zw + i_source.xy;")
	b = line(b, "if (u_flipV == 0) {")
	b = line(b, "    va_texCoord0.y = 1.0 - va_texCoord0.y;")
	b = line(b, "}")
	b = c.vertexTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

func imageFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, true)
	b = append(b, "uniform sampler2D image;\nin vec3 v_boundsPosition;\n"...)
	b = append(b, glsllib.ColorTransform()...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{boundsPosition: "v_boundsPosition"}.append(b)
	b = line(b, "vec4 x_fill = texture(image, va_texCoord0);")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b, imageOutput(c)...)
	return mainEnd(b)
}

// imageOutput undoes the premultiplication of the sampled texel, applies the
// drawer color matrix and premultiplies again. The WebGL2 drawer does not
// upload a color matrix so it is not applied there.
func imageOutput(c *composer) []string {
	stmts := []string{
		"float div = x_fill.a != 0.0 ? x_fill.a : 1.0;",
		"x_fill.rgb /= div;",
	}
	if !c.webgl() {
		stmts = append(stmts, "x_fill = colorTransform(x_fill, u_colorMatrix);")
	}
	return append(stmts,
		"x_fill.rgb *= x_fill.a;",
		"o_color = x_fill;",
	)
}

func imageArrayTextureVertex(b []byte, c *composer) []byte {
	return imageVertex(b, c)
}

func imageArrayTextureFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, true)
	b = append(b, "uniform sampler2DArray image;\nin vec3 v_boundsPosition;\n"...)
	b = append(b, glsllib.ColorTransform()...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{boundsPosition: "v_boundsPosition"}.append(b)
	b = line(b, "vec4 x_fill = texture(image, vec3(va_texCoord0, vi_layer));")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b, imageOutput(c)...)
	return mainEnd(b)
}

func pointVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, false)
	b = append(b, "out vec3 v_boundsSize;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "v_boundsSize = vec3(0.0, 0.0, 0.0);")
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = line(b, "vec3 x_position = a_position + i_offset;")
	b = c.positionTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	if c.webgl() {
		// Point size is only programmable in desktop GL through glPointSize.
		b = line(b, "gl_PointSize = 1.0;")
	}
	return mainEnd(b)
}

func pointFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, false)
	b = append(b, "in vec3 v_boundsSize;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{boundsSize: "v_boundsSize"}.append(b)
	b = line(b, "vec4 x_fill = vi_fill;")
	b = line(b, "vec4 x_stroke = vi_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b,
		"o_color = x_fill;",
		"o_color.rgb *= o_color.a;",
	)
	return mainEnd(b)
}

func circleVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, false)
	b = append(b, "out vec3 v_boundsSize;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "v_boundsSize = vec3(i_radius.xy, 0.0);")
	b = line(b, "vec3 x_normal = a_normal;")
	b = line(b, "vec3 x_position = vec3(a_position.xy * i_radius, 0.0) + i_offset;")
	b = c.positionTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

// circleFragment computes the circle SDF after the user transform since the
// inner edge depends on the user modifiable x_strokeWeight.
func circleFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, false)
	b = append(b, "in vec3 v_boundsSize;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{
		boundsPosition: "vec3(va_texCoord0, 0.0)",
		boundsSize:     "v_boundsSize",
	}.append(b)
	b = append(b, "    "...)
	b = AppendFloatDecl(b, "smoothFactor", 3)
	b = line(b, "vec4 x_fill = vi_fill;")
	b = line(b, "vec4 x_stroke = vi_stroke;")
	b = line(b, "float x_strokeWeight = vi_strokeWeight;")
	b = userBlock(b, c.s.FragmentTransform)
	b = line(b, "float wd = fwidth(length(va_texCoord0 - vec2(0.0)));")
	b = line(b, "float d = length(va_texCoord0 - vec2(0.5)) * 2.0;")
	b = line(b, "float or = smoothstep(0.0, wd * smoothFactor, 1.0 - d);")
	b = line(b, "float b = x_strokeWeight / vi_radius.x;")
	b = line(b, "float ir = smoothstep(0.0, wd * smoothFactor, 1.0 - b - d);")
	b = line(b, "vec4 final = vec4(0.0);")
	b = line(b, "final.rgb = x_stroke.rgb;")
	b = line(b, "final.a = or * (1.0 - ir) * x_stroke.a;")
	b = line(b, "final.rgb *= final.a;")
	b = line(b, "final.rgb += x_fill.rgb * ir * x_fill.a;")
	b = line(b, "final.a += ir * x_fill.a;")
	b = c.defaultOutput(b, "o_color = final;")
	return mainEnd(b)
}

func rectangleVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, false)
	b = append(b, "out vec3 v_boundsSize;\n"...)
	b = append(b, glsllib.Rotate2()...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = line(b, "vec2 rotatedPosition = rotate2(i_rotation) * ((a_position.xy - vec2(0.5)) * i_dimensions) + vec2(0.5) * i_dimensions;")
	b = line(b, "vec3 x_position = vec3(rotatedPosition, 0.0) + i_offset;")
	b = line(b, "v_boundsSize = vec3(i_dimensions, 1.0);")
	b = c.vertexTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

// rectangleFragment computes the per axis inner edge mask from the instance
// stroke weight before the user transform and composites stroke over fill after it.
func rectangleFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, false)
	b = append(b, "in vec3 v_boundsSize;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{
		boundsPosition: "vec3(va_texCoord0, 0.0)",
		boundsSize:     "v_boundsSize",
	}.append(b)
	b = line(b, "vec4 x_fill = vi_fill;")
	b = line(b, "vec4 x_stroke = vi_stroke;")
	b = line(b, "float x_strokeWeight = vi_strokeWeight;")
	b = line(b, "vec2 wd = fwidth(va_texCoord0 - vec2(0.5));")
	b = line(b, "vec2 d = abs((va_texCoord0 - vec2(0.5)) * 2.0);")
	b = line(b, "float irx = smoothstep(0.0, wd.x * 2.5, 1.0 - d.x - x_strokeWeight * 2.0 / vi_dimensions.x);")
	b = line(b, "float iry = smoothstep(0.0, wd.y * 2.5, 1.0 - d.y - x_strokeWeight * 2.0 / vi_dimensions.y);")
	b = line(b, "float ir = irx * iry;")
	b = userBlock(b, c.s.FragmentTransform)
	b = line(b, "vec4 final = vec4(1.0);")
	b = line(b, "final.rgb = x_fill.rgb * x_fill.a;")
	b = line(b, "final.a = x_fill.a;")
	b = line(b, "float sa = (1.0 - ir) * x_stroke.a;")
	b = line(b, "final.rgb = final.rgb * (1.0 - sa) + x_stroke.rgb * sa;")
	b = line(b, "final.a = final.a * (1.0 - sa) + sa;")
	b = c.defaultOutput(b, "o_color = final;")
	return mainEnd(b)
}

func fontImageMapVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, true)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = line(b, "vec3 x_position = a_position;")
	b = c.vertexTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

// fontImageMapFragment samples the glyph coverage from the red channel of the atlas.
func fontImageMapFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, true)
	b = append(b, "uniform sampler2D image;\n"...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{
		boundsPosition: "vec3(va_bounds.xy, 0.0)",
		boundsSize:     "vec3(va_bounds.zw, 0.0)",
	}.append(b)
	b = line(b, "float imageMap = texture(image, va_texCoord0).r;")
	b = line(b, "vec4 x_fill = vec4(u_fill.rgb, u_fill.a * imageMap);")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b,
		"o_color = x_fill;",
		"o_color.rgb *= o_color.a;",
	)
	return mainEnd(b)
}

func expansionVertex(b []byte, c *composer) []byte {
	b = c.header(b)
	b = c.primitiveTypes(b)
	b = snippet(b, c.s.Buffers)
	b = c.drawerUniforms(b, true, true)
	b = snippet(b, c.s.Uniforms)
	b = snippet(b, c.s.Attributes)
	b = snippet(b, c.s.VaryingOut)
	b = append(b, glsllib.TransformVaryingOut()...)
	b = snippet(b, c.s.VertexPreamble)
	b = append(b, "out vec2 v_ftcoord;\nout float v_offset;\nout vec3 v_objectPosition;\n"...)
	b = mainStart(b)
	b = vertexMainConstants(b, "0", "0")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "v_objectPosition = vec3(a_position, 0.0);")
	b = line(b, "v_ftcoord = a_texCoord0;")
	if c.hasAttribute("float a_vertexOffset") {
		b = line(b, "v_offset = a_vertexOffset;")
	} else {
		b = line(b, "v_offset = 0.0;")
	}
	b = line(b, "vec3 x_position = vec3(a_position, 0.0);")
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = c.vertexTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

// expansionFragment computes the stroke coverage before the user transform,
// discards pixels below the stroke threshold and mixes stroke and fill by strokeFillFactor.
func expansionFragment(b []byte, c *composer) []byte {
	b = c.header(b)
	b = c.primitiveTypes(b)
	b = snippet(b, c.s.Buffers)
	b = snippet(b, c.s.Uniforms)
	b = c.drawerUniforms(b, true, true)
	b = snippet(b, c.s.VaryingIn)
	b = append(b, glsllib.TransformVaryingIn()...)
	b = append(b, `uniform float strokeMult;
uniform float strokeThr;
uniform float strokeFillFactor;
uniform sampler2D tex;
uniform vec4 bounds;
in vec3 v_objectPosition;
in vec2 v_ftcoord;
in float v_offset;
`...)
	b = append(b, colorOutput...)
	b = snippet(b, c.s.Outputs)
	b = snippet(b, c.s.FragmentPreamble)
	b = append(b, glsllib.StrokeMask()...)
	b = mainStart(b)
	b = fragmentConstants{
		instance:        "0",
		boundsPosition:  "vec3(v_objectPosition.xy - bounds.xy, 0.0) / vec3(bounds.zw, 1.0)",
		boundsSize:      "vec3(bounds.zw, 0.0)",
		contourPosition: "v_offset",
	}.append(b)
	b = line(b, "float strokeAlpha = strokeMask();")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = line(b, "vec4 x_fill = u_fill;")
	b = userBlock(b, c.s.FragmentTransform)
	b = line(b, "if (strokeAlpha < strokeThr) {")
	b = line(b, "    discard;")
	b = line(b, "}")
	b = line(b, "vec4 final = mix(x_stroke, x_fill, strokeFillFactor) * vec4(1.0, 1.0, 1.0, strokeAlpha);")
	b = line(b, "final.rgb *= final.a;")
	b = c.defaultOutput(b, "o_color = final;")
	return mainEnd(b)
}

func fastLineVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, true)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "gl_VertexID / 2")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = line(b, "vec3 x_position = a_position;")
	b = c.vertexTransform(b)
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

// fastLineFragment writes the stroke color since fast lines have no fill.
func fastLineFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, true)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{}.append(b)
	b = line(b, "vec4 x_fill = u_fill;")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b,
		"o_color = x_stroke;",
		"o_color.rgb *= o_color.a;",
	)
	return mainEnd(b)
}

// meshLineVertex extrudes each vertex along the screen space miter of its
// neighbours by half of a_width pixels, in the direction of a_side.
func meshLineVertex(b []byte, c *composer) []byte {
	b = c.vertexHead(b, true)
	b = append(b, glsllib.MeshLineFix()...)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = vertexMainConstants(b, "v_instance", "int(a_element)")
	b = snippet(b, c.s.VaryingBridge)
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = line(b, "vec3 x_position = a_position;")
	b = c.vertexTransform(b)
	b = line(b, "float aspect = u_viewDimensions.x / u_viewDimensions.y;")
	b = line(b, "mat4 m = x_projectionMatrix * x_viewMatrix * x_modelMatrix;")
	b = line(b, "vec2 currentP = meshLineFix(v_clipPosition, aspect);")
	b = line(b, "vec2 prevP = meshLineFix(m * vec4(a_previous, 1.0), aspect);")
	b = line(b, "vec2 nextP = meshLineFix(m * vec4(a_next, 1.0), aspect);")
	b = line(b, "vec2 dir;")
	b = line(b, "if (nextP == currentP) {")
	b = line(b, "    dir = normalize(currentP - prevP);")
	b = line(b, "} else if (prevP == currentP) {")
	b = line(b, "    dir = normalize(nextP - currentP);")
	b = line(b, "} else {")
	b = line(b, "    dir = normalize(normalize(currentP - prevP) + normalize(nextP - currentP));")
	b = line(b, "}")
	b = line(b, "vec2 normal = vec2(-dir.y, dir.x);")
	b = line(b, "normal.x /= aspect;")
	b = line(b, "normal *= a_width / u_viewDimensions.y;")
	b = line(b, "v_clipPosition.xy += normal * a_side * v_clipPosition.w;")
	b = line(b, "gl_Position = v_clipPosition;")
	return mainEnd(b)
}

func meshLineFragment(b []byte, c *composer) []byte {
	b = c.fragmentHead(b, true)
	b = mainStart(b)
	b = c.instanceInit(b)
	b = fragmentConstants{element: "int(va_element)"}.append(b)
	b = line(b, "vec4 x_fill = u_fill;")
	b = line(b, "vec4 x_stroke = u_stroke;")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b,
		"o_color = x_stroke;",
		"o_color.rgb *= o_color.a;",
	)
	return mainEnd(b)
}

// filterVertex maps the unit quad to the padded target and projects it after the user transform.
func filterVertex(b []byte, c *composer) []byte {
	b = c.header(b)
	b = snippet(b, c.s.Buffers)
	b = append(b, `in vec2 a_texCoord0;
in vec2 a_position;
uniform vec2 targetSize;
uniform vec2 padding;
uniform mat4 projectionMatrix;
out vec2 v_texCoord0;
`...)
	b = snippet(b, c.s.Uniforms)
	b = snippet(b, c.s.VertexPreamble)
	b = mainStart(b)
	b = line(b, "v_texCoord0 = a_texCoord0;")
	b = line(b, "vec2 transformed = a_position * (targetSize - 2.0 * padding) + padding;")
	b = line(b, "vec3 x_position = vec3(transformed, 0.0);")
	b = line(b, "vec3 x_normal = vec3(0.0, 0.0, 1.0);")
	b = userBlock(b, c.s.VertexTransform)
	b = line(b, "gl_Position = projectionMatrix * vec4(x_position, 1.0);")
	return mainEnd(b)
}

// filterFragment samples tex0 into x_fill before the user transform.
func filterFragment(b []byte, c *composer) []byte {
	b = c.header(b)
	b = snippet(b, c.s.Buffers)
	b = append(b, `in vec2 v_texCoord0;
uniform sampler2D tex0;
uniform sampler2D tex1;
uniform sampler2D tex2;
uniform sampler2D tex3;
uniform sampler2D tex4;
`...)
	b = c.drawerUniforms(b, true, true)
	b = append(b, colorOutput...)
	b = snippet(b, c.s.Outputs)
	b = snippet(b, c.s.Uniforms)
	b = snippet(b, c.s.FragmentPreamble)
	b = mainStart(b)
	b = fragmentConstants{instance: "0", screenPosition: "v_texCoord0"}.append(b)
	b = line(b, "vec4 x_fill = texture(tex0, v_texCoord0);")
	b = line(b, "vec4 x_stroke = vec4(0.0);")
	b = userBlock(b, c.s.FragmentTransform)
	b = c.defaultOutput(b,
		"o_color = x_fill;",
		"o_color.rgb *= o_color.a;",
	)
	return mainEnd(b)
}
