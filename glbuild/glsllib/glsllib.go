// Package glsllib embeds the GLSL snippets shared by the primitive shader templates.
package glsllib

import (
	_ "embed"
)

//go:embed primitive_types.glsl
var primitiveTypes string

// PrimitiveTypes is the table of d_* primitive tags user snippets compare d_primitive against.
func PrimitiveTypes() string { return primitiveTypes }

//go:embed context_block.glsl
var contextBlock string

//go:embed context_uniforms.glsl
var contextUniforms string

// ContextUniforms declares the drawer's transform and viewport uniforms:
// u_modelMatrix, u_viewMatrix, u_projectionMatrix, their normal matrices,
// u_contentScale, u_modelViewScalingFactor and u_viewDimensions.
// When block is true they are declared inside the shared ContextBlock uniform block.
func ContextUniforms(block bool) string {
	if block {
		return contextBlock
	}
	return contextUniforms
}

//go:embed style_block.glsl
var styleBlock string

//go:embed style_uniforms.glsl
var styleUniforms string

// StyleUniforms declares the drawer's style uniforms u_fill, u_stroke,
// u_strokeWeight and u_colorMatrix, inside the shared StyleBlock when block is true.
func StyleUniforms(block bool) string {
	if block {
		return styleBlock
	}
	return styleUniforms
}

//go:embed transform_varying_out.glsl
var transformVaryingOut string

//go:embed transform_varying_in.glsl
var transformVaryingIn string

// TransformVaryingOut declares the vertex stage outputs written by [PostVertexTransform].
func TransformVaryingOut() string { return transformVaryingOut }

// TransformVaryingIn is the fragment side of [TransformVaryingOut].
func TransformVaryingIn() string { return transformVaryingIn }

//go:embed pre_vertex_transform.glsl
var preVertexTransform string

// PreVertexTransform binds the x_*Matrix locals a vertex transform may modify.
func PreVertexTransform() string { return preVertexTransform }

//go:embed post_vertex_transform.glsl
var postVertexTransform string

// PostVertexTransform computes world, view and clip space varyings from
// x_position, x_normal and the x_*Matrix locals.
func PostVertexTransform() string { return postVertexTransform }

//go:embed rotate2.glsl
var rotate2 string

// Rotate2 returns a 2D rotation matrix:
//
//	mat2 rotate2(float rotationInDegrees)
func Rotate2() string { return rotate2 }

//go:embed color_transform.glsl
var colorTransform string

// ColorTransform applies a 5x5 color matrix to a color:
//
//	vec4 colorTransform(vec4 color, float[25] matrix)
func ColorTransform() string { return colorTransform }

//go:embed stroke_mask.glsl
var strokeMask string

// StrokeMask is the anti-aliased coverage of an expanded contour. Requires v_ftcoord and strokeMult in scope:
//
//	float strokeMask()
func StrokeMask() string { return strokeMask }

//go:embed mesh_line.glsl
var meshLine string

// MeshLineFix projects a clip space position to aspect corrected normalized device coordinates:
//
//	vec2 meshLineFix(vec4 i, float aspect)
func MeshLineFix() string { return meshLine }
