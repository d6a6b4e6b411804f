package glshade_test

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/soypat/glshade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range glshade.Kinds() {
		got, err := glshade.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := glshade.ParseKind("hexagon")
	assert.Error(t, err)
}

func TestKindDefines(t *testing.T) {
	want := map[glshade.PrimitiveKind]string{
		glshade.KindVertexBuffer: "d_vertex_buffer",
		glshade.KindImage:        "d_image",
		glshade.KindPoint:        "d_point",
		glshade.KindCircle:       "d_circle",
		glshade.KindRectangle:    "d_rectangle",
		glshade.KindExpansion:    "d_expansion",
		glshade.KindFilter:       "d_custom",
	}
	for k, def := range want {
		assert.Equal(t, def, k.Define(), k.String())
	}
}

func TestUnsupportedPrimitiveError(t *testing.T) {
	var err error = &glshade.UnsupportedPrimitiveError{
		Kind:    glshade.KindMeshLine,
		Stage:   glshade.StageFragment,
		Dialect: glshade.DialectWebGL2,
	}
	wrapped := fmt.Errorf("drawing: %w", err)
	assert.True(t, errors.Is(wrapped, glshade.ErrUnsupportedPrimitive))
	var upe *glshade.UnsupportedPrimitiveError
	require.True(t, errors.As(wrapped, &upe))
	assert.Equal(t, glshade.KindMeshLine, upe.Kind)
	assert.Equal(t, "meshLine fragment shader not supported in webgl dialect", err.Error())
}

func TestParseDialect(t *testing.T) {
	d, err := glshade.ParseDialect("webgl")
	require.NoError(t, err)
	assert.Equal(t, glshade.DialectWebGL2, d)
	d, err = glshade.ParseDialect("gl")
	require.NoError(t, err)
	assert.Equal(t, glshade.DialectDesktop, d)
	_, err = glshade.ParseDialect("vulkan")
	assert.Error(t, err)
}

func TestColorConversions(t *testing.T) {
	c := glshade.FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	assert.InDelta(t, 1, c.R, 1e-3)
	assert.InDelta(t, 0, c.G, 1e-6)
	assert.InDelta(t, 128.0/255, c.A, 1e-3)

	p := glshade.ColorRGBa{R: 0.5, G: 1, B: 0.25, A: 0.5}.Premultiplied()
	assert.Equal(t, glshade.ColorRGBa{R: 0.25, G: 0.5, B: 0.125, A: 0.5}, p)

	assert.Equal(t, glshade.White, glshade.ColorRGBa{R: 2, G: 1.5, B: 1, A: 9}.Clamped())
	assert.Equal(t, [4]float32{0, 0, 0, 1}, glshade.Black.Array())
}

func TestColorHSV(t *testing.T) {
	for _, c := range []glshade.ColorRGBa{
		glshade.RGB(1, 0, 0),
		glshade.RGB(0.2, 0.6, 0.3),
		glshade.RGB(0.1, 0.1, 0.9),
		glshade.White,
	} {
		h, s, v := c.HSV()
		got := glshade.FromHSV(h, s, v)
		assert.InDelta(t, c.R, got.R, 1e-5)
		assert.InDelta(t, c.G, got.G, 1e-5)
		assert.InDelta(t, c.B, got.B, 1e-5)
	}
	mid := glshade.RGB(1, 0, 0).MixHSV(glshade.RGB(0, 0, 1), 0.5)
	h, _, _ := mid.HSV()
	// Red to blue through the shorter hue arc passes magenta.
	assert.InDelta(t, 5.0/6, h, 1e-5)
}

func TestColorMix(t *testing.T) {
	got := glshade.Black.Mix(glshade.White, 0.25)
	assert.Equal(t, glshade.ColorRGBa{R: 0.25, G: 0.25, B: 0.25, A: 1}, got)
	assert.Equal(t, glshade.ColorRGBa{R: 0.5, G: 0.5, B: 0.5, A: 1}, glshade.White.Shade(0.5))
}
