package shadestyle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"golang.org/x/image/math/f32"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a style file.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf returns the style file format of a path by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("unknown style file extension %q", filepath.Ext(path))
}

// styleFile is the on disk representation of a ShadeStyle.
type styleFile struct {
	VertexPreamble        string               `yaml:"vertexPreamble" toml:"vertexPreamble"`
	FragmentPreamble      string               `yaml:"fragmentPreamble" toml:"fragmentPreamble"`
	VertexTransform       string               `yaml:"vertexTransform" toml:"vertexTransform"`
	FragmentTransform     string               `yaml:"fragmentTransform" toml:"fragmentTransform"`
	SuppressDefaultOutput bool                 `yaml:"suppressDefaultOutput" toml:"suppressDefaultOutput"`
	Parameters            map[string]parameter `yaml:"parameters" toml:"parameters"`
	Outputs               map[string]Output    `yaml:"outputs" toml:"outputs"`
	Buffers               map[string]Buffer    `yaml:"buffers" toml:"buffers"`
}

// parameter is a typed parameter value, i.e. {type: vec3, value: [1, 0, 0]}.
type parameter struct {
	Type  string `yaml:"type" toml:"type"`
	Value any    `yaml:"value" toml:"value"`
}

// LoadStyleFile reads a YAML or TOML style file, choosing the format by extension.
func LoadStyleFile(path string) (*ShadeStyle, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	style, err := LoadStyle(fp, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return style, nil
}

// LoadStyle decodes a style. Parameters carry an explicit GLSL type:
//
//	parameters:
//	  gain: {type: float, value: 0.5}
//	  tint: {type: color, value: "#ff8000"}
//	  offsets: {type: "vec2[]", value: [[0, 1], [1, 0]]}
//
// The decoded style is validated before it is returned.
func LoadStyle(r io.Reader, format Format) (*ShadeStyle, error) {
	var sf styleFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&sf)
		if errors.Is(err, io.EOF) {
			err = nil // Empty document.
		}
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(&sf)
	default:
		err = fmt.Errorf("invalid style format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding style: %w", err)
	}
	style := New()
	style.VertexPreamble = sf.VertexPreamble
	style.FragmentPreamble = sf.FragmentPreamble
	style.VertexTransform = sf.VertexTransform
	style.FragmentTransform = sf.FragmentTransform
	style.SuppressDefaultOutput = sf.SuppressDefaultOutput
	for name, o := range sf.Outputs {
		style.Outputs[name] = o
	}
	for name, b := range sf.Buffers {
		style.Buffers[name] = b
	}
	var errs []error
	for _, name := range sortedKeys(sf.Parameters) {
		v, err := parameterValue(sf.Parameters[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("parameter %q: %w", name, err))
			continue
		}
		style.Parameters[name] = v
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return style, nil
}

func parameterValue(p parameter) (any, error) {
	if elem, isArray := strings.CutSuffix(p.Type, "[]"); isArray {
		list, ok := p.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("%s value must be a list, got %T", p.Type, p.Value)
		}
		return arrayValue(elem, list)
	}
	switch p.Type {
	case "float":
		f, err := number(p.Value)
		return float32(f), err
	case "int":
		f, err := number(p.Value)
		return int32(f), err
	case "bool":
		b, ok := p.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("bool value must be true or false, got %T", p.Value)
		}
		return b, nil
	case "sampler2D":
		f, err := number(p.Value)
		return Sampler2D(f), err
	case "sampler2DArray":
		f, err := number(p.Value)
		return Sampler2DArray(f), err
	case "color":
		return colorValue(p.Value)
	case "mat3", "mat4":
		n := 9
		if p.Type == "mat4" {
			n = 16
		}
		v, err := floats(p.Value, n)
		if err != nil {
			return nil, err
		}
		// Matrices are written column-major, as mgl32 stores them.
		if n == 9 {
			return mgl32.Mat3(v), nil
		}
		return mgl32.Mat4(v), nil
	}
	return vectorValue(p.Type, p.Value)
}

func vectorValue(glslType string, value any) (any, error) {
	switch glslType {
	case "vec2":
		v, err := floats(value, 2)
		return ms2.Vec{X: v[0], Y: v[1]}, err
	case "vec3":
		v, err := floats(value, 3)
		return ms3.Vec{X: v[0], Y: v[1], Z: v[2]}, err
	case "vec4":
		v, err := floats(value, 4)
		return f32.Vec4(v), err
	case "ivec2":
		v, err := floats(value, 2)
		return [2]int32{int32(v[0]), int32(v[1])}, err
	case "ivec3":
		v, err := floats(value, 3)
		return [3]int32{int32(v[0]), int32(v[1]), int32(v[2])}, err
	case "ivec4":
		v, err := floats(value, 4)
		return [4]int32{int32(v[0]), int32(v[1]), int32(v[2]), int32(v[3])}, err
	}
	return nil, fmt.Errorf("unsupported parameter type %q", glslType)
}

func arrayValue(elem string, list []any) (any, error) {
	switch elem {
	case "float":
		out := make([]float32, len(list))
		for i, e := range list {
			f, err := number(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = float32(f)
		}
		return out, nil
	case "int":
		out := make([]int32, len(list))
		for i, e := range list {
			f, err := number(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = int32(f)
		}
		return out, nil
	case "vec2":
		out := make([]ms2.Vec, len(list))
		for i, e := range list {
			v, err := floats(e, 2)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = ms2.Vec{X: v[0], Y: v[1]}
		}
		return out, nil
	case "vec3":
		out := make([]ms3.Vec, len(list))
		for i, e := range list {
			v, err := floats(e, 3)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = ms3.Vec{X: v[0], Y: v[1], Z: v[2]}
		}
		return out, nil
	case "vec4":
		out := make([]f32.Vec4, len(list))
		for i, e := range list {
			v, err := floats(e, 4)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = f32.Vec4(v)
		}
		return out, nil
	case "color":
		out := make([]glshade.ColorRGBa, len(list))
		for i, e := range list {
			c, err := colorValue(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported array element type %q", elem)
}

// colorValue accepts "#rrggbb", "#rrggbbaa", a list of 3 or 4 components in [0, 1]
// or a table. A table holds the base color under rgb (any of the former forms)
// or hsv ([h, s, v] or [h, s, v, a] in [0, 1]) and optional modifiers applied in order:
// mix ({color, t, hsv}), shade and opacify.
func colorValue(v any) (glshade.ColorRGBa, error) {
	switch v := v.(type) {
	case string:
		return parseHexColor(v)
	case map[string]any:
		return colorTable(v)
	}
	list, ok := v.([]any)
	if !ok || (len(list) != 3 && len(list) != 4) {
		return glshade.ColorRGBa{}, fmt.Errorf("color must be a hex string, table or list of 3 or 4 components, got %v", v)
	}
	c, err := components(list)
	if err != nil {
		return glshade.ColorRGBa{}, err
	}
	return glshade.ColorRGBa{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

func colorTable(t map[string]any) (c glshade.ColorRGBa, err error) {
	rgb, hasRGB := t["rgb"]
	hsv, hasHSV := t["hsv"]
	switch {
	case hasRGB == hasHSV:
		return c, errors.New("color table needs exactly one of rgb or hsv")
	case hasRGB:
		c, err = colorValue(rgb)
	default:
		list, _ := hsv.([]any)
		if len(list) != 3 && len(list) != 4 {
			return c, fmt.Errorf("hsv must be a list of 3 or 4 components, got %v", hsv)
		}
		var h [4]float32
		h, err = components(list)
		c = glshade.FromHSV(h[0], h[1], h[2])
		c.A = h[3]
	}
	if err != nil {
		return c, err
	}
	if mix, ok := t["mix"]; ok {
		m, ok := mix.(map[string]any)
		if !ok {
			return c, fmt.Errorf("mix must be a table, got %v", mix)
		}
		other, err := colorValue(m["color"])
		if err != nil {
			return c, fmt.Errorf("mix: %w", err)
		}
		amount, err := number(m["t"])
		if err != nil {
			return c, fmt.Errorf("mix: %w", err)
		}
		if inHSV, _ := m["hsv"].(bool); inHSV {
			c = c.MixHSV(other, float32(amount))
		} else {
			c = c.Mix(other, float32(amount))
		}
	}
	if f, ok := t["shade"]; ok {
		shade, err := number(f)
		if err != nil {
			return c, fmt.Errorf("shade: %w", err)
		}
		c = c.Shade(float32(shade))
	}
	if f, ok := t["opacify"]; ok {
		opacity, err := number(f)
		if err != nil {
			return c, fmt.Errorf("opacify: %w", err)
		}
		c = c.Opacify(float32(opacity))
	}
	return c, nil
}

// components decodes 3 or 4 numbers, alpha defaults to 1.
func components(list []any) (c [4]float32, err error) {
	c[3] = 1
	for i, e := range list {
		f, err := number(e)
		if err != nil {
			return c, err
		}
		c[i] = float32(f)
	}
	return c, nil
}

func parseHexColor(s string) (glshade.ColorRGBa, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return glshade.ColorRGBa{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return glshade.ColorRGBa{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return glshade.ColorRGBa{
		R: float32(u>>24&0xff) / 255,
		G: float32(u>>16&0xff) / 255,
		B: float32(u>>8&0xff) / 255,
		A: float32(u&0xff) / 255,
	}, nil
}

// floats decodes a list of exactly n numbers. The returned slice always has length n.
func floats(v any, n int) ([]float32, error) {
	out := make([]float32, n)
	list, ok := v.([]any)
	if !ok || len(list) != n {
		return out, fmt.Errorf("expected list of %d numbers, got %v", n, v)
	}
	for i, e := range list {
		f, err := number(e)
		if err != nil {
			return out, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// number converts the numeric types produced by the YAML and TOML decoders.
func number(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}
