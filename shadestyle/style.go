// Package shadestyle projects user shade styles onto the primitive shader
// templates of package glbuild. It derives the [glshade.ShadeStructure] of a
// draw from a [ShadeStyle] and the vertex formats of the primitive, caches the
// linked programs and their uniform binders, and pushes style parameters to them.
package shadestyle

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/soypat/glshade/glbuild"
)

// Sampler2D is a texture unit index bound to a sampler2D parameter.
type Sampler2D int32

// Sampler2DArray is a texture unit index bound to a sampler2DArray parameter.
type Sampler2DArray int32

// Output is an extra fragment output. Attachment 0 is reserved for o_color.
type Output struct {
	Attachment int    `yaml:"attachment" toml:"attachment"`
	Type       string `yaml:"type" toml:"type"` // GLSL type, vec4 if empty.
}

// Buffer is a shader storage or uniform block holding a single array member.
type Buffer struct {
	Storage  bool   `yaml:"storage" toml:"storage"`
	Binding  int    `yaml:"binding" toml:"binding"`
	Type     string `yaml:"type" toml:"type"`
	Member   string `yaml:"member" toml:"member"`
	Length   int    `yaml:"length" toml:"length"`
	Instance string `yaml:"instance" toml:"instance"`
}

// ShadeStyle holds the user snippets, parameters and outputs that customize a
// primitive shader. Parameters are declared as uniforms named p_<name> and
// outputs as o_<name>.
type ShadeStyle struct {
	VertexPreamble        string
	FragmentPreamble      string
	VertexTransform       string
	FragmentTransform     string
	SuppressDefaultOutput bool
	Parameters            map[string]any
	Outputs               map[string]Output
	Buffers               map[string]Buffer
}

// New returns an empty shade style.
func New() *ShadeStyle {
	return &ShadeStyle{
		Parameters: make(map[string]any),
		Outputs:    make(map[string]Output),
		Buffers:    make(map[string]Buffer),
	}
}

// Parameter sets the value of parameter p_<name> and returns the style.
func (s *ShadeStyle) Parameter(name string, v any) *ShadeStyle {
	if s.Parameters == nil {
		s.Parameters = make(map[string]any)
	}
	s.Parameters[name] = v
	return s
}

// Output declares the fragment output o_<name> and returns the style.
func (s *ShadeStyle) Output(name string, o Output) *ShadeStyle {
	if s.Outputs == nil {
		s.Outputs = make(map[string]Output)
	}
	s.Outputs[name] = o
	return s
}

// Clone returns a copy of s with its own maps. Parameter values are copied shallowly.
func (s *ShadeStyle) Clone() *ShadeStyle {
	if s == nil {
		return New()
	}
	c := *s
	c.Parameters = maps.Clone(s.Parameters)
	c.Outputs = maps.Clone(s.Outputs)
	c.Buffers = maps.Clone(s.Buffers)
	if c.Parameters == nil {
		c.Parameters = make(map[string]any)
	}
	if c.Outputs == nil {
		c.Outputs = make(map[string]Output)
	}
	if c.Buffers == nil {
		c.Buffers = make(map[string]Buffer)
	}
	return &c
}

// Validate reports every invalid parameter, output and buffer of the style.
func (s *ShadeStyle) Validate() error {
	var errs []error
	for _, name := range sortedKeys(s.Parameters) {
		if err := checkIdent(name); err != nil {
			errs = append(errs, fmt.Errorf("parameter %q: %w", name, err))
			continue
		}
		if _, _, err := ParameterType(s.Parameters[name]); err != nil {
			errs = append(errs, fmt.Errorf("parameter %q: %w", name, err))
		}
	}
	attachments := make(map[int]string)
	for _, name := range sortedKeys(s.Outputs) {
		o := s.Outputs[name]
		if err := checkIdent(name); err != nil {
			errs = append(errs, fmt.Errorf("output %q: %w", name, err))
		}
		if o.Attachment < 1 {
			errs = append(errs, fmt.Errorf("output %q: attachment %d is reserved or invalid", name, o.Attachment))
		} else if other, dup := attachments[o.Attachment]; dup {
			errs = append(errs, fmt.Errorf("output %q: attachment %d already used by %q", name, o.Attachment, other))
		}
		attachments[o.Attachment] = name
	}
	for _, name := range sortedKeys(s.Buffers) {
		b := s.Buffers[name]
		if err := checkIdent(name); err != nil {
			errs = append(errs, fmt.Errorf("buffer %q: %w", name, err))
			continue
		}
		if _, err := glbuild.AppendBufferDecl(nil, b.Storage, b.Binding, name, b.Instance, b.Type, b.Member, b.Length); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AppendParameterDecls appends "uniform <type> p_<name>;" for every parameter in name order.
func (s *ShadeStyle) AppendParameterDecls(dst []byte) ([]byte, error) {
	for _, name := range sortedKeys(s.Parameters) {
		typename, length, err := ParameterType(s.Parameters[name])
		if err != nil {
			return dst, fmt.Errorf("parameter %q: %w", name, err)
		}
		dst = append(dst, "uniform "...)
		dst = append(dst, typename...)
		dst = append(dst, " p_"...)
		dst = append(dst, name...)
		if length > 0 {
			dst = append(dst, '[')
			dst = strconv.AppendInt(dst, int64(length), 10)
			dst = append(dst, ']')
		}
		dst = append(dst, ";\n"...)
	}
	return dst, nil
}

// AppendOutputDecls appends "layout(location = <attachment>) out <type> o_<name>;" for every output in name order.
func (s *ShadeStyle) AppendOutputDecls(dst []byte) []byte {
	for _, name := range sortedKeys(s.Outputs) {
		o := s.Outputs[name]
		dst = append(dst, "layout(location = "...)
		dst = strconv.AppendInt(dst, int64(o.Attachment), 10)
		dst = append(dst, ") out "...)
		dst = append(dst, orDefault(o.Type, "vec4")...)
		dst = append(dst, " o_"...)
		dst = append(dst, name...)
		dst = append(dst, ";\n"...)
	}
	return dst
}

// AppendBufferDecls appends the interface block of every buffer in name order.
func (s *ShadeStyle) AppendBufferDecls(dst []byte) ([]byte, error) {
	var err error
	for _, name := range sortedKeys(s.Buffers) {
		b := s.Buffers[name]
		dst, err = glbuild.AppendBufferDecl(dst, b.Storage, b.Binding, name, b.Instance, b.Type, b.Member, b.Length)
		if err != nil {
			return dst, err
		}
	}
	return dst, nil
}

// ParameterType returns the GLSL type of a parameter value. Slices are
// declared as arrays of their element type and return their length.
func ParameterType(v any) (typename string, length int, err error) {
	switch v.(type) {
	case Sampler2D:
		return "sampler2D", 0, nil
	case Sampler2DArray:
		return "sampler2DArray", 0, nil
	case nil:
		return "", 0, errors.New("nil parameter value")
	}
	tp := reflect.TypeOf(v)
	if tp.Kind() == reflect.Slice {
		length = reflect.ValueOf(v).Len()
		if length == 0 {
			return "", 0, errors.New("empty array parameter")
		}
		typename, err = glbuild.GLSLType(tp.Elem())
		return typename, length, err
	}
	typename, err = glbuild.GLSLType(tp)
	if err != nil {
		if _, ok := v.(color.Color); ok {
			return "vec4", 0, nil
		}
	}
	return typename, 0, err
}

// uniformValue converts a parameter value to a value accepted by [uniform.Binder.Set].
func uniformValue(v any) any {
	switch v := v.(type) {
	case Sampler2D:
		return int32(v)
	case Sampler2DArray:
		return int32(v)
	}
	return v
}

func checkIdent(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if strings.HasPrefix(name, "gl_") {
		return errors.New("gl_ prefix is reserved")
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return fmt.Errorf("invalid character %q in GLSL identifier", c)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
