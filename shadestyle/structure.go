package shadestyle

import (
	"strconv"

	"github.com/soypat/glshade"
)

// Structure projects a style and the attribute formats of a draw onto a shade structure.
// Vertex attributes are declared as a_<name> and bridged to the va_<name> varyings,
// instance attributes as i_<name> bridged to vi_<name>. Integer varyings are flat.
// A nil style is treated as empty.
func Structure(style *ShadeStyle, vertex, instance []VertexFormat) (*glshade.ShadeStructure, error) {
	if style == nil {
		style = New()
	}
	var attrs, out, in, bridge []byte
	for _, f := range vertex {
		for _, e := range f.Elements {
			attrs, out, in, bridge = appendAttribute(attrs, out, in, bridge, "a_", "va_", e)
		}
	}
	for _, f := range instance {
		for _, e := range f.Elements {
			attrs, out, in, bridge = appendAttribute(attrs, out, in, bridge, "i_", "vi_", e)
		}
	}
	uniforms, err := style.AppendParameterDecls(nil)
	if err != nil {
		return nil, err
	}
	buffers, err := style.AppendBufferDecls(nil)
	if err != nil {
		return nil, err
	}
	return &glshade.ShadeStructure{
		Attributes:            trim(attrs),
		Uniforms:              trim(uniforms),
		Buffers:               trim(buffers),
		VaryingOut:            trim(out),
		VaryingIn:             trim(in),
		VaryingBridge:         trim(bridge),
		Outputs:               trim(style.AppendOutputDecls(nil)),
		VertexPreamble:        style.VertexPreamble,
		FragmentPreamble:      style.FragmentPreamble,
		VertexTransform:       style.VertexTransform,
		FragmentTransform:     style.FragmentTransform,
		SuppressDefaultOutput: style.SuppressDefaultOutput,
	}, nil
}

func appendAttribute(attrs, out, in, bridge []byte, attrPrefix, varyingPrefix string, e VertexElement) ([]byte, []byte, []byte, []byte) {
	attrs = appendDecl(attrs, "in ", e, attrPrefix)
	flat := ""
	if isInteger(e.Type) {
		flat = "flat "
	}
	out = appendDecl(out, flat+"out ", e, varyingPrefix)
	in = appendDecl(in, flat+"in ", e, varyingPrefix)
	bridge = append(bridge, "    "...)
	bridge = append(bridge, varyingPrefix...)
	bridge = append(bridge, e.Name...)
	bridge = append(bridge, " = "...)
	bridge = append(bridge, attrPrefix...)
	bridge = append(bridge, e.Name...)
	bridge = append(bridge, ";\n"...)
	return attrs, out, in, bridge
}

func appendDecl(b []byte, qualifier string, e VertexElement, prefix string) []byte {
	b = append(b, qualifier...)
	b = append(b, e.Type...)
	b = append(b, ' ')
	b = append(b, prefix...)
	b = append(b, e.Name...)
	if e.ArraySize > 0 {
		b = append(b, '[')
		b = strconv.AppendInt(b, int64(e.ArraySize), 10)
		b = append(b, ']')
	}
	return append(b, ";\n"...)
}

// trim drops the trailing newline, the generator terminates every snippet.
func trim(b []byte) string {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return string(b)
}
