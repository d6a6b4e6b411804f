package shadestyle

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glshade"
)

// MaxFilterInputs is the number of source samplers declared by the filter template, tex0 through tex4.
const MaxFilterInputs = 5

// Texture is a filter source that can be bound to a texture unit.
type Texture interface {
	Bind(unit int)
}

// Target is the render target a filter draws into.
type Target interface {
	Size() (width, height int)
}

// DrawFunc draws the full screen quad of a filter into target with p bound.
type DrawFunc func(p *Program, target Target) error

// Filter runs a shade style as a full screen pass over up to [MaxFilterInputs] source textures.
type Filter struct {
	// Style is applied on every call to Apply. The fill parameter defaults to white.
	Style *ShadeStyle
	// Padding insets the quad from the target edges, in pixels.
	Padding float32

	mgr  *Manager
	draw DrawFunc
}

// NewFilter returns a filter drawing with draw. The style is cloned.
func NewFilter(mgr *Manager, style *ShadeStyle, draw DrawFunc) *Filter {
	style = style.Clone()
	if _, ok := style.Parameters["fill"]; !ok {
		style.Parameter("fill", glshade.White)
	}
	return &Filter{Style: style, mgr: mgr, draw: draw}
}

// Apply binds sources to consecutive texture units, sets the filter uniforms and style parameters, and draws into target.
func (f *Filter) Apply(sources []Texture, target Target) error {
	if len(sources) > MaxFilterInputs {
		return fmt.Errorf("filter accepts at most %d sources, got %d", MaxFilterInputs, len(sources))
	}
	p, err := f.mgr.Shader(glshade.KindFilter, f.Style, nil, nil)
	if err != nil {
		return err
	}
	for i, src := range sources {
		src.Bind(i)
		p.Binder.SetInt("tex"+strconv.Itoa(i), int32(i))
	}
	w, h := target.Size()
	p.Binder.SetVec2("targetSize", ms2.Vec{X: float32(w), Y: float32(h)})
	p.Binder.SetVec2("padding", ms2.Vec{X: f.Padding, Y: f.Padding})
	err = p.Binder.Set("projectionMatrix", mgl32.Ortho(0, float32(w), float32(h), 0, -1, 1))
	if err != nil {
		return err
	}
	if err := p.Apply(f.Style); err != nil {
		return err
	}
	return f.draw(p, target)
}
