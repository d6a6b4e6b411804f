package uniform

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"golang.org/x/image/math/f32"
)

// Setters resolve name, silently do nothing when the program lacks the uniform
// and otherwise issue exactly one update through the dispatch mode of the binder.
// Array setters with no elements issue no driver calls at all.

// SetColor sets a vec4 uniform to the straight (non premultiplied) components of c.
func (b *Binder) SetColor(name string, c glshade.ColorRGBa) {
	b.SetVec4(name, f32.Vec4{c.R, c.G, c.B, c.A})
}

func (b *Binder) SetVec4(name string, v f32.Vec4) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.float4(loc, v[0], v[1], v[2], v[3])
	b.postUniformCheck(name, loc)
}

func (b *Binder) SetVec3(name string, v ms3.Vec) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.float3(loc, v.X, v.Y, v.Z)
	b.postUniformCheck(name, loc)
}

func (b *Binder) SetVec2(name string, v ms2.Vec) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.float2(loc, v.X, v.Y)
	b.postUniformCheck(name, loc)
}

func (b *Binder) SetFloat(name string, v float32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.float1(loc, v)
	b.postUniformCheck(name, loc)
}

// SetFloat64 narrows v to single precision.
func (b *Binder) SetFloat64(name string, v float64) { b.SetFloat(name, float32(v)) }

func (b *Binder) SetInt(name string, v int32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.int1(loc, v)
	b.postUniformCheck(name, loc)
}

// SetBool sets a bool uniform, transferred as the integer 1 or 0.
func (b *Binder) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	b.SetInt(name, i)
}

func (b *Binder) SetIVec2(name string, v [2]int32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.int2(loc, v[0], v[1])
	b.postUniformCheck(name, loc)
}

func (b *Binder) SetIVec3(name string, v [3]int32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.int3(loc, v[0], v[1], v[2])
	b.postUniformCheck(name, loc)
}

func (b *Binder) SetIVec4(name string, v [4]int32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.int4(loc, v[0], v[1], v[2], v[3])
	b.postUniformCheck(name, loc)
}

// SetMat3 uploads m in column-major order without transposition by the driver.
func (b *Binder) SetMat3(name string, m ms3.Mat3) {
	cm := Mat3ColumnMajor(m)
	b.setMat3(name, 1, cm[:])
}

// SetMat4 uploads m in column-major order without transposition by the driver.
func (b *Binder) SetMat4(name string, m ms3.Mat4) {
	cm := Mat4ColumnMajor(m)
	b.setMat4(name, 1, cm[:])
}

func (b *Binder) setMat3(name string, count int32, columnMajor []float32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.mat3v(loc, count, columnMajor)
	b.postUniformCheck(name, loc)
}

func (b *Binder) setMat4(name string, count int32, columnMajor []float32) {
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.mat4v(loc, count, columnMajor)
	b.postUniformCheck(name, loc)
}

func (b *Binder) setFloatv(name string, width int, count int, v []float32) {
	if count == 0 {
		return
	}
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.floatv(width, loc, int32(count), v)
	b.postUniformCheck(name, loc)
}

func (b *Binder) setIntv(name string, width int, count int, v []int32) {
	if count == 0 {
		return
	}
	loc, ok := b.resolve(name)
	if !ok {
		return
	}
	b.w.intv(width, loc, int32(count), v)
	b.postUniformCheck(name, loc)
}

func (b *Binder) SetFloatArray(name string, v []float32) { b.setFloatv(name, 1, len(v), v) }

func (b *Binder) SetFloat64Array(name string, v []float64) {
	if len(v) == 0 {
		return
	}
	b.setFloatv(name, 1, len(v), PackFloat64s(make([]float32, 0, len(v)), v))
}

func (b *Binder) SetIntArray(name string, v []int32) { b.setIntv(name, 1, len(v), v) }

// SetBoolArray sets a bool array uniform, each element transferred as the integer 1 or 0.
func (b *Binder) SetBoolArray(name string, v []bool) {
	if len(v) == 0 {
		return
	}
	ints := make([]int32, len(v))
	for i, e := range v {
		if e {
			ints[i] = 1
		}
	}
	b.setIntv(name, 1, len(ints), ints)
}

func (b *Binder) SetVec2Array(name string, v []ms2.Vec) {
	if len(v) == 0 {
		return
	}
	b.setFloatv(name, 2, len(v), PackVec2s(make([]float32, 0, 2*len(v)), v))
}

func (b *Binder) SetVec3Array(name string, v []ms3.Vec) {
	if len(v) == 0 {
		return
	}
	b.setFloatv(name, 3, len(v), PackVec3s(make([]float32, 0, 3*len(v)), v))
}

func (b *Binder) SetVec4Array(name string, v []f32.Vec4) {
	if len(v) == 0 {
		return
	}
	b.setFloatv(name, 4, len(v), PackVec4s(make([]float32, 0, 4*len(v)), v))
}

func (b *Binder) SetColorArray(name string, c []glshade.ColorRGBa) {
	if len(c) == 0 {
		return
	}
	b.setFloatv(name, 4, len(c), PackColors(make([]float32, 0, 4*len(c)), c))
}

func (b *Binder) SetIVec2Array(name string, v [][2]int32) {
	if len(v) == 0 {
		return
	}
	b.setIntv(name, 2, len(v), PackIVec2s(make([]int32, 0, 2*len(v)), v))
}

func (b *Binder) SetIVec3Array(name string, v [][3]int32) {
	if len(v) == 0 {
		return
	}
	b.setIntv(name, 3, len(v), PackIVec3s(make([]int32, 0, 3*len(v)), v))
}

func (b *Binder) SetIVec4Array(name string, v [][4]int32) {
	if len(v) == 0 {
		return
	}
	b.setIntv(name, 4, len(v), PackIVec4s(make([]int32, 0, 4*len(v)), v))
}

func (b *Binder) SetMat3Array(name string, m []ms3.Mat3) {
	if len(m) == 0 {
		return
	}
	b.setMat3(name, int32(len(m)), PackMat3s(make([]float32, 0, 9*len(m)), m))
}

func (b *Binder) SetMat4Array(name string, m []ms3.Mat4) {
	if len(m) == 0 {
		return
	}
	b.setMat4(name, int32(len(m)), PackMat4s(make([]float32, 0, 16*len(m)), m))
}

// Set dispatches v to the setter matching its dynamic type. Along with the
// types accepted by the named setters it accepts the vector and matrix types of
// mgl32 and x/image/math/f32, int and [color.Color]. An unsupported type
// returns an error and issues no driver calls.
func (b *Binder) Set(name string, v any) error {
	switch v := v.(type) {
	case float32:
		b.SetFloat(name, v)
	case float64:
		b.SetFloat64(name, v)
	case int32:
		b.SetInt(name, v)
	case int:
		b.SetInt(name, int32(v))
	case bool:
		b.SetBool(name, v)
	case glshade.ColorRGBa:
		b.SetColor(name, v)
	case ms2.Vec:
		b.SetVec2(name, v)
	case ms3.Vec:
		b.SetVec3(name, v)
	case f32.Vec2:
		b.SetVec2(name, ms2.Vec{X: v[0], Y: v[1]})
	case f32.Vec3:
		b.SetVec3(name, ms3.Vec{X: v[0], Y: v[1], Z: v[2]})
	case f32.Vec4:
		b.SetVec4(name, v)
	case mgl32.Vec2:
		b.SetVec2(name, ms2.Vec{X: v[0], Y: v[1]})
	case mgl32.Vec3:
		b.SetVec3(name, ms3.Vec{X: v[0], Y: v[1], Z: v[2]})
	case mgl32.Vec4:
		b.SetVec4(name, f32.Vec4(v))
	case [2]int32:
		b.SetIVec2(name, v)
	case [3]int32:
		b.SetIVec3(name, v)
	case [4]int32:
		b.SetIVec4(name, v)
	case ms3.Mat3:
		b.SetMat3(name, v)
	case ms3.Mat4:
		b.SetMat4(name, v)
	case f32.Mat3:
		// f32 matrices are row-major.
		cm := transpose3([9]float32(v))
		b.setMat3(name, 1, cm[:])
	case f32.Mat4:
		cm := transpose4([16]float32(v))
		b.setMat4(name, 1, cm[:])
	case mgl32.Mat3:
		b.setMat3(name, 1, v[:])
	case mgl32.Mat4:
		b.setMat4(name, 1, v[:])
	case []float32:
		b.SetFloatArray(name, v)
	case []float64:
		b.SetFloat64Array(name, v)
	case []int32:
		b.SetIntArray(name, v)
	case []ms2.Vec:
		b.SetVec2Array(name, v)
	case []ms3.Vec:
		b.SetVec3Array(name, v)
	case []f32.Vec4:
		b.SetVec4Array(name, v)
	case []glshade.ColorRGBa:
		b.SetColorArray(name, v)
	case [][2]int32:
		b.SetIVec2Array(name, v)
	case [][3]int32:
		b.SetIVec3Array(name, v)
	case [][4]int32:
		b.SetIVec4Array(name, v)
	case []ms3.Mat4:
		b.SetMat4Array(name, v)
	case []int:
		ints := make([]int32, len(v))
		for i, e := range v {
			ints[i] = int32(e)
		}
		b.SetIntArray(name, ints)
	case []bool:
		b.SetBoolArray(name, v)
	case []f32.Vec2:
		b.setFloatv(name, 2, len(v), flatten(v, 2, func(e *f32.Vec2) []float32 { return e[:] }))
	case []mgl32.Vec2:
		b.setFloatv(name, 2, len(v), flatten(v, 2, func(e *mgl32.Vec2) []float32 { return e[:] }))
	case []f32.Vec3:
		b.setFloatv(name, 3, len(v), flatten(v, 3, func(e *f32.Vec3) []float32 { return e[:] }))
	case []mgl32.Vec3:
		b.setFloatv(name, 3, len(v), flatten(v, 3, func(e *mgl32.Vec3) []float32 { return e[:] }))
	case []mgl32.Vec4:
		b.setFloatv(name, 4, len(v), flatten(v, 4, func(e *mgl32.Vec4) []float32 { return e[:] }))
	case []ms3.Mat3:
		b.SetMat3Array(name, v)
	case []f32.Mat3:
		if len(v) > 0 {
			b.setMat3(name, int32(len(v)), flatten(v, 9, func(e *f32.Mat3) []float32 {
				cm := transpose3([9]float32(*e))
				return cm[:]
			}))
		}
	case []mgl32.Mat3:
		if len(v) > 0 {
			b.setMat3(name, int32(len(v)), flatten(v, 9, func(e *mgl32.Mat3) []float32 { return e[:] }))
		}
	case []f32.Mat4:
		if len(v) > 0 {
			b.setMat4(name, int32(len(v)), flatten(v, 16, func(e *f32.Mat4) []float32 {
				cm := transpose4([16]float32(*e))
				return cm[:]
			}))
		}
	case []mgl32.Mat4:
		if len(v) > 0 {
			b.setMat4(name, int32(len(v)), flatten(v, 16, func(e *mgl32.Mat4) []float32 { return e[:] }))
		}
	case color.Color:
		b.SetColor(name, glshade.FromColor(v))
	default:
		return fmt.Errorf("uniform %q: unsupported value type %T", name, v)
	}
	return nil
}

// flatten packs the width components of each element of v returned by elem.
func flatten[T any](v []T, width int, elem func(*T) []float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	dst := make([]float32, 0, width*len(v))
	for i := range v {
		dst = append(dst, elem(&v[i])...)
	}
	return dst
}
