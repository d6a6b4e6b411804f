package uniform

import (
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"golang.org/x/image/math/f32"
)

// The Pack functions append the components of each element contiguously, in
// element order, and return the extended buffer.

func PackFloat64s(dst []float32, v []float64) []float32 {
	for _, f := range v {
		dst = append(dst, float32(f))
	}
	return dst
}

func PackVec2s(dst []float32, v []ms2.Vec) []float32 {
	for _, e := range v {
		dst = append(dst, e.X, e.Y)
	}
	return dst
}

func PackVec3s(dst []float32, v []ms3.Vec) []float32 {
	for _, e := range v {
		dst = append(dst, e.X, e.Y, e.Z)
	}
	return dst
}

func PackVec4s(dst []float32, v []f32.Vec4) []float32 {
	for _, e := range v {
		dst = append(dst, e[:]...)
	}
	return dst
}

func PackColors(dst []float32, c []glshade.ColorRGBa) []float32 {
	for _, e := range c {
		dst = append(dst, e.R, e.G, e.B, e.A)
	}
	return dst
}

func PackIVec2s(dst []int32, v [][2]int32) []int32 {
	for _, e := range v {
		dst = append(dst, e[:]...)
	}
	return dst
}

func PackIVec3s(dst []int32, v [][3]int32) []int32 {
	for _, e := range v {
		dst = append(dst, e[:]...)
	}
	return dst
}

func PackIVec4s(dst []int32, v [][4]int32) []int32 {
	for _, e := range v {
		dst = append(dst, e[:]...)
	}
	return dst
}

// PackMat3s appends 9 column-major floats per matrix.
func PackMat3s(dst []float32, m []ms3.Mat3) []float32 {
	for _, e := range m {
		cm := Mat3ColumnMajor(e)
		dst = append(dst, cm[:]...)
	}
	return dst
}

// PackMat4s appends 16 column-major floats per matrix.
func PackMat4s(dst []float32, m []ms3.Mat4) []float32 {
	for _, e := range m {
		cm := Mat4ColumnMajor(e)
		dst = append(dst, cm[:]...)
	}
	return dst
}

// Mat3ColumnMajor returns the elements of m in the column-major order expected by GL,
// that is m[0][0], m[1][0], m[2][0], m[0][1]... where m[row][col].
func Mat3ColumnMajor(m ms3.Mat3) [9]float32 {
	return transpose3(m.Array())
}

// Mat4ColumnMajor returns the elements of m in the column-major order expected by GL,
// that is m[0][0], m[1][0], m[2][0], m[3][0], m[0][1]... where m[row][col].
func Mat4ColumnMajor(m ms3.Mat4) [16]float32 {
	return transpose4(m.Array())
}

func transpose3(arr [9]float32) (t [9]float32) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[j*3+i] = arr[i*3+j] // Column major access, as per OpenGL standard.
		}
	}
	return t
}

func transpose4(arr [16]float32) (t [16]float32) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			t[j*4+i] = arr[i*4+j] // Column major access, as per OpenGL standard.
		}
	}
	return t
}
