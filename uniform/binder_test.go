package uniform_test

import (
	"context"
	"image/color"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/uniform"
	"github.com/soypat/glshade/uniform/uniformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

const testProgram = 7

// logRecorder is a slog.Handler that keeps every record it handles.
type logRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *logRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *logRecorder) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *logRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *logRecorder) WithGroup(string) slog.Handler      { return h }

func (h *logRecorder) level(lvl slog.Level) []slog.Record {
	var recs []slog.Record
	for _, r := range h.records {
		if r.Level == lvl {
			recs = append(recs, r)
		}
	}
	return recs
}

func attrs(r slog.Record) map[string]string {
	m := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.String()
		return true
	})
	return m
}

func newBinder(d uniform.Driver, mode uniform.DispatchMode, check uniform.Check) (*uniform.Binder, *logRecorder) {
	h := &logRecorder{}
	b := uniform.NewBinder(d, testProgram, "image-shader", mode, uniform.Config{
		Logger:           slog.New(h),
		PostUniformCheck: check,
	})
	return b, h
}

func TestBoundSetIntIsPrecededByUseProgram(t *testing.T) {
	d := uniformtest.New("u_flipV")
	b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
	b.SetInt("u_flipV", 0)
	require.Len(t, d.Calls, 2)
	assert.Equal(t, uniformtest.Call{Op: "UseProgram", Program: testProgram}, d.Calls[0])
	assert.Equal(t, uniformtest.Call{Op: "Uniform1i", Loc: 0, Count: 1, Ints: []int32{0}}, d.Calls[1])
	assert.Empty(t, logs.records)
}

func TestMissingUniformWarnsOnce(t *testing.T) {
	d := uniformtest.New()
	b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
	b.SetFloat("u_nonexistent", 1)
	b.SetFloat("u_nonexistent", 2)
	b.SetVec2("u_nonexistent", ms2.Vec{X: 1, Y: 2})
	b.SetMat4Array("u_nonexistent", []ms3.Mat4{ms3.ScalingMat4(ms3.Vec{X: 1, Y: 2, Z: 3})})

	warns := logs.level(slog.LevelWarn)
	require.Len(t, warns, 1)
	got := attrs(warns[0])
	assert.Equal(t, "image-shader", got["program"])
	assert.Equal(t, "u_nonexistent", got["uniform"])
	assert.Empty(t, d.Calls, "absent uniform must not reach the driver")
	assert.Equal(t, 1, d.Lookups["u_nonexistent"])
	assert.EqualValues(t, -1, b.Location("u_nonexistent"))
	assert.Len(t, logs.records, 1)
}

func TestQueryIndexDoesNotWarn(t *testing.T) {
	d := uniformtest.New("u_present")
	b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
	assert.EqualValues(t, -1, b.QueryIndex("u_optional"))
	assert.EqualValues(t, 0, b.QueryIndex("u_present"))
	assert.Empty(t, logs.records)
}

func TestLocationIsResolvedOnce(t *testing.T) {
	d := uniformtest.New("u_a", "u_b")
	b, _ := newBinder(d, uniform.ProgramScoped, uniform.CheckDisabled)
	for i := 0; i < 10; i++ {
		b.SetFloat("u_a", float32(i))
		b.SetInt("u_b", int32(i))
		b.Location("u_a")
	}
	assert.Equal(t, map[string]int{"u_a": 1, "u_b": 1}, d.Lookups)
	assert.Len(t, d.Calls, 20)
}

func TestMat4ArrayPacking(t *testing.T) {
	d := uniformtest.New("u_bones")
	b, _ := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
	mats := []ms3.Mat4{
		ms3.NewMat4([]float32{
			1, 2, 3, 4,
			5, 6, 7, 8,
			9, 10, 11, 12,
			13, 14, 15, 16,
		}),
		ms3.TranslatingMat4(ms3.Vec{X: 1, Y: 2, Z: 3}),
		ms3.ScalingMat4(ms3.Vec{X: 1, Y: 2, Z: 3}),
	}
	b.SetMat4Array("u_bones", mats)
	updates := d.Updates()
	require.Len(t, updates, 1)
	call := updates[0]
	assert.Equal(t, "UniformMatrix4fv", call.Op)
	assert.EqualValues(t, 3, call.Count)
	assert.False(t, call.Transpose)
	require.Len(t, call.Floats, 48, "192 bytes")
	want := []float32{
		1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15, 4, 8, 12, 16,
		1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1,
		1, 0, 0, 0, 0, 2, 0, 0, 0, 0, 3, 0, 0, 0, 0, 1,
	}
	assert.Equal(t, want, call.Floats)
}

func TestMatrixColumnMajor(t *testing.T) {
	d := uniformtest.New("u_m")
	b, _ := newBinder(d, uniform.ProgramScoped, uniform.CheckDisabled)
	rowMajor := f32.Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	require.NoError(t, b.Set("u_m", rowMajor))
	require.NoError(t, b.Set("u_m", mgl32.Mat4(rowMajor)))
	updates := d.Updates()
	require.Len(t, updates, 2)
	for _, c := range updates {
		assert.Equal(t, "ProgramUniformMatrix4fv", c.Op)
		assert.False(t, c.Transpose)
	}
	assert.Equal(t, []float32{1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15, 4, 8, 12, 16}, updates[0].Floats)
	// mgl32 matrices are already column-major.
	assert.Equal(t, rowMajor[:], updates[1].Floats)

	translate := mgl32.Translate3D(1, 2, 3)
	require.NoError(t, b.Set("u_m", translate))
	assert.Equal(t, []float32{1, 2, 3, 1}, d.Calls[2].Floats[12:])
}

func TestMat3ColumnMajor(t *testing.T) {
	assert.Equal(t, [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, uniform.Mat3ColumnMajor(ms3.IdentityMat3()))
	m := ms3.NewMat3([]float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	assert.Equal(t, [9]float32{1, 4, 7, 2, 5, 8, 3, 6, 9}, uniform.Mat3ColumnMajor(m))
	cm4 := uniform.Mat4ColumnMajor(ms3.TranslatingMat4(ms3.Vec{X: -1, Y: 0.5, Z: 4}))
	assert.Equal(t, [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, -1, 0.5, 4, 1}, cm4)
}

func TestArrayPacking(t *testing.T) {
	d := uniformtest.New("u_v2", "u_v3", "u_c", "u_i2", "u_f", "u_d")
	b, _ := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
	b.SetVec2Array("u_v2", []ms2.Vec{{X: 1, Y: 2}, {X: 3, Y: 4}})
	b.SetVec3Array("u_v3", []ms3.Vec{{X: 1, Y: 2, Z: 3}})
	b.SetColorArray("u_c", []glshade.ColorRGBa{{R: 1, A: 1}, {G: 0.5, A: 0.5}})
	b.SetIVec2Array("u_i2", [][2]int32{{1, 2}, {3, 4}, {5, 6}})
	b.SetFloatArray("u_f", []float32{0.5})
	b.SetFloat64Array("u_d", []float64{0.25, 0.75})

	tests := []struct {
		op     string
		count  int32
		floats []float32
		ints   []int32
	}{
		{op: "Uniform2fv", count: 2, floats: []float32{1, 2, 3, 4}},
		{op: "Uniform3fv", count: 1, floats: []float32{1, 2, 3}},
		{op: "Uniform4fv", count: 2, floats: []float32{1, 0, 0, 1, 0, 0.5, 0, 0.5}},
		{op: "Uniform2iv", count: 3, ints: []int32{1, 2, 3, 4, 5, 6}},
		{op: "Uniform1fv", count: 1, floats: []float32{0.5}},
		{op: "Uniform1fv", count: 2, floats: []float32{0.25, 0.75}},
	}
	updates := d.Updates()
	require.Len(t, updates, len(tests))
	for i, test := range tests {
		got := updates[i]
		assert.Equal(t, test.op, got.Op)
		assert.Equal(t, test.count, got.Count)
		assert.EqualValues(t, i, got.Loc)
		assert.Equal(t, test.floats, got.Floats)
		assert.Equal(t, test.ints, got.Ints)
	}
}

func TestEmptyArraysAreNoops(t *testing.T) {
	d := uniformtest.New("u_arr")
	b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckEnabled)
	b.SetFloatArray("u_arr", nil)
	b.SetVec3Array("u_arr", []ms3.Vec{})
	b.SetMat4Array("u_arr", nil)
	b.SetIVec4Array("u_missing", nil)
	assert.Empty(t, d.Calls)
	assert.Empty(t, d.Lookups)
	assert.Empty(t, logs.records)
}

func TestSetBoolAndColor(t *testing.T) {
	d := uniformtest.New("u_flag", "u_fill")
	b, _ := newBinder(d, uniform.ProgramScoped, uniform.CheckDisabled)
	b.SetBool("u_flag", true)
	b.SetBool("u_flag", false)
	b.SetColor("u_fill", glshade.RGB(0.25, 0.5, 1))
	require.NoError(t, b.Set("u_fill", color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, []uniformtest.Call{
		{Op: "ProgramUniform1i", Program: testProgram, Loc: 0, Count: 1, Ints: []int32{1}},
		{Op: "ProgramUniform1i", Program: testProgram, Loc: 0, Count: 1, Ints: []int32{0}},
		{Op: "ProgramUniform4f", Program: testProgram, Loc: 1, Count: 1, Floats: []float32{0.25, 0.5, 1, 1}},
		{Op: "ProgramUniform4f", Program: testProgram, Loc: 1, Count: 1, Floats: []float32{1, 0, 0, 1}},
	}, d.Calls)
}

func TestSetDynamic(t *testing.T) {
	d := uniformtest.New("u_x")
	b, _ := newBinder(d, uniform.ProgramScoped, uniform.CheckDisabled)
	values := []struct {
		v  any
		op string
	}{
		{float32(1), "ProgramUniform1f"},
		{2.0, "ProgramUniform1f"},
		{3, "ProgramUniform1i"},
		{int32(4), "ProgramUniform1i"},
		{true, "ProgramUniform1i"},
		{ms2.Vec{X: 1}, "ProgramUniform2f"},
		{mgl32.Vec2{1, 2}, "ProgramUniform2f"},
		{f32.Vec3{1, 2, 3}, "ProgramUniform3f"},
		{mgl32.Vec4{1, 2, 3, 4}, "ProgramUniform4f"},
		{glshade.White, "ProgramUniform4f"},
		{[3]int32{1, 2, 3}, "ProgramUniform3i"},
		{ms3.IdentityMat3(), "ProgramUniformMatrix3fv"},
		{[]ms2.Vec{{X: 1}}, "ProgramUniform2fv"},
		{[][4]int32{{1, 2, 3, 4}}, "ProgramUniform4iv"},
		{[]mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}, "ProgramUniformMatrix4fv"},
	}
	for _, v := range values {
		require.NoError(t, b.Set("u_x", v.v), "%T", v.v)
	}
	updates := d.Updates()
	require.Len(t, updates, len(values))
	for i, v := range values {
		assert.Equal(t, v.op, updates[i].Op, "%T", v.v)
	}
	assert.EqualValues(t, 2, updates[len(updates)-1].Count)

	d.Reset()
	err := b.Set("u_x", "not a uniform value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "u_x")
	assert.Contains(t, err.Error(), "string")
	assert.Empty(t, d.Calls)
}

func TestSetArrays(t *testing.T) {
	d := uniformtest.New("u_arr")
	b, _ := newBinder(d, uniform.ProgramScoped, uniform.CheckDisabled)
	rowMajor3 := f32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	colMajor3 := []float32{1, 4, 7, 2, 5, 8, 3, 6, 9}
	tests := []struct {
		v      any
		op     string
		count  int32
		floats []float32
		ints   []int32
	}{
		{v: []int{1, -2}, op: "ProgramUniform1iv", count: 2, ints: []int32{1, -2}},
		{v: []bool{true, false, true}, op: "ProgramUniform1iv", count: 3, ints: []int32{1, 0, 1}},
		{v: []f32.Vec2{{1, 2}, {3, 4}}, op: "ProgramUniform2fv", count: 2, floats: []float32{1, 2, 3, 4}},
		{v: []mgl32.Vec2{{1, 2}}, op: "ProgramUniform2fv", count: 1, floats: []float32{1, 2}},
		{v: []f32.Vec3{{1, 2, 3}}, op: "ProgramUniform3fv", count: 1, floats: []float32{1, 2, 3}},
		{v: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}, op: "ProgramUniform3fv", count: 2, floats: []float32{1, 2, 3, 4, 5, 6}},
		{v: []mgl32.Vec4{{1, 2, 3, 4}}, op: "ProgramUniform4fv", count: 1, floats: []float32{1, 2, 3, 4}},
		{v: []ms3.Mat3{ms3.NewMat3(rowMajor3[:])}, op: "ProgramUniformMatrix3fv", count: 1, floats: colMajor3},
		{v: []f32.Mat3{rowMajor3, rowMajor3}, op: "ProgramUniformMatrix3fv", count: 2, floats: append(slices.Clone(colMajor3), colMajor3...)},
		{v: []mgl32.Mat3{mgl32.Mat3(rowMajor3)}, op: "ProgramUniformMatrix3fv", count: 1, floats: rowMajor3[:]},
		{v: []f32.Mat4{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}, op: "ProgramUniformMatrix4fv", count: 1,
			floats: []float32{1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15, 4, 8, 12, 16}},
	}
	for _, tt := range tests {
		d.Reset()
		require.NoError(t, b.Set("u_arr", tt.v), "%T", tt.v)
		require.Len(t, d.Calls, 1, "%T", tt.v)
		c := d.Calls[0]
		assert.Equal(t, tt.op, c.Op, "%T", tt.v)
		assert.Equal(t, tt.count, c.Count, "%T", tt.v)
		assert.False(t, c.Transpose)
		assert.Equal(t, tt.floats, c.Floats, "%T", tt.v)
		assert.Equal(t, tt.ints, c.Ints, "%T", tt.v)
	}

	d.Reset()
	for _, empty := range []any{[]int{}, []bool{}, []mgl32.Vec3{}, []ms3.Mat3{}, []f32.Mat4{}} {
		require.NoError(t, b.Set("u_arr", empty))
	}
	assert.Empty(t, d.Calls)
}

func TestDispatchModeInvariance(t *testing.T) {
	run := func(mode uniform.DispatchMode) *uniformtest.Driver {
		d := uniformtest.New("u_a", "u_b", "u_c", "u_d", "u_e")
		b, _ := newBinder(d, mode, uniform.CheckDisabled)
		b.SetFloat("u_a", 1.5)
		b.SetVec3("u_b", ms3.Vec{X: 1, Y: 2, Z: 3})
		b.SetIVec2("u_c", [2]int32{4, 5})
		b.SetMat4("u_d", ms3.ScalingMat4(ms3.Vec{X: 2, Y: 2, Z: 2}))
		b.SetBool("u_e", true)
		b.SetFloat("u_missing", 0)
		return d
	}
	bound := run(uniform.CurrentlyBound)
	scoped := run(uniform.ProgramScoped)

	boundUpdates := bound.Updates()
	scopedUpdates := scoped.Updates()
	require.Len(t, boundUpdates, 5)
	require.Len(t, scopedUpdates, 5)
	for i := range boundUpdates {
		bu, su := boundUpdates[i], scopedUpdates[i]
		assert.Equal(t, "Program"+bu.Op, su.Op)
		assert.EqualValues(t, testProgram, su.Program)
		bu.Op, bu.Program = su.Op, su.Program
		assert.Equal(t, bu, su)
	}
	for i, c := range bound.Calls {
		if i%2 == 0 {
			assert.Equal(t, "UseProgram", c.Op)
		} else {
			assert.NotEqual(t, "UseProgram", c.Op)
		}
	}
	assert.NotContains(t, scoped.Ops(), "UseProgram")
}

func TestProbeMode(t *testing.T) {
	d := uniformtest.New()
	assert.Equal(t, uniform.CurrentlyBound, uniform.ProbeMode(d))
	d.ProgramUniforms = true
	assert.Equal(t, uniform.ProgramScoped, uniform.ProbeMode(d))
	assert.Equal(t, "program-scoped", uniform.ProgramScoped.String())
}

func TestPostUniformCheckReportsTypeMismatch(t *testing.T) {
	d := uniformtest.New("u_radius")
	d.Active = map[uint32]uniformtest.ActiveUniform{
		0: {Name: "u_radius", Size: 1, Type: 0x8B50},
	}
	b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckEnabled)
	b.Location("u_radius")
	d.Errors = []uint32{uniform.InvalidOperation}
	b.SetFloat("u_radius", 3)

	errs := logs.level(slog.LevelError)
	require.Len(t, errs, 1)
	got := attrs(errs[0])
	assert.Equal(t, "image-shader", got["program"])
	assert.Equal(t, "u_radius", got["uniform"])
	assert.Equal(t, "GL_INVALID_OPERATION", got["error"])
	assert.Equal(t, "no current program object (7), or uniform type mismatch (u_radius/u_radius): 1 / vec2", got["detail"])
	// Diagnostics never mutate program state.
	assert.Equal(t, []string{"UseProgram", "Uniform1f"}, d.Ops())
}

func TestPostUniformCheckModes(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		d := uniformtest.New("u_a")
		b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
		d.Errors = []uint32{uniform.InvalidValue}
		b.SetFloat("u_a", 1)
		assert.Zero(t, d.ErrorChecks)
		assert.Empty(t, logs.records)
	})
	t.Run("program scoped", func(t *testing.T) {
		d := uniformtest.New("u_a")
		b, logs := newBinder(d, uniform.ProgramScoped, uniform.CheckEnabled)
		b.Location("u_a")
		d.ErrorChecks = 0
		d.Errors = []uint32{uniform.InvalidValue}
		b.SetFloat("u_a", 1)
		assert.Zero(t, d.ErrorChecks)
		assert.Empty(t, logs.records)
	})
	t.Run("other errors", func(t *testing.T) {
		d := uniformtest.New("u_a")
		b, logs := newBinder(d, uniform.CurrentlyBound, uniform.CheckEnabled)
		b.Location("u_a")
		d.Errors = []uint32{uniform.InvalidValue}
		b.SetFloat("u_a", 1)
		errs := logs.level(slog.LevelError)
		require.Len(t, errs, 1)
		got := attrs(errs[0])
		assert.Equal(t, "GL_INVALID_VALUE", got["error"])
		_, hasDetail := got["detail"]
		assert.False(t, hasDetail)
	})
}

func TestReleasedBinderIsInert(t *testing.T) {
	d := uniformtest.New("u_a")
	b, _ := newBinder(d, uniform.CurrentlyBound, uniform.CheckDisabled)
	b.Release()
	if isDebug {
		assert.Panics(t, func() { b.SetFloat("u_a", 1) })
		return
	}
	b.SetFloat("u_a", 1)
	assert.Empty(t, d.Calls)
}

func TestErrorAndTypeStrings(t *testing.T) {
	assert.Equal(t, "GL_NO_ERROR", uniform.ErrorString(uniform.NoError))
	assert.Equal(t, "GL_OUT_OF_MEMORY", uniform.ErrorString(uniform.OutOfMemory))
	assert.True(t, strings.HasPrefix(uniform.ErrorString(0x9999), "GL_ERROR(0x9999"))
	assert.Equal(t, "mat4", uniform.TypeLiteral(0x8B5C))
	assert.Equal(t, "sampler2DArray", uniform.TypeLiteral(0x8DC1))
}
