//go:build js && wasm

package gldriver

import (
	"errors"
	"fmt"
	"syscall/js"
	"unsafe"

	"github.com/soypat/glshade"
)

var _ Device = (*WebGL)(nil)

const (
	glFragmentShader = 0x8B30
	glVertexShader   = 0x8B31
	glCompileStatus  = 0x8B81
	glLinkStatus     = 0x8B82
	glCurrentProgram = 0x8B8D
)

// WebGL is a [Device] backed by a WebGL2RenderingContext. WebGL programs and
// uniform locations are opaque objects, the driver hands out integer handles for them.
// Handle 0 is never a valid program and location handles start at 0.
// Location handles of a program are recycled once the program is deleted.
type WebGL struct {
	ctx      js.Value
	programs []js.Value // handle-1 indexed.
	locs     locationTable[js.Value]

	uint8Array   js.Value
	float32Array js.Value
	int32Array   js.Value
	arrayBuf     js.Value
}

// NewWebGL wraps a WebGL2 rendering context, i.e. canvas.getContext("webgl2").
func NewWebGL(ctx js.Value) (*WebGL, error) {
	webgl2Class := js.Global().Get("WebGL2RenderingContext")
	if webgl2Class.IsUndefined() || !ctx.InstanceOf(webgl2Class) {
		return nil, errors.New("gldriver: context is not a WebGL2RenderingContext")
	}
	return &WebGL{
		ctx:          ctx,
		uint8Array:   js.Global().Get("Uint8Array"),
		float32Array: js.Global().Get("Float32Array"),
		int32Array:   js.Global().Get("Int32Array"),
	}, nil
}

func (w *WebGL) Dialect() glshade.Dialect { return glshade.DialectWebGL2 }

// RegisterProgram returns a handle for a program linked outside of this driver.
func (w *WebGL) RegisterProgram(program js.Value) uint32 {
	w.programs = append(w.programs, program)
	return uint32(len(w.programs))
}

// Program returns the WebGLProgram of a handle or null.
func (w *WebGL) Program(program uint32) js.Value {
	if program == 0 || int(program) > len(w.programs) {
		return js.Null()
	}
	return w.programs[program-1]
}

func (w *WebGL) CompileProgram(vertex, fragment string) (uint32, error) {
	vs, err := w.compileShader(glVertexShader, vertex)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer w.ctx.Call("deleteShader", vs)
	fs, err := w.compileShader(glFragmentShader, fragment)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer w.ctx.Call("deleteShader", fs)
	prog := w.ctx.Call("createProgram")
	w.ctx.Call("attachShader", prog, vs)
	w.ctx.Call("attachShader", prog, fs)
	w.ctx.Call("linkProgram", prog)
	if !w.ctx.Call("getProgramParameter", prog, glLinkStatus).Truthy() {
		log := w.ctx.Call("getProgramInfoLog", prog).String()
		w.ctx.Call("deleteProgram", prog)
		return 0, errors.New("linking program: " + log)
	}
	return w.RegisterProgram(prog), nil
}

func (w *WebGL) compileShader(kind int, src string) (js.Value, error) {
	s := w.ctx.Call("createShader", kind)
	w.ctx.Call("shaderSource", s, src)
	w.ctx.Call("compileShader", s)
	if !w.ctx.Call("getShaderParameter", s, glCompileStatus).Truthy() {
		log := w.ctx.Call("getShaderInfoLog", s).String()
		w.ctx.Call("deleteShader", s)
		return js.Null(), errors.New(log)
	}
	return s, nil
}

func (w *WebGL) DeleteProgram(program uint32) {
	p := w.Program(program)
	if p.IsNull() {
		return
	}
	w.ctx.Call("deleteProgram", p)
	w.programs[program-1] = js.Null()
	w.locs.drop(program)
}

func (w *WebGL) GetUniformLocation(program uint32, name string) int32 {
	return w.locs.lookup(program, name, func() (js.Value, bool) {
		loc := w.ctx.Call("getUniformLocation", w.Program(program), name)
		return loc, !loc.IsNull()
	})
}

func (w *WebGL) UseProgram(program uint32) { w.ctx.Call("useProgram", w.Program(program)) }

func (w *WebGL) CurrentProgram() uint32 {
	current := w.ctx.Call("getParameter", glCurrentProgram)
	if current.IsNull() {
		return 0
	}
	for i, p := range w.programs {
		if p.Equal(current) {
			return uint32(i + 1)
		}
	}
	return 0
}

func (w *WebGL) ActiveUniform(program, index uint32) (string, int32, uint32) {
	info := w.ctx.Call("getActiveUniform", w.Program(program), int(index))
	if info.IsNull() {
		return "", 0, 0
	}
	return info.Get("name").String(), int32(info.Get("size").Int()), uint32(info.Get("type").Int())
}

func (w *WebGL) GetError() uint32 { return uint32(w.ctx.Call("getError").Int()) }

// ProgramUniformSupported is always false: WebGL2 has no program scoped uniform updates.
func (w *WebGL) ProgramUniformSupported() bool { return false }

func (w *WebGL) loc(loc int32) js.Value { return w.locs.get(loc) }

func (w *WebGL) Uniform1i(loc int32, v0 int32)     { w.ctx.Call("uniform1i", w.loc(loc), v0) }
func (w *WebGL) Uniform2i(loc int32, v0, v1 int32) { w.ctx.Call("uniform2i", w.loc(loc), v0, v1) }
func (w *WebGL) Uniform3i(loc int32, v0, v1, v2 int32) {
	w.ctx.Call("uniform3i", w.loc(loc), v0, v1, v2)
}
func (w *WebGL) Uniform4i(loc int32, v0, v1, v2, v3 int32) {
	w.ctx.Call("uniform4i", w.loc(loc), v0, v1, v2, v3)
}
func (w *WebGL) Uniform1f(loc int32, v0 float32)     { w.ctx.Call("uniform1f", w.loc(loc), v0) }
func (w *WebGL) Uniform2f(loc int32, v0, v1 float32) { w.ctx.Call("uniform2f", w.loc(loc), v0, v1) }
func (w *WebGL) Uniform3f(loc int32, v0, v1, v2 float32) {
	w.ctx.Call("uniform3f", w.loc(loc), v0, v1, v2)
}
func (w *WebGL) Uniform4f(loc int32, v0, v1, v2, v3 float32) {
	w.ctx.Call("uniform4f", w.loc(loc), v0, v1, v2, v3)
}

func (w *WebGL) Uniform1iv(loc, count int32, v []int32) {
	w.ctx.Call("uniform1iv", w.loc(loc), w.int32ArrayOf(v[:count]))
}
func (w *WebGL) Uniform2iv(loc, count int32, v []int32) {
	w.ctx.Call("uniform2iv", w.loc(loc), w.int32ArrayOf(v[:2*count]))
}
func (w *WebGL) Uniform3iv(loc, count int32, v []int32) {
	w.ctx.Call("uniform3iv", w.loc(loc), w.int32ArrayOf(v[:3*count]))
}
func (w *WebGL) Uniform4iv(loc, count int32, v []int32) {
	w.ctx.Call("uniform4iv", w.loc(loc), w.int32ArrayOf(v[:4*count]))
}
func (w *WebGL) Uniform1fv(loc, count int32, v []float32) {
	w.ctx.Call("uniform1fv", w.loc(loc), w.float32ArrayOf(v[:count]))
}
func (w *WebGL) Uniform2fv(loc, count int32, v []float32) {
	w.ctx.Call("uniform2fv", w.loc(loc), w.float32ArrayOf(v[:2*count]))
}
func (w *WebGL) Uniform3fv(loc, count int32, v []float32) {
	w.ctx.Call("uniform3fv", w.loc(loc), w.float32ArrayOf(v[:3*count]))
}
func (w *WebGL) Uniform4fv(loc, count int32, v []float32) {
	w.ctx.Call("uniform4fv", w.loc(loc), w.float32ArrayOf(v[:4*count]))
}
func (w *WebGL) UniformMatrix3fv(loc, count int32, transpose bool, v []float32) {
	w.ctx.Call("uniformMatrix3fv", w.loc(loc), transpose, w.float32ArrayOf(v[:9*count]))
}
func (w *WebGL) UniformMatrix4fv(loc, count int32, transpose bool, v []float32) {
	w.ctx.Call("uniformMatrix4fv", w.loc(loc), transpose, w.float32ArrayOf(v[:16*count]))
}

// The program scoped family is emulated by binding the program first so the
// driver stays usable if a caller forces ProgramScoped mode.

func (w *WebGL) ProgramUniform1i(p uint32, loc int32, v0 int32) {
	w.UseProgram(p)
	w.Uniform1i(loc, v0)
}
func (w *WebGL) ProgramUniform2i(p uint32, loc int32, v0, v1 int32) {
	w.UseProgram(p)
	w.Uniform2i(loc, v0, v1)
}
func (w *WebGL) ProgramUniform3i(p uint32, loc int32, v0, v1, v2 int32) {
	w.UseProgram(p)
	w.Uniform3i(loc, v0, v1, v2)
}
func (w *WebGL) ProgramUniform4i(p uint32, loc int32, v0, v1, v2, v3 int32) {
	w.UseProgram(p)
	w.Uniform4i(loc, v0, v1, v2, v3)
}
func (w *WebGL) ProgramUniform1f(p uint32, loc int32, v0 float32) {
	w.UseProgram(p)
	w.Uniform1f(loc, v0)
}
func (w *WebGL) ProgramUniform2f(p uint32, loc int32, v0, v1 float32) {
	w.UseProgram(p)
	w.Uniform2f(loc, v0, v1)
}
func (w *WebGL) ProgramUniform3f(p uint32, loc int32, v0, v1, v2 float32) {
	w.UseProgram(p)
	w.Uniform3f(loc, v0, v1, v2)
}
func (w *WebGL) ProgramUniform4f(p uint32, loc int32, v0, v1, v2, v3 float32) {
	w.UseProgram(p)
	w.Uniform4f(loc, v0, v1, v2, v3)
}
func (w *WebGL) ProgramUniform1iv(p uint32, loc, count int32, v []int32) {
	w.UseProgram(p)
	w.Uniform1iv(loc, count, v)
}
func (w *WebGL) ProgramUniform2iv(p uint32, loc, count int32, v []int32) {
	w.UseProgram(p)
	w.Uniform2iv(loc, count, v)
}
func (w *WebGL) ProgramUniform3iv(p uint32, loc, count int32, v []int32) {
	w.UseProgram(p)
	w.Uniform3iv(loc, count, v)
}
func (w *WebGL) ProgramUniform4iv(p uint32, loc, count int32, v []int32) {
	w.UseProgram(p)
	w.Uniform4iv(loc, count, v)
}
func (w *WebGL) ProgramUniform1fv(p uint32, loc, count int32, v []float32) {
	w.UseProgram(p)
	w.Uniform1fv(loc, count, v)
}
func (w *WebGL) ProgramUniform2fv(p uint32, loc, count int32, v []float32) {
	w.UseProgram(p)
	w.Uniform2fv(loc, count, v)
}
func (w *WebGL) ProgramUniform3fv(p uint32, loc, count int32, v []float32) {
	w.UseProgram(p)
	w.Uniform3fv(loc, count, v)
}
func (w *WebGL) ProgramUniform4fv(p uint32, loc, count int32, v []float32) {
	w.UseProgram(p)
	w.Uniform4fv(loc, count, v)
}
func (w *WebGL) ProgramUniformMatrix3fv(p uint32, loc, count int32, transpose bool, v []float32) {
	w.UseProgram(p)
	w.UniformMatrix3fv(loc, count, transpose, v)
}
func (w *WebGL) ProgramUniformMatrix4fv(p uint32, loc, count int32, transpose bool, v []float32) {
	w.UseProgram(p)
	w.UniformMatrix4fv(loc, count, transpose, v)
}

func (w *WebGL) float32ArrayOf(v []float32) js.Value {
	ba := w.byteArrayOf(unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 4*len(v)))
	return w.float32Array.New(ba.Get("buffer"), 0, len(v))
}

func (w *WebGL) int32ArrayOf(v []int32) js.Value {
	ba := w.byteArrayOf(unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 4*len(v)))
	return w.int32Array.New(ba.Get("buffer"), 0, len(v))
}

// byteArrayOf copies data into a reused ArrayBuffer.
func (w *WebGL) byteArrayOf(data []byte) js.Value {
	if w.arrayBuf.IsUndefined() || w.arrayBuf.Get("byteLength").Int() < len(data) {
		w.arrayBuf = js.Global().Get("ArrayBuffer").New(len(data))
	}
	ba := w.uint8Array.New(w.arrayBuf, 0, len(data))
	js.CopyBytesToJS(ba, data)
	return ba
}
