package uniform

// writer performs uniform updates for one dispatch mode. It is chosen once
// at binder construction so setters never branch on the mode.
type writer interface {
	int1(loc, v0 int32)
	int2(loc, v0, v1 int32)
	int3(loc, v0, v1, v2 int32)
	int4(loc, v0, v1, v2, v3 int32)
	float1(loc int32, v0 float32)
	float2(loc int32, v0, v1 float32)
	float3(loc int32, v0, v1, v2 float32)
	float4(loc int32, v0, v1, v2, v3 float32)
	// intv and floatv upload count vectors of width components.
	intv(width int, loc, count int32, v []int32)
	floatv(width int, loc, count int32, v []float32)
	mat3v(loc, count int32, v []float32)
	mat4v(loc, count int32, v []float32)
}

func newWriter(d Driver, program uint32, mode DispatchMode) writer {
	switch mode {
	case CurrentlyBound:
		return &boundWriter{d: d, program: program}
	case ProgramScoped:
		return &programWriter{d: d, program: program}
	}
	panic("uniform: invalid dispatch mode " + mode.String())
}

// boundWriter makes the program current before every update.
type boundWriter struct {
	d       Driver
	program uint32
}

func (w *boundWriter) bind() { w.d.UseProgram(w.program) }

func (w *boundWriter) int1(loc, v0 int32) {
	w.bind()
	w.d.Uniform1i(loc, v0)
}

func (w *boundWriter) int2(loc, v0, v1 int32) {
	w.bind()
	w.d.Uniform2i(loc, v0, v1)
}

func (w *boundWriter) int3(loc, v0, v1, v2 int32) {
	w.bind()
	w.d.Uniform3i(loc, v0, v1, v2)
}

func (w *boundWriter) int4(loc, v0, v1, v2, v3 int32) {
	w.bind()
	w.d.Uniform4i(loc, v0, v1, v2, v3)
}

func (w *boundWriter) float1(loc int32, v0 float32) {
	w.bind()
	w.d.Uniform1f(loc, v0)
}

func (w *boundWriter) float2(loc int32, v0, v1 float32) {
	w.bind()
	w.d.Uniform2f(loc, v0, v1)
}

func (w *boundWriter) float3(loc int32, v0, v1, v2 float32) {
	w.bind()
	w.d.Uniform3f(loc, v0, v1, v2)
}

func (w *boundWriter) float4(loc int32, v0, v1, v2, v3 float32) {
	w.bind()
	w.d.Uniform4f(loc, v0, v1, v2, v3)
}

func (w *boundWriter) intv(width int, loc, count int32, v []int32) {
	w.bind()
	switch width {
	case 1:
		w.d.Uniform1iv(loc, count, v)
	case 2:
		w.d.Uniform2iv(loc, count, v)
	case 3:
		w.d.Uniform3iv(loc, count, v)
	case 4:
		w.d.Uniform4iv(loc, count, v)
	default:
		panic("uniform: bad vector width")
	}
}

func (w *boundWriter) floatv(width int, loc, count int32, v []float32) {
	w.bind()
	switch width {
	case 1:
		w.d.Uniform1fv(loc, count, v)
	case 2:
		w.d.Uniform2fv(loc, count, v)
	case 3:
		w.d.Uniform3fv(loc, count, v)
	case 4:
		w.d.Uniform4fv(loc, count, v)
	default:
		panic("uniform: bad vector width")
	}
}

func (w *boundWriter) mat3v(loc, count int32, v []float32) {
	w.bind()
	w.d.UniformMatrix3fv(loc, count, false, v)
}

func (w *boundWriter) mat4v(loc, count int32, v []float32) {
	w.bind()
	w.d.UniformMatrix4fv(loc, count, false, v)
}

// programWriter updates through the program scoped entry points.
type programWriter struct {
	d       Driver
	program uint32
}

func (w *programWriter) int1(loc, v0 int32) { w.d.ProgramUniform1i(w.program, loc, v0) }

func (w *programWriter) int2(loc, v0, v1 int32) { w.d.ProgramUniform2i(w.program, loc, v0, v1) }

func (w *programWriter) int3(loc, v0, v1, v2 int32) {
	w.d.ProgramUniform3i(w.program, loc, v0, v1, v2)
}

func (w *programWriter) int4(loc, v0, v1, v2, v3 int32) {
	w.d.ProgramUniform4i(w.program, loc, v0, v1, v2, v3)
}

func (w *programWriter) float1(loc int32, v0 float32) { w.d.ProgramUniform1f(w.program, loc, v0) }

func (w *programWriter) float2(loc int32, v0, v1 float32) {
	w.d.ProgramUniform2f(w.program, loc, v0, v1)
}

func (w *programWriter) float3(loc int32, v0, v1, v2 float32) {
	w.d.ProgramUniform3f(w.program, loc, v0, v1, v2)
}

func (w *programWriter) float4(loc int32, v0, v1, v2, v3 float32) {
	w.d.ProgramUniform4f(w.program, loc, v0, v1, v2, v3)
}

func (w *programWriter) intv(width int, loc, count int32, v []int32) {
	switch width {
	case 1:
		w.d.ProgramUniform1iv(w.program, loc, count, v)
	case 2:
		w.d.ProgramUniform2iv(w.program, loc, count, v)
	case 3:
		w.d.ProgramUniform3iv(w.program, loc, count, v)
	case 4:
		w.d.ProgramUniform4iv(w.program, loc, count, v)
	default:
		panic("uniform: bad vector width")
	}
}

func (w *programWriter) floatv(width int, loc, count int32, v []float32) {
	switch width {
	case 1:
		w.d.ProgramUniform1fv(w.program, loc, count, v)
	case 2:
		w.d.ProgramUniform2fv(w.program, loc, count, v)
	case 3:
		w.d.ProgramUniform3fv(w.program, loc, count, v)
	case 4:
		w.d.ProgramUniform4fv(w.program, loc, count, v)
	default:
		panic("uniform: bad vector width")
	}
}

func (w *programWriter) mat3v(loc, count int32, v []float32) {
	w.d.ProgramUniformMatrix3fv(w.program, loc, count, false, v)
}

func (w *programWriter) mat4v(loc, count int32, v []float32) {
	w.d.ProgramUniformMatrix4fv(w.program, loc, count, false, v)
}
