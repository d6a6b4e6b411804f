// Package uniformtest provides a recording implementation of uniform.Driver
// for tests that run without a GL context.
package uniformtest

import (
	"slices"

	"github.com/soypat/glshade/uniform"
)

var _ uniform.Driver = (*Driver)(nil)

// Call is a recorded driver call. Slices are copies of the caller's data.
type Call struct {
	Op        string
	Program   uint32
	Loc       int32
	Count     int32
	Transpose bool
	Ints      []int32
	Floats    []float32
}

// ActiveUniform is the metadata returned by [Driver.ActiveUniform].
type ActiveUniform struct {
	Name string
	Size int32
	Type uint32
}

// Driver records uniform updates and serves canned introspection results.
type Driver struct {
	// Locations maps uniform names to locations. Absent names resolve to -1.
	Locations map[string]int32
	// Errors is consumed front to back by GetError. An empty queue reports no error.
	Errors []uint32
	// Active maps active uniform indices to their metadata.
	Active map[uint32]ActiveUniform
	// Current is the program made current by the last UseProgram call.
	Current uint32
	// ProgramUniforms is returned by ProgramUniformSupported.
	ProgramUniforms bool

	Calls []Call
	// Lookups counts GetUniformLocation calls per name.
	Lookups map[string]int
	// ErrorChecks counts GetError calls.
	ErrorChecks int
}

// New returns a driver resolving the given uniform names to consecutive locations starting at 0.
func New(names ...string) *Driver {
	d := &Driver{Locations: make(map[string]int32)}
	for i, name := range names {
		d.Locations[name] = int32(i)
	}
	return d
}

// Reset forgets recorded calls and counters.
func (d *Driver) Reset() {
	d.Calls = d.Calls[:0]
	d.Lookups = nil
	d.ErrorChecks = 0
}

// Updates returns the recorded calls excluding UseProgram.
func (d *Driver) Updates() []Call {
	var updates []Call
	for _, c := range d.Calls {
		if c.Op != "UseProgram" {
			updates = append(updates, c)
		}
	}
	return updates
}

// Ops returns the operation names of all recorded calls in order.
func (d *Driver) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

func (d *Driver) GetUniformLocation(program uint32, name string) int32 {
	if d.Lookups == nil {
		d.Lookups = make(map[string]int)
	}
	d.Lookups[name]++
	loc, ok := d.Locations[name]
	if !ok {
		return -1
	}
	return loc
}

func (d *Driver) UseProgram(program uint32) {
	d.Current = program
	d.record(Call{Op: "UseProgram", Program: program})
}

func (d *Driver) CurrentProgram() uint32 { return d.Current }

func (d *Driver) ActiveUniform(program, index uint32) (string, int32, uint32) {
	a := d.Active[index]
	return a.Name, a.Size, a.Type
}

func (d *Driver) GetError() uint32 {
	d.ErrorChecks++
	if len(d.Errors) == 0 {
		return uniform.NoError
	}
	code := d.Errors[0]
	d.Errors = d.Errors[1:]
	return code
}

func (d *Driver) ProgramUniformSupported() bool { return d.ProgramUniforms }

func (d *Driver) record(c Call) { d.Calls = append(d.Calls, c) }

func (d *Driver) ints(op string, program uint32, loc int32, v ...int32) {
	d.record(Call{Op: op, Program: program, Loc: loc, Count: 1, Ints: v})
}

func (d *Driver) floats(op string, program uint32, loc int32, v ...float32) {
	d.record(Call{Op: op, Program: program, Loc: loc, Count: 1, Floats: v})
}

func (d *Driver) intv(op string, program uint32, loc, count int32, v []int32) {
	d.record(Call{Op: op, Program: program, Loc: loc, Count: count, Ints: slices.Clone(v)})
}

func (d *Driver) floatv(op string, program uint32, loc, count int32, transpose bool, v []float32) {
	d.record(Call{Op: op, Program: program, Loc: loc, Count: count, Transpose: transpose, Floats: slices.Clone(v)})
}

func (d *Driver) Uniform1i(loc int32, v0 int32)             { d.ints("Uniform1i", 0, loc, v0) }
func (d *Driver) Uniform2i(loc int32, v0, v1 int32)         { d.ints("Uniform2i", 0, loc, v0, v1) }
func (d *Driver) Uniform3i(loc int32, v0, v1, v2 int32)     { d.ints("Uniform3i", 0, loc, v0, v1, v2) }
func (d *Driver) Uniform4i(loc int32, v0, v1, v2, v3 int32) { d.ints("Uniform4i", 0, loc, v0, v1, v2, v3) }
func (d *Driver) Uniform1f(loc int32, v0 float32)           { d.floats("Uniform1f", 0, loc, v0) }
func (d *Driver) Uniform2f(loc int32, v0, v1 float32)       { d.floats("Uniform2f", 0, loc, v0, v1) }
func (d *Driver) Uniform3f(loc int32, v0, v1, v2 float32)   { d.floats("Uniform3f", 0, loc, v0, v1, v2) }
func (d *Driver) Uniform4f(loc int32, v0, v1, v2, v3 float32) {
	d.floats("Uniform4f", 0, loc, v0, v1, v2, v3)
}

func (d *Driver) Uniform1iv(loc, count int32, v []int32)   { d.intv("Uniform1iv", 0, loc, count, v) }
func (d *Driver) Uniform2iv(loc, count int32, v []int32)   { d.intv("Uniform2iv", 0, loc, count, v) }
func (d *Driver) Uniform3iv(loc, count int32, v []int32)   { d.intv("Uniform3iv", 0, loc, count, v) }
func (d *Driver) Uniform4iv(loc, count int32, v []int32)   { d.intv("Uniform4iv", 0, loc, count, v) }
func (d *Driver) Uniform1fv(loc, count int32, v []float32) { d.floatv("Uniform1fv", 0, loc, count, false, v) }
func (d *Driver) Uniform2fv(loc, count int32, v []float32) { d.floatv("Uniform2fv", 0, loc, count, false, v) }
func (d *Driver) Uniform3fv(loc, count int32, v []float32) { d.floatv("Uniform3fv", 0, loc, count, false, v) }
func (d *Driver) Uniform4fv(loc, count int32, v []float32) { d.floatv("Uniform4fv", 0, loc, count, false, v) }

func (d *Driver) UniformMatrix3fv(loc, count int32, transpose bool, v []float32) {
	d.floatv("UniformMatrix3fv", 0, loc, count, transpose, v)
}

func (d *Driver) UniformMatrix4fv(loc, count int32, transpose bool, v []float32) {
	d.floatv("UniformMatrix4fv", 0, loc, count, transpose, v)
}

func (d *Driver) ProgramUniform1i(p uint32, loc int32, v0 int32) { d.ints("ProgramUniform1i", p, loc, v0) }
func (d *Driver) ProgramUniform2i(p uint32, loc int32, v0, v1 int32) {
	d.ints("ProgramUniform2i", p, loc, v0, v1)
}
func (d *Driver) ProgramUniform3i(p uint32, loc int32, v0, v1, v2 int32) {
	d.ints("ProgramUniform3i", p, loc, v0, v1, v2)
}
func (d *Driver) ProgramUniform4i(p uint32, loc int32, v0, v1, v2, v3 int32) {
	d.ints("ProgramUniform4i", p, loc, v0, v1, v2, v3)
}
func (d *Driver) ProgramUniform1f(p uint32, loc int32, v0 float32) {
	d.floats("ProgramUniform1f", p, loc, v0)
}
func (d *Driver) ProgramUniform2f(p uint32, loc int32, v0, v1 float32) {
	d.floats("ProgramUniform2f", p, loc, v0, v1)
}
func (d *Driver) ProgramUniform3f(p uint32, loc int32, v0, v1, v2 float32) {
	d.floats("ProgramUniform3f", p, loc, v0, v1, v2)
}
func (d *Driver) ProgramUniform4f(p uint32, loc int32, v0, v1, v2, v3 float32) {
	d.floats("ProgramUniform4f", p, loc, v0, v1, v2, v3)
}

func (d *Driver) ProgramUniform1iv(p uint32, loc, count int32, v []int32) {
	d.intv("ProgramUniform1iv", p, loc, count, v)
}
func (d *Driver) ProgramUniform2iv(p uint32, loc, count int32, v []int32) {
	d.intv("ProgramUniform2iv", p, loc, count, v)
}
func (d *Driver) ProgramUniform3iv(p uint32, loc, count int32, v []int32) {
	d.intv("ProgramUniform3iv", p, loc, count, v)
}
func (d *Driver) ProgramUniform4iv(p uint32, loc, count int32, v []int32) {
	d.intv("ProgramUniform4iv", p, loc, count, v)
}
func (d *Driver) ProgramUniform1fv(p uint32, loc, count int32, v []float32) {
	d.floatv("ProgramUniform1fv", p, loc, count, false, v)
}
func (d *Driver) ProgramUniform2fv(p uint32, loc, count int32, v []float32) {
	d.floatv("ProgramUniform2fv", p, loc, count, false, v)
}
func (d *Driver) ProgramUniform3fv(p uint32, loc, count int32, v []float32) {
	d.floatv("ProgramUniform3fv", p, loc, count, false, v)
}
func (d *Driver) ProgramUniform4fv(p uint32, loc, count int32, v []float32) {
	d.floatv("ProgramUniform4fv", p, loc, count, false, v)
}
func (d *Driver) ProgramUniformMatrix3fv(p uint32, loc, count int32, transpose bool, v []float32) {
	d.floatv("ProgramUniformMatrix3fv", p, loc, count, transpose, v)
}
func (d *Driver) ProgramUniformMatrix4fv(p uint32, loc, count int32, transpose bool, v []float32) {
	d.floatv("ProgramUniformMatrix4fv", p, loc, count, transpose, v)
}
