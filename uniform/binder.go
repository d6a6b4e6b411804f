// Package uniform transfers typed host values into the uniform storage of a
// linked GPU program.
//
// A [Binder] is created once per linked program. It resolves uniform names to
// locations lazily and at most once, silently ignores uniforms absent from the
// program after a single warning, and dispatches every update through either the
// currently-bound or the program-scoped family of driver entry points.
package uniform

import (
	"fmt"
	"log/slog"
)

// Check selects whether a [Binder] runs the post-uniform diagnostic.
type Check uint8

const (
	// CheckDefault enables the post-uniform check in builds with the debug tag.
	CheckDefault Check = iota
	CheckEnabled
	CheckDisabled
)

// Config holds the optional settings of a [Binder]. The zero value is ready to use.
type Config struct {
	// Logger receives missing uniform warnings and driver errors. Nil discards them.
	Logger *slog.Logger
	// PostUniformCheck controls the driver error check after each update in
	// CurrentlyBound mode. Program scoped updates are never checked.
	PostUniformCheck Check
}

func (cfg Config) postCheck() bool {
	switch cfg.PostUniformCheck {
	case CheckEnabled:
		return true
	case CheckDisabled:
		return false
	}
	return debug
}

// Binder sets the uniforms of a single linked program. It exclusively owns its
// location cache and borrows the program handle: the binder must not outlive
// the program. A Binder is not safe for concurrent use.
type Binder struct {
	d       Driver
	w       writer
	program uint32
	name    string
	mode    DispatchMode
	log     *slog.Logger
	check   bool
	// locs caches resolved locations, -1 marks a uniform absent from the program.
	locs     map[string]int32
	released bool
}

// NewBinder returns a binder for program. debugName identifies the program in diagnostics.
// The dispatch mode is fixed for the lifetime of the binder, see [ProbeMode].
func NewBinder(d Driver, program uint32, debugName string, mode DispatchMode, cfg Config) *Binder {
	if d == nil {
		panic("uniform: nil driver")
	}
	log := cfg.Logger
	if log == nil {
		log = newNopLogger()
	}
	return &Binder{
		d:       d,
		w:       newWriter(d, program, mode),
		program: program,
		name:    debugName,
		mode:    mode,
		log:     log,
		check:   cfg.postCheck(),
		locs:    make(map[string]int32),
	}
}

// Program returns the borrowed program handle.
func (b *Binder) Program() uint32 { return b.program }

// Name returns the debug name of the program.
func (b *Binder) Name() string { return b.name }

// Mode returns the dispatch mode chosen at construction.
func (b *Binder) Mode() DispatchMode { return b.mode }

// Location returns the location of the uniform, resolving it on first use.
// A warning is logged the first time name resolves to -1.
func (b *Binder) Location(name string) int32 { return b.uniformIndex(name, false) }

// QueryIndex is like [Binder.Location] but never warns. Use it to probe for
// the presence of optional uniforms.
func (b *Binder) QueryIndex(name string) int32 { return b.uniformIndex(name, true) }

// Release marks the program as deleted. Any later use of the binder is a
// programming error: it panics in debug builds and is a no-op otherwise.
func (b *Binder) Release() {
	b.released = true
	b.locs = nil
}

func (b *Binder) uniformIndex(name string, query bool) int32 {
	if !b.usable() {
		return -1
	}
	loc, cached := b.locs[name]
	if cached {
		return loc
	}
	loc = b.d.GetUniformLocation(b.program, name)
	if b.check {
		b.debugErrors(name, -1)
	}
	if loc < -1 && debug {
		panic(fmt.Sprintf("uniform: driver returned invalid location %d for %q in %q", loc, name, b.name))
	}
	if loc == -1 && !query {
		b.log.Warn("shader does not have uniform",
			slog.String("program", b.name),
			slog.String("uniform", name),
		)
	}
	b.locs[name] = loc
	return loc
}

// resolve returns the location of name and whether updates to it must be issued.
func (b *Binder) resolve(name string) (int32, bool) {
	loc := b.uniformIndex(name, false)
	return loc, loc >= 0
}

func (b *Binder) usable() bool {
	if !b.released {
		return true
	}
	if debug {
		panic("uniform: binder for " + b.name + " used after release")
	}
	return false
}

// postUniformCheck reports driver errors raised by the last update of name.
// It only runs in CurrentlyBound mode with the check enabled and never alters driver state.
func (b *Binder) postUniformCheck(name string, loc int32) {
	if !b.check || b.mode != CurrentlyBound {
		return
	}
	b.debugErrors(name, loc)
}

func (b *Binder) debugErrors(name string, loc int32) {
	code := b.d.GetError()
	if code == NoError {
		return
	}
	attrs := []any{
		slog.String("program", b.name),
		slog.String("uniform", name),
		slog.String("error", ErrorString(code)),
	}
	if code == InvalidOperation && loc >= 0 {
		current := b.d.CurrentProgram()
		detail := fmt.Sprintf("no current program object (%d), or uniform type mismatch %s", current, b.checkUniform(current, name, loc))
		attrs = append(attrs, slog.String("detail", detail))
	}
	b.log.Error("uniform driver error", attrs...)
}

func (b *Binder) checkUniform(current uint32, name string, loc int32) string {
	if current == 0 {
		return "no program"
	}
	retrieved, size, xtype := b.d.ActiveUniform(current, uint32(loc))
	return fmt.Sprintf("(%s/%s): %d / %s", name, retrieved, size, TypeLiteral(xtype))
}
