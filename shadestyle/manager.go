package shadestyle

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/uniform"
)

// Compiler compiles and links a vertex and fragment shader pair into a program.
// It is implemented by the devices of package gldriver.
type Compiler interface {
	CompileProgram(vertex, fragment string) (program uint32, err error)
	DeleteProgram(program uint32)
}

// Config holds the optional settings of a [Manager].
type Config struct {
	// Logger is handed to every binder. Nil discards logs.
	Logger *slog.Logger
	// PostUniformCheck is handed to every binder.
	PostUniformCheck uniform.Check
	// ForceCurrentlyBound disables the program scoped dispatch probe.
	ForceCurrentlyBound bool
}

// Program is a linked primitive shader together with its uniform binder.
type Program struct {
	Kind     glshade.PrimitiveKind
	ID       uint32
	Vertex   string
	Fragment string
	Binder   *uniform.Binder
}

// Apply sets every style parameter p_<name> through the program's binder.
// Parameters missing from the program are skipped by the binder after a warning.
func (p *Program) Apply(style *ShadeStyle) error {
	if style == nil {
		return nil
	}
	var errs []error
	for _, name := range sortedKeys(style.Parameters) {
		err := p.Binder.Set("p_"+name, uniformValue(style.Parameters[name]))
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Manager generates, compiles and caches primitive programs. Programs are
// deduplicated by the hash of their sources, so styles that project onto the
// same sources share a program and its binder. A Manager is not safe for
// concurrent use and must be used from the goroutine owning the GL context.
type Manager struct {
	gen      glshade.ShaderGenerator
	compiler Compiler
	driver   uniform.Driver
	cfg      Config
	log      *slog.Logger
	mode     uniform.DispatchMode
	// programs buckets programs by source hash. Colliding sources share a bucket.
	programs map[uint64][]*Program
	hash     func(kind glshade.PrimitiveKind, vs, fs string) uint64
	count    int
}

// NewManager returns a manager generating sources with gen, compiling them with compiler
// and binding uniforms through driver. The dispatch mode is probed once on driver.
func NewManager(gen glshade.ShaderGenerator, compiler Compiler, driver uniform.Driver, cfg Config) *Manager {
	log := cfg.Logger
	if log == nil {
		log = slog.New(discardHandler{})
	}
	mode := uniform.CurrentlyBound
	if !cfg.ForceCurrentlyBound {
		mode = uniform.ProbeMode(driver)
	}
	return &Manager{
		gen:      gen,
		compiler: compiler,
		driver:   driver,
		cfg:      cfg,
		log:      log,
		mode:     mode,
		programs: make(map[uint64][]*Program),
		hash:     sourceHash,
	}
}

func sourceHash(kind glshade.PrimitiveKind, vs, fs string) uint64 {
	return glbuild.Hash([]byte(fs), glbuild.Hash([]byte(vs), uint64(kind)))
}

// Mode returns the dispatch mode of the binders created by the manager.
func (m *Manager) Mode() uniform.DispatchMode { return m.mode }

// Len returns the number of cached programs.
func (m *Manager) Len() int { return m.count }

// Shader returns the program drawing kind with style for the given attribute formats,
// compiling it on first use. Generation errors, i.e. a [*glshade.UnsupportedPrimitiveError],
// and compilation errors are returned unchanged in meaning.
func (m *Manager) Shader(kind glshade.PrimitiveKind, style *ShadeStyle, vertex, instance []VertexFormat) (*Program, error) {
	s, err := Structure(style, vertex, instance)
	if err != nil {
		return nil, err
	}
	vs, err := m.gen.Vertex(kind, s)
	if err != nil {
		return nil, err
	}
	fs, err := m.gen.Fragment(kind, s)
	if err != nil {
		return nil, err
	}
	h := m.hash(kind, vs, fs)
	for _, p := range m.programs[h] {
		if p.Kind == kind && p.Vertex == vs && p.Fragment == fs {
			return p, nil
		}
	}
	id, err := m.compiler.CompileProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("compiling %s shader: %w", kind, err)
	}
	name := fmt.Sprintf("%s-%016x", kind, h)
	if n := len(m.programs[h]); n > 0 {
		name += fmt.Sprintf("-%d", n)
	}
	p := &Program{
		Kind:     kind,
		ID:       id,
		Vertex:   vs,
		Fragment: fs,
		Binder: uniform.NewBinder(m.driver, id, name, m.mode, uniform.Config{
			Logger:           m.log,
			PostUniformCheck: m.cfg.PostUniformCheck,
		}),
	}
	m.log.Debug("compiled shader", slog.String("program", name), slog.Uint64("id", uint64(id)), slog.String("mode", m.mode.String()))
	m.programs[h] = append(m.programs[h], p)
	m.count++
	return p, nil
}

// Release releases every binder and deletes every program of the manager.
func (m *Manager) Release() {
	for h, bucket := range m.programs {
		for _, p := range bucket {
			m.release(p)
		}
		delete(m.programs, h)
	}
	m.count = 0
}

func (m *Manager) release(p *Program) {
	p.Binder.Release()
	m.compiler.DeleteProgram(p.ID)
}
