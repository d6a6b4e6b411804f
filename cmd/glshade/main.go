// Command glshade prints the GLSL sources generated for a drawer primitive,
// optionally customized by a YAML or TOML shade style file. With -compile it
// links the program on a hidden OpenGL 4.1 context and reports uniform diagnostics.
//
//	glshade -kind circle -dialect webgl -style glow.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/shadestyle"
)

type options struct {
	kind    string
	stage   string
	dialect string
	glsl    int
	style   string
	compile bool
}

func main() {
	var opts options
	var verbose bool
	flag.StringVar(&opts.kind, "kind", "circle", "primitive kind, i.e. vertexBuffer, image, circle, rectangle, filter")
	flag.StringVar(&opts.stage, "stage", "both", "shader stage to print: vertex, fragment or both")
	flag.StringVar(&opts.dialect, "dialect", "gl", "GLSL dialect: gl or webgl")
	flag.IntVar(&opts.glsl, "glsl", 0, "desktop GLSL version, 330 if zero")
	flag.StringVar(&opts.style, "style", "", "YAML or TOML shade style file")
	flag.BoolVar(&opts.compile, "compile", false, "compile and link the program on a hidden OpenGL 4.1 context")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(logger, os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, "glshade:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, w io.Writer, opts options) error {
	kind, err := glshade.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	dialect, err := glshade.ParseDialect(opts.dialect)
	if err != nil {
		return err
	}
	gen := glbuild.NewGenerator(dialect)
	if opts.glsl != 0 {
		if dialect != glshade.DialectDesktop {
			return errors.New("-glsl only applies to the gl dialect")
		} else if opts.glsl < glbuild.MinDesktopVersion {
			return fmt.Errorf("-glsl %d is below the minimum version %d", opts.glsl, glbuild.MinDesktopVersion)
		}
		gen.SetGLSLVersion(opts.glsl)
	}
	style := shadestyle.New()
	if opts.style != "" {
		style, err = shadestyle.LoadStyleFile(opts.style)
		if err != nil {
			return err
		}
		logger.Debug("loaded style", slog.String("file", opts.style), slog.Int("parameters", len(style.Parameters)))
	}
	vertex, instance := shadestyle.StandardFormats(kind)
	if opts.compile {
		return compile(logger, gen, kind, style, vertex, instance)
	}
	s, err := shadestyle.Structure(style, vertex, instance)
	if err != nil {
		return err
	}
	switch opts.stage {
	case "both":
		_, err = gen.WriteProgram(w, w, kind, s)
	case "vertex":
		var src string
		src, err = gen.Vertex(kind, s)
		if err == nil {
			_, err = io.WriteString(w, src)
		}
	case "fragment":
		var src string
		src, err = gen.Fragment(kind, s)
		if err == nil {
			_, err = io.WriteString(w, src)
		}
	default:
		err = fmt.Errorf("invalid stage %q, want vertex, fragment or both", opts.stage)
	}
	return err
}
