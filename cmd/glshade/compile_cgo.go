//go:build !tinygo && cgo

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/gldriver"
	"github.com/soypat/glshade/shadestyle"
	"github.com/soypat/glshade/uniform"
)

func compile(logger *slog.Logger, gen *glbuild.Generator, kind glshade.PrimitiveKind, style *shadestyle.ShadeStyle, vertex, instance []shadestyle.VertexFormat) error {
	if gen.Dialect() != glshade.DialectDesktop {
		return errors.New("-compile requires the gl dialect")
	}
	runtime.LockOSThread() // GLFW and the GL context are bound to the main thread.
	defer runtime.UnlockOSThread()
	terminate, err := startGLFW()
	if err != nil {
		return err
	}
	defer terminate()
	dev, err := gldriver.NewGL41()
	if err != nil {
		return err
	}
	major, minor := dev.Version()
	logger.Info("GL context", slog.String("version", fmt.Sprintf("%d.%d", major, minor)), slog.Bool("programUniform", dev.ProgramUniformSupported()))
	mgr := shadestyle.NewManager(gen, dev, dev, shadestyle.Config{
		Logger:           logger,
		PostUniformCheck: uniform.CheckEnabled,
	})
	defer mgr.Release()
	prog, err := mgr.Shader(kind, style, vertex, instance)
	if err != nil {
		return err
	}
	if err := prog.Apply(style); err != nil {
		return err
	}
	logger.Info("program linked", slog.String("kind", kind.String()), slog.Uint64("id", uint64(prog.ID)), slog.String("mode", mgr.Mode().String()))
	return nil
}

// startGLFW creates a hidden 1x1 window with a current OpenGL 4.1 core context.
func startGLFW() (term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(1, 1, "glshade", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	return glfw.Terminate, nil
}
