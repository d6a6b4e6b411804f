//go:build tinygo || !cgo

package main

import (
	"fmt"
	"log/slog"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/gldriver"
	"github.com/soypat/glshade/shadestyle"
)

func compile(_ *slog.Logger, _ *glbuild.Generator, _ glshade.PrimitiveKind, _ *shadestyle.ShadeStyle, _, _ []shadestyle.VertexFormat) error {
	_, err := gldriver.Desktop()
	return fmt.Errorf("-compile: %w", err)
}
