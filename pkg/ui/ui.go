// Package ui renders command results for people and for other programs.
// It supports terminal (tables and colours), plain text, JSON and YAML.
package ui

import (
	"io"
	"os"

	"github.com/fossmodmanager/fmm/pkg/conflicts"
	"github.com/fossmodmanager/fmm/pkg/engine"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderMods renders the mod list, directory mods first
	RenderMods(mods []types.ModInfo) error

	// RenderEntry renders everything the registry records about one mod
	RenderEntry(entry engine.Entry) error

	// RenderReport renders the outcome of a reconciliation pass
	RenderReport(report *engine.Report) error

	// RenderConflicts renders the files enabling id would take over
	RenderConflicts(id string, found []conflicts.Conflict) error

	// RenderMessage renders a one-line result
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format writing to output. FormatAuto
// inspects output when it is a file and picks terminal output otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatTerminal, output)
	case FormatTerminal:
		return &terminalRenderer{out: output}, nil
	case FormatText:
		return &textRenderer{out: output}, nil
	case FormatJSON, FormatYAML:
		return &structuredRenderer{out: output, format: format}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
