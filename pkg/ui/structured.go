package ui

import (
	"encoding/json"
	"io"

	"github.com/fossmodmanager/fmm/pkg/conflicts"
	"github.com/fossmodmanager/fmm/pkg/engine"
	"github.com/fossmodmanager/fmm/pkg/types"
	"gopkg.in/yaml.v3"
)

// structuredRenderer encodes results as JSON or YAML documents
type structuredRenderer struct {
	out    io.Writer
	format Format
}

// conflictReport is the document written for a conflict preview
type conflictReport struct {
	Mod       string               `json:"mod" yaml:"mod"`
	Conflicts []conflicts.Conflict `json:"conflicts" yaml:"conflicts"`
}

// messageDoc is the document written for a one-line result
type messageDoc struct {
	Message string `json:"message" yaml:"message"`
}

func (r *structuredRenderer) RenderMods(mods []types.ModInfo) error {
	if mods == nil {
		mods = []types.ModInfo{}
	}
	return r.encode(mods)
}

func (r *structuredRenderer) RenderEntry(entry engine.Entry) error {
	return r.encode(entry)
}

func (r *structuredRenderer) RenderReport(report *engine.Report) error {
	return r.encode(report)
}

func (r *structuredRenderer) RenderConflicts(id string, found []conflicts.Conflict) error {
	if found == nil {
		found = []conflicts.Conflict{}
	}
	return r.encode(conflictReport{Mod: id, Conflicts: found})
}

func (r *structuredRenderer) RenderMessage(msg string) error {
	return r.encode(messageDoc{Message: msg})
}

func (r *structuredRenderer) encode(v interface{}) error {
	if r.format == FormatYAML {
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
