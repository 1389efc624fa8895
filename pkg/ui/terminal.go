package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/conflicts"
	"github.com/fossmodmanager/fmm/pkg/engine"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/fossmodmanager/fmm/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// terminalRenderer draws pterm tables coloured with the lipgloss styles
type terminalRenderer struct {
	out io.Writer
}

func (r *terminalRenderer) RenderMods(mods []types.ModInfo) error {
	if len(mods) == 0 {
		return r.line(styles.Render("Muted", "No mods installed."))
	}

	data := pterm.TableData{{"NAME", "ID", "TYPE", "VERSION", "STATE"}}
	for _, m := range mods {
		data = append(data, []string{
			styles.Render("ModName", m.Name),
			m.DirectoryName,
			styles.Render("ModType", string(m.ModType)),
			types.StringValue(m.Version),
			stateCell(m.Enabled),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	return r.line(table)
}

func (r *terminalRenderer) RenderEntry(entry engine.Entry) error {
	info := entry.Info()
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styles.Render("Header", info.Name), stateCell(info.Enabled))

	rows := pterm.TableData{
		{"id", info.DirectoryName},
		{"type", string(info.ModType)},
	}
	if v := types.StringValue(info.Version); v != "" {
		rows = append(rows, []string{"version", v})
	}
	if a := types.StringValue(info.Author); a != "" {
		rows = append(rows, []string{"author", a})
	}
	if d := types.StringValue(info.Description); d != "" {
		rows = append(rows, []string{"description", d})
	}

	if entry.Mod != nil {
		rows = append(rows, []string{"directory", styles.Render("FilePath", entry.Mod.InstalledDirectory)})
	}
	if s := entry.Skin; s != nil {
		rows = append(rows, []string{"payload", styles.Render("FilePath", s.Path)})
		if len(s.Conflicts) > 0 {
			rows = append(rows, []string{"took over", strings.Join(s.Conflicts, ", ")})
		}
		if len(s.ReservedPakPaths) > 0 {
			rows = append(rows, []string{"reserved", strings.Join(s.ReservedPakPaths, ", ")})
		}
	}
	table, err := pterm.DefaultTable.WithData(rows).Srender()
	if err != nil {
		return err
	}
	b.WriteString(table)

	if s := entry.Skin; s != nil && len(s.Files) > 0 {
		files := pterm.TableData{{"FILE", "KIND", "STATE"}}
		for _, f := range s.Files {
			files = append(files, []string{
				styles.Render("FilePath", f.RelativePath),
				string(f.FileType),
				stateCell(f.Enabled),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(files).Srender()
		if err != nil {
			return err
		}
		b.WriteString("\n\n")
		b.WriteString(table)
	}
	return r.line(b.String())
}

func (r *terminalRenderer) RenderReport(report *engine.Report) error {
	if len(report.Changed) == 0 && len(report.Discovered) == 0 && len(report.Warnings) == 0 {
		return r.line(styles.Render("Success", "Registry matches the game directory."))
	}
	var b strings.Builder
	for _, id := range report.Changed {
		fmt.Fprintf(&b, "%s %s\n", styles.Render("Info", "corrected"), id)
	}
	for _, id := range report.Discovered {
		fmt.Fprintf(&b, "%s %s\n", styles.Render("Success", "discovered"), id)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "%s %s\n", styles.Render("Warning", "warning"), w.String())
	}
	return r.write(b.String())
}

func (r *terminalRenderer) RenderConflicts(id string, found []conflicts.Conflict) error {
	if len(found) == 0 {
		return r.line(styles.Render("Success", fmt.Sprintf("Enabling %s takes over no files.", id)))
	}
	data := pterm.TableData{{"FILE", "CURRENT OWNER"}}
	for _, c := range found {
		data = append(data, []string{styles.Render("FilePath", c.Path), c.Owner})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	header := styles.Render("Warning", fmt.Sprintf("Enabling %s disables %d file(s):", id, len(found)))
	return r.line(header + "\n" + table)
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	return r.line(styles.Render("Success", msg))
}

func (r *terminalRenderer) line(s string) error {
	return r.write(s + "\n")
}

func (r *terminalRenderer) write(s string) error {
	_, err := io.WriteString(r.out, s)
	return err
}

func stateCell(enabled bool) string {
	if enabled {
		return styles.Render("Enabled", enabledWord(true))
	}
	return styles.Render("Disabled", enabledWord(false))
}
