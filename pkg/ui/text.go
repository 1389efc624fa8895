package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fossmodmanager/fmm/pkg/conflicts"
	"github.com/fossmodmanager/fmm/pkg/engine"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// textRenderer writes tab-aligned plain text for pipes and NO_COLOR
type textRenderer struct {
	out io.Writer
}

func (r *textRenderer) RenderMods(mods []types.ModInfo) error {
	if len(mods) == 0 {
		_, err := fmt.Fprintln(r.out, "No mods installed.")
		return err
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tTYPE\tVERSION\tSTATE")
	for _, m := range mods {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.Name, m.DirectoryName, m.ModType, types.StringValue(m.Version), enabledWord(m.Enabled))
	}
	return tw.Flush()
}

func (r *textRenderer) RenderEntry(entry engine.Entry) error {
	info := entry.Info()
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", info.Name)
	fmt.Fprintf(tw, "id:\t%s\n", info.DirectoryName)
	fmt.Fprintf(tw, "type:\t%s\n", info.ModType)
	fmt.Fprintf(tw, "state:\t%s\n", enabledWord(info.Enabled))
	if v := types.StringValue(info.Version); v != "" {
		fmt.Fprintf(tw, "version:\t%s\n", v)
	}
	if a := types.StringValue(info.Author); a != "" {
		fmt.Fprintf(tw, "author:\t%s\n", a)
	}
	if entry.Mod != nil {
		fmt.Fprintf(tw, "directory:\t%s\n", entry.Mod.InstalledDirectory)
	}
	if s := entry.Skin; s != nil {
		fmt.Fprintf(tw, "payload:\t%s\n", s.Path)
		if len(s.Conflicts) > 0 {
			fmt.Fprintf(tw, "took over:\t%s\n", strings.Join(s.Conflicts, ", "))
		}
		for _, f := range s.Files {
			fmt.Fprintf(tw, "file:\t%s\t%s\t%s\n", f.RelativePath, f.FileType, enabledWord(f.Enabled))
		}
	}
	return tw.Flush()
}

func (r *textRenderer) RenderReport(report *engine.Report) error {
	var b strings.Builder
	for _, id := range report.Changed {
		fmt.Fprintf(&b, "corrected %s\n", id)
	}
	for _, id := range report.Discovered {
		fmt.Fprintf(&b, "discovered %s\n", id)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "warning %s\n", w.String())
	}
	if b.Len() == 0 {
		b.WriteString("Registry matches the game directory.\n")
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *textRenderer) RenderConflicts(id string, found []conflicts.Conflict) error {
	if len(found) == 0 {
		_, err := fmt.Fprintf(r.out, "Enabling %s takes over no files.\n", id)
		return err
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCURRENT OWNER")
	for _, c := range found {
		fmt.Fprintf(tw, "%s\t%s\n", c.Path, c.Owner)
	}
	return tw.Flush()
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}
