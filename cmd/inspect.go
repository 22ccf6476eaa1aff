package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/starbin/internal/build"
	"github.com/arloliu/starbin/internal/hash"
	"github.com/arloliu/starbin/track"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a starbin artifact and summarize its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringP("format", "f", "auto", "artifact format: catalogue, tracks, isochrones or auto")
	inspectCmd.Flags().IntP("limit", "n", 10, "number of stars, cells or groups to list (0 lists none)")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := build.ParseFormat(name)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	withReport, _ := cmd.Flags().GetBool("report")
	reportFile, _ := cmd.Flags().GetString("report-file")

	in, err := build.Inspect(args[0], format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := renderInspection(out, in, limit); err != nil {
		return err
	}
	if withReport || reportFile != "" {
		return writeReport(out, reportFile, in.Report())
	}

	return nil
}

func renderInspection(w io.Writer, in *build.Inspection, limit int) error {
	t := table.NewWriter()
	t.SetTitle("Artifact")
	t.AppendRows([]table.Row{
		{"Path", in.Path},
		{"Format", string(in.Format)},
		{"Size", fmt.Sprintf("%d bytes", in.Size)},
		{"xxhash64", hash.Format(in.Digest)},
		{"Entries", in.Entries},
	})
	if in.Grid != nil {
		t.AppendRow(table.Row{"Grid", fmt.Sprintf("%d metallicities x %d masses", len(in.Grid.Metallicities), len(in.Grid.Masses))})
	}
	if in.Isochrones != nil {
		t.AppendRow(table.Row{"Groups", len(in.Isochrones)})
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	if limit <= 0 {
		return nil
	}

	var detail table.Writer
	switch in.Format {
	case build.FormatCatalogue:
		detail = starTable(in, limit)
	case build.FormatTracks:
		detail = cellTable(in.Grid, limit)
	case build.FormatIsochrones:
		detail = groupTable(in.Isochrones, limit)
	default:
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s\n", detail.Render())

	return err
}

func starTable(in *build.Inspection, limit int) table.Writer {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("First %d of %d stars", min(limit, len(in.Stars)), len(in.Stars)))
	t.AppendHeader(table.Row{"Name", "Class", "X (pc)", "Y (pc)", "Z (pc)", "L (Lsun)", "Teff (K)"})
	for _, e := range in.Stars[:min(limit, len(in.Stars))] {
		t.AppendRow(table.Row{e.Name, e.SpectralClass, e.X, e.Y, e.Z, e.Luminosity, e.Temperature})
	}

	return t
}

func cellTable(g *track.DecodedGrid, limit int) table.Writer {
	t := table.NewWriter()
	t.SetTitle("Cells")
	t.AppendHeader(table.Row{"[Fe/H]", "Mass (Msun)", "Pointer", "Entries"})
	shown := 0
	for i, feh := range g.Metallicities {
		for j, mass := range g.Masses {
			if shown == limit {
				t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d more", g.Cells()-shown)})
				return t
			}
			k := i*len(g.Masses) + j
			t.AppendRow(table.Row{feh, mass, fmt.Sprintf("0x%08x", g.Pointers[k]), len(g.Track(i, j))})
			shown++
		}
	}

	return t
}

func groupTable(groups []track.Isochrone, limit int) table.Writer {
	t := table.NewWriter()
	t.SetTitle("Groups")
	t.AppendHeader(table.Row{"log10(age/yr)", "Entries", "Mass range (Msun)"})
	for _, g := range groups[:min(limit, len(groups))] {
		span := ""
		if n := len(g.Entries); n > 0 {
			span = fmt.Sprintf("%.4g .. %.4g", g.Entries[0].Mass, g.Entries[n-1].Mass)
		}
		t.AppendRow(table.Row{g.Key, len(g.Entries), span})
	}
	if len(groups) > limit {
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d more", len(groups)-limit), ""})
	}

	return t
}
