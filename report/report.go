package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/arloliu/starbin/catalogue"
	"github.com/arloliu/starbin/track"
)

// Report is an ordered set of histograms describing one build.
type Report struct {
	Title      string
	Histograms []*Histogram
}

// Catalogue histograms, in the order ForCatalogue creates them.
const (
	CatalogueLuminosity = iota
	CatalogueTemperature
	CatalogueX
	CatalogueY
	CatalogueZ
)

// ForCatalogue creates the star catalogue report.
func ForCatalogue() *Report {
	return &Report{
		Title: "Star catalogue",
		Histograms: []*Histogram{
			NewHistogram("Luminosity", "Lsol", 0, 40, 256),
			NewHistogram("Temperature", "K", 2000, 20000, 256),
			NewHistogram("X", "pc", -5000, 5000, 100),
			NewHistogram("Y", "pc", -5000, 5000, 100),
			NewHistogram("Z", "pc", -5000, 5000, 100),
		},
	}
}

// ObserveStar records one catalogue entry into a ForCatalogue report.
func (r *Report) ObserveStar(e catalogue.Entry) {
	r.Histograms[CatalogueLuminosity].Insert(float64(e.Luminosity))
	r.Histograms[CatalogueTemperature].Insert(float64(e.Temperature))
	r.Histograms[CatalogueX].Insert(float64(e.X))
	r.Histograms[CatalogueY].Insert(float64(e.Y))
	r.Histograms[CatalogueZ].Insert(float64(e.Z))
}

// Track histograms, in the order ForTracks creates them.
const (
	TrackLength = iota
	TrackTemperature
	TrackPhase
)

// ForTracks creates the report shared by track grids and isochrones.
func ForTracks(title string) *Report {
	return &Report{
		Title: title,
		Histograms: []*Histogram{
			NewHistogram("Entries per track", "entries", 0, 2000, 40),
			NewHistogram("Temperature", "K", 2000, 50000, 96),
			NewHistogram("Phase", "code", -1, 10, 11),
		},
	}
}

// ObserveTrack records one track or isochrone into a ForTracks report.
func (r *Report) ObserveTrack(entries []track.Entry) {
	r.Histograms[TrackLength].Insert(float64(len(entries)))
	for _, e := range entries {
		r.Histograms[TrackTemperature].Insert(float64(e.Temperature))
		r.Histograms[TrackPhase].Insert(float64(e.Phase))
	}
}

// Render writes the summary table followed by every histogram.
func (r *Report) Render(w io.Writer) error {
	t := table.NewWriter()
	t.SetTitle(r.Title)
	t.AppendHeader(table.Row{"Quantity", "N", "Min", "Max", "Mean", "Median", "StdDev", "P95", "Outliers"})
	for _, h := range r.Histograms {
		s, err := h.Summary()
		if err != nil {
			return fmt.Errorf("%s: %w", h.Title, err)
		}
		low, high := h.Outliers()
		t.AppendRow(table.Row{
			h.Title, s.N,
			num(s.Min), num(s.Max), num(s.Mean), num(s.Median), num(s.StdDev), num(s.P95),
			low + high,
		})
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	for _, h := range r.Histograms {
		if _, err := fmt.Fprintf(w, "\n%s\n", h.Render()); err != nil {
			return err
		}
	}

	return nil
}

func num(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
