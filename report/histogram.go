// Package report summarizes the quantities written by a build: descriptive statistics
// and fixed-range histograms with outlier counts, rendered as text tables.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/montanaflynn/stats"
)

// maxOutlierSamples bounds the outlier values kept for display per side.
const maxOutlierSamples = 10

// BarWidth is the width of a full histogram bar in cells.
const BarWidth = 40

var barEighths = []rune(" ▏▎▍▌▋▊▉")

// Histogram counts values into equal-width bins over [Min, Max). Values outside the range
// are counted as low or high outliers.
type Histogram struct {
	Title string
	Unit  string
	Min   float64
	Max   float64

	bins   []int
	values stats.Float64Data
	low    []float64
	high   []float64
	nLow   int
	nHigh  int
}

// NewHistogram creates a histogram with n bins over [lo, hi).
func NewHistogram(title, unit string, lo, hi float64, n int) *Histogram {
	return &Histogram{Title: title, Unit: unit, Min: lo, Max: hi, bins: make([]int, max(n, 1))}
}

// Insert records v. NaN is counted as a high outlier.
func (h *Histogram) Insert(v float64) {
	h.values = append(h.values, v)

	t := (v - h.Min) / (h.Max - h.Min)
	switch {
	case t < 0:
		h.nLow++
		if len(h.low) < maxOutlierSamples {
			h.low = append(h.low, v)
		}
	case t >= 1 || math.IsNaN(t):
		h.nHigh++
		if len(h.high) < maxOutlierSamples {
			h.high = append(h.high, v)
		}
	default:
		h.bins[min(int(float64(len(h.bins))*t), len(h.bins)-1)]++
	}
}

// Total returns the number of inserted values.
func (h *Histogram) Total() int {
	return len(h.values)
}

// Bins returns the per-bin counts.
func (h *Histogram) Bins() []int {
	return h.bins
}

// Outliers returns the low and high outlier counts.
func (h *Histogram) Outliers() (low, high int) {
	return h.nLow, h.nHigh
}

// OutlierSamples returns up to ten low and ten high outlier values, in insertion order.
func (h *Histogram) OutlierSamples() (low, high []float64) {
	return h.low, h.high
}

// BinStart returns the lower bound of bin i.
func (h *Histogram) BinStart(i int) float64 {
	return h.Min + (h.Max-h.Min)*float64(i)/float64(len(h.bins))
}

// Summary is a descriptive statistics row.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
	P95    float64
}

// Summary computes descriptive statistics over every inserted value, outliers included.
// An empty histogram yields a zero Summary.
func (h *Histogram) Summary() (Summary, error) {
	if len(h.values) == 0 {
		return Summary{}, nil
	}

	s := Summary{N: len(h.values)}
	var err error
	if s.Min, err = h.values.Min(); err != nil {
		return Summary{}, err
	}
	if s.Max, err = h.values.Max(); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = h.values.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = h.values.Median(); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = h.values.StandardDeviation(); err != nil {
		return Summary{}, err
	}
	if s.P95, err = h.values.Percentile(95); err != nil {
		return Summary{}, err
	}

	return s, nil
}

// Render draws the histogram as a table of bins with proportional bars.
func (h *Histogram) Render() string {
	peak := 0
	for _, c := range h.bins {
		peak = max(peak, c)
	}

	t := table.NewWriter()
	t.SetTitle(h.Title)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"From (" + h.Unit + ")", "Count", ""})
	for i, c := range h.bins {
		t.AppendRow(table.Row{fmt.Sprintf("%.4g", h.BinStart(i)), c, bar(c, peak, BarWidth)})
	}

	low, high := h.Outliers()
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d values, %d bins", h.Total(), len(h.bins)),
		fmt.Sprintf("%d outliers", low+high),
		fmt.Sprintf("%d below %.4g, %d at or above %.4g", low, h.Min, high, h.Max),
	})

	return t.Render()
}

// bar draws count relative to peak in width cells, using eighth blocks for the remainder.
func bar(count, peak, width int) string {
	if peak == 0 || count <= 0 {
		return ""
	}

	eighths := count * width * 8 / peak
	full, rest := eighths/8, eighths%8

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	if rest > 0 {
		sb.WriteRune(barEighths[rest])
	}

	return sb.String()
}
