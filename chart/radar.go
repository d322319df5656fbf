// Package chart builds and draws the radar chart of a scaled input vector.
package chart

import (
	"fmt"

	"cytodiag/dataset"
	"cytodiag/i18n"
)

// Range of every radial axis.
const (
	AxisMin = 0.0
	AxisMax = 1.0
)

// Trace is one closed polygon: the first point is repeated at the end.
type Trace struct {
	Group string    `json:"group"`
	Name  string    `json:"name"`
	Theta []string  `json:"theta"`
	R     []float64 `json:"r"`
}

// Radar is the chart data: one trace per aggregation group over the base
// property axes.
type Radar struct {
	Axes   []string   `json:"axes"`
	Range  [2]float64 `json:"range"`
	Traces []Trace    `json:"traces"`
}

// Values looks up a scaled value by field key.
type Values interface {
	Get(key string) (float64, bool)
}

// Build lays out the scaled values as mean, se and worst traces.
func Build(scaled Values, locale string) (Radar, error) {
	texts := i18n.Lookup(locale)
	bases := dataset.Bases()

	axes := make([]string, len(bases))
	for i, b := range bases {
		axes[i] = texts.Bases[b]
	}

	radar := Radar{Axes: axes, Range: [2]float64{AxisMin, AxisMax}}
	for _, g := range dataset.Groups() {
		r := make([]float64, 0, len(bases)+1)
		for _, b := range bases {
			key := fmt.Sprintf("%s_%s", b, g)
			v, ok := scaled.Get(key)
			if !ok {
				return Radar{}, fmt.Errorf("scaled vector has no %s", key)
			}
			r = append(r, v)
		}
		r = append(r, r[0])
		theta := append(append([]string(nil), axes...), axes[0])

		radar.Traces = append(radar.Traces, Trace{
			Group: string(g),
			Name:  texts.Traces[string(g)],
			Theta: theta,
			R:     r,
		})
	}
	return radar, nil
}
