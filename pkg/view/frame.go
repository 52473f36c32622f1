package view

import (
	"github.com/matzehuels/brushlink/pkg/brush"
	"github.com/matzehuels/brushlink/pkg/encoding"
	"github.com/matzehuels/brushlink/pkg/reconcile"
	"github.com/matzehuels/brushlink/pkg/scale"
)

// Orientation of an axis line.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// AxisFrame describes one axis to draw.
type AxisFrame struct {
	Dim         string
	Orientation Orientation
	// Offset is the y of a horizontal axis or the x of a vertical one.
	Offset   float64
	From, To float64
	Inverted bool
	Ticks    []scale.Tick
	// Brush is the interval drawn on a parallel-coordinates axis.
	Brush *brush.Interval
}

// Frame is an immutable snapshot of a view.
type Frame struct {
	View     string
	Kind     Kind
	Geometry Geometry
	Config   AxisConfig
	Revision uint64
	Preview  bool

	Elements []reconcile.Element
	Exited   []reconcile.Element

	Axes        []AxisFrame
	LegendTitle string
	Legend      []encoding.LegendEntry

	// Rect is the scatterplot brush, nil when idle.
	Rect       *brush.Rect
	BrushState brush.State

	Selected int
	Total    int
}

// Frame snapshots the view.
func (v *View) Frame() Frame {
	f := Frame{
		View:       v.name,
		Kind:       v.kind,
		Geometry:   v.geom,
		Config:     v.cfg,
		Revision:   v.scene.Revision(),
		Preview:    v.scene.IsPreview(),
		Elements:   v.scene.Elements(),
		Exited:     v.scene.Exited(),
		BrushState: v.BrushState(),
		Total:      v.ds.Len(),
	}
	for _, e := range f.Elements {
		if e.Highlighted {
			f.Selected++
		}
	}
	if v.color != nil {
		f.LegendTitle = v.color.Dimension().Name
		f.Legend = v.color.Legend()
	}

	if v.kind == ParallelCoordinates {
		ivs := v.axis.Intervals()
		for i, s := range v.axes {
			rng := s.Range()
			af := AxisFrame{
				Dim:         s.Dimension().Name,
				Orientation: Vertical,
				Offset:      v.axisX[i],
				From:        rng.Lo,
				To:          rng.Hi,
				Inverted:    s.Inverted(),
				Ticks:       s.Ticks(),
			}
			if iv, ok := ivs[af.Dim]; ok {
				af.Brush = &iv
			}
			f.Axes = append(f.Axes, af)
		}
		return f
	}

	if v.x != nil {
		rng := v.x.Range()
		f.Axes = append(f.Axes, AxisFrame{
			Dim: v.cfg.X.Dim, Orientation: Horizontal, Offset: v.geom.Bottom(),
			From: rng.Lo, To: rng.Hi, Inverted: v.x.Inverted(), Ticks: v.x.Ticks(),
		})
	}
	if v.y != nil {
		rng := v.y.Range()
		f.Axes = append(f.Axes, AxisFrame{
			Dim: v.cfg.Y.Dim, Orientation: Vertical, Offset: v.geom.Left(),
			From: rng.Lo, To: rng.Hi, Inverted: v.y.Inverted(), Ticks: v.y.Ticks(),
		})
	}
	if r, ok := v.rect.Rect(); ok {
		f.Rect = &r
	}
	return f
}
