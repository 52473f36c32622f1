// Package view implements the view controller shared by the scatterplot and
// the parallel-coordinates plot.
//
// A [View] owns its scales, its scene and its brush. It subscribes to the
// selection store when created; on every store change it drops its own brush
// widget unless it made the commit, then restyles its marks. It never writes
// to the store itself: only its brush does.
//
// Inputs arrive as method calls: [View.SetDataset] after a load,
// [View.SetConfig] when the axis picker changes, [View.Resize] when the host
// container changes, and pointer events. Each of the first three rebuilds the
// scales before reconciling, so a scene never sees placements from an older
// dataset.
//
// [View.Frame] returns an immutable snapshot for sinks to draw.
package view
