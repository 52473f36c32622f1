// Package sink turns a [view.Frame] into an output format.
//
// # Formats
//
//   - SVG: [RenderSVG], drawn with a [styles.Style]
//   - JSON: [RenderJSON], the frame as data for browser hosts
//   - PDF and PNG: [RenderPDF] and [RenderPNG], converted from SVG by
//     [render.ToPDF] and [render.ToPNG] (requires rsvg-convert)
//
// Basic usage:
//
//	svg := sink.RenderSVG(v.Frame(),
//	    sink.WithStyle(styles.Dark()),
//	    sink.WithTransitions(0.5),
//	)
//
// Highlighted marks are drawn after the others so they stay on top. With
// [WithTransitions], marks that entered or moved in the last reconciliation
// animate from their previous geometry.
//
// [view.Frame]: github.com/matzehuels/brushlink/pkg/view.Frame
// [styles.Style]: github.com/matzehuels/brushlink/pkg/render/styles.Style
// [render.ToPDF]: github.com/matzehuels/brushlink/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/brushlink/pkg/render.ToPNG
package sink
