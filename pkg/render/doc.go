// Package render converts rendered views between output formats.
//
// # Overview
//
// Views are drawn as SVG by the [sink] subpackage. This package turns that
// SVG into raster or print formats:
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// Conversion shells out to rsvg-convert from librsvg. [Available] reports
// whether it is on the PATH:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// Related subpackages:
//   - [sink]: SVG and JSON output for a view frame
//   - [styles]: visual styles used by the SVG sink
//   - [topology]: Graphviz diagram of how views, store and dimensions connect
//
// [sink]: github.com/matzehuels/brushlink/pkg/render/sink
// [styles]: github.com/matzehuels/brushlink/pkg/render/styles
// [topology]: github.com/matzehuels/brushlink/pkg/render/topology
package render
