package pipeline

import (
	"fmt"

	"github.com/matzehuels/brushlink/pkg/render/sink"
	"github.com/matzehuels/brushlink/pkg/render/styles"
	"github.com/matzehuels/brushlink/pkg/view"
)

// RenderFrame writes one frame in format. opts must have been validated.
func RenderFrame(f view.Frame, format string, opts *Options) ([]byte, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithTransitions(opts.Config.Style.Transitions),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(f, svgOpts...), nil
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONStyle(style.Name())}
		if opts.Indent {
			jsonOpts = append(jsonOpts, sink.WithJSONIndent())
		}
		return sink.RenderJSON(f, jsonOpts...)
	case FormatPNG:
		return sink.RenderPNG(f, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(f, sink.WithPDFSVGOptions(svgOpts...))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
