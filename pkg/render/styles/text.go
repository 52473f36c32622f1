package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	fontCharWidth = 0.55
	minLabelChars = 3
)

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens label to fit width at fontSize.
func TruncateLabel(label string, width, fontSize float64) string {
	maxChars := max(minLabelChars, int(width/(fontSize*fontCharWidth)))
	if len(label) <= maxChars {
		return label
	}
	return label[:maxChars-2] + ".."
}

// PathData formats points as an SVG path "d" attribute.
func PathData(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&b, "M%.2f,%.2f", p.X, p.Y)
			continue
		}
		fmt.Fprintf(&b, "L%.2f,%.2f", p.X, p.Y)
	}
	return b.String()
}
