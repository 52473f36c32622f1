package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// ConverterBinary is the external SVG converter.
const ConverterBinary = "rsvg-convert"

// ConvertTimeout bounds a single conversion.
var ConvertTimeout = 30 * time.Second

// ErrConverterMissing is returned when rsvg-convert is not installed.
var ErrConverterMissing = errors.New("rsvg-convert not found (install librsvg)")

// Available reports whether rsvg-convert can be found.
func Available() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

// ToPDF converts SVG to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "-f", "pdf")
}

// ToPNG converts SVG to PNG. scale multiplies the SVG's size; values <= 0
// mean 1.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	z := strconv.FormatFloat(scale, 'f', -1, 64)
	return convert(svg, "-f", "png", "-z", z)
}

func convert(svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(ConverterBinary)
	if err != nil {
		return nil, ErrConverterMissing
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConvertTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", ConverterBinary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", ConverterBinary, err)
	}
	return stdout.Bytes(), nil
}
