package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
)

// Converter is the external SVG converter used for PDF and PNG output.
const Converter = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG. A scale of 2 doubles the pixel
// size; scale <= 0 means 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// Available reports whether [Converter] is on PATH.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if !Available() {
		return nil, apperr.New(apperr.ErrCodeUnsupported,
			"%s export needs %s (brew install librsvg, or apt install librsvg2-bin)", format, Converter)
	}

	cmd := exec.CommandContext(ctx, Converter, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", Converter, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
