package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/dlvis/pkg/errors"
)

// converter is the librsvg command line tool.
var converter = "rsvg-convert"

// Available reports whether the SVG converter is on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts an SVG document to PDF with rsvg-convert.
// Without librsvg installed it fails with [errors.ErrCodeUnsupported].
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf export requires librsvg (brew install librsvg, apt install librsvg2-bin)")
	}

	cmd := exec.CommandContext(ctx, converter, "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
