package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/dlvis/pkg/errors"
)

const minimalSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPDFMissingConverter(t *testing.T) {
	defer func(c string) { converter = c }(converter)
	converter = "dlvis-no-such-converter"

	if Available() {
		t.Fatal("Available() = true for a missing tool")
	}
	_, err := ToPDF(context.Background(), []byte(minimalSVG))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF(context.Background(), []byte(minimalSVG))
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output does not start with a PDF header")
	}
}
