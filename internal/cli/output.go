package cli

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// nopCloser makes a plain writer usable as an io.WriteCloser.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput creates path, or wraps w when path is empty.
func openOutput(w io.Writer, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{w}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// basePath derives the output path without extension. A known format
// extension on output is stripped; with no output, the input's extension is.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "out"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) || ext == ".tex" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// fileExt maps a format to its file extension.
func fileExt(format string) string {
	if format == pipeline.FormatTikZ {
		return "tex"
	}
	return format
}
