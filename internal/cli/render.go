package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      layoutFlags
		formatsStr string
		output     string
		opts       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [description.toml]",
		Short: "Render a network description",
		Long: `Render a network description.

Formats: svg (default), tikz, png, pdf, dot, json. With a single format, -o
names the output file; with several, -o is a base path and each format gets
its own extension. Without -o, outputs are written next to the input.

PDF output requires librsvg (rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo := flags.options()
			opts.Width, opts.Height, opts.Pins, opts.Refresh = lo.Width, lo.Height, lo.Pins, lo.Refresh
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], output, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), tikz, png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "pixels per layout unit (png)")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw node ids (svg, pdf)")
	cmd.Flags().BoolVar(&opts.Alignments, "alignments", false, "draw spatial relations (dot)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, input, output string, noCache bool, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	data, err := readDescription(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, data, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	printStats(w, result.Stats.NodeCount, result.Stats.LineCount, result.CacheInfo.LayoutHit)
	base := basePath(output, input)
	for _, format := range opts.Formats {
		path := base + "." + fileExt(format)
		if len(opts.Formats) == 1 && output != "" {
			path = output
		}
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(w, path)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(nil, path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
