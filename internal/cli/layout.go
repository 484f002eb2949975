package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/pkg/graph"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [description.toml...]",
		Short: "Solve the layout of a network description",
		Long: `Solve the layout of a network description.

The graph is discovered from its start node. Every reached node becomes a box
and every pass or skip flow is routed as lines. Prints a summary table, or the
full result with --json. Use "-" to read from stdin.

Several descriptions are solved concurrently; with --json they are printed as
one array in argument order.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return c.runLayoutBatch(cmd.Context(), cmd.OutOrStdout(), args, flags, asJSON, output)
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], flags, asJSON, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to file instead of stdout (implies --json)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, w io.Writer, input string, flags layoutFlags, asJSON bool, output string) error {
	logger := loggerFromContext(ctx)
	data, err := readDescription(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	g, err := runner.Parse(ctx, data)
	if err != nil {
		return err
	}
	res, hit, err := runner.Layout(ctx, g, flags.options())
	if err != nil {
		return err
	}
	prog.done("Solved layout")

	if asJSON || output != "" {
		return writeJSONOutput(w, output, res)
	}

	fmt.Fprintln(w, StyleTitle.Render("Layout of "+input))
	printStats(w, len(res.Boxes), len(res.Lines), hit)
	printKeyValue(w, "canvas", fmt.Sprintf("%s x %s", num(res.Width), num(res.Height)))
	minX, minY, maxX, maxY := res.Bounds()
	printKeyValue(w, "bounds", fmt.Sprintf("(%s,%s) to (%s,%s)", num(minX), num(minY), num(maxX), num(maxY)))
	if res.Undrawn > 0 {
		printWarning(w, "%d transform flow(s) have no line geometry", res.Undrawn)
	}
	if unreached := g.Len() - len(res.Boxes); unreached > 0 {
		printWarning(w, "%d node(s) not reachable from start node %d", unreached, g.Start)
	}
	fmt.Fprintln(w, boxTable(res))
	return nil
}

func (c *CLI) runLayoutBatch(ctx context.Context, w io.Writer, inputs []string, flags layoutFlags, asJSON bool, output string) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	graphs := make([]*graph.Graph, len(inputs))
	for i, input := range inputs {
		data, err := readDescription(input)
		if err != nil {
			return fmt.Errorf("read %s: %w", input, err)
		}
		if graphs[i], err = runner.Parse(ctx, data); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}

	prog := newProgress(logger)
	results, err := runner.LayoutBatch(ctx, graphs, flags.options())
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved %d layouts", len(results)))

	if asJSON || output != "" {
		return writeJSONOutput(w, output, results)
	}
	for i, res := range results {
		fmt.Fprintln(w, StyleTitle.Render("Layout of "+inputs[i]))
		printKeyValue(w, "boxes", fmt.Sprint(len(res.Boxes)))
		printKeyValue(w, "lines", fmt.Sprint(len(res.Lines)))
		printKeyValue(w, "canvas", fmt.Sprintf("%s x %s", num(res.Width), num(res.Height)))
	}
	return nil
}

// writeJSONOutput encodes v as indented JSON to the output file, or to w.
func writeJSONOutput(w io.Writer, output string, v any) error {
	out, err := openOutput(w, output)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if output != "" {
		printFile(w, output)
	}
	return nil
}
