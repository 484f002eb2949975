package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/pkg/errors"
	dlio "github.com/matzehuels/dlvis/pkg/io"
	"github.com/matzehuels/dlvis/pkg/layout"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [description.toml]",
		Short: "Check a network description for broken links",
		Long: `Check a network description.

Reports every relation or flow that names an unknown node, a missing start or
end node, and nodes or flows the layout would ignore because they are not
reachable from the start node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func runValidate(w io.Writer, input string) error {
	data, err := readDescription(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	g, err := dlio.ParseTOML(data)
	if err != nil {
		return err
	}

	if err := g.Validate(); err != nil {
		problems := unjoin(err)
		for _, p := range problems {
			printError(w, "%s", p)
		}
		return errors.New(errors.ErrCodeInvalidGraph, "%s: %d problem(s)", input, len(problems))
	}

	d, err := layout.Discover(g, nil)
	if err != nil {
		printError(w, "%s", errors.UserMessage(err))
		return err
	}
	if unreached := g.Len() - len(d.Order); unreached > 0 {
		printWarning(w, "%d node(s) not reachable from start node %d", unreached, g.Start)
	}
	if d.Dropped > 0 {
		printWarning(w, "%d flow(s) lead to unreached nodes", d.Dropped)
	}
	if _, ok := d.Nodes[g.End]; !ok {
		printWarning(w, "end node %d is not reachable from start node %d", g.End, g.Start)
	}
	printSuccess(w, "%s: %d nodes, %d reachable", input, g.Len(), len(d.Order))
	return nil
}

// unjoin flattens an errors.Join tree.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, unjoin(e)...)
		}
		return out
	}
	return []error{err}
}
