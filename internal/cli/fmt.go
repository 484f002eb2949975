package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	dlio "github.com/matzehuels/dlvis/pkg/io"
)

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [description.toml]",
		Short: "Rewrite a network description in canonical form",
		Long: `Rewrite a network description in canonical form.

Nodes are sorted by id and keys are written in a fixed order. Prints to stdout
unless -w is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd.OutOrStdout(), args[0], write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file")

	return cmd
}

func runFmt(w io.Writer, input string, write bool) error {
	data, err := readDescription(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	g, err := dlio.ParseTOML(data)
	if err != nil {
		return err
	}
	out, err := dlio.MarshalTOML(g)
	if err != nil {
		return err
	}
	if write && input != "-" {
		return writeFile(input, out)
	}
	_, err = w.Write(out)
	return err
}
