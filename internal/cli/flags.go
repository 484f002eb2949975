package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// layoutFlags are shared by the commands that solve a layout.
type layoutFlags struct {
	width   float64
	height  float64
	pins    string
	noCache bool
	refresh bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width suggested to the solver")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height suggested to the solver")
	cmd.Flags().StringVar(&f.pins, "pin", "", "pin the start node to canvas edges: left,right,top,bottom,none (default: from file)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
}

func (f *layoutFlags) options() pipeline.Options {
	return pipeline.Options{
		Width:   f.width,
		Height:  f.height,
		Pins:    splitList(f.pins),
		Refresh: f.refresh,
	}
}
