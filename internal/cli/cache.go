package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sweepCache(cmd.Context(), cmd.OutOrStdout(), "Cleared", (*cache.FileCache).Clear)
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sweepCache(cmd.Context(), cmd.OutOrStdout(), "Pruned", (*cache.FileCache).Prune)
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// sweepCache runs op over the file cache. Redis entries expire on their own.
func sweepCache(ctx context.Context, w io.Writer, verb string, op func(*cache.FileCache, context.Context) (int, error)) error {
	if os.Getenv(cacheURLEnv) != "" {
		printInfo(w, "%s is set; Redis entries expire through their TTL", cacheURLEnv)
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo(w, "Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := op(fc, ctx)
	if err != nil {
		return err
	}
	printSuccess(w, "%s %d cached entries", verb, n)
	printDetail(w, "Directory: %s", dir)
	return nil
}
