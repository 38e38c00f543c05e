package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/internal/config"
	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/session"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the diagram cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var sessions bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached diagrams",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.clearDiagramCache(); err != nil {
				return err
			}
			if sessions {
				return clearTUISession(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sessions, "sessions", false, "also forget the saved interactive session")
	return cmd
}

func (c *CLI) clearDiagramCache() error {
	if c.Config.Cache.Backend != config.BackendFile {
		printWarning("Cache backend is %q; only the file cache can be cleared from here", c.Config.Cache.Backend)
		return nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	count, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached entries", count)
	printDetail("Directory: %s", dir)
	return nil
}

// clearTUISession forgets the saved interactive session and prunes any
// expired session files left beside it.
func clearTUISession(ctx context.Context) error {
	store, err := session.NewCLIStore("")
	if err != nil {
		return err
	}
	if err := store.DeleteSession(ctx); err != nil {
		return err
	}
	printSuccess("Cleared saved session")
	printDetail("File: %s", store.Path())

	n, err := store.Cleanup(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		printDetail("Removed %d expired sessions", n)
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
