package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/pocketboard/internal/source/trello"
	"github.com/nhle/pocketboard/internal/store"
)

func newCacheCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the offline snapshots",
	}
	cmd.AddCommand(newCacheStatusCmd(a))
	cmd.AddCommand(newCacheClearCmd(a))
	return cmd
}

func newCacheStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how old the cached list is",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, closeCache, err := openCache(a.cfg.Cache)
			if err != nil {
				return err
			}
			defer closeCache()

			fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s (%s)\n", a.cfg.Cache.Backend, a.cfg.Cache.Dir)
			mod, err := cache.ModTime(cmd.Context(), trello.ListCacheKey)
			switch {
			case errors.Is(err, store.ErrNotFound):
				fmt.Fprintln(cmd.OutOrStdout(), "List: not cached")
			case err != nil:
				return err
			default:
				age := time.Since(mod).Truncate(time.Second)
				fmt.Fprintf(cmd.OutOrStdout(), "List: cached %s ago\n", age)
			}
			return nil
		},
	}
}

func newCacheClearCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every offline snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, closeCache, err := openCache(a.cfg.Cache)
			if err != nil {
				return err
			}
			defer closeCache()

			if err := cache.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}
