package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ugh/config"
	"github.com/randalmurphal/ugh/draft"
)

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the draft cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Delete cached drafts so the next ticket is drafted afresh",
			Args:  exactArgs(0),
			RunE: func(*cobra.Command, []string) error {
				path, err := cachePath()
				if err != nil {
					return err
				}
				if err := draft.NewCache(path, draft.WithCacheLogger(app.Logger())).Clear(); err != nil {
					return err
				}
				fmt.Fprintf(app.Stdout, "Cleared %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the draft cache path",
			Args:  exactArgs(0),
			RunE: func(*cobra.Command, []string) error {
				path, err := cachePath()
				if err != nil {
					return err
				}
				fmt.Fprintln(app.Stdout, path)
				return nil
			},
		},
	)
	return cmd
}

func cachePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, draft.CacheFileName), nil
}
