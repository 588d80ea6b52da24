package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/ugh/config"
	clierrors "github.com/randalmurphal/ugh/errors"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ugh settings",
		Long: `Manage the settings stored in the config file.

Every setting can also be overridden by an environment variable named
UGH_<KEY>, for example UGH_JIRA_TOKEN.`,
	}

	cmd.AddCommand(
		newConfigInitCmd(app),
		newConfigShowCmd(app),
		newConfigSetCmd(app),
		newConfigUnsetCmd(app),
		newConfigPathCmd(app),
	)
	return cmd
}

func configPath() (string, string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", "", err
	}
	return dir, filepath.Join(dir, config.FileName), nil
}

func newConfigInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Set up ugh interactively",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			dir, _, err := configPath()
			if err != nil {
				return err
			}
			settings, _, err := config.Load(dir, config.ResolverConfig{Logger: app.Logger()})
			if err != nil {
				// Start over from defaults when the stored values are invalid.
				app.Logger().Warn("ignoring invalid settings", "error", err)
				settings = config.Settings{Tracker: config.TrackerJira, DefaultIssueType: config.Defaults[config.KeyDefaultIssueType]}
			}
			return newWizard(app).run(dir, settings, nil)
		},
	}
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings and where each comes from",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			dir, path, err := configPath()
			if err != nil {
				return err
			}
			resolved := config.NewResolverFor(dir, config.ResolverConfig{Logger: app.Logger()}).Resolve()

			faint := color.New(color.Faint).SprintFunc()
			fmt.Fprintf(app.Stdout, "Config file: %s\n\n", path)
			for _, key := range config.Keys {
				value, source := resolved.GetWithSource(key)
				if source == "" {
					source = "unset"
				}
				fmt.Fprintf(app.Stdout, "%-20s %-40s %s\n", key, config.Display(key, value), faint("("+string(source)+")"))
			}
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a setting in the config file",
		Args:  exactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.ValidateValue(key, value); err != nil {
				return clierrors.WithCode(err, clierrors.ExitUsage)
			}
			_, path, err := configPath()
			if err != nil {
				return err
			}
			if err := config.Save(path, key, value); err != nil {
				return clierrors.WithCode(err, clierrors.ExitUsage)
			}
			fmt.Fprintf(app.Stdout, "Set %s = %s\n", key, config.Display(key, value))
			return nil
		},
	}
}

func newConfigUnsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a setting from the config file",
		Args:  exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, path, err := configPath()
			if err != nil {
				return err
			}
			if err := config.Delete(path, args[0]); err != nil {
				return clierrors.WithCode(err, clierrors.ExitUsage)
			}
			fmt.Fprintf(app.Stdout, "Removed %s\n", args[0])
			return nil
		},
	}
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			_, path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Stdout, path)
			return nil
		},
	}
}
