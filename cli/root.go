package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	clierrors "github.com/randalmurphal/ugh/errors"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// App holds the process-wide I/O and collaborators shared by commands.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// WorkDir is where the git repository is looked up. Empty means the
	// current directory.
	WorkDir string

	// HTTPClient is used by the tracker and LLM clients. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client

	// IsTerminal reports whether stdin is interactive.
	IsTerminal func() bool

	// ReadSecret reads a line without echo.
	ReadSecret func() (string, error)

	verbose bool
	logger  *slog.Logger
}

// NewApp returns an App bound to the process's standard streams.
func NewApp() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		ReadSecret: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
	}
}

// Logger returns the logger configured by the root command's flags.
func (a *App) Logger() *slog.Logger {
	if a.logger == nil {
		a.setupLogger()
	}
	return a.logger
}

func (a *App) setupLogger() {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
}

func (a *App) workDir() string {
	if a.WorkDir != "" {
		return a.WorkDir
	}
	return "."
}

// NewRootCmd builds the ugh command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ugh",
		Short: "Turn uncommitted changes into a ticket and a branch",
		Long: `ugh files a ticket describing your uncommitted changes and checks out a
branch named after it, in one step.

The ticket title and description come from an LLM when llm_api_key is set,
from a local cache when the same changes were drafted before, and from a
heuristic over the changed files otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			app.setupLogger()
		},
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log debug output to stderr")
	root.SetIn(app.Stdin)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.WithCode(err, clierrors.ExitUsage)
	})

	root.AddCommand(
		newTicketCmd(app),
		newConfigCmd(app),
		newCacheCmd(app),
		newVersionCmd(app),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
// Errors are printed to app.Stderr.
func Execute(ctx context.Context, app *App, args []string) int {
	root := NewRootCmd(app)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return int(clierrors.ExitOK)
	}

	fmt.Fprintf(app.Stderr, "Error: %v\n", err)
	if strings.HasPrefix(err.Error(), "unknown command") {
		return int(clierrors.ExitUsage)
	}
	return int(clierrors.ExitCodeOf(err))
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return clierrors.WithCode(cobra.ExactArgs(n)(cmd, args), clierrors.ExitUsage)
	}
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(app.Stdout, "ugh %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
		},
	}
}
