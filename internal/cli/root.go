// Package cli wires the audiotag command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/llehouerou/audiotag/internal/config"
	"github.com/llehouerou/audiotag/internal/errmsg"
	"github.com/llehouerou/audiotag/internal/modes"
	"github.com/llehouerou/audiotag/internal/prompt"
	"github.com/llehouerou/audiotag/internal/track"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// AppContext carries process I/O and state shared by all commands.
type AppContext struct {
	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer

	// OpenFile overrides the codec adapter; nil uses the tags package.
	OpenFile track.OpenFunc
	// Prompter overrides the prompter built from the config.
	Prompter prompt.Prompter

	configPath string
	verbose    bool
	config     *config.Config
	logger     *log.Logger
}

// NewAppContext returns a context bound to the process streams.
func NewAppContext() *AppContext {
	return &AppContext{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// opError attaches the failed operation to an error for reporting.
type opError struct {
	op  errmsg.Op
	err error
}

func (e *opError) Error() string { return e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

func withOp(op errmsg.Op, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// Execute runs audiotag with the process arguments and returns the exit
// code.
func Execute() int {
	return Run(os.Args[1:], NewAppContext())
}

// Run executes args and returns the exit code: 0 on success, 1 on any
// failure, after printing the error to app.Stderr.
func Run(args []string, app *AppContext) int {
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetIn(app.Stdin)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	if err := root.Execute(); err != nil {
		var oe *opError
		if errors.As(err, &oe) {
			fmt.Fprintln(app.Stderr, errmsg.Format(oe.op, oe.err))
		} else {
			fmt.Fprintln(app.Stderr, errmsg.Format(errmsg.OpParseArgs, err))
		}
		return 1
	}
	return 0
}

func newRootCommand(app *AppContext) *cobra.Command {
	root := &cobra.Command{
		Use:           "audiotag",
		Short:         "View, edit and rename audio file tags",
		Long:          "audiotag prints, edits, copies and cleans the metadata of audio files, and renames files after their tags.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}
	root.SetVersionTemplate("audiotag {{.Version}}\n")

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "Path to a config file (default: search XDG config dir and ./audiotag.toml)")
	root.PersistentFlags().BoolVar(&app.verbose, "verbose", false, "Log debug output to stderr")

	root.AddCommand(
		newPrintCommand(app),
		newInteractiveCommand(app),
		newSetCommand(app),
		newCleanCommand(app),
		newRenameCommand(app),
		newCopyCommand(app),
		newVersionCommand(),
	)
	return root
}

// setup configures logging and loads the config before any command runs.
func (app *AppContext) setup(cmd *cobra.Command) error {
	level := log.WarnLevel
	if app.verbose {
		level = log.DebugLevel
	}
	app.logger = log.NewWithOptions(app.Stderr, log.Options{Level: level, Prefix: "audiotag"})

	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return withOp(errmsg.OpConfigLoad, err)
	}
	app.config = cfg
	app.logger.Debug("loaded config", "editing_mode", cfg.EditingMode, "separator", cfg.ValueSeparator)
	return nil
}

// runner builds the batch runner from the loaded config.
func (app *AppContext) runner() *modes.Runner {
	cfg := app.config
	if cfg == nil {
		cfg = config.Default()
	}
	p := app.Prompter
	if p == nil {
		p = prompt.New(app.Stdin, app.Stdout, cfg.EditingMode == config.EditingVi)
	}
	return modes.New(modes.Options{
		Opener:   track.Opener{OpenFile: app.OpenFile, Separator: cfg.Separator()},
		Patterns: cfg.Patterns(),
		Prompter: p,
		Out:      app.Stdout,
		Logger:   app.logger,
		Rich:     isTerminal(app.Stdout),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
