// Package commands implements the CLI commands for kern.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/kern/internal/adapters/telemetry"
	"go.trai.ch/kern/internal/app"
	"go.trai.ch/kern/internal/build"
)

type jsonSwitch interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for kern.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command

	dir      string
	save     bool
	json     bool
	trace    bool
	shutdown func(context.Context) error
}

// New creates a new CLI instance over the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kern",
		Short:         "A parametric dependency kernel for sketch geometry",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.dir, "dir", "C", "", "Run as if kern was started in this directory")
	rootCmd.PersistentFlags().BoolVar(&c.save, "save", false, "Store a snapshot of the model after the command")
	rootCmd.PersistentFlags().BoolVar(&c.json, "json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&c.trace, "trace", false, "Log the timing of every recompute pass")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) { c.setup() }
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error { return c.teardown(cmd.Context()) }

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newOrderCmd())
	rootCmd.AddCommand(c.newRecomputeCmd())
	rootCmd.AddCommand(c.newMoveCmd())
	rootCmd.AddCommand(c.newSnapCmd())
	rootCmd.AddCommand(c.newLoopCmd())
	rootCmd.AddCommand(c.newOutlineCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *CLI) setup() {
	if c.json {
		if l, ok := c.components.Logger.(jsonSwitch); ok {
			l.SetJSON(true)
		}
	}
	if c.trace {
		tp := telemetry.NewProvider(telemetry.NewBridge(c.components.Logger))
		c.shutdown = telemetry.Install(tp)
	}
}

func (c *CLI) teardown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	shutdown := c.shutdown
	c.shutdown = nil
	return shutdown(ctx)
}

func (c *CLI) cwd() (string, error) {
	if c.dir != "" {
		return c.dir, nil
	}
	return os.Getwd()
}

func (c *CLI) options() app.Options {
	return app.Options{Save: c.save}
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}
