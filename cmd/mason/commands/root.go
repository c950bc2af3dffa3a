// Package commands implements the CLI commands for the mason build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/build"
)

// CLI represents the command line interface for mason.
type CLI struct {
	app     Application
	source  app.TargetSource
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, source app.TargetSource, names []string, opts app.Options) error
	Watch(ctx context.Context, source app.TargetSource, names []string, opts app.Options) error
	ShouldRebuild(ctx context.Context, source app.TargetSource, name string, opts app.Options) (bool, error)
	List(ctx context.Context, source app.TargetSource, opts app.Options) (app.Listing, error)
	Inspect(ctx context.Context, source app.TargetSource, name string, opts app.Options) (app.Inspection, error)
	Clean(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app and target catalog.
func New(a Application, source app.TargetSource) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mason",
		Short:         "A staleness-tracking build orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	// The build configuration applies to every target-evaluating command.
	pf := rootCmd.PersistentFlags()
	pf.Bool("debug", false, "Print debug messages, including the reasons targets are considered outdated")
	pf.Bool("dev", false, "Build binaries and images in development mode: debug symbols, extra prints and out-of-image builds")
	pf.Bool("download", false, "Download prebuilt binaries and images instead of compiling them, where available")
	pf.Bool("containerized", false, "Compile binaries in a build container instead of cross-compiling on the host")
	pf.BoolP("force", "f", false, "Rebuild all assets, regardless of whether they changed since the last build")
	pf.BoolP("dry-run", "d", false, "Only simulate the build, printing the commands that would run (implies --debug)")
	pf.Int("jobs", 0, "The number of targets of one wave that may build concurrently (default from the workspace settings)")
	pf.String("asset-version", "", "The release version of prebuilt assets to download (default from the workspace settings)")
	pf.StringP("os", "o", "", "The operating system to build for (default: the host OS)")
	pf.StringP("arch", "a", "", "The architecture to build for (default: the host architecture)")
	pf.StringP("cache", "c", "", "The location of the staleness cache (default from the workspace settings)")

	c := &CLI{
		app:     a,
		source:  source,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newTargetsCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newShouldRebuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
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

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options collects the persistent build-configuration flags.
func (c *CLI) options(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()

	debug, _ := flags.GetBool("debug")
	dev, _ := flags.GetBool("dev")
	download, _ := flags.GetBool("download")
	containerized, _ := flags.GetBool("containerized")
	force, _ := flags.GetBool("force")
	dryRun, _ := flags.GetBool("dry-run")
	jobs, _ := flags.GetInt("jobs")
	version, _ := flags.GetString("asset-version")
	osName, _ := flags.GetString("os")
	arch, _ := flags.GetString("arch")
	cache, _ := flags.GetString("cache")

	return app.Options{
		Dev:           dev,
		Download:      download,
		Containerized: containerized,
		Force:         force,
		DryRun:        dryRun,
		Debug:         debug,
		OS:            osName,
		Arch:          arch,
		Version:       version,
		CacheDir:      cache,
		Jobs:          jobs,
	}
}
