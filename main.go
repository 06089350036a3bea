// Package main implements the release CLI: it picks the next semantic version
// of a package, runs the checks and builds, commits, publishes, tags and pushes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	release "github.com/bcomnes/release/pkg"
)

const helpIndent = 15

var (
	bannerStyle  = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("15")).Padding(1, helpIndent)
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type options struct {
	preid      string
	configPath string
	dir        string
	dryRun     bool
	yes        bool
	verbose    bool
}

func printBanner(w io.Writer, version string) {
	fmt.Fprintln(w, bannerStyle.Render("Current version:  "+versionStyle.Render(version)))
}

func describe(b *strings.Builder, name, description string, width int) {
	pad := width - len(name)
	if pad < 3 {
		pad = 3
	}
	fmt.Fprintf(b, "     %s %s %s\n", nameStyle.Render(name), strings.Repeat("-", pad), descStyle.Render(description))
}

// releaseHelp documents the release types, prerelease identifiers and
// custom versions.
func releaseHelp() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  1. Basic release types (%s)\n", nameStyle.Render("MAJOR.MINOR.PATCH"))
	for _, rt := range release.BasicReleaseTypes {
		d := release.ReleaseTypes[rt]
		describe(&b, d.Name, d.Description, helpIndent)
	}
	fmt.Fprintf(&b, "\n  2. Prerelease types (%s)\n", nameStyle.Render("MAJOR.MINOR.PATCH-[alpha|beta|rc].N"))
	fmt.Fprintln(&b, "     Offered when --preid is given or the current version is a prerelease.")
	for _, rt := range release.PreReleaseTypes {
		d := release.ReleaseTypes[rt]
		describe(&b, d.Name, d.Description, helpIndent)
	}
	fmt.Fprintf(&b, "\n  3. Prerelease identifiers (%s)\n", nameStyle.Render("--preid"))
	for _, s := range release.PrereleaseSuffixes {
		describe(&b, s.Name+" ("+s.Value+")", s.Description, helpIndent+helpIndent/2)
	}
	fmt.Fprintln(&b, "\n  4. Custom version")
	fmt.Fprintln(&b, "     Choose \"Custom\" or pass the version as an argument. It must be valid")
	fmt.Fprintln(&b, "     semver, e.g. 1.4.0 or 2.0.0-rc.1.")
	return b.String()
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "release [version]",
		Short: "Version, build, publish and tag a package",
		Long: `Resolves the next version (interactively unless given), then runs type checks,
lint, unit tests, clean and build, writes the version to package.json, generates
the changelog, commits, publishes, tags the commit with the version prefixed
with "v" and pushes. If a step fails after the version was written, the
original version is restored.

[version] may be an explicit version like 1.2.3 or one of: patch, minor, major,
prepatch, preminor, premajor, prerelease.`,
		Example: `  release
  release minor
  release 2.0.0-rc.0
  release --preid=beta
  release --dry --yes patch`,
		Args:          cobra.MaximumNArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return runRelease(cmd.Context(), cmd, logger, opts, arg)
		},
	}
	cmd.SetVersionTemplate("release CLI version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.preid, "preid", "", "prerelease identifier: alpha, beta, rc or any other")
	flags.StringVar(&opts.configPath, "config", "", "path to the config file (default <dir>/"+release.DefaultConfigFile+")")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "project directory")
	flags.BoolVar(&opts.dryRun, "dry", false, "resolve the version and print the steps without running them")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "answer yes to every confirmation (requires a version argument)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		out := c.OutOrStdout()
		if cfg, err := release.LoadConfig(filepath.Join(opts.dir, release.DefaultConfigFile), false); err == nil {
			if store, err := release.OpenStore(osfs.New(opts.dir), cfg.Metadata); err == nil {
				printBanner(out, store.Version())
			}
		}
		defaultHelp(c, args)
		fmt.Fprintln(out)
		fmt.Fprint(out, releaseHelp())
	})

	return cmd
}

func runRelease(ctx context.Context, cmd *cobra.Command, logger *log.Logger, opts options, arg string) error {
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", opts.dir, err)
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = filepath.Join(dir, release.DefaultConfigFile)
	}
	cfg, err := release.LoadConfig(configPath, opts.configPath != "")
	if err != nil {
		return err
	}

	store, err := release.OpenStore(osfs.New(dir), cfg.Metadata)
	if err != nil {
		return err
	}
	printBanner(cmd.OutOrStdout(), store.Version())

	rc, err := release.NewReleaseContext(dir, cfg, store.Version(), opts.preid)
	if err != nil {
		return err
	}
	logger.Debug("release context", "dir", rc.Dir, "current", rc.CurrentVersion, "preid", rc.Preid)

	repo, err := release.OpenGitRepository(dir)
	if err != nil {
		return err
	}

	var prompter release.Prompter = release.NewHuhPrompter()
	if opts.yes {
		prompter = release.AssumeYesPrompter{}
	}

	r := &release.Releaser{
		Prompter: prompter,
		Runner:   release.NewCommandRunner(dir),
		Repo:     repo,
		Store:    store,
		Logger:   logger,
		DryRun:   opts.dryRun,
	}
	meta, err := r.Release(ctx, rc, arg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if meta.DryRun {
		fmt.Fprintln(out, "Dry run complete, no steps were run and no files were modified.")
	} else {
		fmt.Fprintln(out, "Release successful!")
	}
	fmt.Fprintf(out, "Old Version:  %s\n", meta.OldVersion)
	fmt.Fprintf(out, "New Version:  %s\n", meta.NewVersion)
	fmt.Fprintf(out, "Release Type: %s\n", meta.ReleaseType)
	fmt.Fprintf(out, "Tag:          %s\n", meta.Tag)
	return nil
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "release"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd(logger).ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, release.ErrUserDeclined):
		fmt.Fprintln(os.Stderr, "Release aborted, nothing was changed.")
	default:
		logger.Error("release failed", "err", err, "code", release.CodeOf(err))
		stop()
		os.Exit(1)
	}
}
