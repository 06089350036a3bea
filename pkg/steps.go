package release

import (
	"context"

	"github.com/charmbracelet/log"
)

// StepDeps are the collaborators the release steps act through.
type StepDeps struct {
	Runner Runner
	Repo   Repository
	Store  *Store
	Logger *log.Logger
}

// BuildSteps returns the fixed release sequence for version: verify, build,
// write the version, changelog, commit, publish, tag and push. Only the
// version write touches the metadata file.
func BuildSteps(rc ReleaseContext, version string, d StepDeps) []Step {
	cfg := rc.Config
	pm := func(args []string) func(context.Context) error {
		return func(ctx context.Context) error {
			return d.Runner.Run(ctx, cfg.PackageManager, args...)
		}
	}
	git := func(args ...string) func(context.Context) error {
		return func(ctx context.Context) error {
			return d.Runner.Run(ctx, "git", args...)
		}
	}
	tag := cfg.Tag(version)

	return []Step{
		{Label: "Checking types", Run: pm(cfg.Scripts.TypeCheck)},
		{Label: "Linting", Run: pm(cfg.Scripts.Lint)},
		{Label: "Running unit tests", Run: pm(cfg.Scripts.Test)},
		{Label: "Cleaning build artifacts", Run: pm(cfg.Scripts.Clean)},
		{Label: "Building type declarations", Kind: CodeBuildFailed, Run: pm(cfg.Scripts.BuildTypes)},
		{Label: "Building bundle", Kind: CodeBuildFailed, Run: pm(cfg.Scripts.BuildBundle)},
		{Label: "Writing version " + version + " to " + d.Store.Path(), Kind: CodeFileSystem, Run: func(context.Context) error {
			return d.Store.Write(version)
		}},
		{Label: "Generating changelog", Run: pm(cfg.Scripts.Changelog)},
		{Label: "Committing changes", Run: func(ctx context.Context) error {
			changes, err := d.Repo.Changes()
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				if d.Logger != nil {
					d.Logger.Debug("no changes to commit")
				}
				return nil
			}
			if err := git("add", "-A")(ctx); err != nil {
				return err
			}
			return git("commit", "-m", "release: "+tag)(ctx)
		}},
		{Label: "Publishing package", Kind: CodePublishFailed, Run: pm(cfg.Scripts.Publish)},
		{Label: "Creating tag " + tag, Run: git("tag", tag)},
		{Label: "Pushing tag " + tag + " to " + cfg.Remote, Run: git("push", cfg.Remote, "refs/tags/"+tag)},
		{Label: "Pushing commits to " + cfg.Remote, Run: git("push", cfg.Remote, "HEAD")},
	}
}
