package release

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ReleaseMeta summarizes a release run.
type ReleaseMeta struct {
	OldVersion  string
	NewVersion  string
	ReleaseType ReleaseType
	Tag         string
	Steps       []string // labels of the pipeline, in order
	DryRun      bool
}

// Releaser wires the resolver, the pipeline and the metadata store.
type Releaser struct {
	Prompter Prompter
	Runner   Runner
	Repo     Repository
	Store    *Store
	Logger   *log.Logger
	DryRun   bool // resolve and print the plan without running any step
}

// Release resolves the version and runs the pipeline. Whenever it does not
// complete, including a panic in a step, a version already written to the
// metadata file is reverted to rc.CurrentVersion. ErrUserDeclined is
// returned when the user says no; nothing has been changed in that case.
func (r *Releaser) Release(ctx context.Context, rc ReleaseContext, arg string) (meta ReleaseMeta, err error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	meta.OldVersion = rc.CurrentVersion
	meta.DryRun = r.DryRun

	done := false
	defer func() {
		if done || !r.Store.Touched() {
			return
		}
		logger.Warn("release failed, restoring version", "version", rc.CurrentVersion, "file", r.Store.Path())
		if rerr := r.Store.Revert(rc.CurrentVersion); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	resolver := &Resolver{Prompter: r.Prompter, Repo: r.Repo, Logger: logger}
	decision, err := resolver.Resolve(ctx, rc, arg)
	if err != nil {
		return meta, err
	}
	res, ok := decision.Get()
	if !ok {
		return meta, ErrUserDeclined
	}
	meta.NewVersion = res.Version
	meta.ReleaseType = res.Type
	meta.Tag = rc.Config.Tag(res.Version)

	exists, err := r.Repo.TagExists(meta.Tag)
	if err != nil {
		return meta, err
	}
	if exists {
		return meta, &InvalidVersionError{Version: res.Version, Err: fmt.Errorf("tag %s already exists", meta.Tag)}
	}

	pipeline := &Pipeline{
		Steps: BuildSteps(rc, res.Version, StepDeps{
			Runner: r.Runner,
			Repo:   r.Repo,
			Store:  r.Store,
			Logger: logger,
		}),
		Logger: logger,
	}
	meta.Steps = pipeline.Plan()

	if r.DryRun {
		for i, label := range meta.Steps {
			logger.Info(label, "step", fmt.Sprintf("%d/%d", i+1, len(meta.Steps)), "dry-run", true)
		}
		done = true
		return meta, nil
	}

	if err := pipeline.Run(ctx); err != nil {
		return meta, err
	}
	done = true
	return meta, nil
}
