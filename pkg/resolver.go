package release

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// labelWidth aligns the "current -> next" previews in choice labels.
const labelWidth = 15

// ReleaseContext is built once per invocation and passed by value to every
// component.
type ReleaseContext struct {
	Dir            string
	CurrentVersion string
	Preid          string // explicit --preid, else inferred from CurrentVersion
	Config         Config
}

// NewReleaseContext validates current and the prerelease identifier.
// An empty preid is inferred from current's prerelease tag.
func NewReleaseContext(dir string, cfg Config, current, preid string) (ReleaseContext, error) {
	rc := ReleaseContext{Dir: dir, Config: cfg}
	v, err := ParseVersion(current)
	if err != nil {
		return rc, fmt.Errorf("current version in %s: %w", cfg.Metadata, err)
	}
	rc.CurrentVersion = v
	if preid == "" {
		preid = InferPreid(v)
	} else if _, err := ParseVersion("0.0.0-" + preid); err != nil {
		return rc, fmt.Errorf("invalid prerelease identifier %q", preid)
	}
	rc.Preid = preid
	return rc, nil
}

// Choice is a release type with the version it would produce.
type Choice struct {
	Type    ReleaseType
	Version string // empty for Custom
	Label   string
}

// Choices lists the basic release types, the prerelease types when a
// prerelease identifier is active, and finally the custom option.
func Choices(rc ReleaseContext) ([]Choice, error) {
	types := append([]ReleaseType{}, BasicReleaseTypes...)
	if rc.Preid != "" {
		types = append(types, PreReleaseTypes...)
	}

	choices := make([]Choice, 0, len(types)+1)
	for _, rt := range types {
		next, err := NextVersion(rc.CurrentVersion, rt, rc.Preid)
		if err != nil {
			return nil, err
		}
		choices = append(choices, Choice{
			Type:    rt,
			Version: next,
			Label:   fmt.Sprintf("%-*s%s -> %s", labelWidth, ReleaseTypes[rt].Name, rc.CurrentVersion, next),
		})
	}
	choices = append(choices, Choice{Type: Custom, Label: ReleaseTypes[Custom].Name})
	return choices, nil
}

// Resolution is the confirmed outcome of the resolver.
type Resolution struct {
	Version string
	Type    ReleaseType
}

// Resolver turns user input into exactly one confirmed release version.
type Resolver struct {
	Prompter Prompter
	Repo     Repository
	Logger   *log.Logger
}

// Resolve checks the working tree, picks the version (from arg when given,
// otherwise interactively) and asks for confirmation. arg may be an explicit
// version or a release type name. A Declined decision means nothing was changed.
func (r *Resolver) Resolve(ctx context.Context, rc ReleaseContext, arg string) (Decision[Resolution], error) {
	proceed, err := r.confirmIfDirty(ctx)
	if err != nil {
		return Declined[Resolution](), err
	}
	if _, ok := proceed.Get(); !ok {
		return Declined[Resolution](), nil
	}

	picked, err := r.pick(ctx, rc, arg)
	if err != nil {
		return Declined[Resolution](), err
	}
	res, ok := picked.Get()
	if !ok {
		return Declined[Resolution](), nil
	}

	if res.Version == rc.CurrentVersion {
		return Declined[Resolution](), fmt.Errorf("%w (%s)", ErrSameVersion, res.Version)
	}
	if !IsNewer(rc.CurrentVersion, res.Version) {
		r.logger().Warn("new version is lower than the current version", "current", rc.CurrentVersion, "new", res.Version)
	}

	tag := rc.Config.Tag(res.Version)
	confirm, err := r.Prompter.Confirm(ctx, fmt.Sprintf("Release version %s. Confirm?", tag), true)
	if err != nil {
		return Declined[Resolution](), err
	}
	if _, ok := confirm.Get(); !ok {
		return Declined[Resolution](), nil
	}
	return Confirmed(res), nil
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

func (r *Resolver) confirmIfDirty(ctx context.Context) (Decision[bool], error) {
	changes, err := r.Repo.Changes()
	if err != nil {
		return Declined[bool](), err
	}
	if len(changes) == 0 {
		return Confirmed(true), nil
	}
	r.logger().Warn("repository has uncommitted changes; commit or stash them before releasing", "files", changes)
	return r.Prompter.Confirm(ctx, "Continue anyway?", false)
}

func (r *Resolver) pick(ctx context.Context, rc ReleaseContext, arg string) (Decision[Resolution], error) {
	if arg != "" {
		if rt, err := ParseReleaseType(arg); err == nil && rt != Custom {
			next, err := NextVersion(rc.CurrentVersion, rt, rc.Preid)
			if err != nil {
				return Declined[Resolution](), err
			}
			return Confirmed(Resolution{Version: next, Type: rt}), nil
		}
		v, err := ParseVersion(arg)
		if err != nil {
			return Declined[Resolution](), err
		}
		return Confirmed(Resolution{Version: v, Type: Custom}), nil
	}

	choices, err := Choices(rc)
	if err != nil {
		return Declined[Resolution](), err
	}
	options := make([]Option, 0, len(choices))
	for _, c := range choices {
		options = append(options, Option{Label: c.Label, Type: c.Type})
	}
	selected, err := r.Prompter.Select(ctx, "Select release type", options)
	if err != nil {
		return Declined[Resolution](), err
	}
	rt, ok := selected.Get()
	if !ok {
		return Declined[Resolution](), nil
	}

	if rt == Custom {
		input, err := r.Prompter.Input(ctx, "Enter custom version", rc.CurrentVersion)
		if err != nil {
			return Declined[Resolution](), err
		}
		text, ok := input.Get()
		if !ok {
			return Declined[Resolution](), nil
		}
		v, err := ParseVersion(text)
		if err != nil {
			return Declined[Resolution](), err
		}
		return Confirmed(Resolution{Version: v, Type: Custom}), nil
	}

	for _, c := range choices {
		if c.Type == rt {
			return Confirmed(Resolution{Version: c.Version, Type: rt}), nil
		}
	}
	return Declined[Resolution](), fmt.Errorf("unknown release type: %s", rt)
}
