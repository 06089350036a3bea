package release

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// Decision is the outcome of a prompt: either a confirmed value or a decline.
type Decision[T any] struct {
	value     T
	confirmed bool
}

// Confirmed wraps an accepted value.
func Confirmed[T any](v T) Decision[T] { return Decision[T]{value: v, confirmed: true} }

// Declined is the decision of a user who said no or aborted the prompt.
func Declined[T any]() Decision[T] { return Decision[T]{} }

// Get returns the value and whether it was confirmed.
func (d Decision[T]) Get() (T, bool) { return d.value, d.confirmed }

// Option is one entry of a selection prompt.
type Option struct {
	Label string
	Type  ReleaseType
}

// Prompter asks the user questions. Implementations block until answered.
type Prompter interface {
	// Confirm asks a yes/no question. "No" yields Declined.
	Confirm(ctx context.Context, message string, def bool) (Decision[bool], error)
	// Select offers a list of release types.
	Select(ctx context.Context, message string, options []Option) (Decision[ReleaseType], error)
	// Input reads free text; placeholder is shown as a hint only.
	Input(ctx context.Context, message, placeholder string) (Decision[string], error)
}

// HuhPrompter renders prompts in the terminal with huh.
type HuhPrompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

// NewHuhPrompter returns a terminal prompter. Setting ACCESSIBLE in the
// environment switches to plain line-based prompts.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{
		in:         os.Stdin,
		out:        os.Stderr,
		accessible: os.Getenv("ACCESSIBLE") != "",
	}
}

func (p *HuhPrompter) run(ctx context.Context, field huh.Field) (bool, error) {
	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *HuhPrompter) Confirm(ctx context.Context, message string, def bool) (Decision[bool], error) {
	yes := def
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&yes)
	answered, err := p.run(ctx, field)
	if err != nil || !answered || !yes {
		return Declined[bool](), err
	}
	return Confirmed(true), nil
}

func (p *HuhPrompter) Select(ctx context.Context, message string, options []Option) (Decision[ReleaseType], error) {
	var choice ReleaseType
	opts := make([]huh.Option[ReleaseType], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Type))
	}
	field := huh.NewSelect[ReleaseType]().
		Title(message).
		Options(opts...).
		Value(&choice)
	answered, err := p.run(ctx, field)
	if err != nil || !answered {
		return Declined[ReleaseType](), err
	}
	return Confirmed(choice), nil
}

func (p *HuhPrompter) Input(ctx context.Context, message, placeholder string) (Decision[string], error) {
	var text string
	field := huh.NewInput().
		Title(message).
		Placeholder(placeholder).
		Value(&text)
	answered, err := p.run(ctx, field)
	if err != nil || !answered {
		return Declined[string](), err
	}
	return Confirmed(text), nil
}

// ErrNonInteractive is returned by AssumeYesPrompter for questions that
// cannot be answered with "yes".
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode; pass the version as an argument")

// AssumeYesPrompter answers every yes/no question with yes. It backs the
// --yes flag for unattended releases.
type AssumeYesPrompter struct{}

func (AssumeYesPrompter) Confirm(context.Context, string, bool) (Decision[bool], error) {
	return Confirmed(true), nil
}

func (AssumeYesPrompter) Select(context.Context, string, []Option) (Decision[ReleaseType], error) {
	return Declined[ReleaseType](), ErrNonInteractive
}

func (AssumeYesPrompter) Input(context.Context, string, string) (Decision[string], error) {
	return Declined[string](), ErrNonInteractive
}
