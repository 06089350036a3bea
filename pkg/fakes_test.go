package release

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// fakePrompter answers prompts from a script.
type fakePrompter struct {
	confirms      []bool // successive Confirm answers
	selectType    ReleaseType
	selectDecline bool
	input         string
	inputDecline  bool

	messages    []string
	options     []Option
	placeholder string
}

func (p *fakePrompter) Confirm(_ context.Context, message string, _ bool) (Decision[bool], error) {
	p.messages = append(p.messages, message)
	if len(p.confirms) == 0 {
		return Declined[bool](), errors.New("unexpected confirm: " + message)
	}
	yes := p.confirms[0]
	p.confirms = p.confirms[1:]
	if !yes {
		return Declined[bool](), nil
	}
	return Confirmed(true), nil
}

func (p *fakePrompter) Select(_ context.Context, message string, options []Option) (Decision[ReleaseType], error) {
	p.messages = append(p.messages, message)
	p.options = options
	if p.selectDecline {
		return Declined[ReleaseType](), nil
	}
	return Confirmed(p.selectType), nil
}

func (p *fakePrompter) Input(_ context.Context, message, placeholder string) (Decision[string], error) {
	p.messages = append(p.messages, message)
	p.placeholder = placeholder
	if p.inputDecline {
		return Declined[string](), nil
	}
	return Confirmed(p.input), nil
}

// fakeRunner records commands instead of running them.
type fakeRunner struct {
	calls  []string
	failOn map[string]error
	onRun  func(cmd string)
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	cmd := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, cmd)
	if r.onRun != nil {
		r.onRun(cmd)
	}
	return r.failOn[cmd]
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", r.Run(ctx, name, args...)
}

// fakeRepo reports changes computed by a callback.
type fakeRepo struct {
	changes func() []string
	tags    map[string]bool
	err     error
}

func (f *fakeRepo) Changes() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.changes == nil {
		return nil, nil
	}
	return f.changes(), nil
}

func (f *fakeRepo) TagExists(name string) (bool, error) {
	return f.tags[name], nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// newFixture returns a memfs-backed store holding version, and a reader
// for the raw file contents.
func newFixture(t *testing.T, version string) (*Store, func() string) {
	t.Helper()
	fs := memfs.New()
	content := strings.Replace(packageJSON, `"version": "1.0.0"`, `"version": "`+version+`"`, 1)
	require.NoError(t, util.WriteFile(fs, "package.json", []byte(content), 0644))
	store, err := OpenStore(fs, "package.json")
	require.NoError(t, err)
	return store, func() string {
		data, err := util.ReadFile(fs, "package.json")
		require.NoError(t, err)
		return string(data)
	}
}

func testContext(t *testing.T, current, preid string) ReleaseContext {
	t.Helper()
	rc, err := NewReleaseContext(t.TempDir(), DefaultConfig(), current, preid)
	require.NoError(t, err)
	return rc
}
