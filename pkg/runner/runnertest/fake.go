// pkg/runner/runnertest/fake.go

// Package runnertest provides a scripted Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner"
)

// Call records one invocation of the fake
type Call struct {
	Method   string // run, launch or powershell
	Script   string
	Dir      string
	Elevated bool
	Options  runner.LaunchOptions
}

// Response is returned for scripts containing Match
type Response struct {
	Match    string
	Output   string
	ExitCode int
	Err      error
	Do       func(Call) // side effect, e.g. creating files
}

// Fake is a Runner that records calls and replays canned responses
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	responses []Response
}

// New creates an empty fake; unmatched scripts succeed with no output
func New() *Fake {
	return &Fake{}
}

// On registers a response for scripts containing match
func (f *Fake) On(match, output string, exitCode int) *Fake {
	return f.OnResponse(Response{Match: match, Output: output, ExitCode: exitCode})
}

// OnResponse registers a full response
func (f *Fake) OnResponse(r Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, r)
	return f
}

// Calls returns a copy of the recorded calls
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Scripts returns the recorded scripts in order
func (f *Fake) Scripts() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Script)
	}
	return out
}

func (f *Fake) Run(ctx context.Context, cmd runner.Command) (*runner.Result, error) {
	return f.handle(ctx, Call{Method: "run", Script: cmd.Script, Dir: cmd.Dir, Elevated: cmd.Elevated})
}

func (f *Fake) Launch(ctx context.Context, cmd runner.Command, opts runner.LaunchOptions) error {
	_, err := f.handle(ctx, Call{Method: "launch", Script: cmd.Script, Dir: cmd.Dir, Options: opts})
	return err
}

func (f *Fake) PowerShell(ctx context.Context, script string) (*runner.Result, error) {
	return f.handle(ctx, Call{Method: "powershell", Script: script})
}

func (f *Fake) handle(ctx context.Context, call Call) (*runner.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	var resp *Response
	for i := range f.responses {
		if strings.Contains(call.Script, f.responses[i].Match) {
			resp = &f.responses[i]
			break
		}
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &core.CommandError{Command: call.Script, ExitCode: -1, Err: err}
	}

	if resp == nil {
		return &runner.Result{}, nil
	}
	if resp.Do != nil {
		resp.Do(call)
	}

	res := &runner.Result{Output: resp.Output, ExitCode: resp.ExitCode}
	if resp.Err != nil {
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
		return res, &core.CommandError{Command: call.Script, ExitCode: res.ExitCode, Output: res.Output, Err: resp.Err}
	}
	if resp.ExitCode != 0 {
		return res, &core.CommandError{Command: call.Script, ExitCode: res.ExitCode, Output: res.Output}
	}
	return res, nil
}

var _ runner.Runner = (*Fake)(nil)
