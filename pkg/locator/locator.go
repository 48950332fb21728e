// pkg/locator/locator.go
package locator

import (
	"context"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/arc-language/pyman/pkg/core"
)

// Locator discovers Python interpreters and Conda distributions.
// Concurrent discoveries share one scan; nothing is cached between scans.
type Locator struct {
	config *Config
	logger *log.Logger
	group  singleflight.Group
}

// New creates a locator
func New(cfg *Config) *Locator {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.GOOS == "" {
		cfg.GOOS = runtime.GOOS
	}
	if cfg.Registry == nil {
		cfg.Registry = hostRegistry()
	}
	if cfg.LookPath == nil {
		cfg.LookPath = exec.LookPath
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[LOCATOR] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Locator{
		config: cfg,
		logger: logger,
	}
}

// Discover scans for vanilla interpreters and Conda distributions.
// Failures of individual candidates are logged and skipped, so the result
// may be partial but is always returned. The shared scan is not tied to any
// one caller's context; a caller whose ctx ends stops waiting and gets an
// empty snapshot while the others keep theirs.
func (l *Locator) Discover(ctx context.Context) *Snapshot {
	ch := l.group.DoChan("discover", func() (interface{}, error) {
		return l.scan(context.WithoutCancel(ctx)), nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		l.logger.Printf("⚠️  Discovery abandoned: %v", ctx.Err())
		return &Snapshot{}
	}
	if res.Shared {
		l.logger.Printf("Joined a discovery already in progress")
	}

	snap := res.Val.(*Snapshot)
	// Callers may sort or filter their copy
	return &Snapshot{
		Interpreters:  append([]core.InterpreterRecord(nil), snap.Interpreters...),
		Distributions: append([]core.InterpreterRecord(nil), snap.Distributions...),
	}
}

// Interpreters returns the vanilla interpreters
func (l *Locator) Interpreters(ctx context.Context) []core.InterpreterRecord {
	return l.Discover(ctx).Interpreters
}

// Distributions returns the Conda distributions
func (l *Locator) Distributions(ctx context.Context) []core.InterpreterRecord {
	return l.Discover(ctx).Distributions
}

func (l *Locator) scan(ctx context.Context) *Snapshot {
	l.logger.Printf("Scanning for Python installations (%s)", l.config.GOOS)

	snap := &Snapshot{}
	if l.config.GOOS == "windows" {
		snap.Interpreters = l.scanPythonCore()
		snap.Distributions = l.scanMiniforge()
	} else {
		snap.Interpreters = l.scanPath(ctx)
		snap.Interpreters = appendNew(snap.Interpreters, l.scanManagedPythons()...)
		snap.Distributions = l.scanConda(ctx)
	}

	l.logger.Printf("  ✓ Found %d interpreters and %d distributions",
		len(snap.Interpreters), len(snap.Distributions))
	return snap
}

// appendNew appends records whose Path is not yet present
func appendNew(records []core.InterpreterRecord, more ...core.InterpreterRecord) []core.InterpreterRecord {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.Path] = true
	}
	for _, r := range more {
		if seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		records = append(records, r)
	}
	return records
}
