package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"tda/internal/domain"
)

// Placeholders expanded in explorer arguments.
const (
	SourcePlaceholder = "{source}"
	OutputPlaceholder = "{output}"
)

const exploreFile = "explore.xml"

// ProcessFactory creates runners that explore binaries with an external
// explorer command.
type ProcessFactory struct {
	command  string
	args     []string
	registry *Registry
}

// NewProcessFactory creates a ProcessFactory.
func NewProcessFactory(command string, args []string, registry *Registry) *ProcessFactory {
	return &ProcessFactory{
		command:  command,
		args:     args,
		registry: registry,
	}
}

// NewRunner acquires a runner bound to source.
func (f *ProcessFactory) NewRunner(source string) (Runner, error) {
	if f.command == "" {
		return nil, errors.New("no explorer command configured")
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", source, err)
	}
	return &ProcessRunner{
		source:   abs,
		command:  f.command,
		args:     f.args,
		registry: f.registry,
	}, nil
}

// ProcessRunner explores a single binary by running the explorer command
// and decoding the XML it writes into its session directory.
type ProcessRunner struct {
	source   string
	command  string
	args     []string
	registry *Registry

	mu       sync.Mutex
	cmd      *exec.Cmd
	workDir  string
	disposed bool
}

// Explore runs the explorer once. The process is detached from ctx
// cancellation: an exploration that has started runs to completion.
func (r *ProcessRunner) Explore(ctx context.Context, filter Filter) (*domain.ResultNode, error) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return nil, errors.New("runner disposed")
	}
	r.mu.Unlock()

	if err := ProbeImage(r.source); err != nil {
		return nil, err
	}

	workDir, err := r.registry.Open()
	if err != nil {
		return nil, err
	}
	output := filepath.Join(workDir, exploreFile)

	args := r.expandArgs(output)
	if filter != EmptyFilter {
		args = append(args, "--where="+string(filter))
	}

	cmd := exec.CommandContext(context.WithoutCancel(ctx), r.command, args...)
	cmd.Dir = filepath.Dir(r.source)
	cmd.Env = os.Environ()
	var stderr, stdout bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout

	r.mu.Lock()
	r.workDir = workDir
	r.cmd = cmd
	r.mu.Unlock()

	runErr := cmd.Run()

	r.mu.Lock()
	r.cmd = nil
	r.mu.Unlock()

	if runErr != nil {
		return nil, parseFailure(r.source, stderr.String()+"\n"+stdout.String(), runErr)
	}

	f, err := os.Open(output)
	if err != nil {
		return nil, fmt.Errorf("read exploration result: %w", err)
	}
	defer f.Close()

	return DecodeResultTree(f)
}

func (r *ProcessRunner) expandArgs(output string) []string {
	args := make([]string, len(r.args))
	for i, a := range r.args {
		a = strings.ReplaceAll(a, SourcePlaceholder, r.source)
		args[i] = strings.ReplaceAll(a, OutputPlaceholder, output)
	}
	return args
}

// IsRunInProgress reports whether an explorer process is still running.
func (r *ProcessRunner) IsRunInProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil && r.cmd.Process != nil && r.cmd.ProcessState == nil
}

// StopRun stops a running explorer, killing it when force is set.
func (r *ProcessRunner) StopRun(force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	if force {
		return r.cmd.Process.Kill()
	}
	return r.cmd.Process.Signal(os.Interrupt)
}

// Unload releases the session directory.
func (r *ProcessRunner) Unload() error {
	r.mu.Lock()
	dir := r.workDir
	r.workDir = ""
	r.mu.Unlock()
	if dir == "" {
		return nil
	}
	return r.registry.Release(dir)
}

// Dispose marks the runner unusable.
func (r *ProcessRunner) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
	return nil
}

var failurePatterns = []struct {
	kind   Kind
	marker string
	name   *regexp.Regexp
}{
	{KindUnsupportedImage, "BadImageFormatException", nil},
	{KindMissingDependency, "FileNotFoundException", regexp.MustCompile(`FileNotFoundException[^']*'([^',]+)`)},
	{KindDependencyLoad, "FileLoadException", regexp.MustCompile(`FileLoadException[^']*'([^',]+)`)},
	{KindTypeLoad, "TypeLoadException", regexp.MustCompile(`TypeLoadException[^']*'([^']+)'`)},
}

// parseFailure maps explorer output to a Failure. The exception named
// first in the output decides the kind.
func parseFailure(source, output string, runErr error) error {
	best := -1
	var failure *Failure
	for _, p := range failurePatterns {
		idx := strings.Index(output, p.marker)
		if idx < 0 || (best >= 0 && idx >= best) {
			continue
		}
		best = idx
		failure = &Failure{Kind: p.kind, Source: source, Message: p.marker, Underlying: runErr}
		if p.name != nil {
			if m := p.name.FindStringSubmatch(output[idx:]); len(m) > 1 {
				failure.Name = strings.TrimSpace(m[1])
			}
		}
	}
	if failure != nil {
		return failure
	}
	return &Failure{Kind: KindUnexpected, Source: source, Message: firstLine(output), Underlying: runErr}
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "explorer failed"
}
