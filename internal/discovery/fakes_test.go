package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tda/internal/domain"
	"tda/internal/engine"
)

type logEntry struct {
	level string
	msg   string
	err   error
}

type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) Info(msg string) {
	l.entries = append(l.entries, logEntry{level: "info", msg: msg})
}
func (l *recordingLogger) Debug(msg string) {
	l.entries = append(l.entries, logEntry{level: "debug", msg: msg})
}
func (l *recordingLogger) Error(msg string) {
	l.entries = append(l.entries, logEntry{level: "error", msg: msg})
}
func (l *recordingLogger) Warning(msg string, err error) {
	l.entries = append(l.entries, logEntry{level: "warning", msg: msg, err: err})
}

// at returns entries of level whose message contains substr.
func (l *recordingLogger) at(level, substr string) []logEntry {
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level && strings.Contains(e.msg, substr) {
			out = append(out, e)
		}
	}
	return out
}

type fakeSettings struct {
	inProc        bool
	seedSpecified bool
	saveErr       error
	savedDirs     []string
}

func (s *fakeSettings) InProcDataCollectorsAvailable() bool { return s.inProc }
func (s *fakeSettings) RandomSeedSpecified() bool           { return s.seedSpecified }
func (s *fakeSettings) SaveRandomSeed(dir string) error {
	s.savedDirs = append(s.savedDirs, dir)
	return s.saveErr
}

type fakeChannels struct {
	resets    int
	teardowns int
}

func (c *fakeChannels) Reset() error    { c.resets++; return nil }
func (c *fakeChannels) Teardown() error { c.teardowns++; return nil }

type fakeRunner struct {
	tree     *domain.ResultNode
	err      error
	panicMsg string
	running  bool

	explores int
	stops    int
	unloads  int
	disposes int
}

func (r *fakeRunner) Explore(ctx context.Context, filter engine.Filter) (*domain.ResultNode, error) {
	r.explores++
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	return r.tree, r.err
}

func (r *fakeRunner) IsRunInProgress() bool { return r.running }
func (r *fakeRunner) StopRun(force bool) error {
	r.stops++
	r.running = false
	return nil
}
func (r *fakeRunner) Unload() error  { r.unloads++; return errors.New("already unloaded") }
func (r *fakeRunner) Dispose() error { r.disposes++; return nil }

type fakeFactory struct {
	runners  map[string]*fakeRunner
	acquired []string
}

func (f *fakeFactory) NewRunner(source string) (engine.Runner, error) {
	f.acquired = append(f.acquired, source)
	r, ok := f.runners[source]
	if !ok {
		return nil, fmt.Errorf("no runner for %s", source)
	}
	return r, nil
}

// Tree builders.

func node(kind string, attrs map[string]string, children ...*domain.ResultNode) *domain.ResultNode {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &domain.ResultNode{Kind: kind, Attributes: attrs, Children: children}
}

func testCase(fullname string) *domain.ResultNode {
	return node(domain.KindTestCase, map[string]string{
		domain.AttrFullName: fullname,
		domain.AttrName:     fullname[strings.LastIndex(fullname, ".")+1:],
		domain.AttrID:       "id-" + fullname,
	})
}

func assembly(state domain.RunState, children ...*domain.ResultNode) *domain.ResultNode {
	return node(domain.KindTestSuite, map[string]string{
		"type":              "Assembly",
		domain.AttrRunState: string(state),
	}, children...)
}

func testRun(child *domain.ResultNode) *domain.ResultNode {
	return node(domain.KindTestRun, nil, child)
}

// failingConverter fails for the listed full names.
type failingConverter struct {
	inner Converter
	fail  map[string]bool
	panic bool
}

func (c *failingConverter) ConvertTestCase(n *domain.ResultNode) (domain.DiscoveredCase, error) {
	if c.fail[n.Attr(domain.AttrFullName)] {
		if c.panic {
			panic("boom")
		}
		return domain.DiscoveredCase{}, errors.New("conversion failed")
	}
	return c.inner.ConvertTestCase(n)
}
