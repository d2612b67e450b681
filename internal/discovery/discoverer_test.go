package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tda/internal/domain"
	"tda/internal/engine"
	"tda/internal/sink"
)

type harness struct {
	factory  *fakeFactory
	channels *fakeChannels
	settings *fakeSettings
	log      *recordingLogger
	sink     *sink.Collector
	d        *Discoverer
}

func newHarness(runners map[string]*fakeRunner) *harness {
	h := &harness{
		factory:  &fakeFactory{runners: runners},
		channels: &fakeChannels{},
		settings: &fakeSettings{},
		log:      &recordingLogger{},
		sink:     sink.NewCollector(),
	}
	h.d = NewDiscoverer(h.factory, h.channels, "1.0.0")
	return h
}

func (h *harness) run(sources ...string) {
	h.d.DiscoverTests(context.Background(), sources, h.settings, h.log, h.sink)
}

func fqns(cases []domain.DiscoveredCase) []string {
	var out []string
	for _, c := range cases {
		out = append(out, c.FullyQualifiedName)
	}
	return out
}

func TestDiscoverTests_RunnableAndUnsupported(t *testing.T) {
	a := &fakeRunner{tree: testRun(assembly(domain.RunStateRunnable,
		node(domain.KindTestSuite, nil, testCase("A.T.One"), testCase("A.T.Two")),
		testCase("A.Three"),
	))}
	b := &fakeRunner{err: engine.NewFailure(engine.KindUnsupportedImage, "B.dll", "", "")}
	h := newHarness(map[string]*fakeRunner{"A.dll": a, "B.dll": b})

	h.run("A.dll", "B.dll")

	assert.Equal(t, []string{"A.T.One", "A.T.Two", "A.Three"}, fqns(h.sink.Cases()))
	for _, c := range h.sink.Cases() {
		assert.Equal(t, "A.dll", c.Source)
		assert.Equal(t, ExecutorURI, c.ExecutorURI)
	}

	warnings := h.log.at("warning", "")
	require.Len(t, warnings, 1)
	assert.Equal(t, "Assembly not supported: B.dll", warnings[0].msg)
	assert.NoError(t, warnings[0].err)

	assert.Len(t, h.log.at("info", "Test discovery starting"), 1)
	complete := h.log.at("info", "Test discovery complete")
	require.Len(t, complete, 1)
	assert.Contains(t, complete[0].msg, "3 test case(s) in 2 source(s)")
	assert.Len(t, h.log.at("debug", "Discovered 3 test cases in A.dll"), 1)
}

func TestDiscoverTests_NotRunnable(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		message string
	}{
		{name: "no fixtures", reason: "Has no TestFixtures", message: "Assembly contains no tests: C.dll"},
		{name: "no tests", reason: "Assembly contains no tests", message: "Assembly contains no tests: C.dll"},
		{name: "other reason", reason: "Framework not found", message: "Failed to load C.dll"},
		{name: "no reason", reason: "", message: "Failed to load C.dll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := assembly(domain.RunStateSkipped, testCase("C.Hidden"))
			if tt.reason != "" {
				top.Properties = []domain.Property{{Name: domain.PropSkipReason, Value: tt.reason}}
			}
			h := newHarness(map[string]*fakeRunner{"C.dll": {tree: testRun(top)}})

			h.run("C.dll")

			assert.Zero(t, h.sink.Len())
			assert.Len(t, h.log.at("info", "C.dll"), 1)
			assert.Len(t, h.log.at("info", tt.message), 1)
			assert.Empty(t, h.log.at("warning", ""))
		})
	}
}

func TestDiscoverTests_ConversionFailureIsolated(t *testing.T) {
	tree := assembly(domain.RunStateRunnable,
		node(domain.KindTestSuite, nil, testCase("D.T.First"), testCase("D.T.Second")),
		node(domain.KindTestSuite, nil, testCase("D.U.Cousin")),
	)
	for _, panics := range []bool{false, true} {
		h := newHarness(map[string]*fakeRunner{"D.dll": {tree: tree}})
		h.d.SetConverterFactory(func(source string) Converter {
			return &failingConverter{
				inner: NewTestConverter(source),
				fail:  map[string]bool{"D.T.Second": true},
				panic: panics,
			}
		})

		h.run("D.dll")

		assert.Equal(t, []string{"D.T.First", "D.U.Cousin"}, fqns(h.sink.Cases()))
		warnings := h.log.at("warning", "")
		require.Len(t, warnings, 1)
		assert.Equal(t, "Exception converting D.T.Second", warnings[0].msg)
		assert.Error(t, warnings[0].err)
	}
}

type flakySink struct {
	calls   int
	failOn  int
	reports []string
}

func (s *flakySink) Report(c domain.DiscoveredCase) {
	s.calls++
	if s.calls == s.failOn {
		panic("sink down")
	}
	s.reports = append(s.reports, c.FullyQualifiedName)
}

func TestDiscoverTests_ReportFailureIsolated(t *testing.T) {
	h := newHarness(map[string]*fakeRunner{
		"A.dll": {tree: assembly(domain.RunStateRunnable, testCase("A.One"), testCase("A.Two"), testCase("A.Three"))},
	})
	s := &flakySink{failOn: 2}

	h.d.DiscoverTests(context.Background(), []string{"A.dll"}, h.settings, h.log, s)

	assert.Equal(t, 3, s.calls)
	assert.Equal(t, []string{"A.One", "A.Three"}, s.reports)

	warnings := h.log.at("warning", "")
	require.Len(t, warnings, 1)
	assert.Equal(t, "Exception converting A.Two", warnings[0].msg)
	assert.ErrorContains(t, warnings[0].err, "sink down")
	assert.Empty(t, h.log.at("warning", "Exception thrown discovering tests in"))
	assert.Len(t, h.log.at("info", "Test discovery complete, 2 test case(s) in 1 source(s)"), 1)
	assert.Equal(t, 1, h.factory.runners["A.dll"].disposes)
}

func TestDiscoverTests_ReleasesRunnerOnEveryPath(t *testing.T) {
	runners := map[string]*fakeRunner{
		"ok.dll":         {tree: assembly(domain.RunStateRunnable, testCase("Ok.One"))},
		"skipped.dll":    {tree: assembly(domain.RunStateNotRunnable)},
		"classified.dll": {err: engine.NewFailure(engine.KindMissingDependency, "classified.dll", "dep", "")},
		"plain.dll":      {err: errors.New("boom")},
		"panic.dll":      {panicMsg: "engine exploded"},
		"running.dll":    {err: errors.New("interrupted"), running: true},
	}
	sources := []string{"ok.dll", "skipped.dll", "classified.dll", "plain.dll", "panic.dll", "running.dll"}
	h := newHarness(runners)

	h.run(sources...)

	assert.Equal(t, sources, h.factory.acquired)
	for name, r := range runners {
		assert.Equal(t, 1, r.explores, name)
		assert.Equal(t, 1, r.unloads, name)
		assert.Equal(t, 1, r.disposes, name)
	}
	assert.Equal(t, 1, runners["running.dll"].stops)
	assert.Zero(t, runners["ok.dll"].stops)

	panicWarn := h.log.at("warning", "panic.dll")
	require.Len(t, panicWarn, 1)
	assert.ErrorContains(t, panicWarn[0].err, "engine exploded")

	assert.Len(t, h.log.at("info", "Test discovery complete"), 1)
	assert.Equal(t, 1, h.channels.teardowns)
}

func TestDiscoverTests_AcquisitionFailure(t *testing.T) {
	h := newHarness(map[string]*fakeRunner{"good.dll": {tree: assembly(domain.RunStateRunnable, testCase("G.One"))}})

	h.run("missing.dll", "good.dll")

	assert.Equal(t, []string{"G.One"}, fqns(h.sink.Cases()))
	assert.Len(t, h.log.at("warning", "Exception thrown discovering tests in missing.dll"), 1)
}

func TestDiscoverTests_InProcCollectorsRejectMultipleSources(t *testing.T) {
	h := newHarness(map[string]*fakeRunner{
		"A.dll": {tree: assembly(domain.RunStateRunnable, testCase("A.One"))},
		"B.dll": {tree: assembly(domain.RunStateRunnable, testCase("B.One"))},
	})
	h.settings.inProc = true

	h.run("A.dll", "B.dll")

	assert.Empty(t, h.factory.acquired)
	assert.Zero(t, h.sink.Len())
	require.Len(t, h.log.at("error", ""), 1)
	last := h.log.entries[len(h.log.entries)-1]
	assert.Equal(t, "error", last.level)
	assert.Equal(t, 1, h.channels.resets)
	assert.Equal(t, 1, h.channels.teardowns)
	assert.Empty(t, h.settings.savedDirs)
}

func TestDiscoverTests_InProcCollectorsSingleSource(t *testing.T) {
	h := newHarness(map[string]*fakeRunner{"A.dll": {tree: assembly(domain.RunStateRunnable, testCase("A.One"))}})
	h.settings.inProc = true

	h.run("A.dll")

	assert.Equal(t, 1, h.sink.Len())
	assert.Empty(t, h.log.at("error", ""))
}

func TestDiscoverTests_RandomSeed(t *testing.T) {
	runners := map[string]*fakeRunner{
		"/out/a/A.dll": {tree: assembly(domain.RunStateRunnable, testCase("A.One"))},
		"/out/b/B.dll": {tree: assembly(domain.RunStateRunnable, testCase("B.One"))},
	}

	t.Run("saved next to each binary", func(t *testing.T) {
		h := newHarness(runners)
		h.settings.saveErr = errors.New("read-only")

		h.run("/out/a/A.dll", "/out/b/B.dll")

		assert.Equal(t, []string{"/out/a", "/out/b"}, h.settings.savedDirs)
		assert.Len(t, h.log.at("debug", "Unable to save random seed"), 2)
		assert.Equal(t, 2, h.sink.Len(), "seed failures do not stop discovery")
	})

	t.Run("not saved when specified", func(t *testing.T) {
		h := newHarness(runners)
		h.settings.seedSpecified = true

		h.run("/out/a/A.dll")

		assert.Empty(t, h.settings.savedDirs)
	})
}

func TestDiscoverTests_Idempotent(t *testing.T) {
	tree := testRun(assembly(domain.RunStateRunnable,
		node(domain.KindTestSuite, nil, testCase("E.T.One"), testCase("E.T.Two")),
	))
	ids := func() []string {
		h := newHarness(map[string]*fakeRunner{"E.dll": {tree: tree}})
		h.run("E.dll")
		var out []string
		for _, c := range h.sink.Cases() {
			out = append(out, c.ID)
		}
		return out
	}

	first := ids()
	require.Len(t, first, 2)
	assert.Equal(t, first, ids())
}

func TestDiscoverTests_CancelledBetweenSources(t *testing.T) {
	h := newHarness(map[string]*fakeRunner{
		"A.dll": {tree: assembly(domain.RunStateRunnable, testCase("A.One"))},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.d.DiscoverTests(ctx, []string{"A.dll", "B.dll"}, h.settings, h.log, h.sink)

	assert.Empty(t, h.factory.acquired)
	assert.Len(t, h.log.at("info", "skipping 2 remaining"), 1)
	assert.Len(t, h.log.at("info", "Test discovery complete"), 1)
	assert.Equal(t, 1, h.channels.teardowns)
}

type recordingProgress struct {
	updates  [][2]int
	finished bool
}

func (p *recordingProgress) Update(sources, cases int) {
	p.updates = append(p.updates, [2]int{sources, cases})
}
func (p *recordingProgress) Finish() { p.finished = true }

func TestDiscoverTests_Progress(t *testing.T) {
	h := newHarness(map[string]*fakeRunner{
		"A.dll": {tree: assembly(domain.RunStateRunnable, testCase("A.One"), testCase("A.Two"))},
		"B.dll": {err: errors.New("bad")},
	})
	p := &recordingProgress{}
	h.d.SetProgress(p)

	h.run("A.dll", "B.dll")

	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, p.updates)
	assert.True(t, p.finished)
}
