package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"tda/internal/domain"
	"tda/internal/engine"
)

// Skip reasons that mean the binary simply has no tests.
var noTestsReasons = []string{"contains no tests", "Has no TestFixtures"}

// Settings is the run configuration discovery consults.
type Settings interface {
	InProcDataCollectorsAvailable() bool
	RandomSeedSpecified() bool
	SaveRandomSeed(dir string) error
}

// Logger receives discovery diagnostics.
type Logger interface {
	Info(msg string)
	Debug(msg string)
	Warning(msg string, err error)
	Error(msg string)
}

// Sink receives each discovered case.
type Sink interface {
	Report(c domain.DiscoveredCase)
}

// Channels is the process-wide engine channel state, reset when discovery
// starts and torn down when it ends.
type Channels interface {
	Reset() error
	Teardown() error
}

// Progress is notified after each binary.
type Progress interface {
	Update(sources, cases int)
	Finish()
}

// Discoverer enumerates the test cases of binaries through the engine.
type Discoverer struct {
	factory      engine.Factory
	channels     Channels
	newConverter ConverterFactory
	version      string
	progress     Progress
}

// NewDiscoverer creates a Discoverer using the default TestConverter.
func NewDiscoverer(factory engine.Factory, channels Channels, version string) *Discoverer {
	return &Discoverer{
		factory:  factory,
		channels: channels,
		newConverter: func(source string) Converter {
			return NewTestConverter(source)
		},
		version: version,
	}
}

// SetConverterFactory replaces the converter used for each binary.
func (d *Discoverer) SetConverterFactory(f ConverterFactory) {
	d.newConverter = f
}

// SetProgress sets the progress reporter
func (d *Discoverer) SetProgress(progress Progress) {
	d.progress = progress
}

// DiscoverTests explores each source in order and reports every test case
// found to sink. Failures are logged per binary and never abort the run;
// the only run-level abort is in-process data collectors combined with
// more than one source. ctx is checked between binaries only.
func (d *Discoverer) DiscoverTests(ctx context.Context, sources []string, settings Settings, log Logger, sink Sink) {
	log.Info(fmt.Sprintf("tda Adapter %s: Test discovery starting", d.version))

	if err := d.channels.Reset(); err != nil {
		log.Debug(fmt.Sprintf("Unable to clean up stale engine channels: %v", err))
	}

	if settings.InProcDataCollectorsAvailable() && len(sources) > 1 {
		log.Error("Unexpected to discover tests in multiple assemblies when InProcDataCollectors specified in run configuration.")
		d.unload(log)
		return
	}

	total := 0
	for i, source := range sources {
		if ctx.Err() != nil {
			log.Info(fmt.Sprintf("Test discovery cancelled, skipping %d remaining source(s)", len(sources)-i))
			break
		}

		log.Debug("Processing " + source)

		if !settings.RandomSeedSpecified() {
			if err := settings.SaveRandomSeed(filepath.Dir(source)); err != nil {
				log.Debug(fmt.Sprintf("Unable to save random seed for %s: %v", source, err))
			}
		}

		total += d.discoverSource(ctx, source, log, sink)

		if d.progress != nil {
			d.progress.Update(i+1, total)
		}
	}
	if d.progress != nil {
		d.progress.Finish()
	}

	log.Info(fmt.Sprintf("tda Adapter %s: Test discovery complete, %d test case(s) in %d source(s)", d.version, total, len(sources)))
	d.unload(log)
}

func (d *Discoverer) unload(log Logger) {
	if err := d.channels.Teardown(); err != nil {
		log.Debug(fmt.Sprintf("Unable to tear down engine channels: %v", err))
	}
}

// discoverSource handles one binary and returns the number of cases reported.
func (d *Discoverer) discoverSource(ctx context.Context, source string, log Logger, sink Sink) int {
	cases := 0
	err := withRunner(d.factory, source, log, func(runner engine.Runner) error {
		root, err := runner.Explore(ctx, engine.EmptyFilter)
		if err != nil {
			return err
		}
		cases = d.processTree(root, source, log, sink)
		return nil
	})
	if err != nil {
		c := Classify(source, err)
		log.Warning(c.Message, c.Detail)
	}
	return cases
}

func (d *Discoverer) processTree(root *domain.ResultNode, source string, log Logger, sink Sink) int {
	top := topNode(root)

	if top != nil && top.RunState() == domain.RunStateRunnable {
		cases := d.processTestCases(top, source, log, sink)
		log.Debug(fmt.Sprintf("Discovered %d test cases in %s", cases, source))
		return cases
	}

	reason, _ := top.Property(domain.PropSkipReason)
	if containsAny(reason, noTestsReasons) {
		log.Info("Assembly contains no tests: " + source)
	} else {
		log.Info("Failed to load " + source)
	}
	return 0
}

func (d *Discoverer) processTestCases(top *domain.ResultNode, source string, log Logger, sink Sink) int {
	converter := d.newConverter(source)
	cases := 0

	WalkTestCases(top, func(node *domain.ResultNode) {
		if err := d.reportTestCase(converter, node, log, sink); err != nil {
			log.Warning("Exception converting "+node.Attr(domain.AttrFullName), err)
			return
		}
		cases++
	})

	return cases
}

// reportTestCase converts node and hands it to sink. A panic anywhere in
// the step fails this node only.
func (d *Discoverer) reportTestCase(c Converter, node *domain.ResultNode, log Logger, sink Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic reporting test case: %v", r)
		}
	}()

	tc, err := c.ConvertTestCase(node)
	if err != nil {
		return err
	}

	log.Debug(fmt.Sprintf("tda Adapter %s: Discovered TestCase FQN: %s, Executor uri: %s, Source: %s, Id: %s",
		d.version,
		tc.FullyQualifiedName,
		tc.ExecutorURI,
		tc.Source,
		tc.ID))

	sink.Report(tc)
	return nil
}

func containsAny(s string, subs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
