package sink

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tda/internal/domain"
)

// Sink receives discovered test cases one at a time.
type Sink interface {
	Report(c domain.DiscoveredCase)
}

// Collector keeps every reported case in report order.
type Collector struct {
	cases []domain.DiscoveredCase
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(tc domain.DiscoveredCase) {
	c.cases = append(c.cases, tc)
}

// Cases returns the collected cases.
func (c *Collector) Cases() []domain.DiscoveredCase {
	return c.cases
}

// Len returns the number of collected cases.
func (c *Collector) Len() int {
	return len(c.cases)
}

// Multi fans every report out to each sink in order.
type Multi []Sink

func (m Multi) Report(c domain.DiscoveredCase) {
	for _, s := range m {
		s.Report(c)
	}
}

// Console prints one line per case.
type Console struct {
	out io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Report(tc domain.DiscoveredCase) {
	fmt.Fprintf(c.out, "%s %s %s\n",
		color.GreenString("+"),
		tc.FullyQualifiedName,
		color.HiBlackString("(%s)", tc.Source),
	)
}
