package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"tda/internal/config"
	"tda/internal/domain"
)

// Formatter formats and displays discovery output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

// PrintMetaStats displays the statistics of a discovery run
func (f *Formatter) PrintMetaStats(output *domain.DiscoveryOutput) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Test Discovery Statistics                  ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))

	rows := []struct {
		label string
		value string
	}{
		{"Adapter Version", meta.AdapterVersion},
		{"Sources", fmt.Sprintf("%d", meta.TotalSources)},
		{"Discovered Test Cases", color.GreenString("%d", meta.DiscoveredCases)},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Timestamp", meta.Timestamp},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ %s\n", row.label, row.value)
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.DiscoveredCases == 0 {
		fmt.Fprintln(f.out, color.YellowString("No test cases discovered"))
	} else {
		fmt.Fprintln(f.out, color.GreenString("✓ Discovered %d test case(s) in %d source(s)", meta.DiscoveredCases, meta.TotalSources))
	}
}

// PrintCaseTree prints the discovered cases grouped by source binary, in
// discovery order
func (f *Formatter) PrintCaseTree(output *domain.DiscoveryOutput) {
	var sources []string
	bySource := make(map[string][]domain.DiscoveredCase)
	for _, c := range output.Cases {
		if _, ok := bySource[c.Source]; !ok {
			sources = append(sources, c.Source)
		}
		bySource[c.Source] = append(bySource[c.Source], c)
	}

	if len(sources) == 0 {
		fmt.Fprintln(f.out, color.YellowString("No test cases found"))
		return
	}

	fmt.Fprintln(f.out, color.GreenString("Found %d test case(s) in %d source(s):", len(output.Cases), len(sources)))
	fmt.Fprintln(f.out)

	for i, source := range sources {
		isLastSource := i == len(sources)-1
		branch, indent := "├── ", "│   "
		if isLastSource {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(f.out, "%s%s\n", branch, color.CyanString(f.relPath(source)))

		cases := bySource[source]
		for j, c := range cases {
			leaf := "├── "
			if j == len(cases)-1 {
				leaf = "└── "
			}
			line := color.YellowString(c.FullyQualifiedName)
			if len(c.Categories) > 0 {
				line += " " + color.HiBlackString("[%s]", strings.Join(c.Categories, ", "))
			}
			fmt.Fprintf(f.out, "%s%s%s\n", indent, leaf, line)
		}
	}
}

func (f *Formatter) relPath(path string) string {
	if f.config == nil || f.config.ProjectPath == "" {
		return path
	}
	base, err := filepath.Abs(f.config.ProjectPath)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
