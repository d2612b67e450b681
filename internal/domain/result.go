package domain

// RunState is the engine's runnable classification of a result node.
type RunState string

const (
	RunStateRunnable    RunState = "Runnable"
	RunStateNotRunnable RunState = "NotRunnable"
	RunStateSkipped     RunState = "Skipped"
	RunStateIgnored     RunState = "Ignored"
	RunStateExplicit    RunState = "Explicit"
)

// Node kinds and attribute names used by the engine's result tree.
const (
	KindTestRun   = "test-run"
	KindTestSuite = "test-suite"
	KindTestCase  = "test-case"

	AttrRunState   = "runstate"
	AttrFullName   = "fullname"
	AttrName       = "name"
	AttrID         = "id"
	AttrClassName  = "classname"
	AttrMethodName = "methodname"

	PropSkipReason = "_SKIPREASON"
	PropCategory   = "Category"
)

// Property is a named metadata entry attached to a result node.
type Property struct {
	Name  string
	Value string
}

// ResultNode is one element of the tree returned by an exploration.
type ResultNode struct {
	Kind       string
	Attributes map[string]string
	Children   []*ResultNode
	Properties []Property
}

// Attr returns the named attribute or "" when absent.
func (n *ResultNode) Attr(name string) string {
	if n == nil || n.Attributes == nil {
		return ""
	}
	return n.Attributes[name]
}

// RunState returns the node's runstate attribute.
func (n *ResultNode) RunState() RunState {
	return RunState(n.Attr(AttrRunState))
}

// FirstChild returns the first child node, or nil.
func (n *ResultNode) FirstChild() *ResultNode {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Property returns the first property with the given name.
func (n *ResultNode) Property(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// PropertyValues returns every value recorded under name, in order.
func (n *ResultNode) PropertyValues(name string) []string {
	if n == nil {
		return nil
	}
	var values []string
	for _, p := range n.Properties {
		if p.Name == name {
			values = append(values, p.Value)
		}
	}
	return values
}

// DiscoveryMeta contains metadata about a discovery run
type DiscoveryMeta struct {
	AdapterVersion  string  `json:"adapter_version"`
	TotalSources    int     `json:"total_sources"`
	DiscoveredCases int     `json:"discovered_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// DiscoveryOutput is the complete persisted structure for a discovery run
type DiscoveryOutput struct {
	Meta  DiscoveryMeta    `json:"meta"`
	Cases []DiscoveredCase `json:"cases"`
}
