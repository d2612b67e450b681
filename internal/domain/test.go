package domain

// DiscoveredCase is a test case in the host's schema, produced from one
// test-case node of an explored result tree.
type DiscoveredCase struct {
	ID                 string   `json:"id"`
	FullyQualifiedName string   `json:"fully_qualified_name"`
	DisplayName        string   `json:"display_name"`
	ExecutorURI        string   `json:"executor_uri"`
	Source             string   `json:"source"`
	EngineID           string   `json:"engine_id,omitempty"`
	ClassName          string   `json:"class_name,omitempty"`
	MethodName         string   `json:"method_name,omitempty"`
	Categories         []string `json:"categories,omitempty"`
}
