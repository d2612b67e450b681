package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tda/internal/domain"
)

// ExecutorURI stamps every discovered case so the host routes execution to
// the matching executor.
const ExecutorURI = "executor://BinaryTestExecutor"

// FileExtensions are the binary extensions discovery applies to.
var FileExtensions = []string{".dll", ".exe"}

var caseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(ExecutorURI))

// IsApplicable reports whether path has a binary-module extension.
func IsApplicable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range FileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Converter maps one test-case node to a host test case.
type Converter interface {
	ConvertTestCase(node *domain.ResultNode) (domain.DiscoveredCase, error)
}

// ConverterFactory creates a Converter for one source binary.
type ConverterFactory func(source string) Converter

// TestConverter is the default Converter. Results are cached by engine id.
type TestConverter struct {
	source string
	cache  map[string]domain.DiscoveredCase
}

// NewTestConverter creates a TestConverter for source.
func NewTestConverter(source string) *TestConverter {
	return &TestConverter{
		source: source,
		cache:  make(map[string]domain.DiscoveredCase),
	}
}

// ConvertTestCase converts node. The fullname attribute is required.
func (c *TestConverter) ConvertTestCase(node *domain.ResultNode) (domain.DiscoveredCase, error) {
	if node == nil || node.Kind != domain.KindTestCase {
		return domain.DiscoveredCase{}, errors.New("not a test-case node")
	}

	engineID := node.Attr(domain.AttrID)
	if tc, ok := c.cache[engineID]; ok && engineID != "" {
		return tc, nil
	}

	fqn := node.Attr(domain.AttrFullName)
	if fqn == "" {
		return domain.DiscoveredCase{}, fmt.Errorf("test-case %q has no fullname", node.Attr(domain.AttrName))
	}

	name := node.Attr(domain.AttrName)
	if name == "" {
		name = fqn
	}

	tc := domain.DiscoveredCase{
		ID:                 uuid.NewSHA1(caseNamespace, []byte(c.source+"\x00"+fqn)).String(),
		FullyQualifiedName: fqn,
		DisplayName:        name,
		ExecutorURI:        ExecutorURI,
		Source:             c.source,
		EngineID:           engineID,
		ClassName:          node.Attr(domain.AttrClassName),
		MethodName:         node.Attr(domain.AttrMethodName),
		Categories:         node.PropertyValues(domain.PropCategory),
	}

	if engineID != "" {
		c.cache[engineID] = tc
	}
	return tc, nil
}
