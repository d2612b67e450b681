package discovery

import "tda/internal/domain"

// WalkTestCases calls visit for every test-case node under root, root
// included, in document order.
func WalkTestCases(root *domain.ResultNode, visit func(*domain.ResultNode)) {
	if root == nil {
		return
	}
	if root.Kind == domain.KindTestCase {
		visit(root)
	}
	for _, child := range root.Children {
		WalkTestCases(child, visit)
	}
}

// topNode unwraps a test-run wrapper to the node it reports on.
func topNode(root *domain.ResultNode) *domain.ResultNode {
	if root != nil && root.Kind == domain.KindTestRun {
		return root.FirstChild()
	}
	return root
}
