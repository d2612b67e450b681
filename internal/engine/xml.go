package engine

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"tda/internal/domain"
)

type frame struct {
	node *domain.ResultNode
	// owner is set for <properties> frames and points at the node the
	// properties belong to.
	owner *domain.ResultNode
}

// DecodeResultTree reads an exploration result document. <property>
// elements nested in <properties> become node properties, every other
// element becomes a child node.
func DecodeResultTree(r io.Reader) (*domain.ResultNode, error) {
	dec := xml.NewDecoder(r)

	var root *domain.ResultNode
	var stack []frame

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode result tree: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var top *frame
			if len(stack) > 0 {
				top = &stack[len(stack)-1]
			}

			if top != nil && top.node != nil && t.Name.Local == "properties" {
				stack = append(stack, frame{owner: top.node})
				continue
			}
			if top != nil && top.owner != nil && t.Name.Local == "property" {
				p := domain.Property{}
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "name":
						p.Name = a.Value
					case "value":
						p.Value = a.Value
					}
				}
				top.owner.Properties = append(top.owner.Properties, p)
				stack = append(stack, frame{})
				continue
			}

			node := &domain.ResultNode{
				Kind:       t.Name.Local,
				Attributes: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				node.Attributes[a.Name.Local] = a.Value
			}
			if root == nil {
				root = node
			} else if parent := nearestNode(stack); parent != nil {
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, frame{node: node})

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, errors.New("decode result tree: empty document")
	}
	return root, nil
}

func nearestNode(stack []frame) *domain.ResultNode {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].node != nil {
			return stack[i].node
		}
		if stack[i].owner != nil {
			return stack[i].owner
		}
	}
	return nil
}
