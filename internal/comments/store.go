// Package comments loads XML documentation files and renders their comment
// fragments as inline markup.
package comments

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Store indexes the <member> entries of an XML documentation file by their
// canonical identifier.
type Store struct {
	members map[string]*Node
}

// Load reads the documentation file under the given path.
func Load(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	store, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return store, nil
}

// Parse builds a store from an XML documentation document.
func Parse(reader io.Reader) (*Store, error) {
	root, err := parseTree(reader)
	if err != nil {
		return nil, err
	}

	store := &Store{members: make(map[string]*Node)}
	if root == nil || root.Name != "doc" {
		return store, nil
	}

	for _, members := range root.Children {
		if members.Name != "members" {
			continue
		}
		for _, member := range members.Children {
			if member.Name != "member" {
				continue
			}
			name, found := member.Attr("name")
			if !found {
				continue
			}
			// The first entry wins, like an XPath single-node selection.
			if _, exists := store.members[name]; !exists {
				store.members[name] = member
			}
		}
	}

	return store, nil
}

// Lookup returns the member fragment with the given identifier, or nil.
func (s *Store) Lookup(id string) *Node {
	if s == nil {
		return nil
	}
	return s.members[id]
}

// Len returns the number of indexed members.
func (s *Store) Len() int {
	return len(s.members)
}

// parseTree decodes the document into nodes. Whitespace-only text between
// elements is dropped.
func parseTree(reader io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = true

	var root *Node
	var stack []*Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch element := token.(type) {
		case xml.StartElement:
			node := &Node{Name: element.Name.Local}
			for _, attr := range element.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: attrName(attr.Name), Value: attr.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 || (strings.TrimSpace(string(element)) == "" && !insideMemberContent(stack)) {
				continue
			}
			parent := stack[len(stack)-1]
			if last := len(parent.Children) - 1; last >= 0 && parent.Children[last].IsText() {
				parent.Children[last].Text += string(element)
				continue
			}
			parent.Children = append(parent.Children, newText(string(element)))
		}
	}

	return root, nil
}

// insideMemberContent reports whether the innermost open element sits below a
// <member>. Whitespace there separates words and must be kept; whitespace
// between the structural elements is layout only.
func insideMemberContent(stack []*Node) bool {
	for _, open := range stack[:len(stack)-1] {
		if open.Name == "member" {
			return true
		}
	}
	return false
}

func attrName(name xml.Name) string {
	if name.Space == "xml" || name.Space == "http://www.w3.org/XML/1998/namespace" {
		return "xml:" + name.Local
	}
	return name.Local
}
