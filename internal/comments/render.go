package comments

import (
	"log/slog"
	"strings"
)

// Addresser derives link targets for type references found in comments.
type Addresser interface {
	// LocalAddress returns the lookup address of a type of this library.
	LocalAddress(name string) string
	// ExternalAddress returns the framework documentation address of a type.
	ExternalAddress(name string) string
}

// Selector picks a sub-element of a member fragment.
type Selector struct {
	element string
	name    string
}

// Element selects the first child element with the given name.
func Element(name string) Selector {
	return Selector{element: name}
}

// Param selects the <param> element documenting the named parameter.
func Param(name string) Selector {
	return Selector{element: "param", name: name}
}

// TypeParam selects the <typeparam> element documenting the named generic parameter.
func TypeParam(name string) Selector {
	return Selector{element: "typeparam", name: name}
}

func (s Selector) matches(node *Node) bool {
	if node.Name != s.element {
		return false
	}
	if s.name == "" {
		return true
	}
	name, _ := node.Attr("name")
	return name == s.name
}

// Renderer turns comment fragments into inline markup.
type Renderer struct {
	addresses Addresser
	logger    *slog.Logger
}

func NewRenderer(addresses Addresser, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{addresses: addresses, logger: logger}
}

// Content returns the rendered inner markup of the selected sub-element. The
// boolean is false when the fragment is nil or has no such sub-element.
func (r *Renderer) Content(fragment *Node, selector Selector) (string, bool) {
	if fragment == nil {
		return "", false
	}
	selected := fragment.Child(selector.matches)
	if selected == nil {
		return "", false
	}

	return r.rewrite(selected).InnerXML(), true
}

// rewrite returns a copy of the node with inline markers replaced.
func (r *Renderer) rewrite(node *Node) *Node {
	if node.IsText() {
		return node
	}

	switch node.Name {
	case "see":
		return r.anchor(node)
	case "c":
		return &Node{Name: "strong", Children: textChildren(node.InnerText())}
	case "paramref", "typeparamref":
		name, _ := node.Attr("name")
		return &Node{Name: "em", Children: textChildren(name)}
	}

	copied := &Node{Name: node.Name, Attrs: node.Attrs, Children: make([]*Node, 0, len(node.Children))}
	for _, child := range node.Children {
		copied.Children = append(copied.Children, r.rewrite(child))
	}
	return copied
}

// anchor rewrites a <see> marker into a hyperlink.
func (r *Renderer) anchor(see *Node) *Node {
	text := see.InnerText()
	var attrs []Attr

	if cref, found := see.Attr("cref"); found {
		kind, id, wellFormed := splitReference(cref)

		switch {
		case !wellFormed:
			r.logger.Debug("Malformed cross-reference", "cref", cref)
			if text == "" {
				text = stripArity(cref)
			}
		case kind == "T":
			if text == "" {
				text = stripArity(id[strings.LastIndex(id, ".")+1:])
			}
			attrs = append(attrs, Attr{Name: "href", Value: r.typeAddress(id)})
		default:
			if text == "" {
				text = stripArity(id)
			}
		}
	}

	if href, found := see.Attr("href"); found {
		attrs = []Attr{{Name: "href", Value: href}}
		if text == "" {
			text = href
		}
	}

	if text == "" {
		text, _ = see.Attr("langword")
	}

	return &Node{Name: "a", Attrs: attrs, Children: textChildren(text)}
}

// typeAddress keys the address like a type's link name: the arity suffix
// "`N" becomes "-N".
func (r *Renderer) typeAddress(id string) string {
	key := strings.ReplaceAll(id, "`", "-")
	if strings.HasPrefix(id, "System.") {
		return r.addresses.ExternalAddress(strings.ToLower(key))
	}
	return r.addresses.LocalAddress(key)
}

// stripArity cuts the reference at its first arity suffix.
func stripArity(reference string) string {
	return strings.SplitN(reference, "`", 2)[0]
}

// splitReference splits "K:Identifier" into its kind letter and identifier.
func splitReference(cref string) (kind, id string, ok bool) {
	if len(cref) < 3 || cref[1] != ':' {
		return "", "", false
	}
	letter := cref[0]
	if letter < 'A' || letter > 'Z' {
		return "", "", false
	}
	return cref[:1], cref[2:], true
}

func textChildren(text string) []*Node {
	if text == "" {
		return nil
	}
	return []*Node{newText(text)}
}
