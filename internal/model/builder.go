// Package model builds the documentation records of types and their members
// from library metadata and comment fragments.
package model

import (
	"netdoc/internal/comments"
	"netdoc/internal/metadata"
	"netdoc/internal/signature"
)

// Attribution is attached verbatim to every type record.
const Attribution = "This documentation was generated using netdoc."

// Documentation resolves members to their comment fragments; nil means undocumented.
type Documentation interface {
	Type(t *metadata.Type) *comments.Node
	Method(method *metadata.Method) *comments.Node
	Property(property *metadata.Property) *comments.Node
}

// Builder turns metadata into records. Records don't depend on each other, so
// one builder serves a whole library.
type Builder struct {
	Docs     Documentation
	Renderer *comments.Renderer
	Linker   signature.Linker
	Title    string
}

func NewBuilder(docs Documentation, renderer *comments.Renderer, linker signature.Linker, title string) *Builder {
	return &Builder{
		Docs:     docs,
		Renderer: renderer,
		Linker:   linker,
		Title:    title,
	}
}

func (b *Builder) content(fragment *comments.Node, selector comments.Selector) string {
	text, _ := b.Renderer.Content(fragment, selector)
	return text
}

func accessLevel(method *metadata.Method) string {
	switch {
	case method == nil:
		return ""
	case method.IsPublic():
		return "public"
	case method.IsFamily():
		return "protected"
	}
	return ""
}

func isVisible(method *metadata.Method) bool {
	return method != nil && (method.IsPublic() || method.IsFamily())
}
