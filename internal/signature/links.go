package signature

import (
	"fmt"
	"strings"

	"netdoc/internal/metadata"
)

const (
	// DefaultExternalBase is the framework reference documentation root.
	DefaultExternalBase = "https://learn.microsoft.com/dotnet/api/"
	// DefaultLocalBase is the type lookup page of the generated site.
	DefaultLocalBase = "type.html?"

	frameworkPrefix = "System."
)

// Linker derives hyperlinks for type references.
type Linker struct {
	ExternalBase string
	LocalBase    string
}

// NewLinker returns a linker, falling back to the defaults for empty bases.
func NewLinker(externalBase, localBase string) Linker {
	if externalBase == "" {
		externalBase = DefaultExternalBase
	}
	if localBase == "" {
		localBase = DefaultLocalBase
	}
	return Linker{ExternalBase: externalBase, LocalBase: localBase}
}

func (l Linker) LocalAddress(name string) string {
	return l.LocalBase + name
}

func (l Linker) ExternalAddress(name string) string {
	return l.ExternalBase + name
}

// TypeURL returns the link target of the type, or "" when none can be derived.
// Arrays, pointers and by-ref types link to their element type. Generic
// parameters and framework generics have no page of their own, so they yield "".
func (l Linker) TypeURL(t *metadata.Type) string {
	for t.IsConstructed() {
		t = t.ElementType
	}
	if t.IsGenericParameter() {
		return ""
	}

	fullName := t.FullName()
	if strings.HasPrefix(fullName, frameworkPrefix) {
		if t.HasGenericParameters() || t.IsGenericInstance() {
			return ""
		}
		return l.ExternalAddress(strings.ToLower(strings.ReplaceAll(fullName, "/", ".")))
	}

	return l.LocalAddress(LinkName(t))
}

// Link renders an anchor to the type, labelled with its display name.
func (l Linker) Link(t *metadata.Type) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, l.TypeURL(t), Name(t))
}
