package model

import (
	"netdoc/internal/comments"
	"netdoc/internal/metadata"
)

type PropertyRecord struct {
	Name      string `json:"name" yaml:"name"`
	TypeLink  string `json:"typeLink" yaml:"typeLink"`
	GetAccess string `json:"getAccess,omitempty" yaml:"getAccess,omitempty"`
	SetAccess string `json:"setAccess,omitempty" yaml:"setAccess,omitempty"`
	Summary   string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// DocumentsProperty reports whether at least one accessor is public or protected.
func DocumentsProperty(property *metadata.Property) bool {
	return isVisible(property.Getter) || isVisible(property.Setter)
}

func (b *Builder) Property(property *metadata.Property) PropertyRecord {
	return PropertyRecord{
		Name:      property.Name,
		TypeLink:  b.Linker.Link(property.Type),
		GetAccess: accessLevel(property.Getter),
		SetAccess: accessLevel(property.Setter),
		Summary:   b.content(b.Docs.Property(property), comments.Element("summary")),
	}
}
