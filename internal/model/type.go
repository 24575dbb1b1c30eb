package model

import (
	"sort"
	"strings"

	"netdoc/internal/comments"
	"netdoc/internal/metadata"
	"netdoc/internal/signature"
)

// TypeRecord is the documentation of one type. LinkName is its unique key and
// the base name of its output document.
type TypeRecord struct {
	DisplayName     string           `json:"displayName" yaml:"displayName"`
	LinkName        string           `json:"linkName" yaml:"linkName"`
	Namespace       string           `json:"namespace" yaml:"namespace"`
	Title           string           `json:"title" yaml:"title"`
	DeclarationText string           `json:"declarationText" yaml:"declarationText"`
	Summary         string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	Remarks         string           `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	Methods         []MethodRecord   `json:"methods" yaml:"methods"`
	Properties      []PropertyRecord `json:"properties" yaml:"properties"`
	CopyrightText   string           `json:"copyrightText" yaml:"copyrightText"`
}

// Type builds the record of a type definition with its documented members
// sorted by name.
func (b *Builder) Type(t *metadata.Type) TypeRecord {
	displayName := signature.Name(t)
	fragment := b.Docs.Type(t)

	record := TypeRecord{
		DisplayName:     displayName,
		LinkName:        signature.LinkName(t),
		Namespace:       signature.Namespace(t),
		Title:           b.Title + " Documentation - " + displayName,
		DeclarationText: b.Declaration(t),
		Summary:         b.content(fragment, comments.Element("summary")),
		Remarks:         b.content(fragment, comments.Element("remarks")),
		Methods:         make([]MethodRecord, 0, len(t.Methods)),
		Properties:      make([]PropertyRecord, 0, len(t.Properties)),
		CopyrightText:   Attribution,
	}

	for _, method := range t.Methods {
		if Documents(method) {
			record.Methods = append(record.Methods, b.Method(method))
		}
	}
	sort.SliceStable(record.Methods, func(i, j int) bool {
		return record.Methods[i].Name < record.Methods[j].Name
	})

	for _, property := range t.Properties {
		if DocumentsProperty(property) {
			record.Properties = append(record.Properties, b.Property(property))
		}
	}
	sort.SliceStable(record.Properties, func(i, j int) bool {
		return record.Properties[i].Name < record.Properties[j].Name
	})

	return record
}

// Declaration renders the C#-style declaration of the type with keyword spans
// and linked base type and interfaces.
func (b *Builder) Declaration(t *metadata.Type) string {
	var builder strings.Builder

	if t.IsPublic {
		appendStyled(&builder, "keyword", "public ")
	}
	switch t.Kind {
	case metadata.KindEnum:
		appendStyled(&builder, "keyword", "enum ")
	case metadata.KindStruct:
		appendStyled(&builder, "keyword", "struct ")
	case metadata.KindClass:
		appendStyled(&builder, "keyword", "class ")
	}
	builder.WriteString(signature.Name(t))

	if t.Kind == metadata.KindEnum || t.Kind == metadata.KindInterface {
		return builder.String()
	}

	inherited := make([]string, 0, len(t.Interfaces)+1)
	if t.BaseType != nil && !isRootType(t.BaseType) {
		inherited = append(inherited, b.Linker.Link(t.BaseType))
	}
	for _, iface := range t.Interfaces {
		inherited = append(inherited, b.Linker.Link(iface))
	}
	if len(inherited) > 0 {
		builder.WriteString(" : ")
		builder.WriteString(strings.Join(inherited, ", "))
	}

	return builder.String()
}

func isRootType(t *metadata.Type) bool {
	name := t.FullName()
	return name == "System.Object" || name == "System.ValueType"
}

func appendStyled(builder *strings.Builder, style, value string) {
	builder.WriteString(`<span class="`)
	builder.WriteString(style)
	builder.WriteString(`">`)
	builder.WriteString(value)
	builder.WriteString("</span>")
}
