package model

import (
	"netdoc/internal/comments"
	"netdoc/internal/metadata"
	"netdoc/internal/signature"
)

const voidTypeName = "System.Void"

type ParameterRecord struct {
	Name     string `json:"name" yaml:"name"`
	TypeLink string `json:"typeLink" yaml:"typeLink"`
	Doc      string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type MethodRecord struct {
	Name           string            `json:"name" yaml:"name"`
	SignatureText  string            `json:"signatureText" yaml:"signatureText"`
	Summary        string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Remarks        string            `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	AccessLevel    string            `json:"accessLevel,omitempty" yaml:"accessLevel,omitempty"`
	ReturnTypeLink string            `json:"returnTypeLink,omitempty" yaml:"returnTypeLink,omitempty"`
	ReturnDocs     string            `json:"returnDocs,omitempty" yaml:"returnDocs,omitempty"`
	Parameters     []ParameterRecord `json:"parameters" yaml:"parameters"`
}

// Documents reports whether the method gets a record: it must be public or
// protected and must not back a property.
func Documents(method *metadata.Method) bool {
	return isVisible(method) && !method.IsAccessor()
}

// Method builds the record of a method. Callers filter with Documents first.
func (b *Builder) Method(method *metadata.Method) MethodRecord {
	fragment := b.Docs.Method(method)

	record := MethodRecord{
		Name:          method.Name,
		SignatureText: signature.MethodSignature(method),
		Summary:       b.content(fragment, comments.Element("summary")),
		Remarks:       b.content(fragment, comments.Element("remarks")),
		AccessLevel:   accessLevel(method),
		Parameters:    make([]ParameterRecord, 0, len(method.Parameters)),
	}

	if method.ReturnType != nil && method.ReturnType.FullName() != voidTypeName {
		record.ReturnTypeLink = b.Linker.Link(method.ReturnType)
		record.ReturnDocs = b.content(fragment, comments.Element("returns"))
	}

	for _, param := range method.Parameters {
		record.Parameters = append(record.Parameters, ParameterRecord{
			Name:     param.Name,
			TypeLink: b.Linker.Link(param.Type),
			Doc:      b.content(fragment, comments.Param(param.Name)),
		})
	}

	return record
}
