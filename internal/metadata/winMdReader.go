package metadata

import (
	"debug/pe"
	"fmt"
	"log/slog"
	"sort"

	"github.com/microsoft/go-winmd"
)

// TypeAttributes and MethodAttributes bits of ECMA-335 II.23.1.
const (
	typeVisibilityMask = 0x07
	typePublic         = 0x01
	typeNestedPublic   = 0x02
	typeInterface      = 0x20

	methodAccessMask = 0x07
	methodStatic     = 0x10

	semanticsSetter = 0x01
	semanticsGetter = 0x02
)

// Coded index tags.
const (
	tagTypeDef  = 0
	tagTypeRef  = 1
	tagTypeSpec = 2

	tagOwnerTypeDef   = 0
	tagOwnerMethodDef = 1

	tagAssociationProperty = 1

	tagScopeTypeRef = 3
)

// WinMdReader builds the type graph of an ECMA-335 image (a .NET assembly or a
// .winmd file) using the metadata tables exposed by go-winmd.
type WinMdReader struct {
	metadata winmd.Metadata
	logger   *slog.Logger

	typeDefs      []*Type
	typeGenerics  [][]*Type
	enclosing     map[winmd.Index]winmd.Index
	typeRefs      map[winmd.Index]*Type
	methods       map[winmd.Index]*Method
	methodGeneric map[winmd.Index][]*Type
	properties    map[winmd.Index]*Property
	builtIns      map[string]*Type
	topLevel      []*Type
}

// NewReader opens the library under the given path and reads its types.
func NewReader(libraryPath string, logger *slog.Logger) (*WinMdReader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	peFile, err := pe.Open(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("could not open library image: %w", err)
	}
	defer peFile.Close()

	winmdMetadata, err := winmd.New(peFile)
	if err != nil {
		return nil, fmt.Errorf("could not read library metadata: %w", err)
	}

	reader := &WinMdReader{
		metadata:      *winmdMetadata,
		logger:        logger,
		enclosing:     make(map[winmd.Index]winmd.Index),
		typeRefs:      make(map[winmd.Index]*Type),
		methods:       make(map[winmd.Index]*Method),
		methodGeneric: make(map[winmd.Index][]*Type),
		properties:    make(map[winmd.Index]*Property),
		builtIns:      make(map[string]*Type),
	}

	if err := reader.load(); err != nil {
		return nil, err
	}

	return reader, nil
}

// Types returns the top-level type definitions in metadata order.
func (reader *WinMdReader) Types() []*Type {
	return reader.topLevel
}

func (reader *WinMdReader) load() error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"type definitions", reader.readTypeDefs},
		{"nested types", reader.readNesting},
		{"generic parameters", reader.readGenericParams},
		{"inheritance", reader.readInheritance},
		{"methods", reader.readMethods},
		{"properties", reader.readProperties},
		{"method semantics", reader.readSemantics},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("reading %s: %w", step.name, err)
		}
	}

	for _, typeDef := range reader.typeDefs {
		if typeDef.DeclaringType == nil {
			reader.topLevel = append(reader.topLevel, typeDef)
		}
	}

	return nil
}

func (reader *WinMdReader) readTypeDefs() error {
	table := reader.metadata.Tables.TypeDef
	reader.typeDefs = make([]*Type, table.Len)
	reader.typeGenerics = make([][]*Type, table.Len)

	return iterateOverTable(table, func(idx winmd.Index, typeDef *winmd.TypeDef) error {
		attributes := uint32(typeDef.Flags)
		visibility := attributes & typeVisibilityMask

		element := &Type{
			Name:      typeDef.Name.String(),
			Namespace: typeDef.Namespace.String(),
			IsPublic:  visibility == typePublic || visibility == typeNestedPublic,
		}
		if attributes&typeInterface != 0 {
			element.Kind = KindInterface
		}

		reader.typeDefs[idx] = element
		return nil
	})
}

func (reader *WinMdReader) readNesting() error {
	return iterateOverTable(reader.metadata.Tables.NestedClass, func(_ winmd.Index, nested *winmd.NestedClass) error {
		inner, outer := reader.typeDef(nested.NestedClass), reader.typeDef(nested.EnclosingClass)
		if inner == nil || outer == nil {
			return fmt.Errorf("nested class row refers to missing type definition")
		}
		inner.DeclaringType = outer
		reader.enclosing[nested.NestedClass] = nested.EnclosingClass
		return nil
	})
}

func (reader *WinMdReader) readGenericParams() error {
	typeParams := make(map[winmd.Index][]*Type)

	err := iterateOverTable(reader.metadata.Tables.GenericParam, func(_ winmd.Index, param *winmd.GenericParam) error {
		position := int(param.Number)
		switch param.Owner.Tag {
		case tagOwnerTypeDef:
			typeParams[param.Owner.Index] = append(typeParams[param.Owner.Index],
				NewGenericParameter(param.Name.String(), OwnerType, position))
		case tagOwnerMethodDef:
			reader.methodGeneric[param.Owner.Index] = append(reader.methodGeneric[param.Owner.Index],
				NewGenericParameter(param.Name.String(), OwnerMethod, position))
		}
		return nil
	})
	if err != nil {
		return err
	}

	for idx, params := range typeParams {
		sortByPosition(params)
		if int(idx) < len(reader.typeGenerics) {
			reader.typeGenerics[idx] = params
		}
	}
	for _, params := range reader.methodGeneric {
		sortByPosition(params)
	}

	// typeGenerics keeps every parameter in scope, the type only its own ones.
	for idx, typeDef := range reader.typeDefs {
		all := reader.typeGenerics[idx]
		inherited := 0
		if outer, nested := reader.enclosing[winmd.Index(idx)]; nested {
			inherited = len(reader.typeGenerics[outer])
		}
		if inherited < len(all) {
			typeDef.GenericParameters = all[inherited:]
		}
	}

	return nil
}

func (reader *WinMdReader) readInheritance() error {
	err := iterateOverTable(reader.metadata.Tables.TypeDef, func(idx winmd.Index, typeDef *winmd.TypeDef) error {
		element := reader.typeDefs[idx]
		if element.Kind == KindInterface {
			return nil
		}

		element.BaseType = reader.resolveCoded(typeDef.Extends, reader.typeGenerics[idx])
		if element.BaseType == nil {
			return nil
		}

		switch element.BaseType.FullName() {
		case "System.Enum":
			element.Kind = KindEnum
		case "System.ValueType":
			if element.FullName() != "System.Enum" {
				element.Kind = KindStruct
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return iterateOverTable(reader.metadata.Tables.InterfaceImpl, func(_ winmd.Index, impl *winmd.InterfaceImpl) error {
		element := reader.typeDef(impl.Class)
		if element == nil {
			return fmt.Errorf("interface implementation refers to missing type definition")
		}
		if iface := reader.resolveCoded(impl.Interface, reader.typeGenerics[impl.Class]); iface != nil {
			element.Interfaces = append(element.Interfaces, iface)
		}
		return nil
	})
}

func (reader *WinMdReader) readMethods() error {
	return iterateOverTable(reader.metadata.Tables.TypeDef, func(idx winmd.Index, typeDef *winmd.TypeDef) error {
		owner := reader.typeDefs[idx]
		for methodIdx := typeDef.MethodList.Start; methodIdx < typeDef.MethodList.End; methodIdx++ {
			methodDef, err := reader.metadata.Tables.MethodDef.Record(methodIdx)
			if err != nil {
				return fmt.Errorf("no matching method was found: %w", err)
			}
			method, err := reader.getMethod(owner, reader.typeGenerics[idx], methodIdx, methodDef)
			if err != nil {
				return fmt.Errorf("method '%s' of '%s': %w", methodDef.Name.String(), owner.FullName(), err)
			}
			owner.Methods = append(owner.Methods, method)
			reader.methods[methodIdx] = method
		}
		return nil
	})
}

func (reader *WinMdReader) getMethod(owner *Type, typeParams []*Type, idx winmd.Index, methodDef *winmd.MethodDef) (*Method, error) {
	attributes := uint32(methodDef.Flags)
	method := &Method{
		Name:              methodDef.Name.String(),
		DeclaringType:     owner,
		Access:            Access(attributes & methodAccessMask),
		IsStatic:          attributes&methodStatic != 0,
		GenericParameters: reader.methodGeneric[idx],
	}

	sigReader := reader.newSigReader([]byte(methodDef.Signature), typeParams, method.GenericParameters)
	signature, err := sigReader.readMethodSignature()
	if err != nil {
		return nil, err
	}
	method.ReturnType = signature.ReturnType

	names := make(map[int]string)
	for paramIdx := methodDef.ParamList.Start; paramIdx < methodDef.ParamList.End; paramIdx++ {
		param, err := reader.metadata.Tables.Param.Record(paramIdx)
		if err != nil {
			return nil, fmt.Errorf("no matching parameter was found: %w", err)
		}
		names[int(param.Sequence)] = param.Name.String()
	}

	for i, paramType := range signature.Params {
		name, found := names[i+1]
		if !found || name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		method.Parameters = append(method.Parameters, &Parameter{Name: name, Type: paramType})
	}

	return method, nil
}

func (reader *WinMdReader) readProperties() error {
	return iterateOverTable(reader.metadata.Tables.PropertyMap, func(_ winmd.Index, propertyMap *winmd.PropertyMap) error {
		owner := reader.typeDef(propertyMap.Parent)
		if owner == nil {
			return fmt.Errorf("property map refers to missing type definition")
		}
		typeParams := reader.typeGenerics[propertyMap.Parent]

		for idx := propertyMap.PropertyList.Start; idx < propertyMap.PropertyList.End; idx++ {
			propertyDef, err := reader.metadata.Tables.Property.Record(idx)
			if err != nil {
				return fmt.Errorf("no matching property was found: %w", err)
			}

			sigReader := reader.newSigReader([]byte(propertyDef.Type), typeParams, nil)
			propertyType, _, err := sigReader.readPropertySignature()
			if err != nil {
				return fmt.Errorf("property '%s' of '%s': %w", propertyDef.Name.String(), owner.FullName(), err)
			}

			property := &Property{
				Name:          propertyDef.Name.String(),
				DeclaringType: owner,
				Type:          propertyType,
			}
			owner.Properties = append(owner.Properties, property)
			reader.properties[idx] = property
		}
		return nil
	})
}

func (reader *WinMdReader) readSemantics() error {
	return iterateOverTable(reader.metadata.Tables.MethodSemantics, func(_ winmd.Index, semantics *winmd.MethodSemantics) error {
		if semantics.Association.Tag != tagAssociationProperty {
			return nil
		}
		property, method := reader.properties[semantics.Association.Index], reader.methods[semantics.Method]
		if property == nil || method == nil {
			reader.logger.Debug("Skipping unresolved method semantics row")
			return nil
		}

		flags := uint32(semantics.Semantics)
		switch {
		case flags&semanticsGetter != 0:
			method.IsGetter = true
			property.Getter = method
			property.Parameters = method.Parameters
		case flags&semanticsSetter != 0:
			method.IsSetter = true
			property.Setter = method
			if property.Getter == nil && len(method.Parameters) > 0 {
				property.Parameters = method.Parameters[:len(method.Parameters)-1]
			}
		}
		return nil
	})
}

func (reader *WinMdReader) typeDef(idx winmd.Index) *Type {
	if int(idx) >= len(reader.typeDefs) {
		return nil
	}
	return reader.typeDefs[idx]
}

func (reader *WinMdReader) typeRef(idx winmd.Index) *Type {
	if cached, found := reader.typeRefs[idx]; found {
		return cached
	}

	typeRef, err := reader.metadata.Tables.TypeRef.Record(idx)
	if err != nil {
		reader.logger.Debug("Unresolved type reference", "index", idx, "error", err)
		return nil
	}

	element := &Type{
		Name:      typeRef.Name.String(),
		Namespace: typeRef.Namespace.String(),
		IsPublic:  true,
	}
	reader.typeRefs[idx] = element

	if typeRef.ResolutionScope.Tag == tagScopeTypeRef {
		element.DeclaringType = reader.typeRef(typeRef.ResolutionScope.Index)
	}

	return element
}

func (reader *WinMdReader) typeSpec(idx winmd.Index, typeParams []*Type) *Type {
	typeSpec, err := reader.metadata.Tables.TypeSpec.Record(idx)
	if err != nil {
		reader.logger.Debug("Unresolved type specification", "index", idx, "error", err)
		return nil
	}

	sigReader := reader.newSigReader([]byte(typeSpec.Signature), typeParams, nil)
	element, err := sigReader.readType()
	if err != nil {
		reader.logger.Debug("Undecodable type specification", "index", idx, "error", err)
		return nil
	}
	return element
}

// resolveCoded resolves a TypeDefOrRef coded index taken from a table row.
func (reader *WinMdReader) resolveCoded(index winmd.CodedIndex, typeParams []*Type) *Type {
	switch index.Tag {
	case tagTypeDef:
		return reader.resolveToken(tagTypeDef, index.Index, typeParams)
	case tagTypeRef:
		return reader.resolveToken(tagTypeRef, index.Index, typeParams)
	case tagTypeSpec:
		return reader.resolveToken(tagTypeSpec, index.Index, typeParams)
	}
	return nil
}

func (reader *WinMdReader) resolveToken(tag uint32, idx winmd.Index, typeParams []*Type) *Type {
	var element *Type
	switch tag {
	case tagTypeDef:
		element = reader.typeDef(idx)
	case tagTypeRef:
		element = reader.typeRef(idx)
	case tagTypeSpec:
		element = reader.typeSpec(idx, typeParams)
	}

	// The <Module> pseudo type is never a base type.
	if element != nil && element.Name == "<Module>" {
		return nil
	}
	return element
}

func (reader *WinMdReader) newSigReader(blob []byte, typeParams, methodParams []*Type) *sigReader {
	return &sigReader{
		data: blob,
		resolve: func(tag uint32, row uint32) (*Type, error) {
			if row == 0 {
				return nil, fmt.Errorf("null type token")
			}
			element := reader.resolveToken(tag, winmd.Index(row-1), typeParams)
			if element == nil {
				return nil, fmt.Errorf("unresolved type token (tag %d, row %d)", tag, row)
			}
			return element, nil
		},
		builtIn:      reader.builtIn,
		typeParams:   typeParams,
		methodParams: methodParams,
	}
}

func (reader *WinMdReader) builtIn(name string) *Type {
	if element, found := reader.builtIns[name]; found {
		return element
	}
	element := &Type{Name: name, Namespace: "System", IsPublic: true, Kind: KindStruct}
	if name == "String" || name == "Object" {
		element.Kind = KindClass
	}
	reader.builtIns[name] = element
	return element
}

func sortByPosition(params []*Type) {
	sort.SliceStable(params, func(i, j int) bool { return params[i].Position < params[j].Position })
}

// Calls action for every record of the table, stopping at the first error.
func iterateOverTable[T any, TP winmd.Record[T]](table winmd.Table[T, TP], action func(winmd.Index, TP) error) error {
	for idx := uint32(0); idx < table.Len; idx++ {
		element, err := table.Record(winmd.Index(idx))
		if err != nil {
			return err
		}
		if err := action(winmd.Index(idx), element); err != nil {
			return err
		}
	}

	return nil
}
