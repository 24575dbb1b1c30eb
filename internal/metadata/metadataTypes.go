package metadata

import "strings"

// Kind is the declaration kind of a type definition.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindStruct
	KindEnum
)

// Modifier marks a constructed type built on top of an element type.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierArray
	ModifierPointer
	ModifierByRef
)

// GenericOwner tells whether a generic parameter is declared by a type or a method.
type GenericOwner int

const (
	OwnerNone GenericOwner = iota
	OwnerType
	OwnerMethod
)

// Access mirrors the member access values of ECMA-335 MethodAttributes.
type Access int

const (
	AccessCompilerControlled Access = iota
	AccessPrivate
	AccessFamilyAndAssembly
	AccessAssembly
	AccessFamily
	AccessFamilyOrAssembly
	AccessPublic
)

// Type is a read-only view of a type definition, a type reference or a type
// constructed from either (array, pointer, by-ref, generic instance, generic
// parameter).
type Type struct {
	// Name is the raw metadata name, including the generic arity suffix ("List`1").
	Name      string
	Namespace string

	DeclaringType *Type
	BaseType      *Type
	Interfaces    []*Type
	Kind          Kind
	IsPublic      bool

	// GenericParameters holds only the parameters the type declares itself;
	// nested types do not repeat the parameters of their enclosing type.
	GenericParameters []*Type

	// ElementType is the element of an array, pointer or by-ref type, and the
	// generic definition of a generic instance.
	ElementType      *Type
	GenericArguments []*Type
	Modifier         Modifier
	ArrayRank        int

	// Owner and Position describe a generic parameter. Position is absolute
	// across the enclosing types' parameters.
	Owner    GenericOwner
	Position int

	Methods    []*Method
	Properties []*Property
}

type Method struct {
	Name              string
	DeclaringType     *Type
	Access            Access
	IsStatic          bool
	IsGetter          bool
	IsSetter          bool
	ReturnType        *Type
	Parameters        []*Parameter
	GenericParameters []*Type
}

type Parameter struct {
	Name string
	Type *Type
}

type Property struct {
	Name          string
	DeclaringType *Type
	Type          *Type
	Getter        *Method
	Setter        *Method
	// Parameters is non-empty for indexers.
	Parameters []*Parameter
}

// IsNested reports whether the type is declared inside another type.
func (t *Type) IsNested() bool {
	return t.DeclaringType != nil
}

// IsGenericInstance reports whether the type is a closed generic instantiation.
func (t *Type) IsGenericInstance() bool {
	return len(t.GenericArguments) > 0
}

// HasGenericParameters reports whether the type is an open generic definition.
func (t *Type) HasGenericParameters() bool {
	return len(t.GenericParameters) > 0
}

// IsGenericParameter reports whether the type stands for a generic parameter.
func (t *Type) IsGenericParameter() bool {
	return t.Owner != OwnerNone
}

// IsConstructed reports whether the type is an array, pointer or by-ref type.
func (t *Type) IsConstructed() bool {
	return t.Modifier != ModifierNone
}

// FullName returns the namespace-qualified name, using '/' between enclosing and
// nested types and "<...>" for generic arguments.
func (t *Type) FullName() string {
	switch t.Modifier {
	case ModifierArray:
		return t.ElementType.FullName() + arraySuffix(t.ArrayRank)
	case ModifierPointer:
		return t.ElementType.FullName() + "*"
	case ModifierByRef:
		return t.ElementType.FullName() + "&"
	}

	if t.IsGenericParameter() {
		return t.Name
	}

	var name string
	switch {
	case t.DeclaringType != nil:
		name = t.DeclaringType.FullName() + "/" + t.Name
	case t.Namespace != "":
		name = t.Namespace + "." + t.Name
	default:
		name = t.Name
	}

	if t.IsGenericInstance() {
		args := make([]string, len(t.GenericArguments))
		for i, arg := range t.GenericArguments {
			args[i] = arg.FullName()
		}
		name += "<" + strings.Join(args, ",") + ">"
	}

	return name
}

func arraySuffix(rank int) string {
	if rank <= 1 {
		return "[]"
	}
	return "[" + strings.Repeat(",", rank-1) + "]"
}

// IsPublic reports whether the method is visible to any caller.
func (m *Method) IsPublic() bool {
	return m.Access == AccessPublic
}

// IsFamily reports whether the method is visible to derived types outside the
// declaring assembly.
func (m *Method) IsFamily() bool {
	return m.Access == AccessFamily || m.Access == AccessFamilyOrAssembly
}

// IsAccessor reports whether the method backs a property.
func (m *Method) IsAccessor() bool {
	return m.IsGetter || m.IsSetter
}

// NewArrayType constructs an array of the given element type.
func NewArrayType(element *Type, rank int) *Type {
	if rank < 1 {
		rank = 1
	}
	return &Type{
		Name:          element.Name + arraySuffix(rank),
		Namespace:     element.Namespace,
		DeclaringType: element.DeclaringType,
		ElementType:   element,
		Modifier:      ModifierArray,
		ArrayRank:     rank,
	}
}

// NewPointerType constructs an unmanaged pointer to the given type.
func NewPointerType(element *Type) *Type {
	return &Type{
		Name:          element.Name + "*",
		Namespace:     element.Namespace,
		DeclaringType: element.DeclaringType,
		ElementType:   element,
		Modifier:      ModifierPointer,
	}
}

// NewByRefType constructs a managed reference to the given type.
func NewByRefType(element *Type) *Type {
	return &Type{
		Name:          element.Name + "&",
		Namespace:     element.Namespace,
		DeclaringType: element.DeclaringType,
		ElementType:   element,
		Modifier:      ModifierByRef,
	}
}

// NewGenericInstance closes the generic definition over the given arguments.
func NewGenericInstance(definition *Type, args ...*Type) *Type {
	return &Type{
		Name:             definition.Name,
		Namespace:        definition.Namespace,
		DeclaringType:    definition.DeclaringType,
		Kind:             definition.Kind,
		ElementType:      definition,
		GenericArguments: args,
	}
}

// NewGenericParameter creates a generic parameter declared at the given absolute position.
func NewGenericParameter(name string, owner GenericOwner, position int) *Type {
	return &Type{
		Name:     name,
		Owner:    owner,
		Position: position,
	}
}
