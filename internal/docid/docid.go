// Package docid computes the canonical identifiers of the XML documentation
// convention ("T:", "M:", "P:") and resolves members to their comment fragments.
package docid

import (
	"strconv"
	"strings"

	"netdoc/internal/metadata"
)

// ForType returns the identifier of a type definition.
func ForType(t *metadata.Type) string {
	return "T:" + typeName(t)
}

// ForMethod returns the identifier of a method.
func ForMethod(method *metadata.Method) string {
	var builder strings.Builder

	builder.WriteString("M:")
	builder.WriteString(typeName(method.DeclaringType))
	builder.WriteString(".")
	builder.WriteString(memberName(method.Name))
	if count := len(method.GenericParameters); count > 0 {
		builder.WriteString("``")
		builder.WriteString(strconv.Itoa(count))
	}
	writeParameters(&builder, method.Parameters)

	if method.Name == "op_Implicit" || method.Name == "op_Explicit" {
		builder.WriteString("~")
		builder.WriteString(parameterTypeName(method.ReturnType))
	}

	return builder.String()
}

// ForProperty returns the identifier of a property; indexers carry their
// parameter list.
func ForProperty(property *metadata.Property) string {
	var builder strings.Builder

	builder.WriteString("P:")
	builder.WriteString(typeName(property.DeclaringType))
	builder.WriteString(".")
	builder.WriteString(memberName(property.Name))
	writeParameters(&builder, property.Parameters)

	return builder.String()
}

func writeParameters(builder *strings.Builder, params []*metadata.Parameter) {
	if len(params) == 0 {
		return
	}
	builder.WriteString("(")
	for i, param := range params {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(parameterTypeName(param.Type))
	}
	builder.WriteString(")")
}

// memberName escapes the dots of constructor and explicit implementation names.
func memberName(name string) string {
	return strings.ReplaceAll(name, ".", "#")
}

// typeName is the dotted name of a definition, arity suffixes kept.
func typeName(t *metadata.Type) string {
	if t.DeclaringType != nil {
		return typeName(t.DeclaringType) + "." + t.Name
	}
	if t.Namespace != "" {
		return t.Namespace + "." + t.Name
	}
	return t.Name
}

func parameterTypeName(t *metadata.Type) string {
	switch t.Modifier {
	case metadata.ModifierArray:
		if t.ArrayRank <= 1 {
			return parameterTypeName(t.ElementType) + "[]"
		}
		bounds := make([]string, t.ArrayRank)
		for i := range bounds {
			bounds[i] = "0:"
		}
		return parameterTypeName(t.ElementType) + "[" + strings.Join(bounds, ",") + "]"
	case metadata.ModifierPointer:
		return parameterTypeName(t.ElementType) + "*"
	case metadata.ModifierByRef:
		return parameterTypeName(t.ElementType) + "@"
	}

	switch t.Owner {
	case metadata.OwnerType:
		return "`" + strconv.Itoa(t.Position)
	case metadata.OwnerMethod:
		return "``" + strconv.Itoa(t.Position)
	}

	if t.IsGenericInstance() {
		definition := t.ElementType
		if definition == nil {
			definition = t
		}
		return instanceName(definition, t.GenericArguments)
	}

	return typeName(t)
}

// instanceName renders a closed generic type as Name{Arg,...}, distributing the
// arguments over the enclosing type segments by their arity.
func instanceName(definition *metadata.Type, args []*metadata.Type) string {
	base, arity := splitArity(definition.Name)
	own := len(args)
	if definition.DeclaringType != nil {
		own = min(arity, len(args))
	}
	inherited, ownArgs := args[:len(args)-own], args[len(args)-own:]

	name := base
	if len(ownArgs) > 0 {
		rendered := make([]string, len(ownArgs))
		for i, arg := range ownArgs {
			rendered[i] = parameterTypeName(arg)
		}
		name += "{" + strings.Join(rendered, ",") + "}"
	}

	switch {
	case definition.DeclaringType == nil && definition.Namespace != "":
		return definition.Namespace + "." + name
	case definition.DeclaringType == nil:
		return name
	case len(inherited) > 0:
		return instanceName(definition.DeclaringType, inherited) + "." + name
	default:
		return typeName(definition.DeclaringType) + "." + name
	}
}

func splitArity(name string) (string, int) {
	idx := strings.IndexByte(name, '`')
	if idx < 0 {
		return name, 0
	}
	count, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return name[:idx], 0
	}
	return name[:idx], count
}
