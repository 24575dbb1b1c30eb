// Package signature renders display names, link names and hyperlinks of types
// and members.
package signature

import (
	"strconv"
	"strings"

	"netdoc/internal/metadata"
)

// DisplayName renders the name of the type. With useGenerics the generic
// parameters or arguments are appended in escaped angle brackets; with
// useNamespace the outermost namespace is prepended.
func DisplayName(t *metadata.Type, useGenerics, useNamespace bool) string {
	name := qualifiedName(t, useGenerics)
	if useNamespace {
		if namespace := Namespace(t); namespace != "" {
			return namespace + "." + name
		}
	}
	return name
}

// Name is the human readable name: generics shown, namespace omitted.
func Name(t *metadata.Type) string {
	return DisplayName(t, true, false)
}

// LinkName is the unique addressable key of the type: namespace included,
// generics reduced to their arity ("MyLib.Box-2") so that definitions sharing a
// name stay apart in file names and URLs.
func LinkName(t *metadata.Type) string {
	name := linkSegments(t)
	if namespace := Namespace(t); namespace != "" {
		return namespace + "." + name
	}
	return name
}

// ArityKey replaces the metadata arity suffix with a file and URL safe one.
func ArityKey(name string) string {
	return strings.ReplaceAll(name, "`", "-")
}

func linkSegments(t *metadata.Type) string {
	for t.IsConstructed() {
		t = t.ElementType
	}
	if t.IsGenericInstance() && t.ElementType != nil {
		t = t.ElementType
	}

	name := ArityKey(t.Name)
	if t.DeclaringType != nil {
		return linkSegments(t.DeclaringType) + "." + name
	}
	return name
}

// Namespace returns the namespace of the outermost enclosing type.
func Namespace(t *metadata.Type) string {
	for t.DeclaringType != nil {
		t = t.DeclaringType
	}
	return t.Namespace
}

// StripArity removes the generic arity suffix ("`2") from a metadata name.
func StripArity(name string) string {
	if idx := strings.IndexByte(name, '`'); idx >= 0 {
		return name[:idx]
	}
	return name
}

func arity(name string) int {
	idx := strings.IndexByte(name, '`')
	if idx < 0 {
		return 0
	}
	count, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0
	}
	return count
}

func qualifiedName(t *metadata.Type, useGenerics bool) string {
	switch t.Modifier {
	case metadata.ModifierArray:
		suffix := "[]"
		if t.ArrayRank > 1 {
			suffix = "[" + strings.Repeat(",", t.ArrayRank-1) + "]"
		}
		return qualifiedName(t.ElementType, useGenerics) + suffix
	case metadata.ModifierPointer:
		return qualifiedName(t.ElementType, useGenerics) + "*"
	case metadata.ModifierByRef:
		return qualifiedName(t.ElementType, useGenerics) + "&amp;"
	}

	if t.IsGenericInstance() {
		definition := t.ElementType
		if definition == nil {
			definition = t
		}
		return instanceName(definition, t.GenericArguments, useGenerics)
	}

	name := StripArity(t.Name)
	if useGenerics && t.HasGenericParameters() {
		name += genericList(t.GenericParameters)
	}
	if t.DeclaringType != nil {
		return qualifiedName(t.DeclaringType, useGenerics) + "." + name
	}
	return name
}

// instanceName renders a closed generic type. The arguments of a nested
// instance cover the enclosing types first, so every segment takes as many
// trailing arguments as its arity suffix declares.
func instanceName(definition *metadata.Type, args []*metadata.Type, useGenerics bool) string {
	own := len(args)
	if definition.DeclaringType != nil {
		own = min(arity(definition.Name), len(args))
	}
	inherited, ownArgs := args[:len(args)-own], args[len(args)-own:]

	name := StripArity(definition.Name)
	if useGenerics && len(ownArgs) > 0 {
		name += genericList(ownArgs)
	}

	if definition.DeclaringType == nil {
		return name
	}
	if len(inherited) > 0 {
		return instanceName(definition.DeclaringType, inherited, useGenerics) + "." + name
	}
	return qualifiedName(definition.DeclaringType, useGenerics) + "." + name
}

func genericList(types []*metadata.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = Name(t)
	}
	return "&lt;" + strings.Join(names, ",") + "&gt;"
}

// MethodSignature renders the bold method name followed by its parameter list.
func MethodSignature(method *metadata.Method) string {
	var builder strings.Builder

	builder.WriteString("<strong>")
	builder.WriteString(method.Name)
	builder.WriteString("</strong>(")

	for i, param := range method.Parameters {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(Name(param.Type))
		builder.WriteString("&nbsp;")
		builder.WriteString(param.Name)
	}

	builder.WriteString(")")
	return builder.String()
}
