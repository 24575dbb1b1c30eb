package signature

import (
	"strings"
	"testing"

	"netdoc/internal/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTypes() (str, list, dictionary, outer, inner, deep *metadata.Type) {
	str = &metadata.Type{Name: "String", Namespace: "System", IsPublic: true}

	list = &metadata.Type{Name: "List`1", Namespace: "System.Collections.Generic"}
	list.GenericParameters = []*metadata.Type{metadata.NewGenericParameter("T", metadata.OwnerType, 0)}

	dictionary = &metadata.Type{Name: "Dictionary`2", Namespace: "MyLib.Collections"}
	dictionary.GenericParameters = []*metadata.Type{
		metadata.NewGenericParameter("TKey", metadata.OwnerType, 0),
		metadata.NewGenericParameter("TValue", metadata.OwnerType, 1),
	}

	outer = &metadata.Type{Name: "Outer`1", Namespace: "MyLib"}
	outer.GenericParameters = []*metadata.Type{metadata.NewGenericParameter("T", metadata.OwnerType, 0)}
	inner = &metadata.Type{Name: "Inner", DeclaringType: outer}
	deep = &metadata.Type{Name: "Deep`1", DeclaringType: inner}
	deep.GenericParameters = []*metadata.Type{metadata.NewGenericParameter("U", metadata.OwnerType, 1)}

	return str, list, dictionary, outer, inner, deep
}

func TestDisplayName(t *testing.T) {
	str, list, dictionary, _, inner, deep := fixtureTypes()

	tests := []struct {
		name         string
		element      *metadata.Type
		useGenerics  bool
		useNamespace bool
		expected     string
	}{
		{"plain", str, true, false, "String"},
		{"plain with namespace", str, true, true, "System.String"},
		{"open generic", dictionary, true, false, "Dictionary&lt;TKey,TValue&gt;"},
		{"open generic without generics", dictionary, false, true, "MyLib.Collections.Dictionary"},
		{"closed generic", metadata.NewGenericInstance(list, str), true, false, "List&lt;String&gt;"},
		{"closed generic nesting", metadata.NewGenericInstance(list, metadata.NewGenericInstance(list, str)), true, false, "List&lt;List&lt;String&gt;&gt;"},
		{"nested", inner, true, false, "Outer&lt;T&gt;.Inner"},
		{"nested link name", inner, false, true, "MyLib.Outer.Inner"},
		{"doubly nested", deep, true, false, "Outer&lt;T&gt;.Inner.Deep&lt;U&gt;"},
		{"nested instance", metadata.NewGenericInstance(deep, str, metadata.NewArrayType(str, 1)), true, false, "Outer&lt;String&gt;.Inner.Deep&lt;String[]&gt;"},
		{"array", metadata.NewArrayType(str, 2), true, true, "System.String[,]"},
		{"pointer", metadata.NewPointerType(str), true, false, "String*"},
		{"by-ref", metadata.NewByRefType(str), true, false, "String&amp;"},
		{"global namespace", &metadata.Type{Name: "Program"}, true, true, "Program"},
		{"generic parameter", metadata.NewGenericParameter("T", metadata.OwnerType, 0), true, true, "T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.element, tt.useGenerics, tt.useNamespace))
		})
	}
}

func TestDisplayNameArity(t *testing.T) {
	_, list, dictionary, _, _, _ := fixtureTypes()
	str := &metadata.Type{Name: "String", Namespace: "System"}

	for _, element := range []*metadata.Type{list, dictionary, metadata.NewGenericInstance(dictionary, str, str)} {
		name := Name(element)
		start, end := strings.Index(name, "&lt;"), strings.LastIndex(name, "&gt;")
		require.True(t, start > 0 && end > start, name)

		entries := strings.Split(name[start+len("&lt;"):end], ",")
		expected := len(element.GenericParameters) + len(element.GenericArguments)
		assert.Len(t, entries, expected, name)
	}
}

func TestDisplayNameNesting(t *testing.T) {
	_, _, _, _, inner, deep := fixtureTypes()

	for _, element := range []*metadata.Type{inner, deep} {
		own := StripArity(element.Name)
		if element.HasGenericParameters() {
			own += genericList(element.GenericParameters)
		}
		assert.Equal(t, Name(element.DeclaringType)+"."+own, Name(element))
	}
}

func TestNamespace(t *testing.T) {
	_, _, _, outer, inner, deep := fixtureTypes()

	assert.Equal(t, "MyLib", Namespace(outer))
	assert.Equal(t, "MyLib", Namespace(inner))
	assert.Equal(t, "MyLib", Namespace(deep))
	assert.Equal(t, "MyLib", Namespace(metadata.NewArrayType(inner, 1)))
}

func TestStripArity(t *testing.T) {
	assert.Equal(t, "List", StripArity("List`1"))
	assert.Equal(t, "Func", StripArity("Func`16"))
	assert.Equal(t, "Widget", StripArity("Widget"))
}

func TestLink(t *testing.T) {
	str, list, dictionary, _, inner, _ := fixtureTypes()
	linker := NewLinker("", "")
	widget := &metadata.Type{Name: "Widget", Namespace: "MyLib"}
	folder := &metadata.Type{Name: "SpecialFolder", DeclaringType: &metadata.Type{Name: "Environment", Namespace: "System"}}

	tests := []struct {
		name     string
		element  *metadata.Type
		expected string
	}{
		{"framework type", str, `<a href="https://learn.microsoft.com/dotnet/api/system.string">String</a>`},
		{"framework nested type", folder, `<a href="https://learn.microsoft.com/dotnet/api/system.environment.specialfolder">Environment.SpecialFolder</a>`},
		{"framework generic definition", list, `<a href="">List&lt;T&gt;</a>`},
		{"framework generic instance", metadata.NewGenericInstance(list, str), `<a href="">List&lt;String&gt;</a>`},
		{"local type", widget, `<a href="type.html?MyLib.Widget">Widget</a>`},
		{"local generic", dictionary, `<a href="type.html?MyLib.Collections.Dictionary-2">Dictionary&lt;TKey,TValue&gt;</a>`},
		{"local nested", inner, `<a href="type.html?MyLib.Outer-1.Inner">Outer&lt;T&gt;.Inner</a>`},
		{"array links element", metadata.NewArrayType(widget, 1), `<a href="type.html?MyLib.Widget">Widget[]</a>`},
		{"generic parameter", metadata.NewGenericParameter("T", metadata.OwnerType, 0), `<a href="">T</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, linker.Link(tt.element))
		})
	}
}

func TestLinkRoundTripsLinkName(t *testing.T) {
	_, _, dictionary, outer, inner, deep := fixtureTypes()
	linker := NewLinker("https://ext/", "#")

	for _, element := range []*metadata.Type{dictionary, outer, inner, deep} {
		assert.Equal(t, "#"+LinkName(element), linker.TypeURL(element))
	}
}

func TestLinkName(t *testing.T) {
	str, list, dictionary, outer, inner, deep := fixtureTypes()
	pair := &metadata.Type{Name: "Outer`2", Namespace: "MyLib"}

	tests := []struct {
		name     string
		element  *metadata.Type
		expected string
	}{
		{"plain", str, "System.String"},
		{"generic keeps arity", dictionary, "MyLib.Collections.Dictionary-2"},
		{"same name other arity", pair, "MyLib.Outer-2"},
		{"nested", inner, "MyLib.Outer-1.Inner"},
		{"doubly nested", deep, "MyLib.Outer-1.Inner.Deep-1"},
		{"instance uses definition", metadata.NewGenericInstance(list, str), "System.Collections.Generic.List-1"},
		{"array uses element", metadata.NewArrayType(outer, 1), "MyLib.Outer-1"},
		{"global namespace", &metadata.Type{Name: "Program"}, "Program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LinkName(tt.element))
		})
	}

	assert.NotEqual(t, LinkName(outer), LinkName(pair))
	assert.Equal(t, "Box-2", ArityKey("Box`2"))
}

func TestMethodSignature(t *testing.T) {
	str, list, _, _, _, _ := fixtureTypes()
	integer := &metadata.Type{Name: "Int32", Namespace: "System"}

	method := &metadata.Method{
		Name: "Resize",
		Parameters: []*metadata.Parameter{
			{Name: "width", Type: integer},
			{Name: "labels", Type: metadata.NewGenericInstance(list, str)},
		},
	}
	assert.Equal(t, "<strong>Resize</strong>(Int32&nbsp;width, List&lt;String&gt;&nbsp;labels)", MethodSignature(method))
	assert.Equal(t, "<strong>Clear</strong>()", MethodSignature(&metadata.Method{Name: "Clear"}))
}
