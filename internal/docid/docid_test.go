package docid

import (
	"strings"
	"testing"

	"netdoc/internal/comments"
	"netdoc/internal/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stringType = &metadata.Type{Name: "String", Namespace: "System"}
	int32Type  = &metadata.Type{Name: "Int32", Namespace: "System"}
	listType   = &metadata.Type{Name: "List`1", Namespace: "System.Collections.Generic"}
)

func newWidget() *metadata.Type {
	return &metadata.Type{Name: "Widget", Namespace: "MyLib", IsPublic: true}
}

func TestForType(t *testing.T) {
	outer := &metadata.Type{Name: "Outer`1", Namespace: "MyLib"}
	inner := &metadata.Type{Name: "Inner", DeclaringType: outer}

	assert.Equal(t, "T:MyLib.Widget", ForType(newWidget()))
	assert.Equal(t, "T:MyLib.Outer`1", ForType(outer))
	assert.Equal(t, "T:MyLib.Outer`1.Inner", ForType(inner))
	assert.Equal(t, "T:Program", ForType(&metadata.Type{Name: "Program"}))
}

func TestForMethod(t *testing.T) {
	widget := newWidget()
	box := &metadata.Type{Name: "Box`1", Namespace: "MyLib"}
	typeParam := metadata.NewGenericParameter("T", metadata.OwnerType, 0)
	methodParam := metadata.NewGenericParameter("TResult", metadata.OwnerMethod, 0)

	tests := []struct {
		name     string
		method   *metadata.Method
		expected string
	}{
		{
			name:     "no parameters",
			method:   &metadata.Method{Name: "Clear", DeclaringType: widget},
			expected: "M:MyLib.Widget.Clear",
		},
		{
			name: "primitive parameters",
			method: &metadata.Method{Name: "Resize", DeclaringType: widget, Parameters: []*metadata.Parameter{
				{Name: "width", Type: int32Type}, {Name: "height", Type: int32Type},
			}},
			expected: "M:MyLib.Widget.Resize(System.Int32,System.Int32)",
		},
		{
			name: "constructor",
			method: &metadata.Method{Name: ".ctor", DeclaringType: widget, Parameters: []*metadata.Parameter{
				{Name: "name", Type: stringType},
			}},
			expected: "M:MyLib.Widget.#ctor(System.String)",
		},
		{
			name:     "static constructor",
			method:   &metadata.Method{Name: ".cctor", DeclaringType: widget},
			expected: "M:MyLib.Widget.#cctor",
		},
		{
			name: "generic instance, array, by-ref and pointer parameters",
			method: &metadata.Method{Name: "Fill", DeclaringType: widget, Parameters: []*metadata.Parameter{
				{Name: "items", Type: metadata.NewGenericInstance(listType, stringType)},
				{Name: "grid", Type: metadata.NewArrayType(int32Type, 2)},
				{Name: "count", Type: metadata.NewByRefType(int32Type)},
				{Name: "raw", Type: metadata.NewPointerType(int32Type)},
				{Name: "names", Type: metadata.NewArrayType(stringType, 1)},
			}},
			expected: "M:MyLib.Widget.Fill(System.Collections.Generic.List{System.String},System.Int32[0:,0:],System.Int32@,System.Int32*,System.String[])",
		},
		{
			name: "generic method on generic type",
			method: &metadata.Method{
				Name:              "Map",
				DeclaringType:     box,
				GenericParameters: []*metadata.Type{methodParam},
				Parameters: []*metadata.Parameter{
					{Name: "value", Type: typeParam},
					{Name: "results", Type: metadata.NewGenericInstance(listType, methodParam)},
				},
				ReturnType: methodParam,
			},
			expected: "M:MyLib.Box`1.Map``1(`0,System.Collections.Generic.List{``0})",
		},
		{
			name: "conversion operator",
			method: &metadata.Method{Name: "op_Implicit", DeclaringType: widget, ReturnType: stringType, Parameters: []*metadata.Parameter{
				{Name: "widget", Type: widget},
			}},
			expected: "M:MyLib.Widget.op_Implicit(MyLib.Widget)~System.String",
		},
		{
			name:     "explicit interface implementation",
			method:   &metadata.Method{Name: "System.IDisposable.Dispose", DeclaringType: widget},
			expected: "M:MyLib.Widget.System#IDisposable#Dispose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForMethod(tt.method))
		})
	}
}

func TestNestedGenericInstanceParameter(t *testing.T) {
	outer := &metadata.Type{Name: "Outer`1", Namespace: "MyLib"}
	inner := &metadata.Type{Name: "Inner`1", DeclaringType: outer}
	method := &metadata.Method{Name: "Use", DeclaringType: newWidget(), Parameters: []*metadata.Parameter{
		{Name: "value", Type: metadata.NewGenericInstance(inner, int32Type, stringType)},
	}}

	assert.Equal(t, "M:MyLib.Widget.Use(MyLib.Outer{System.Int32}.Inner{System.String})", ForMethod(method))
}

func TestForProperty(t *testing.T) {
	widget := newWidget()

	assert.Equal(t, "P:MyLib.Widget.Name", ForProperty(&metadata.Property{Name: "Name", DeclaringType: widget, Type: stringType}))
	assert.Equal(t, "P:MyLib.Widget.Item(System.Int32)", ForProperty(&metadata.Property{
		Name: "Item", DeclaringType: widget, Type: stringType,
		Parameters: []*metadata.Parameter{{Name: "index", Type: int32Type}},
	}))
}

func TestResolver(t *testing.T) {
	doc := `<doc><members>
		<member name="T:MyLib.Widget"><summary>Widget.</summary></member>
		<member name="M:MyLib.Widget.Clear"><summary>Clears.</summary></member>
		<member name="P:MyLib.Widget.Name"><summary>Name.</summary></member>
	</members></doc>`
	store, err := comments.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	resolver := NewResolver(store, nil)
	widget := newWidget()
	clearMethod := &metadata.Method{Name: "Clear", DeclaringType: widget}

	assert.NotNil(t, resolver.Type(widget))
	assert.NotNil(t, resolver.Method(clearMethod))
	assert.NotNil(t, resolver.Property(&metadata.Property{Name: "Name", DeclaringType: widget}))
	assert.Nil(t, resolver.Method(&metadata.Method{Name: "Missing", DeclaringType: widget}))

	assert.Same(t, resolver.Method(clearMethod), resolver.Method(clearMethod), "resolution is a pure function of the member")
}
