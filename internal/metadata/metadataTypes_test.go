package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	str := &Type{Name: "String", Namespace: "System"}
	outer := &Type{Name: "Outer`1", Namespace: "MyLib"}
	inner := &Type{Name: "Inner", DeclaringType: outer}
	dictionary := &Type{Name: "Dictionary`2", Namespace: "System.Collections.Generic"}

	tests := []struct {
		name     string
		element  *Type
		expected string
	}{
		{"top level", str, "System.String"},
		{"global namespace", &Type{Name: "Program"}, "Program"},
		{"nested", inner, "MyLib.Outer`1/Inner"},
		{"array", NewArrayType(str, 1), "System.String[]"},
		{"jagged rank", NewArrayType(str, 3), "System.String[,,]"},
		{"pointer", NewPointerType(str), "System.String*"},
		{"by-ref", NewByRefType(str), "System.String&"},
		{"generic instance", NewGenericInstance(dictionary, str, NewArrayType(str, 1)), "System.Collections.Generic.Dictionary`2<System.String,System.String[]>"},
		{"generic parameter", NewGenericParameter("T", OwnerType, 0), "T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.element.FullName())
		})
	}
}

func TestTypePredicates(t *testing.T) {
	list := &Type{Name: "List`1", Namespace: "System.Collections.Generic"}
	list.GenericParameters = []*Type{NewGenericParameter("T", OwnerType, 0)}
	instance := NewGenericInstance(list, &Type{Name: "Int32", Namespace: "System"})

	assert.True(t, list.HasGenericParameters())
	assert.False(t, list.IsGenericInstance())
	assert.True(t, instance.IsGenericInstance())
	assert.False(t, instance.HasGenericParameters())
	assert.True(t, list.GenericParameters[0].IsGenericParameter())
	assert.True(t, NewArrayType(list, 1).IsConstructed())
	assert.False(t, list.IsNested())
}

func TestMethodVisibility(t *testing.T) {
	tests := []struct {
		access Access
		public bool
		family bool
	}{
		{AccessPublic, true, false},
		{AccessFamily, false, true},
		{AccessFamilyOrAssembly, false, true},
		{AccessFamilyAndAssembly, false, false},
		{AccessAssembly, false, false},
		{AccessPrivate, false, false},
	}

	for _, tt := range tests {
		method := &Method{Access: tt.access}
		assert.Equal(t, tt.public, method.IsPublic(), "access %d", tt.access)
		assert.Equal(t, tt.family, method.IsFamily(), "access %d", tt.access)
	}

	assert.True(t, (&Method{IsGetter: true}).IsAccessor())
	assert.True(t, (&Method{IsSetter: true}).IsAccessor())
	assert.False(t, (&Method{}).IsAccessor())
}
