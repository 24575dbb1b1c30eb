package metadata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdata/MyLib.dll is testdata/MyLib.cs compiled for net8.0 with
// GenerateDocumentationFile, which also produced testdata/MyLib.xml.
var fixturePath = filepath.Join("testdata", "MyLib.dll")

func loadFixture(t *testing.T) (*WinMdReader, map[string]*Type) {
	t.Helper()
	reader, err := NewReader(fixturePath, nil)
	require.NoError(t, err)

	types := make(map[string]*Type)
	for _, element := range reader.typeDefs {
		types[element.FullName()] = element
	}
	return reader, types
}

func methodNamed(t *testing.T, owner *Type, name string) *Method {
	t.Helper()
	for _, method := range owner.Methods {
		if method.Name == name {
			return method
		}
	}
	require.FailNow(t, "method not found", "%s.%s", owner.FullName(), name)
	return nil
}

func propertyNamed(t *testing.T, owner *Type, name string) *Property {
	t.Helper()
	for _, property := range owner.Properties {
		if property.Name == name {
			return property
		}
	}
	require.FailNow(t, "property not found", "%s.%s", owner.FullName(), name)
	return nil
}

func TestReaderTopLevelTypes(t *testing.T) {
	reader, _ := loadFixture(t)

	names := make([]string, 0)
	for _, element := range reader.Types() {
		assert.Nil(t, element.DeclaringType)
		names = append(names, element.FullName())
	}
	assert.Equal(t, []string{
		"<Module>", "MyLib.Box`1", "MyLib.Box`2", "MyLib.IShape", "MyLib.Point",
		"MyLib.Color", "MyLib.Widget", "MyLib.Secret",
	}, names)
}

func TestReaderVisibilityAndKinds(t *testing.T) {
	_, types := loadFixture(t)

	tests := []struct {
		name     string
		kind     Kind
		isPublic bool
	}{
		{"MyLib.Box`1", KindClass, true},
		{"MyLib.IShape", KindInterface, true},
		{"MyLib.Point", KindStruct, true},
		{"MyLib.Color", KindEnum, true},
		{"MyLib.Widget", KindClass, true},
		{"MyLib.Secret", KindClass, false},
		{"MyLib.Box`1/Inner`1", KindClass, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			element := types[tt.name]
			require.NotNil(t, element)
			assert.Equal(t, tt.kind, element.Kind)
			assert.Equal(t, tt.isPublic, element.IsPublic)
		})
	}
}

func TestReaderInheritance(t *testing.T) {
	_, types := loadFixture(t)

	assert.Equal(t, "System.Object", types["MyLib.Box`1"].BaseType.FullName())
	assert.Equal(t, "System.ValueType", types["MyLib.Point"].BaseType.FullName())
	assert.Equal(t, "System.Enum", types["MyLib.Color"].BaseType.FullName())
	assert.Nil(t, types["MyLib.IShape"].BaseType)

	require.Len(t, types["MyLib.Point"].Interfaces, 1)
	assert.Same(t, types["MyLib.IShape"], types["MyLib.Point"].Interfaces[0])
	require.Len(t, types["MyLib.Widget"].Interfaces, 1)
	assert.Equal(t, "System.IDisposable", types["MyLib.Widget"].Interfaces[0].FullName())
}

func TestReaderGenericsAndNesting(t *testing.T) {
	_, types := loadFixture(t)
	box := types["MyLib.Box`1"]

	require.Len(t, box.GenericParameters, 1)
	assert.Equal(t, "T", box.GenericParameters[0].Name)
	require.Len(t, types["MyLib.Box`2"].GenericParameters, 2)

	put := methodNamed(t, box, "Put")
	assert.Same(t, box.GenericParameters[0], put.Parameters[0].Type)

	inner := types["MyLib.Box`1/Inner`1"]
	require.NotNil(t, inner)
	assert.Same(t, box, inner.DeclaringType)
	assert.Empty(t, inner.Namespace)
	require.Len(t, inner.GenericParameters, 1, "only the parameters the nested type declares itself")
	assert.Equal(t, "V", inner.GenericParameters[0].Name)
	assert.Equal(t, 1, inner.GenericParameters[0].Position)

	get := methodNamed(t, inner, "Get")
	assert.Equal(t, "key", get.Parameters[0].Name)
	assert.Equal(t, "T", get.Parameters[0].Type.Name)
	assert.Same(t, inner.GenericParameters[0], get.ReturnType)
}

func TestReaderMethods(t *testing.T) {
	_, types := loadFixture(t)
	widget := types["MyLib.Widget"]

	resize := methodNamed(t, widget, "Resize")
	assert.Equal(t, AccessPublic, resize.Access)
	assert.Equal(t, "System.Void", resize.ReturnType.FullName())
	require.Len(t, resize.Parameters, 2)
	assert.Equal(t, "width", resize.Parameters[0].Name)
	assert.Equal(t, "System.Int32&", resize.Parameters[0].Type.FullName())
	assert.Equal(t, "grid", resize.Parameters[1].Name)
	assert.Equal(t, "System.Int32[,]", resize.Parameters[1].Type.FullName())

	assert.True(t, methodNamed(t, widget, "OnChanged").IsFamily())
	assert.Equal(t, AccessAssembly, methodNamed(t, widget, "Hidden").Access)
	assert.False(t, methodNamed(t, widget, ".ctor").IsStatic)

	mapMethod := methodNamed(t, types["MyLib.Box`1"], "Map")
	require.Len(t, mapMethod.GenericParameters, 1)
	assert.Same(t, mapMethod.GenericParameters[0], mapMethod.ReturnType)
	assert.Equal(t, "System.Func`2<T,TResult>", mapMethod.Parameters[0].Type.FullName())
}

func TestReaderPropertiesAndAccessors(t *testing.T) {
	_, types := loadFixture(t)

	value := propertyNamed(t, types["MyLib.Box`1"], "Value")
	require.NotNil(t, value.Getter)
	require.NotNil(t, value.Setter)
	assert.True(t, value.Getter.IsGetter)
	assert.True(t, value.Setter.IsSetter)
	assert.True(t, value.Type.IsGenericParameter())
	assert.Empty(t, value.Parameters)

	x := propertyNamed(t, types["MyLib.Point"], "X")
	assert.Equal(t, AccessPublic, x.Getter.Access)
	assert.Equal(t, AccessPrivate, x.Setter.Access)

	area := propertyNamed(t, types["MyLib.IShape"], "Area")
	assert.Nil(t, area.Setter)
	assert.Equal(t, "System.Double", area.Type.FullName())

	item := propertyNamed(t, types["MyLib.Widget"], "Item")
	require.Len(t, item.Parameters, 1)
	assert.Equal(t, "System.Int32", item.Parameters[0].Type.FullName())
	assert.True(t, methodNamed(t, types["MyLib.Widget"], "get_Item").IsAccessor())
	assert.False(t, methodNamed(t, types["MyLib.Widget"], "Resize").IsAccessor())
}

func TestReaderRejectsNonImage(t *testing.T) {
	_, err := NewReader(filepath.Join("testdata", "MyLib.xml"), nil)
	assert.Error(t, err)
}
