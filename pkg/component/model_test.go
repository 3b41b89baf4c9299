package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

func TestNew_RequiresName(t *testing.T) {
	t.Parallel()

	_, err := component.New("")
	require.ErrorIs(t, err, component.ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "name")

	m, err := component.New("cmp")
	require.NoError(t, err)
	assert.Equal(t, "cmp", m.Name())
}

func TestVocabulary(t *testing.T) {
	t.Parallel()

	assert.True(t, component.IsLifecycleHook("mounted"))
	assert.True(t, component.IsLifecycleHook("beforeRouteEnter"))
	assert.True(t, component.IsLifecycleHook("render"))
	assert.False(t, component.IsLifecycleHook("fetchData"))

	assert.True(t, component.IsKnownOption("components"))
	assert.True(t, component.IsKnownOption("created"))
	assert.False(t, component.IsKnownOption("inject"))
}

func TestModel_OpaqueAndRoots(t *testing.T) {
	t.Parallel()

	m, err := component.New("cmp")
	require.NoError(t, err)

	comps := jsast.Raw("components: {}")
	m.SetOpaque(component.OptComponents, comps)
	m.SetOpaque("unknown", jsast.Raw("x"))

	fn := jsast.Raw("go() {}")
	m.Methods = append(m.Methods, &component.MethodMember{Member: component.Member{Key: "go"}, Fn: fn})
	m.Data = append(m.Data, &component.DataMember{Member: component.Member{Key: "a"}})

	assert.Same(t, comps, m.Opaque(component.OptComponents))
	assert.Nil(t, m.Opaque("unknown"))
	assert.Equal(t, []*jsast.Node{comps, fn}, m.Roots())
}

func TestModel_ShapeAndStore(t *testing.T) {
	t.Parallel()

	m, err := component.New("cmp")
	require.NoError(t, err)
	assert.False(t, m.HasStoreBound())

	m.Computed = append(m.Computed,
		&component.ComputedMember{Member: component.Member{Key: "full"}},
		&component.ComputedMember{Member: component.Member{Key: "user"}, StoreBound: true, StoreNamespace: "auth"},
	)
	m.Watch = append(m.Watch, &component.WatchMember{Member: component.Member{Key: "$route"}})

	assert.True(t, m.HasStoreBound())

	shape := m.Shape()
	assert.Equal(t, []string{"full"}, shape.Computed)
	assert.Equal(t, []string{"auth:user"}, shape.StoreBound)
	assert.Equal(t, []string{"$route"}, shape.Watch)
}

func TestModel_Warn(t *testing.T) {
	t.Parallel()

	m, err := component.New("cmp")
	require.NoError(t, err)

	m.Warn(component.UnrecognizedMemberShape, nil, "dropped %s", "x")
	require.Len(t, m.Diagnostics, 1)
	assert.Equal(t, "dropped x", m.Diagnostics[0].Message)
	assert.Equal(t, 0, m.Diagnostics[0].Line)
}
