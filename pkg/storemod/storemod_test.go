package storemod_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/storemod"
)

func TestRewrite_ObjectModule(t *testing.T) {
	t.Parallel()

	src := `import { mapState } from 'vuex'
import api from '@/api'

const LIMIT = 10

export default {
  namespaced: true,
  state: {
    // current user
    name: '',
    count: 0, // visits
  },
  mutations: {
    inc(state) { state.count++ },
  },
}
`
	res, err := storemod.Rewrite(context.Background(), "store/user-profile.js", []byte(src), storemod.Options{})
	require.NoError(t, err)

	want := `import { mapState, Module } from 'vuex'
import api from '@/api'
import { RootState } from '@/types/store';

const LIMIT = 10

export interface UserProfileState {
    // current user
    name: any;
    count: any; // visits
}

const storeModule: Module<UserProfileState, RootState> = {
  namespaced: true,
  state: {
    // current user
    name: '',
    count: 0, // visits
  },
  mutations: {
    inc(state) { state.count++ },
  },
};

export default storeModule;
`
	assert.Equal(t, want, res.Code)
	assert.Equal(t, "UserProfileState", res.Interface)
	assert.Equal(t, []string{"name", "count"}, res.Fields)
}

func TestRewrite_StateFunction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		state string
	}{
		{"method", "state() { return { a: 1, 'b-c': 2 } }"},
		{"arrow", "state: () => ({ a: 1, 'b-c': 2 })"},
		{"function", "state: function () { return { a: 1, 'b-c': 2 } }"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := "export default {\n  " + tc.state + ",\n}\n"

			res, err := storemod.Rewrite(context.Background(), "cart.js", []byte(src), storemod.Options{Indent: "  "})
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b-c"}, res.Fields)
			assert.Contains(t, res.Code, "export interface CartState {\n  a: any;\n  'b-c': any;\n}\n")
			assert.Contains(t, res.Code, "import { Module } from 'vuex';\nimport { RootState } from '@/types/store';\n")
		})
	}
}

func TestRewrite_NoState(t *testing.T) {
	t.Parallel()

	res, err := storemod.Rewrite(context.Background(), "app.js", []byte("export default { getters: {} }\n"), storemod.Options{})
	require.NoError(t, err)

	assert.Empty(t, res.Fields)
	assert.Contains(t, res.Code, "export interface AppState {}\n")
	assert.Contains(t, res.Code, "const storeModule: Module<AppState, RootState> = { getters: {} };\n")
}

func TestRewrite_AggregateModule(t *testing.T) {
	t.Parallel()

	src := `import Vuex from 'vuex'
import user from './user'
import cart from './modules/cart.js'

export default new Vuex.Store({
  modules: { user, cart },
})
`
	res, err := storemod.Rewrite(context.Background(), "store/shop.js", []byte(src), storemod.Options{})
	require.NoError(t, err)

	want := `import Vuex, { Module } from 'vuex'
import user from './user'
import cart from './modules/cart.js'
import { RootState } from '@/types/store';

export interface ShopState {
    user: any;
    cart: any;
}

export default new Vuex.Store({
  modules: { user, cart },
})
`
	assert.Equal(t, want, res.Code)
	assert.Equal(t, []string{"user", "cart"}, res.Fields)
}

func TestRewrite_AggregateModuleFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "aliased and relative imports",
			src:  "import user from '@/store/modules/user'\nimport cart from './cart'\n\nexport default modules\n",
			want: []string{"user", "cart"},
		},
		{
			name: "store helpers are not sub-modules",
			src: "import Vuex from 'vuex'\nimport { RootState } from '@/types/store'\nimport auth from 'auth'\n\n" +
				"export default new Vuex.Store({ modules: { auth } })\n",
			want: []string{"auth"},
		},
		{
			name: "no imports",
			src:  "export default build()\n",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := storemod.Rewrite(context.Background(), "store/index.js", []byte(tt.src), storemod.Options{})
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.want, res.Fields)
		})
	}
}

func TestRewrite_RootModuleName(t *testing.T) {
	t.Parallel()

	res, err := storemod.Rewrite(context.Background(), "store/root.js", []byte("export default { state: { a: 1 } }\n"), storemod.Options{})
	require.NoError(t, err)

	assert.Equal(t, "RootModuleState", res.Interface)
	assert.Contains(t, res.Code, "export interface RootModuleState {\n")
	assert.Contains(t, res.Code, "Module<RootModuleState, RootState>")
	assert.Contains(t, res.Code, "import { RootState } from '@/types/store';\n")
}

func TestRewrite_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := storemod.Rewrite(ctx, "store/a.ts", []byte("export default {}"), storemod.Options{})
	require.ErrorIs(t, err, component.ErrUnsupportedInputKind)

	_, err = storemod.Rewrite(ctx, "store/a.js", []byte("const a = 1"), storemod.Options{})
	require.ErrorIs(t, err, component.ErrMissingDeclaration)
}
