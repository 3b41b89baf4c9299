package extract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/extract"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

const objectSource = `import Vue from 'vue'
import { mapState } from 'vuex'
import Child from './Child.js'

const LIMIT = 10

// The user card.
export default {
  name: 'user-card',
  components: { Child },
  props: {
    id: { type: Number, required: true },
    label: String,
  },
  data() {
    return {
      // how many
      count: 0,
      items: [],
    }
  },
  computed: {
    double() {
      return this.count * 2
    },
    ...mapState('user/profile', {
      nick: state => state.nick,
    }),
    full: {
      get() { return this.a },
      set(v) { this.a = v },
    },
  },
  watch: {
    $route(to, from) {
      this.load()
    },
    count: {
      handler(v) { this.log(v) },
      deep: true,
    },
  },
  methods: {
    load() {},
    reset: function () { this.count = 0 }, // inline note
  },
  inject: ['theme'],
  mounted() {
    this.load()
  },
}
`

const classSource = `import { Component, Prop, Vue, Watch } from 'vue-property-decorator'

@Component({
  name: 'user-card',
  components: { Child },
  inject: ['theme'],
})
export default class UserCard extends Vue {
  @Prop({ type: Number }) public id!: number
  public count: number = 0

  public get double() {
    return this.count * 2
  }

  public set double(v: number) {
    this.count = v / 2
  }

  // react to navigation
  @Watch('$route', { immediate: true })
  public onRouteChange(to: any, from: any) {
    this.load()
  }

  public load() {}

  public mounted() {
    this.load()
  }

  @Emit('x')
  public emitX() {}

  static version = 1
}
`

func parse(t *testing.T, src string, d jsast.Dialect) *jsast.Tree {
	t.Helper()

	tree, err := jsast.ParseString(context.Background(), src, d)
	require.NoError(t, err)

	return tree
}

func TestObject_Extract(t *testing.T) {
	t.Parallel()

	m, err := extract.Object{}.Extract(parse(t, objectSource, jsast.DialectJS))
	require.NoError(t, err)

	assert.Equal(t, component.Shape{
		Name:       "user-card",
		Opaque:     []string{"components"},
		Props:      []string{"id", "label"},
		Data:       []string{"count", "items"},
		Computed:   []string{"double", "full"},
		StoreBound: []string{"user/profile:nick"},
		Watch:      []string{"$route", "count"},
		Methods:    []string{"load", "reset"},
		Lifecycle:  []string{"mounted"},
		Imports:    []string{"vue", "vuex", "./Child.js"},
	}, m.Shape())

	require.Len(t, m.Other, 1)
	assert.Equal(t, "const LIMIT = 10", m.Other[0].Text())

	require.Len(t, m.LeadingComments, 1)
	assert.Equal(t, "// The user card.", m.LeadingComments[0].Text())

	require.Len(t, m.Data[0].Comments, 1)
	assert.Equal(t, "// how many", m.Data[0].Comments[0].Text())

	require.Len(t, m.Methods[1].Trailing, 1)
	assert.Equal(t, "// inline note", m.Methods[1].Trailing[0].Text())

	require.Len(t, m.Options, 1)
	assert.Contains(t, m.Options[0].Text(), "inject")

	var full *component.ComputedMember

	for _, c := range m.Computed {
		if c.Key == "full" {
			full = c
		}
	}

	require.NotNil(t, full)
	assert.NotNil(t, full.Accessor)
	assert.NotNil(t, full.Setter)

	count := m.Watch[1]
	require.Len(t, count.Options, 1)
	assert.Equal(t, "deep: true", count.Options[0].Text())

	assert.Empty(t, m.Diagnostics)
}

func TestObject_ExtractDoesNotEditTree(t *testing.T) {
	t.Parallel()

	tree := parse(t, objectSource, jsast.DialectJS)

	_, err := extract.Object{}.Extract(tree)
	require.NoError(t, err)
	assert.Equal(t, objectSource, jsast.Print(tree.Root, jsast.PrintOptions{}))
}

func TestObject_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		want error
	}{
		{"no export", "const a = 1", component.ErrMissingDeclaration},
		{"export array", "export default []", component.ErrMissingDeclaration},
		{"no name", "export default { data() { return {} } }", component.ErrMissingRequiredField},
		{"name not string", "export default { name: foo }", component.ErrMissingRequiredField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := extract.Object{}.Extract(parse(t, tc.src, jsast.DialectJS))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestObject_WrappersAndArrayProps(t *testing.T) {
	t.Parallel()

	src := "export default Vue.extend({ name: 'a', props: ['x', 'y'], data: () => ({ z: 1 }) })"

	m, err := extract.Object{}.Extract(parse(t, src, jsast.DialectJS))
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, m.Shape().Props)
	assert.Nil(t, m.Props[0].Descriptor)
	assert.Equal(t, []string{"z"}, m.Shape().Data)
}

func TestObject_UnrecognizedShapesAreDropped(t *testing.T) {
	t.Parallel()

	src := "export default { name: 'a', data: 5, methods: { x: 1 }, computed: { ...mapGetters(['g']) } }"

	m, err := extract.Object{}.Extract(parse(t, src, jsast.DialectJS))
	require.NoError(t, err)

	assert.Empty(t, m.Data)
	assert.Empty(t, m.Methods)
	assert.Empty(t, m.Computed)
	require.Len(t, m.Diagnostics, 3)

	for _, d := range m.Diagnostics {
		assert.Equal(t, component.UnrecognizedMemberShape, d.Kind)
		assert.Equal(t, 1, d.Line)
	}
}

func TestObject_StoreArrayMapping(t *testing.T) {
	t.Parallel()

	src := "export default { name: 'a', computed: { ...mapState(['user', 'token']) } }"

	m, err := extract.Object{}.Extract(parse(t, src, jsast.DialectJS))
	require.NoError(t, err)

	require.Len(t, m.Computed, 2)
	assert.True(t, m.Computed[0].StoreBound)
	assert.Empty(t, m.Computed[0].StoreNamespace)
	assert.Equal(t, "'user'", m.Computed[0].Accessor.Text())
}

func TestClass_Extract(t *testing.T) {
	t.Parallel()

	m, err := extract.Class{}.Extract(parse(t, classSource, jsast.DialectTS))
	require.NoError(t, err)

	assert.Equal(t, component.Shape{
		Name:      "user-card",
		Opaque:    []string{"components"},
		Props:     []string{"id"},
		Data:      []string{"count"},
		Computed:  []string{"double"},
		Watch:     []string{"$route"},
		Methods:   []string{"load", "emitX"},
		Lifecycle: []string{"mounted"},
		Imports:   []string{"vue-property-decorator"},
	}, m.Shape())

	assert.Equal(t, "{ type: Number }", m.Props[0].Descriptor.Text())
	assert.Equal(t, "0", m.Data[0].Init.Text())
	assert.NotNil(t, m.Computed[0].Setter)

	w := m.Watch[0]
	require.Len(t, w.Comments, 1)
	assert.Equal(t, "// react to navigation", w.Comments[0].Text())
	require.Len(t, w.Options, 1)
	assert.Equal(t, "immediate: true", w.Options[0].Text())

	require.Len(t, m.Options, 1)
	assert.Contains(t, m.Options[0].Text(), "inject")

	emitX := m.Methods[1]
	assert.Equal(t, "emitX", emitX.Key)
	assert.Contains(t, emitX.Fn.Text(), "emitX()")

	require.Len(t, m.Diagnostics, 1)
	assert.Contains(t, m.Diagnostics[0].Message, "version")
}

func TestClass_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		want error
	}{
		{"object export", "export default { name: 'a' }", component.ErrMissingDeclaration},
		{"wrong base", "@Component({ name: 'a' })\nexport default class A extends Base {}", component.ErrMissingDeclaration},
		{"no decorator", "export default class A extends Vue {}", component.ErrMissingDeclaration},
		{"no options", "@Component\nexport default class A extends Vue {}", component.ErrMissingRequiredField},
		{"no name", "@Component({})\nexport default class A extends Vue {}", component.ErrMissingRequiredField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := extract.Class{}.Extract(parse(t, tc.src, jsast.DialectTS))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	e, err := extract.New(component.ClassStyle)
	require.NoError(t, err)
	assert.Equal(t, component.ClassStyle, e.Style())
	assert.Equal(t, jsast.DialectTS, e.Dialect("js"))

	e, err = extract.New(component.ObjectStyle)
	require.NoError(t, err)
	assert.Equal(t, jsast.DialectTS, e.Dialect("ts"))
	assert.Equal(t, jsast.DialectJS, e.Dialect(""))

	_, err = extract.New("mixed")
	require.ErrorIs(t, err, component.ErrUnknownStyle)
}
