package convert_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/convert"
)

const routeTable = `const Home = r => require.ensure([], () => r(require('@/views/Home.vue')), 'home')

export default [{ path: '/', component: Home }]
`

const storeModule = "export default {\n  state: { count: 0 },\n}\n"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func newBatch(t *testing.T, opts convert.BatchOptions) *convert.Batch {
	t.Helper()

	if opts.RouterDirs == nil {
		opts.Layout = convert.Layout{RouterDirs: []string{"router"}, StoreDirs: []string{"store"}}
	}

	return convert.NewBatch(newConverter(t), opts)
}

func TestBatch_MirrorsTree(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/views/Card.vue":          card,
		"src/router/main.js":          routeTable,
		"src/router/index.js":         "export default new Router()\n",
		"src/store/cart.js":           storeModule,
		"src/utils/fmt.js":            "export const x = 1\n",
		"node_modules/pkg/Broken.vue": "<script>",
	})
	out := t.TempDir()

	report, err := newBatch(t, convert.BatchOptions{
		OutputRoot: out,
		Skip:       []string{"node_modules"},
		Workers:    2,
	}).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, report.RunID, 36)
	assert.Equal(t, 3, report.Converted)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Skipped)
	require.NoError(t, report.Err())

	cardOut, err := os.ReadFile(filepath.Join(out, "src", "views", "Card.vue"))
	require.NoError(t, err)
	assert.Contains(t, string(cardOut), "export default class UserCard extends Vue")

	routes, err := os.ReadFile(filepath.Join(out, "src", "router", "main.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(routes), `import(/* webpackChunkName: "main" */ '@/views/Home.vue')`)

	store, err := os.ReadFile(filepath.Join(out, "src", "store", "cart.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(store), "export interface CartState {")

	assert.NoFileExists(t, filepath.Join(out, "src", "router", "index.js"))
	assert.NoFileExists(t, filepath.Join(out, "src", "router", "index.ts"))
	assert.NoFileExists(t, filepath.Join(out, "src", "utils", "fmt.js"))
	assert.NoDirExists(t, filepath.Join(out, "node_modules"))
}

func TestBatch_FailuresDoNotStopOthers(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a/Good.vue":   card,
		"a/NoName.vue": "<script>\nexport default { props: {} }\n</script>\n",
		"b/Empty.vue":  "<template><div/></template>\n",
	})

	report, err := newBatch(t, convert.BatchOptions{DryRun: true}).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Converted)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Files, 3)

	assert.Equal(t, filepath.Join("a", "Good.vue"), report.Files[0].Path)
	assert.Equal(t, convert.StatusConverted, report.Files[0].Status)
	assert.Empty(t, report.Files[0].Output)

	assert.ErrorIs(t, report.Files[1].Err, component.ErrMissingRequiredField)
	assert.ErrorIs(t, report.Files[2].Err, component.ErrMissingDeclaration)
	assert.ErrorIs(t, report.Err(), component.ErrMissingDeclaration)
}

func TestBatch_MaxFileSizeAndDiff(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"Big.vue":          card,
		"store/counter.js": storeModule,
	})

	report, err := newBatch(t, convert.BatchOptions{
		DryRun:      true,
		Diff:        true,
		MaxFileSize: uint64(len(storeModule)),
	}).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.Equal(t, convert.StatusSkipped, report.Files[0].Status)
	assert.Contains(t, report.Files[0].Reason, "larger than")

	assert.Equal(t, convert.StatusConverted, report.Files[1].Status)
	assert.Contains(t, report.Files[1].Patch, "--- "+filepath.Join("store", "counter.js")+"\n")
	assert.Contains(t, report.Files[1].Patch, "+export interface CounterState {\n")

	assert.Contains(t, report.Summary(), "1 converted, 0 failed, 1 skipped")
}

func TestBatch_OversizedFilesAreNotRead(t *testing.T) {
	t.Parallel()

	binary := strings.Repeat("\x00\x01\x02", 64)

	root := writeTree(t, map[string]string{
		"Blob.vue":      binary,
		"store/huge.js": binary,
		"notes.txt":     binary,
	})

	report, err := newBatch(t, convert.BatchOptions{DryRun: true, MaxFileSize: 16}).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, report.Files, 2)

	for _, f := range report.Files {
		assert.Equal(t, convert.StatusSkipped, f.Status, f.Path)
		assert.Contains(t, f.Reason, "larger than 16 B", f.Path)
		assert.Equal(t, len(binary), f.Size, f.Path)
	}

	assert.Equal(t, convert.KindComponent, report.Files[0].Kind)
	assert.Equal(t, convert.KindStore, report.Files[1].Kind)
}

func TestBatch_SingleFileRoot(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"src/router/users.js": routeTable})
	out := t.TempDir()

	report, err := newBatch(t, convert.BatchOptions{OutputRoot: out}).
		Run(context.Background(), filepath.Join(root, "src", "router", "users.js"))
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, convert.KindRoutes, report.Files[0].Kind)
	assert.FileExists(t, filepath.Join(out, "users.ts"))
}

func TestBatch_Cancelled(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.vue": card, "b.vue": card})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBatch(t, convert.BatchOptions{DryRun: true}).Run(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBatch_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := newBatch(t, convert.BatchOptions{}).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
