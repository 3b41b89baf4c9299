package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sfcshift/cmd/sfcshift/commands"
	"github.com/Sumatoshi-tech/sfcshift/pkg/config"
)

const component = `<template>
  <button @click="add">{{ count }}</button>
</template>

<script>
export default {
  name: 'counter',
  data() {
    return { count: 0 }
  },
  methods: {
    add(step) {
      this.count += step
    },
  },
}
</script>
`

// run executes the command tree with args and an empty config file.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "sfcshift.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("convert:\n  from: object\n"), 0o600))

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestConvert_SingleFileToStdout(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Counter.vue", component)

	out, _, err := run(t, "convert", path)
	require.NoError(t, err)

	assert.Contains(t, out, "<script lang=\"ts\">\n")
	assert.Contains(t, out, "export default class Counter extends Vue {\n")
	assert.Contains(t, out, "public add(step: any) {\n")
}

func TestConvert_PluginsFlag(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Counter.vue", component)

	out, _, err := run(t, "convert", "--plugins", "js-ext", path)
	require.NoError(t, err)
	assert.Contains(t, out, "public add(step) {\n")
}

func TestConvert_Diff(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Counter.vue", component)

	out, _, err := run(t, "convert", "--diff", path)
	require.NoError(t, err)

	assert.Contains(t, out, "--- Counter.vue\n+++ Counter.vue\n")
	assert.Contains(t, out, "-<script>\n")
	assert.Contains(t, out, "+<script lang=\"ts\">\n")
}

func TestConvert_TreeWithReportAndMetrics(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/components/Counter.vue", component)
	writeFile(t, root, "src/components/Broken.vue", "<template/>\n")
	writeFile(t, root, "src/store/cart.js", "export default { state: { items: [] } }\n")

	outDir := filepath.Join(t.TempDir(), "dist")
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	stdout, _, err := run(t, "convert", filepath.Join(root, "src"), "-o", outDir,
		"--format", "json", "--metrics-file", metrics)
	require.ErrorIs(t, err, commands.ErrConversionFailed)
	assert.Equal(t, 2, commands.ExitCode(err))

	var report struct {
		Converted int `json:"converted"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 2, report.Converted)
	assert.Equal(t, 1, report.Failed)

	assert.FileExists(t, filepath.Join(outDir, "components", "Counter.vue"))
	assert.FileExists(t, filepath.Join(outDir, "store", "cart.ts"))
	assert.NoFileExists(t, filepath.Join(outDir, "components", "Broken.vue"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "sfcshift_documents_total")
}

func TestConvert_TextReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a/Counter.vue", component)

	out, _, err := run(t, "convert", root, "--dry-run", "-o", filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 converted, 0 failed, 0 skipped")
}

func TestConvert_IncrementalWithSavedReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a/Counter.vue", component)

	outDir := filepath.Join(t.TempDir(), "dist")
	reportPath := filepath.Join(t.TempDir(), "report.yaml")

	_, _, err := run(t, "convert", root, "-o", outDir, "--incremental", "--report", reportPath)
	require.NoError(t, err)

	out, _, err := run(t, "convert", root, "-o", outDir, "--incremental", "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 converted, 0 failed, 1 skipped")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var report struct {
		Skipped int `yaml:"skipped"`
		Files   []struct {
			Path   string `yaml:"path"`
			Reason string `yaml:"reason"`
		} `yaml:"files"`
	}
	require.NoError(t, yaml.Unmarshal(data, &report))
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "unchanged", report.Files[0].Reason)
}

func TestConvert_FlagErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Counter.vue", component)

	_, _, err := run(t, "convert", "--from", "mixin", path)
	require.Error(t, err)

	_, _, err = run(t, "convert", "--format", "xml", path)
	require.ErrorIs(t, err, commands.ErrUnknownFormat)

	_, _, err = run(t, "convert", "--report", "report.txt", path)
	require.Error(t, err)

	_, _, err = run(t, "convert", "--watch", path)
	require.ErrorIs(t, err, commands.ErrWatchNeedsDir)

	_, _, err = run(t, "convert", filepath.Join(t.TempDir(), "missing.vue"))
	require.Error(t, err)
}

func TestRoutesAndStore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	routes := writeFile(t, root, "router/user.js",
		"const U = r => require.ensure([], () => r(require('./U.vue')), 'u')\nexport default [{ path: '/', component: U }]\n")
	store := writeFile(t, root, "store/cart.js", "export default { state: { n: 0 } }\n")

	out, _, err := run(t, "routes", routes)
	require.NoError(t, err)
	assert.Contains(t, out, `component: () => import(/* webpackChunkName: "user" */ './U.vue')`)

	target := filepath.Join(root, "out", "cart.ts")

	_, stderr, err := run(t, "store", "--indent", "  ", "-o", target, store)
	require.NoError(t, err)
	assert.Contains(t, stderr, "interface CartState with 1 field(s)")

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "export interface CartState {\n  n: any;\n}\n")

	_, _, err = run(t, "routes", store+".missing")
	require.Error(t, err)
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Counter.vue", component+"<style lang=\"less\">a{}</style>\n")

	out, _, err := run(t, "blocks", path)
	require.NoError(t, err)
	assert.Contains(t, out, "template")
	assert.Contains(t, out, "lang=less")
	assert.Contains(t, strings.ToLower(out), "total: 3 blocks")

	out, _, err = run(t, "blocks", "--format", "yaml", path)
	require.NoError(t, err)

	var report struct {
		Blocks []struct {
			Type string `yaml:"type"`
		} `yaml:"blocks"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	require.Len(t, report.Blocks, 3)
	assert.Equal(t, "style", report.Blocks[2].Type)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Counter.vue", component)

	out, _, err := run(t, "inspect", "--format", "json", path)
	require.NoError(t, err)

	var report struct {
		Shape struct {
			Name    string   `json:"name"`
			Data    []string `json:"data"`
			Methods []string `json:"methods"`
		} `json:"shape"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "counter", report.Shape.Name)
	assert.Equal(t, []string{"count"}, report.Shape.Data)
	assert.Equal(t, []string{"add"}, report.Shape.Methods)

	out, _, err = run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "methods")

	_, _, err = run(t, "inspect", "--style", "class", path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := writeFile(t, dir, "good.yaml", "batch:\n  workers: 2\n")
	out, _, err := run(t, "config", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := writeFile(t, dir, "bad.yaml", "batch:\n  wrokers: 2\n")
	out, _, err = run(t, "config", "validate", bad)
	require.ErrorIs(t, err, config.ErrSchemaViolation)
	assert.Equal(t, 2, commands.ExitCode(err))
	assert.Contains(t, out, "does not match the schema")
}

func TestConfigShowAndSchema(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.DefaultTo, cfg.Convert.To)
	assert.Equal(t, config.DefaultRouterDirs, cfg.Batch.RouterDirs)

	out, _, err = run(t, "config", "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestConfigShow_EnvFile(t *testing.T) {
	t.Parallel()

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SFCSHIFT_WATCH_DEBOUNCE=750ms\n"), 0o600))

	out, _, err := run(t, "--env-file", envFile, "config", "show", "--format", "json")
	require.NoError(t, err)

	var cfg struct {
		Watch struct {
			Debounce time.Duration `json:"debounce"`
		} `json:"watch"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)

	_, _, err = run(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "config", "show")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sfcshift ")
}

func TestMCPCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd, _, err := commands.NewRootCommand().Find([]string{"mcp"})
	require.NoError(t, err)
	assert.Equal(t, "mcp", cmd.Name())
	assert.NotEmpty(t, cmd.Long)

	flag := cmd.Flags().Lookup("debug")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
