package persist_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/persist"
)

type state struct {
	Label string            `json:"label" yaml:"label"`
	Files map[string]string `json:"files" yaml:"files"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	original := state{Label: "hello", Files: map[string]string{"a.vue": "h1"}}

	codecs := []persist.Codec{
		persist.NewJSONCodec(),
		&persist.JSONCodec{},
		persist.NewYAMLCodec(),
		persist.NewLZ4Codec(persist.NewYAMLCodec()),
	}

	for _, codec := range codecs {
		t.Run(codec.Extension(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(&buf, original))

			var restored state
			require.NoError(t, codec.Decode(&buf, &restored))
			assert.Equal(t, original, restored)
		})
	}
}

func TestJSONCodec_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&persist.JSONCodec{}).Encode(&buf, state{Label: "x"}))
	assert.Equal(t, "{\"label\":\"x\",\"files\":null}\n", buf.String())
}

func TestCodecFor(t *testing.T) {
	t.Parallel()

	c, err := persist.CodecFor("report.JSON")
	require.NoError(t, err)
	assert.Equal(t, ".json", c.Extension())

	c, err = persist.CodecFor("out/report.yml")
	require.NoError(t, err)
	assert.Equal(t, ".yaml", c.Extension())

	c, err = persist.CodecFor("report.json.LZ4")
	require.NoError(t, err)
	assert.Equal(t, ".json.lz4", c.Extension())

	_, err = persist.CodecFor("report.gob")
	require.ErrorIs(t, err, persist.ErrUnknownCodec)

	_, err = persist.CodecFor("report.lz4")
	require.ErrorIs(t, err, persist.ErrUnknownCodec)
}

func TestPersister_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	p := persist.NewPersister[state](path, persist.NewJSONCodec())
	assert.Equal(t, path, p.Path())

	require.NoError(t, p.Save(&state{Label: "one"}))
	require.NoError(t, p.Save(&state{Label: "two"}))

	got, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, "two", got.Label)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestPersister_LoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := persist.NewPersister[state](filepath.Join(dir, "missing.json"), persist.NewJSONCodec()).Load()
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	_, err = persist.NewPersister[state](bad, persist.NewJSONCodec()).Load()
	require.Error(t, err)
}

func TestLZ4Codec_Compresses(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files["src/components/"+name+".vue"] = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	}

	big := state{Label: "tree", Files: files}

	var plain, packed bytes.Buffer
	require.NoError(t, persist.NewJSONCodec().Encode(&plain, big))
	require.NoError(t, persist.NewLZ4Codec(persist.NewJSONCodec()).Encode(&packed, big))
	assert.Less(t, packed.Len(), plain.Len())

	path := filepath.Join(t.TempDir(), "state.json.lz4")
	codec, err := persist.CodecFor(path)
	require.NoError(t, err)
	require.NoError(t, persist.SaveFile(path, codec, big))

	var restored state
	require.NoError(t, persist.LoadFile(path, codec, &restored))
	assert.Equal(t, big, restored)
}
