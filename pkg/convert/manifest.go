package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/sfcshift/pkg/persist"
)

// ManifestName is the file an incremental batch keeps in the output root.
const ManifestName = ".sfcshift-manifest.json"

// reasonUnchanged marks files an incremental batch did not need to redo.
const reasonUnchanged = "unchanged"

// Manifest records the inputs an output root was produced from.
type Manifest struct {
	// Settings of the converter that produced the outputs. A change
	// invalidates every entry.
	Settings string `json:"settings"`
	// Files maps input paths, relative to the tree root, to content hashes.
	Files map[string]string `json:"files"`
}

func manifestStore(outputRoot string) *persist.Persister[Manifest] {
	return persist.NewPersister[Manifest](filepath.Join(outputRoot, ManifestName), persist.NewJSONCodec())
}

// loadManifest returns the stored manifest, or an empty one when there is
// none or it was written with other settings.
func (b *Batch) loadManifest(settings string) *Manifest {
	empty := &Manifest{Settings: settings, Files: map[string]string{}}

	m, err := manifestStore(b.opts.OutputRoot).Load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			b.opts.Logger.Warn("ignoring unreadable manifest", "error", err)
		}

		return empty
	}

	if m.Settings != settings || m.Files == nil {
		return empty
	}

	return m
}

func (b *Batch) saveManifest(settings string, results []FileResult) error {
	m := &Manifest{Settings: settings, Files: make(map[string]string, len(results))}

	for _, res := range results {
		if res.hash == "" {
			continue
		}

		if res.Status == StatusConverted || res.Reason == reasonUnchanged {
			m.Files[filepath.ToSlash(res.Path)] = res.hash
		}
	}

	return manifestStore(b.opts.OutputRoot).Save(m)
}

// unchanged reports whether the file was converted from the same content
// before and its output is still there.
func (b *Batch) unchanged(res FileResult) bool {
	if b.manifest == nil || b.manifest.Files[filepath.ToSlash(res.Path)] != res.hash {
		return false
	}

	_, err := os.Stat(filepath.Join(b.opts.OutputRoot, res.Kind.OutputName(res.Path)))

	return err == nil
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)

	return hex.EncodeToString(sum[:])
}
