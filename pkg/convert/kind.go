package convert

import (
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"
)

// Kind classifies an input file by the pipeline that handles it.
type Kind string

// Input kinds. KindUnknown files are left out of a batch.
const (
	KindUnknown   Kind = ""
	KindComponent Kind = "component"
	KindRoutes    Kind = "routes"
	KindStore     Kind = "store"
)

// Languages as reported by enry.
const (
	langVue        = "Vue"
	langJavaScript = "JavaScript"
)

// indexModule is the entry file of router and store directories.
const indexModule = "index.js"

// Layout names the directories whose scripts go to the auxiliary rewriters.
// A directory matches when it appears as any segment of the file's path.
type Layout struct {
	RouterDirs []string
	StoreDirs  []string
}

// Detect classifies the file at rel, a slash or OS separated path relative
// to the tree root. Index modules of router and store directories are not
// rewritten.
func (l Layout) Detect(rel string, src []byte) Kind {
	base := filepath.Base(rel)

	switch enry.GetLanguage(base, src) {
	case langVue:
		return KindComponent
	case langJavaScript:
		if filepath.Ext(base) != ".js" || base == indexModule {
			return KindUnknown
		}

		dirs := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")

		switch {
		case containsAny(dirs, l.RouterDirs):
			return KindRoutes
		case containsAny(dirs, l.StoreDirs):
			return KindStore
		}
	}

	return KindUnknown
}

// OutputName returns the file name a converted file is written under.
func (k Kind) OutputName(rel string) string {
	if k == KindRoutes || k == KindStore {
		return strings.TrimSuffix(rel, ".js") + ".ts"
	}

	return rel
}

// containsAny matches configured directories, which may span several
// segments such as "src/store", against the path's segments.
func containsAny(segments, dirs []string) bool {
	joined := "/" + strings.Join(segments, "/") + "/"

	for _, d := range dirs {
		d = strings.Trim(filepath.ToSlash(d), "/")
		if d == "" {
			continue
		}

		if strings.Contains(joined, "/"+d+"/") {
			return true
		}
	}

	return false
}
