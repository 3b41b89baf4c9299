// Package jsast adapts tree-sitter JavaScript and TypeScript parse trees into
// an owned, mutable tree whose printer preserves the formatting of every
// untouched subtree.
package jsast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// Dialect selects the grammar used to parse a behavior block.
type Dialect string

// Supported dialects.
const (
	DialectJS Dialect = "javascript"
	DialectTS Dialect = "typescript"
)

// Sentinel errors.
var (
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrSyntax         = errors.New("syntax error")
	errNoRootNode     = errors.New("no root node")
	errPoolType       = errors.New("parser pool returned unexpected type")
)

var languageFuncs = map[Dialect]func() unsafe.Pointer{
	DialectJS: javascript.GetLanguage,
	DialectTS: typescript.GetLanguage,
}

var (
	languageCache sync.Map
	parserPools   sync.Map
)

// DialectForLang maps a behavior block's lang attribute to a dialect.
func DialectForLang(lang string) Dialect {
	switch lang {
	case "ts", "tsx", "typescript":
		return DialectTS
	default:
		return DialectJS
	}
}

// Lang returns the block attribute value for the dialect.
func (d Dialect) Lang() string {
	if d == DialectTS {
		return "ts"
	}

	return "js"
}

func language(d Dialect) (*sitter.Language, error) {
	if cached, ok := languageCache.Load(d); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang, nil
		}
	}

	fn, ok := languageFuncs[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, d)
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(d, lang)

	return lang, nil
}

func parserPool(d Dialect) (*sync.Pool, error) {
	if pool, ok := parserPools.Load(d); ok {
		return pool.(*sync.Pool), nil //nolint:forcetypeassert // only pools are stored
	}

	lang, err := language(d)
	if err != nil {
		return nil, err
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	actual, _ := parserPools.LoadOrStore(d, pool)

	return actual.(*sync.Pool), nil //nolint:forcetypeassert // only pools are stored
}

// Parse parses src with the given dialect and returns an owned tree.
// The tree-sitter tree is released before Parse returns.
func Parse(ctx context.Context, src []byte, dialect Dialect) (*Tree, error) {
	pool, err := parserPool(dialect)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsast: failed to parse: %w", err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	tree := newTree(src, dialect)
	tree.Root = tree.build(root, nil, "")

	if bad := tree.firstError(); bad != nil {
		if bad.Missing {
			return nil, fmt.Errorf("%w at line %d: missing %q", ErrSyntax, bad.Line(), bad.Kind)
		}

		return nil, fmt.Errorf("%w at line %d: %q", ErrSyntax, bad.Line(), excerpt(bad.Text()))
	}

	return tree, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(ctx context.Context, src string, dialect Dialect) (*Tree, error) {
	return Parse(ctx, []byte(src), dialect)
}

const excerptLimit = 40

func excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}

	return s[:excerptLimit] + "..."
}
