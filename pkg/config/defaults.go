package config

import "time"

// Convert defaults.
const (
	DefaultFrom   = "object"
	DefaultTo     = "class"
	DefaultIndent = "    "
)

// DefaultPlugins are the passes run when no list is configured.
var DefaultPlugins = []string{"store-import", "param-types", "style-units", "js-ext"}

// Batch defaults. A zero worker count means one worker per CPU.
const (
	DefaultWorkers     = 0
	DefaultMaxFileSize = "1MB"
)

// DefaultRouterDirs and DefaultStoreDirs name the directories whose .js
// modules go to the auxiliary rewriters.
var (
	DefaultRouterDirs = []string{"router"}
	DefaultStoreDirs  = []string{"store"}
)

// Watch defaults.
const DefaultDebounce = 300 * time.Millisecond

// Observability defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)
