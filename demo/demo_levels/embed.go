package demo_levels

import (
	"embed"
)

// FS provides embedded demo level YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS
