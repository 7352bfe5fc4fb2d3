// Package static embeds the editor's stylesheet, script and help documents.
package static

import "embed"

//go:embed dist docs
var FS embed.FS
