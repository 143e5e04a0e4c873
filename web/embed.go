// Package web embeds the browser client (HTML, CSS, JS) so the compiled
// binary serves the full application without a separate static file host.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// FS returns the embedded client rooted at the static directory, so
// "/index.html" resolves without the "static/" prefix.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// Embed paths are fixed at compile time; this cannot fail at runtime.
		panic(err)
	}
	return sub
}
