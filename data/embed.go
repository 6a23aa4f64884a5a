// Package data provides the embedded mine maps shipped with the game.
package data

import (
	"embed"
	"io/fs"
)

// mapsFS embeds every level layout from the maps directory at build time.
//
//go:embed maps/*.txt
var mapsFS embed.FS

// Maps returns the embedded level layouts rooted at the maps directory,
// so resources are addressed by bare file name (e.g. "level1.txt").
func Maps() fs.FS {
	sub, err := fs.Sub(mapsFS, "maps")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
