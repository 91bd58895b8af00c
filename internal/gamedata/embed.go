// Package gamedata provides the embedded reward and card tables and the
// optional reference catalog of sword and equipment names.
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
