// Package seed embeds the default documents written to the store on first
// use. Plain JSON data files, editable without touching code.
package seed

import _ "embed"

//go:embed catalog.json
var Catalog []byte

//go:embed content.json
var Content []byte
