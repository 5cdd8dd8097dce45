// Package templates embeds the html/template sources rendered by cmd/web.
package templates

import "embed"

// FS holds layouts/, partials/ and pages/.
//
//go:embed layouts/*.tmpl partials/*.tmpl pages/*.tmpl
var FS embed.FS
