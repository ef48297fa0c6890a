// Package web embeds the HTML templates served by the provider.
package web

import "embed"

// Templates holds the login, consent and error pages.
//
//go:embed templates/*.html
var Templates embed.FS
