// Package seo builds page metadata and schema.org structured data.
package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
}

type Twitter struct {
	Card  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// PageMeta fills social tags from the page title, description and image.
func PageMeta(siteName, title, description, canonical, image string) Meta {
	full := siteName
	if t := strings.TrimSpace(title); t != "" && t != siteName {
		full = t + " | " + siteName
	}
	card := "summary"
	if image != "" {
		card = "summary_large_image"
	}
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG:          OpenGraph{Title: full, Description: description, Image: image, Type: "website"},
		Twitter:     Twitter{Card: card, Image: image},
	}
}
