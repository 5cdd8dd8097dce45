// Package content provides the marketing copy rendered on the home page.
package content

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"finitefield.org/storefront-web/internal/format"
)

//go:embed home.yaml
var homeYAML []byte

// Button is a call to action under a hero heading.
type Button struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
	Style string `yaml:"style"` // primary | outline
}

// Picture is one responsive image variant.
type Picture struct {
	URL string `yaml:"url"`
	Alt string `yaml:"alt"`
}

// Hero is a full-width product block.
type Hero struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Eyebrow  string   `yaml:"eyebrow"`
	Subtitle string   `yaml:"subtitle"`
	Tagline  string   `yaml:"tagline"`
	Buttons  []Button `yaml:"buttons"`
	Images   struct {
		Mobile  Picture `yaml:"mobile"`
		Desktop Picture `yaml:"desktop"`
	} `yaml:"images"`

	// TaglineHTML is Tagline rendered from markdown.
	TaglineHTML template.HTML `yaml:"-"`
}

// Home is the home page document.
type Home struct {
	Heroes []Hero `yaml:"heroes"`
}

// Parse decodes a home document and renders its markdown fields.
func Parse(data []byte) (Home, error) {
	var h Home
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Home{}, fmt.Errorf("content: decode home: %w", err)
	}
	for i := range h.Heroes {
		hero := &h.Heroes[i]
		if strings.TrimSpace(hero.Title) == "" {
			return Home{}, fmt.Errorf("content: hero %d has no title", i)
		}
		for _, b := range hero.Buttons {
			if b.Style != "" && b.Style != "primary" && b.Style != "outline" {
				return Home{}, fmt.Errorf("content: hero %s: unknown button style %q", hero.ID, b.Style)
			}
		}
		hero.TaglineHTML = format.Markdown(hero.Tagline)
	}
	return h, nil
}

var (
	homeOnce sync.Once
	home     Home
	homeErr  error
)

// HomePage returns the embedded home document, parsed on first use.
func HomePage() (Home, error) {
	homeOnce.Do(func() {
		home, homeErr = Parse(homeYAML)
	})
	return home, homeErr
}
