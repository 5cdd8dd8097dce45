// Package format holds presentation helpers shared by the templates.
package format

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Price renders amount in whole units, rounding halves away from zero.
// Example: Price(999.5) => "1000"
func Price(amount float64) string {
	return fmt.Sprintf("%.0f", math.Round(amount))
}

// Monthly renders amount split over months with two decimals.
// Example: Monthly(4999, 12) => "416.58"
func Monthly(amount float64, months int) string {
	if months <= 0 {
		months = 1
	}
	return fmt.Sprintf("%.2f", amount/float64(months))
}

var (
	mdOnce   sync.Once
	md       goldmark.Markdown
	mdPolicy *bluemonday.Policy
)

func markdown() (goldmark.Markdown, *bluemonday.Policy) {
	mdOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
		mdPolicy = bluemonday.UGCPolicy()
	})
	return md, mdPolicy
}

// Markdown renders CMS-authored markdown into sanitised HTML.
// Blank input yields an empty string.
func Markdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	conv, policy := markdown()
	var buf bytes.Buffer
	if err := conv.Convert([]byte(src), &buf); err != nil {
		// fall back to escaped text
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
