package handlers

import "finitefield.org/storefront-web/internal/content"

// HomeData is the view model for the home page.
type HomeData struct {
	Heroes []content.Hero
}

// BuildHomeData wraps the parsed home document.
func BuildHomeData(h content.Home) *HomeData {
	return &HomeData{Heroes: h.Heroes}
}
