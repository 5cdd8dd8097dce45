package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage(t *testing.T) {
	h, err := HomePage()
	require.NoError(t, err)
	require.Len(t, h.Heroes, 2)

	iphone := h.Heroes[0]
	assert.Equal(t, "iPhone", iphone.Title)
	assert.Equal(t, "Meet the iPhone 16 family.", iphone.Subtitle)
	assert.Contains(t, string(iphone.TaglineHTML), "<strong>Apple Intelligence</strong>")
	require.Len(t, iphone.Buttons, 2)
	assert.Equal(t, "/store?category=iphone", iphone.Buttons[1].Href)
	assert.NotEmpty(t, iphone.Images.Desktop.URL)

	watch := h.Heroes[1]
	assert.Equal(t, "SERIES 10", watch.Eyebrow)
	assert.Empty(t, string(watch.TaglineHTML))
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("heroes:\n  - subtitle: no title\n"))
	require.Error(t, err)

	_, err = Parse([]byte("heroes:\n  - title: X\n    buttons:\n      - label: Go\n        style: neon\n"))
	require.Error(t, err)

	_, err = Parse([]byte("heroes: {"))
	require.Error(t, err)
}
