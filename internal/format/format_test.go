package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "4999", Price(4999))
	assert.Equal(t, "1000", Price(999.99))
	assert.Equal(t, "1000", Price(999.5))
	assert.Equal(t, "129", Price(129.49))
	assert.Equal(t, "0", Price(0))
}

func TestMonthly(t *testing.T) {
	assert.Equal(t, "416.58", Monthly(4999, 12))
	assert.Equal(t, "83.33", Monthly(999.99, 12))
	assert.Equal(t, "10.00", Monthly(10, 0))
}

func TestMarkdownRendersAndSanitises(t *testing.T) {
	out := string(Markdown("**Bold** claim\n\n<script>alert(1)</script>\n\n[link](javascript:alert(1))"))
	assert.Contains(t, out, "<strong>Bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestMarkdownBlank(t *testing.T) {
	assert.Equal(t, "", string(Markdown("   \n")))
}

func TestMarkdownHardWraps(t *testing.T) {
	out := string(Markdown("line one\nline two"))
	assert.True(t, strings.Contains(out, "<br>") || strings.Contains(out, "<br />"), out)
}
