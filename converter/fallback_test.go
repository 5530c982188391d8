package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackText(t *testing.T) {
	input := "<div><p>first   line</p>\n<script>alert(1)</script>\n<p>second</p></div>"
	assert.Equal(t, "first line\nsecond", fallbackText(input))
}

func TestFallbackTextEmpty(t *testing.T) {
	assert.Equal(t, "", fallbackText(""))
}
