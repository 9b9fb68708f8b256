package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/script/internal/runctx"
)

func TestRenderConvertsMarkdown(t *testing.T) {
	ctx := runctx.New()
	ctx.RegisterComment(1, 1, "// computes the **square** of x")

	out, err := Render("square.txt", ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>square</strong>")
	assert.Contains(t, out, "1:1")
}

func TestRenderEmptyRegistryStillProducesPage(t *testing.T) {
	ctx := runctx.New()
	out, err := Render("empty.txt", ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "No documented declarations")
}
