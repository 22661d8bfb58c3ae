package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	ctx := map[string]interface{}{
		"brand":   "My App",
		"subject": "Welcome",
		"title":   "Welcome Aboard!",
	}

	first, err := r.Render(CardTemplate, ctx)
	require.NoError(t, err)
	second, err := r.Render(CardTemplate, ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Welcome Aboard!")
	assert.Contains(t, first, "My App")
}

func TestRender_MissingFieldsRenderEmpty(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(CardTemplate, map[string]interface{}{
		"brand":   "My App",
		"subject": "Hi",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<h1")
	assert.NotContains(t, out, "<ul")
	assert.NotContains(t, out, "expires in")
}

func TestRender_EscapesTextFields(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(CardTemplate, map[string]interface{}{
		"brand":      "My App",
		"subject":    "Hi",
		"title":      "<script>alert(1)</script>",
		"paragraphs": []string{"a < b & c > d"},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &lt; b &amp; c &gt; d")
}

func TestRender_BodyHTMLPassesThrough(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(CardTemplate, map[string]interface{}{
		"brand":     "My App",
		"subject":   "Hi",
		"body_html": "<strong>bold claim</strong>",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold claim</strong>")
}

func TestRender_CodeBlockAndCTA(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(CardTemplate, map[string]interface{}{
		"brand":           "My App",
		"subject":         "Your code",
		"code":            "123456",
		"expires_minutes": 5,
		"cta_label":       "Verify now",
		"cta_url":         "https://example.com/verify",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "123456")
	assert.Contains(t, out, "expires in 5 minutes")
	assert.Contains(t, out, `href="https://example.com/verify"`)
	assert.Contains(t, out, "Verify now")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render("missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}
