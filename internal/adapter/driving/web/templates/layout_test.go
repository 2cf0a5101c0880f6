package templates_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestLayout(t *testing.T) {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>body</p>")
		return err
	})

	html := render(t, templates.Layout(vm.LayoutViewModel{
		Title:    "Records <1>",
		Active:   "records",
		ThemeCSS: ":root{--primary:0 72% 51%;}",
		Dark:     true,
	}, body))

	assert.Contains(t, html, `<html lang="en" class="dark">`)
	assert.Contains(t, html, "Records &lt;1&gt;")
	assert.Equal(t, 1, strings.Count(html, `<style id="theme">`))
	assert.Contains(t, html, ":root{--primary:0 72% 51%;}")
	assert.Contains(t, html, `<a href="/app/records" class="active" aria-current="page">`)
	assert.Contains(t, html, "<p>body</p>")
}

func TestLayout_LightWithoutTheme(t *testing.T) {
	html := render(t, templates.Layout(vm.LayoutViewModel{Title: "Dashboard"}, nil))

	assert.Contains(t, html, `<html lang="en">`)
	assert.NotContains(t, html, `<style id="theme">`)
}

func TestWriter_Escapes(t *testing.T) {
	var b strings.Builder
	hw := templates.NewWriter(&b)
	hw.Raw("<b>")
	hw.Text(`"quoted" & <tag>`)
	hw.Attr("title", `a"b`)
	hw.Flash("saved", false)
	hw.Flash("", true)

	require.NoError(t, hw.Err())
	assert.Equal(t, `<b>&#34;quoted&#34; &amp; &lt;tag&gt; title="a&#34;b"<div role="status" class="flash flash-ok">saved</div>`, b.String())
}
