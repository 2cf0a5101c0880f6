package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

var navItems = []struct {
	key, label, href string
}{
	{"dashboard", "Dashboard", "/"},
	{"records", "Visit Records", "/app/records"},
	{"companies", "Companies", "/app/companies"},
	{"theme", "Theme", "/app/theme"},
}

// Layout renders the full page shell around body. The theme's custom
// properties are emitted once in the head.
func Layout(l vm.LayoutViewModel, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)

		hw.Raw(`<!DOCTYPE html><html lang="en"`)
		if l.Dark {
			hw.Attr("class", "dark")
		}
		hw.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw(`<title>`)
		hw.Text(l.Title)
		hw.Raw(` · Placement Panel</title>`)
		hw.Raw(`<link rel="stylesheet" href="/static/app.css">`)
		if l.ThemeCSS != "" {
			// Values come from the built-in catalog, never from user input.
			hw.Raw(`<style id="theme">`, l.ThemeCSS, `</style>`)
		}
		hw.Raw(`<script src="/static/app.js" defer></script></head><body>`)

		hw.Raw(`<aside class="sidebar"><div class="brand">Placement Panel</div><nav>`)
		for _, item := range navItems {
			hw.Raw(`<a`)
			hw.Attr("href", item.href)
			if item.key == l.Active {
				hw.Raw(` class="active" aria-current="page"`)
			}
			hw.Raw(`>`)
			hw.Text(item.label)
			hw.Raw(`</a>`)
		}
		hw.Raw(`</nav></aside>`)

		hw.Raw(`<main><h1>`)
		hw.Text(l.Title)
		hw.Raw(`</h1>`)
		hw.Component(ctx, body)
		hw.Raw(`</main></body></html>`)

		return hw.Err()
	})
}
