package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

// Theme renders the theme picker. Each option is its own form so a single
// click saves the choice.
func Theme(t vm.ThemeViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)

		hw.Flash(t.Flash.Message, t.Flash.IsError)

		hw.Raw(`<h2>Standard themes</h2><div class="theme-grid">`)
		for _, opt := range t.Standard {
			themeOption(hw, opt, t.Dark, t.CSRFToken)
		}
		hw.Raw(`</div><h2>Premium themes</h2><div class="theme-grid">`)
		for _, opt := range t.Premium {
			themeOption(hw, opt, t.Dark, t.CSRFToken)
		}
		hw.Raw(`</div>`)

		return hw.Err()
	})
}

func themeOption(hw *templates.Writer, opt vm.ThemeOptionViewModel, dark bool, csrf string) {
	hw.Raw(`<form method="post" action="/app/theme"`)
	if opt.Selected {
		hw.Raw(` class="card theme-option selected"`)
	} else {
		hw.Raw(` class="card theme-option"`)
	}
	hw.Raw(`>`)
	hw.CSRF(csrf)
	hw.Hidden("kind", opt.Kind)
	hw.Hidden("id", opt.ID)
	hw.Raw(`<span class="swatch"`)
	hw.Attr("style", "background:"+opt.Swatch)
	hw.Raw(`></span><strong>`)
	hw.Text(opt.Name)
	hw.Raw(`</strong>`)
	if opt.Description != "" {
		hw.Raw(`<p class="muted">`)
		hw.Text(opt.Description)
		hw.Raw(`</p>`)
	}
	hw.Raw(`<label><input type="checkbox" name="dark" value="1"`)
	if dark {
		hw.Raw(` checked`)
	}
	hw.Raw(`> Dark mode</label><button type="submit">`)
	if opt.Selected {
		hw.Raw(`Apply`)
	} else {
		hw.Raw(`Use theme`)
	}
	hw.Raw(`</button></form>`)
}
