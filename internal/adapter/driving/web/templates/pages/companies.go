package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

// Companies renders the searchable company directory.
func Companies(c vm.CompaniesViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)

		hw.Raw(`<form class="toolbar" method="get" action="/app/companies"><input type="search" name="search" placeholder="Search by name or location"`)
		hw.Attr("value", c.Search)
		hw.Raw(`><button type="submit">Search</button></form>`)

		hw.Flash(c.Error, true)

		if len(c.Companies) == 0 {
			hw.Raw(`<p class="empty">No companies found.</p>`)
			return hw.Err()
		}

		hw.Raw(`<div class="company-grid">`)
		for _, co := range c.Companies {
			hw.Raw(`<article class="card company"><h2>`)
			hw.Text(co.Name)
			hw.Raw(`</h2>`)
			if co.CompanyType != "" {
				hw.Raw(`<span class="badge">`)
				hw.Text(co.CompanyType)
				hw.Raw(`</span>`)
			}
			hw.Raw(`<dl>`)
			detail(hw, "Location", co.Location, "")
			detail(hw, "Address", co.Address, "")
			detail(hw, "Contact", co.ContactPerson, "")
			detail(hw, "Email", co.MailID, co.MailHref)
			detail(hw, "Phone", co.ContactNumber, co.TelHref)
			hw.Raw(`</dl><p class="muted">`)
			hw.Int(co.Visits)
			if co.Visits == 1 {
				hw.Raw(` visit`)
			} else {
				hw.Raw(` visits`)
			}
			hw.Raw(`</p></article>`)
		}
		hw.Raw(`</div>`)

		return hw.Err()
	})
}

func detail(hw *templates.Writer, label, value, href string) {
	if value == "" {
		return
	}
	hw.Raw(`<dt>`)
	hw.Text(label)
	hw.Raw(`</dt><dd>`)
	if href != "" {
		hw.Raw(`<a`)
		hw.Attr("href", href)
		hw.Raw(`>`)
		hw.Text(value)
		hw.Raw(`</a>`)
	} else {
		hw.Text(value)
	}
	hw.Raw(`</dd>`)
}
