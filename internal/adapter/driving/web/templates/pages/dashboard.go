// Package pages holds the page bodies rendered inside the layout.
package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

// Dashboard renders the overview statistics.
func Dashboard(d vm.DashboardViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)

		hw.Flash(d.Error, true)

		hw.Raw(`<section class="stats">`)
		stat(hw, "Total visits", d.TotalVisits)
		stat(hw, "Companies", d.UniqueCompanies)
		stat(hw, "PPO visits", d.PPOCount)
		hw.Raw(`</section>`)

		if d.TotalVisits == 0 && d.Error == "" {
			hw.Raw(`<p class="empty">No visits recorded yet. <a href="/app/records">Add or import records</a> to get started.</p>`)
			return hw.Err()
		}

		hw.Raw(`<section class="breakdowns">`)
		breakdown(hw, "Top companies", d.TopCompanies)
		breakdown(hw, "Visit types", d.VisitTypes)
		breakdown(hw, "Locations", d.Locations)
		hw.Raw(`</section>`)

		return hw.Err()
	})
}

func stat(hw *templates.Writer, label string, value int) {
	hw.Raw(`<div class="card stat"><span class="stat-value">`)
	hw.Int(value)
	hw.Raw(`</span><span class="stat-label">`)
	hw.Text(label)
	hw.Raw(`</span></div>`)
}

func breakdown(hw *templates.Writer, title string, counts []vm.CountViewModel) {
	hw.Raw(`<div class="card"><h2>`)
	hw.Text(title)
	hw.Raw(`</h2><ul class="bars">`)
	for _, c := range counts {
		hw.Raw(`<li><span class="bar-label">`)
		hw.Text(c.Name)
		hw.Raw(`</span><span class="bar"><span class="bar-fill" style="width:`, strconv.Itoa(c.Percent), `%"></span></span><span class="bar-count">`)
		hw.Int(c.Count)
		hw.Raw(`</span></li>`)
	}
	hw.Raw(`</ul></div>`)
}
