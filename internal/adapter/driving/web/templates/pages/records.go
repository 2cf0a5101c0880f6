package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

// CellInputPrefix prefixes cell input names in row forms.
const CellInputPrefix = "f."

// Records renders the editor: toolbar, paste and upload panels, and the grid.
func Records(r vm.RecordsViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)

		hw.Flash(r.Flash.Message, r.Flash.IsError)
		recordsToolbar(hw, r)
		recordsPanels(hw, r)
		recordsGrid(hw, r)

		return hw.Err()
	})
}

func recordsToolbar(hw *templates.Writer, r vm.RecordsViewModel) {
	hw.Raw(`<form class="toolbar" method="get" action="/app/records"><input type="search" name="q" placeholder="Search company, contact, location, email, remark"`)
	hw.Attr("value", r.Query)
	hw.Raw(`>`)
	for _, f := range r.Filters {
		hw.Raw(`<select`)
		hw.Attr("name", f.Field)
		hw.Attr("aria-label", f.Label)
		hw.Raw(`><option value="">All `)
		hw.Text(f.Label)
		hw.Raw(`</option>`)
		for _, opt := range f.Options {
			hw.Raw(`<option`)
			hw.Attr("value", opt)
			if opt == f.Selected {
				hw.Raw(` selected`)
			}
			hw.Raw(`>`)
			hw.Text(opt)
			hw.Raw(`</option>`)
		}
		hw.Raw(`</select>`)
	}
	hw.Raw(`<button type="submit">Filter</button></form>`)

	hw.Raw(`<div class="toolbar actions"><span class="muted">`)
	hw.Int(r.Matched)
	hw.Raw(` of `)
	hw.Int(r.Total)
	hw.Raw(` rows`)
	if r.Pending > 0 {
		hw.Raw(`, `)
		hw.Int(r.Pending)
		hw.Raw(` unsaved`)
	}
	hw.Raw(`</span>`)

	postButton(hw, "/app/records/rows", "Add row", r.CSRFToken, "")
	postButton(hw, "/app/records/save", "Save to database", r.CSRFToken, "primary")
	postButton(hw, "/app/records/reload", "Reload", r.CSRFToken, "")

	exportHref := "/app/records/export"
	if r.ExportQuery != "" {
		exportHref += "?" + r.ExportQuery
	}
	multiHref := exportHref + "&multi=true"
	if r.ExportQuery == "" {
		multiHref = exportHref + "?multi=true"
	}
	link(hw, exportHref, "Export")
	link(hw, multiHref, "Export by visit type")
	link(hw, "/app/template", "Download template")
	hw.Raw(`</div>`)
}

func recordsPanels(hw *templates.Writer, r vm.RecordsViewModel) {
	hw.Raw(`<div class="panels">`)

	hw.Raw(`<form class="card" method="post" action="/app/records/paste"><h2>Paste from spreadsheet</h2>`)
	hw.CSRF(r.CSRFToken)
	hw.Raw(`<textarea name="text" rows="4" placeholder="Paste copied cells here"></textarea>`)
	hw.Raw(`<div class="inline"><label>Start at row <input type="number" name="anchor_row" min="0"></label><label>column <select name="anchor_field"><option value="">(append as new rows)</option>`)
	for _, c := range r.Columns {
		if c.AdHoc {
			continue
		}
		hw.Raw(`<option`)
		hw.Attr("value", c.Key)
		hw.Raw(`>`)
		hw.Text(c.Header)
		hw.Raw(`</option>`)
	}
	hw.Raw(`</select></label><button type="submit">Paste</button></div></form>`)

	hw.Raw(`<form class="card" method="post" action="/app/records/upload" enctype="multipart/form-data"><h2>Import files</h2>`)
	hw.CSRF(r.CSRFToken)
	hw.Raw(`<input type="file" name="files" multiple accept=".xlsx,.xlsm,.xls,.csv"><button type="submit">Import</button></form>`)

	hw.Raw(`<form class="card" method="post" action="/app/records/fields"><h2>Add column</h2>`)
	hw.CSRF(r.CSRFToken)
	hw.Raw(`<input type="text" name="name" placeholder="Column name" required><button type="submit">Add</button></form>`)

	hw.Raw(`<form class="card danger" method="post" action="/app/records/delete-all"><h2>Delete all records</h2>`)
	hw.CSRF(r.CSRFToken)
	hw.Raw(`<label><input type="checkbox" name="confirm" value="yes" required> I understand every stored record will be removed</label><button type="submit" class="danger">Delete all</button></form>`)

	hw.Raw(`</div>`)
}

func recordsGrid(hw *templates.Writer, r vm.RecordsViewModel) {
	if len(r.Rows) == 0 {
		hw.Raw(`<p class="empty">No rows to show.</p>`)
		return
	}

	hw.Raw(`<div class="grid-wrap"><table class="grid"><thead><tr><th>#</th>`)
	for _, c := range r.Columns {
		hw.Raw(`<th`)
		if c.AdHoc {
			hw.Raw(` class="adhoc"`)
		}
		hw.Raw(`>`)
		hw.Text(c.Header)
		hw.Raw(`</th>`)
	}
	hw.Raw(`<th></th></tr></thead><tbody>`)

	for _, row := range r.Rows {
		formID := "row-" + strconv.Itoa(row.Index)

		hw.Raw(`<tr`)
		if row.Pending {
			hw.Raw(` class="pending"`)
		}
		hw.Raw(`><td class="index">`)
		hw.Int(row.Index)
		hw.Raw(`<form method="post" action="/app/records/cell"`)
		hw.Attr("id", formID)
		hw.Raw(`>`)
		hw.CSRF(r.CSRFToken)
		hw.Hidden("index", strconv.Itoa(row.Index))
		hw.Raw(`</form></td>`)

		for _, cell := range row.Cells {
			hw.Raw(`<td><input type="text"`)
			hw.Attr("form", formID)
			hw.Attr("name", CellInputPrefix+cell.Field)
			hw.Attr("value", cell.Value)
			hw.Raw(`>`)
			if cell.Field == "remark" && row.RemarkHTML != "" {
				hw.Raw(`<details><summary>Preview</summary><div class="remark">`, row.RemarkHTML, `</div></details>`)
			}
			hw.Raw(`</td>`)
		}

		hw.Raw(`<td class="row-actions"><button type="submit"`)
		hw.Attr("form", formID)
		hw.Raw(`>Update</button><form method="post" action="/app/records/delete">`)
		hw.CSRF(r.CSRFToken)
		hw.Hidden("index", strconv.Itoa(row.Index))
		hw.Raw(`<button type="submit" class="danger" data-confirm="Delete this row?">Delete</button></form></td></tr>`)
	}
	hw.Raw(`</tbody></table></div>`)
}

func postButton(hw *templates.Writer, action, label, csrf, class string) {
	hw.Raw(`<form method="post"`)
	hw.Attr("action", action)
	hw.Raw(`>`)
	hw.CSRF(csrf)
	hw.Raw(`<button type="submit"`)
	if class != "" {
		hw.Attr("class", class)
	}
	hw.Raw(`>`)
	hw.Text(label)
	hw.Raw(`</button></form>`)
}

func link(hw *templates.Writer, href, label string) {
	hw.Raw(`<a class="button"`)
	hw.Attr("href", href)
	hw.Raw(`>`)
	hw.Text(label)
	hw.Raw(`</a>`)
}
