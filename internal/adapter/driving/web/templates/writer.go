// Package templates holds the page shell and shared HTML helpers for the web
// GUI. Components are plain templ.ComponentFunc values.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Writer writes HTML fragments and remembers the first write error, so a
// component can emit markup without checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup verbatim.
func (hw *Writer) Raw(parts ...string) {
	for _, p := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, p)
	}
}

// Text writes s escaped for use as element text or a quoted attribute value.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Int writes an integer.
func (hw *Writer) Int(n int) {
	hw.Raw(strconv.Itoa(n))
}

// Attr writes ` name="value"` with the value escaped.
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" ", name, `="`)
	hw.Text(value)
	hw.Raw(`"`)
}

// Hidden writes a hidden form input.
func (hw *Writer) Hidden(name, value string) {
	hw.Raw(`<input type="hidden"`)
	hw.Attr("name", name)
	hw.Attr("value", value)
	hw.Raw(`>`)
}

// CSRF writes the hidden CSRF token field every form carries.
func (hw *Writer) CSRF(token string) {
	hw.Hidden("csrf_token", token)
}

// Component renders a nested component.
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// Err returns the first error encountered.
func (hw *Writer) Err() error {
	return hw.err
}

// Flash writes a notice banner; empty messages write nothing.
func (hw *Writer) Flash(message string, isError bool) {
	if message == "" {
		return
	}
	class := "flash flash-ok"
	if isError {
		class = "flash flash-error"
	}
	hw.Raw(`<div role="status"`)
	hw.Attr("class", class)
	hw.Raw(`>`)
	hw.Text(message)
	hw.Raw(`</div>`)
}
