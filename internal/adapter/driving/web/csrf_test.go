package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSRFToken_ReusesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec := httptest.NewRecorder()

	assert.Equal(t, "existing", csrfToken(rec, req))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCSRFToken_IssuesCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	token := csrfToken(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, token, csrfTokenBytes*2)
	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, token, cookies[0].Value)
		assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	}
}

func TestValidateCSRF(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   bool
	}{
		{name: "header matches", cookie: "abc", header: "abc", want: true},
		{name: "form matches", cookie: "abc", form: "abc", want: true},
		{name: "mismatch", cookie: "abc", form: "abd", want: false},
		{name: "no cookie", form: "abc", want: false},
		{name: "no token", cookie: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.form != "" {
				form.Set(csrfFormField, tt.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeader, tt.header)
			}

			assert.Equal(t, tt.want, validateCSRF(req))
		})
	}
}
