package postgrest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/postgrest"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...postgrest.Option) *postgrest.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]postgrest.Option{postgrest.WithHTTPClient(server.Client())}, opts...)
	return postgrest.NewClient(server.URL+"/rest/v1/", "anon-key", "placement_records", opts...)
}

func writeRows(t *testing.T, w http.ResponseWriter, status int, rows any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(rows))
}

func TestClient_List(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/placement_records", r.URL.Path)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		writeRows(t, w, http.StatusOK, []map[string]any{
			{
				"id":             "6f1c2a7e-9d40-4c1b-8a55-0d7b1e2f3a4b",
				"v_company_name": "Acme",
				"v_visit_type":   "On Campus",
				"date_of_visit":  "2024-03-01",
				"remark":         nil,
				"created_at":     "2024-03-01T10:00:00.123456+00:00",
			},
			{"id": 42, "v_company_name": "Globex", "created_at": "2024-02-01T00:00:00+00:00"},
		})
	}), postgrest.WithColumns(map[model.Field]string{
		model.FieldCompanyName: "v_company_name",
		model.FieldVisitType:   "v_visit_type",
	}))

	records, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "6f1c2a7e-9d40-4c1b-8a55-0d7b1e2f3a4b", records[0].ID)
	assert.Equal(t, "Acme", records[0].CompanyName)
	assert.Equal(t, "On Campus", records[0].VisitType)
	assert.Equal(t, "2024-03-01", records[0].DateOfVisit)
	assert.Equal(t, "", records[0].Remark)
	assert.Equal(t, 2024, records[0].CreatedAt.Year())

	assert.Equal(t, "42", records[1].ID)
	assert.Equal(t, "Globex", records[1].CompanyName)
}

func TestClient_Insert(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 2)
		_, hasID := body[0]["id"]
		assert.False(t, hasID)
		assert.Equal(t, "Acme", body[0]["company_name"])
		assert.Len(t, body[0], model.FieldCount())

		writeRows(t, w, http.StatusCreated, []map[string]any{
			{"id": "11111111-1111-1111-1111-111111111111", "company_name": "Acme", "created_at": "2024-03-01T10:00:00+00:00"},
			{"id": "22222222-2222-2222-2222-222222222222", "company_name": "Globex", "created_at": "2024-03-01T10:00:00+00:00"},
		})
	}))

	out, err := client.Insert(context.Background(), []model.VisitRecord{
		{CompanyName: "Acme", Extra: map[string]string{"Batch": "2024"}},
		{CompanyName: "Globex", ID: "tmp"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", out[0].ID)
	assert.Equal(t, "Globex", out[1].CompanyName)
}

func TestClient_UpdateUnknownID(t *testing.T) {
	var posts int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		assert.Equal(t, "id", r.URL.Query().Get("select"))
		writeRows(t, w, http.StatusOK, []map[string]any{{"id": "known-record-id-0001"}})
	}))

	err := client.Update(context.Background(), []model.VisitRecord{
		{ID: "known-record-id-0001"},
		{ID: "missing-record-id-02"},
	})
	require.ErrorIs(t, err, driven.ErrRecordNotFound)
	assert.Zero(t, posts)
}

func TestClient_Update(t *testing.T) {
	var upserted []map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeRows(t, w, http.StatusOK, []map[string]any{{"id": "known-record-id-0001"}})
		case http.MethodPost:
			assert.Equal(t, "id", r.URL.Query().Get("on_conflict"))
			assert.Equal(t, "resolution=merge-duplicates,return=minimal", r.Header.Get("Prefer"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upserted))
			w.WriteHeader(http.StatusCreated)
		}
	}))

	err := client.Update(context.Background(), []model.VisitRecord{{ID: "known-record-id-0001", Location: "Pune"}})
	require.NoError(t, err)
	require.Len(t, upserted, 1)
	assert.Equal(t, "known-record-id-0001", upserted[0]["id"])
	assert.Equal(t, "Pune", upserted[0]["location"])
}

func TestClient_Delete(t *testing.T) {
	tests := []struct {
		name    string
		rows    []map[string]any
		wantErr error
	}{
		{name: "deleted", rows: []map[string]any{{"id": "abc"}}},
		{name: "missing", rows: []map[string]any{}, wantErr: driven.ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "eq.abc", r.URL.Query().Get("id"))
				writeRows(t, w, http.StatusOK, tt.rows)
			}))

			err := client.Delete(context.Background(), "abc")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_DeleteAll(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "not.is.null", r.URL.Query().Get("id"))
		assert.Contains(t, r.Header.Get("Prefer"), "count=exact")
		w.Header().Set("Content-Range", "*/7")
		w.WriteHeader(http.StatusNoContent)
	}))

	n, err := client.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeRows(t, w, http.StatusUnauthorized, map[string]string{
			"code":    "PGRST301",
			"message": "JWT expired",
		})
	}))

	_, err := client.List(context.Background())
	require.Error(t, err)

	var apiErr *postgrest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "PGRST301", apiErr.Code)
	assert.Contains(t, err.Error(), "JWT expired")
}

func TestClient_UpsertKeepsInputOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if r.URL.Query().Get("on_conflict") == "id" {
			writeRows(t, w, http.StatusCreated, []map[string]any{{"id": body[0]["id"], "company_name": body[0]["company_name"]}})
			return
		}
		writeRows(t, w, http.StatusCreated, []map[string]any{{"id": "new-record-id-000001", "company_name": body[0]["company_name"]}})
	}))

	out, err := client.Upsert(context.Background(), []model.VisitRecord{
		{CompanyName: "Fresh"},
		{ID: "existing-record-id-01", CompanyName: "Known"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Fresh", out[0].CompanyName)
	assert.Equal(t, "new-record-id-000001", out[0].ID)
	assert.Equal(t, "existing-record-id-01", out[1].ID)
}
